// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package device

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📦 Result is what a finished process left behind
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// 🔌 Executor runs one external command to completion.
// A non-zero exit is reported in Result, not as an error; errors mean the
// process could not be run at all.
type Executor interface {
	Execute(ctx context.Context, args []string) (*Result, error)
}

// 🏃 ExecExecutor runs commands as child processes
type ExecExecutor struct{}

// 🏭 NewExecExecutor creates an executor backed by os/exec
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// Execute runs args[0] with the remaining arguments and waits for it
func (e *ExecExecutor) Execute(ctx context.Context, args []string) (*Result, error) {
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, errors.Errorf("running %s: %w", args[0], ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &Result{
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
		}, nil
	}
	if err != nil {
		return nil, errors.Errorf("running %s: %w", args[0], err)
	}

	return &Result{
		ExitCode: 0,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}

// 🧪 DryRunExecutor prints each command instead of running it
type DryRunExecutor struct {
	out io.Writer
}

// 🏭 NewDryRunExecutor creates an executor that writes commands to out
func NewDryRunExecutor(out io.Writer) *DryRunExecutor {
	return &DryRunExecutor{out: out}
}

// Execute prints the command and reports success with no output
func (e *DryRunExecutor) Execute(ctx context.Context, args []string) (*Result, error) {
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	fmt.Fprintf(e.out, "$ %s\n", FormatArgs(args))
	return &Result{}, nil
}

// FormatArgs renders an argument list the way a user would type it
func FormatArgs(args []string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\n\"'\\$") {
			parts[i] = strconv.Quote(arg)
		} else {
			parts[i] = arg
		}
	}
	return strings.Join(parts, " ")
}

// 🧭 PrependSearchPath puts dir in front of the process PATH
func PrependSearchPath(dir string) error {
	current := os.Getenv("PATH")
	value := dir
	if current != "" {
		value = dir + string(os.PathListSeparator) + current
	}
	if err := os.Setenv("PATH", value); err != nil {
		return errors.Errorf("setting PATH: %w", err)
	}
	return nil
}
