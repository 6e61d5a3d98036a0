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
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ampysync/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Runner is the only place device commands are executed.
// A command that exits non-zero is logged and yields an empty result; only a
// command that cannot be started is returned as an error.
type Runner struct {
	exec Executor
}

// 🏭 NewRunner creates a runner over the given executor
func NewRunner(exec Executor) *Runner {
	return &Runner{exec: exec}
}

// execute runs args and reports whether it exited cleanly
func (r *Runner) execute(ctx context.Context, args []string) (*Result, bool, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Strs("args", args).Msg("running device command")

	res, err := r.exec.Execute(ctx, args)
	if err != nil {
		return nil, false, errors.Errorf("executing %q: %w", FormatArgs(args), err)
	}

	if res.ExitCode != 0 {
		msg := strings.TrimSpace(string(res.Stderr))
		logger.Debug().
			Strs("args", args).
			Int("exit_code", res.ExitCode).
			Str("stderr", msg).
			Msg("device command failed")
		log.FromContext(ctx).Errorf("Command failed (exit %d): %s %s", res.ExitCode, FormatArgs(args), msg)
		return res, false, nil
	}

	return res, true, nil
}

// 🔥 Run executes a command without keeping its output
func (r *Runner) Run(ctx context.Context, args []string) error {
	res, ok, err := r.execute(ctx, args)
	if err != nil {
		return err
	}
	if ok && len(res.Stdout) > 0 {
		zerolog.Ctx(ctx).Debug().Str("stdout", string(res.Stdout)).Msg("device command output")
	}
	return nil
}

// 📥 Capture executes a command and returns its stdout with surrounding
// whitespace trimmed. A failed command returns nil.
func (r *Runner) Capture(ctx context.Context, args []string) ([]byte, error) {
	res, ok, err := r.execute(ctx, args)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return bytes.TrimSpace(res.Stdout), nil
}

// 📥 CaptureText is Capture decoded as text
func (r *Runner) CaptureText(ctx context.Context, args []string) (string, error) {
	out, err := r.Capture(ctx, args)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
