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

// Package testutils holds fakes and context helpers shared by package tests.
package testutils

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/walteh/ampysync/pkg/device"
	"github.com/walteh/ampysync/pkg/log"
)

// 🧪 NewContext returns a context carrying a test zerolog logger and a
// console logger that writes to console (io.Discard when nil).
func NewContext(t *testing.T, console io.Writer) context.Context {
	t.Helper()
	if console == nil {
		console = io.Discard
	}
	zlog := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	ctx := zlog.WithContext(context.Background())
	return log.NewContext(ctx, log.New(console, zerolog.Disabled))
}

// 📼 RecordingExecutor is a device.Executor that records every call and
// answers from a table keyed by the operation name (the argument after the
// tool prefix) or by the full command line.
type RecordingExecutor struct {
	mu      sync.Mutex
	calls   [][]string
	results map[string]*device.Result
	errs    map[string]error
}

// 🏭 NewRecordingExecutor creates an executor that succeeds with no output by default
func NewRecordingExecutor() *RecordingExecutor {
	return &RecordingExecutor{
		results: map[string]*device.Result{},
		errs:    map[string]error{},
	}
}

// On sets the result for key, an operation name like "ls" or a full command line
func (r *RecordingExecutor) On(key string, res *device.Result) *RecordingExecutor {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[key] = res
	return r
}

// OnError makes key fail to start with err
func (r *RecordingExecutor) OnError(key string, err error) *RecordingExecutor {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[key] = err
	return r
}

// Execute implements device.Executor
func (r *RecordingExecutor) Execute(ctx context.Context, args []string) (*device.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, append([]string(nil), args...))

	line := strings.Join(args, " ")
	op := Operation(args)
	for _, key := range []string{line, op} {
		if err, ok := r.errs[key]; ok {
			return nil, err
		}
	}
	for _, key := range []string{line, op} {
		if res, ok := r.results[key]; ok {
			return res, nil
		}
	}
	return &device.Result{}, nil
}

// Calls returns every recorded argument list in call order
func (r *RecordingExecutor) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Operations returns the operation name of every recorded call
func (r *RecordingExecutor) Operations() []string {
	calls := r.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = Operation(c)
	}
	return ops
}

// Operation returns the first argument after the tool, port and optional baud prefix
func Operation(args []string) string {
	i := 1
	for i+1 < len(args) && strings.HasPrefix(args[i], "--") {
		i += 2
	}
	if i < len(args) {
		return args[i]
	}
	return ""
}
