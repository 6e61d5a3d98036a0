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

package device_test

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/ampysync/pkg/device"
	"github.com/walteh/ampysync/pkg/testutils"
	"gitlab.com/tozd/go/errors"
)

func TestRunner(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	cmds := device.NewCommands("ampy", "COM3", 0)

	tests := []struct {
		name    string
		setup   func(e *testutils.RecordingExecutor)
		run     func(t *testing.T, r *device.Runner) (string, error)
		want    string
		wantErr string
	}{
		{
			name: "capture_trims_output",
			setup: func(e *testutils.RecordingExecutor) {
				e.On("ls", &device.Result{Stdout: []byte("\n /boot.py\n/lib \n\n")})
			},
			run: func(t *testing.T, r *device.Runner) (string, error) {
				return r.CaptureText(testutils.NewContext(t, nil), cmds.List("/"))
			},
			want: "/boot.py\n/lib",
		},
		{
			name: "capture_failure_returns_empty",
			setup: func(e *testutils.RecordingExecutor) {
				e.On("ls", &device.Result{ExitCode: 1, Stdout: []byte("partial"), Stderr: []byte("could not enter raw repl")})
			},
			run: func(t *testing.T, r *device.Runner) (string, error) {
				return r.CaptureText(testutils.NewContext(t, nil), cmds.List("/"))
			},
			want: "",
		},
		{
			name: "run_failure_is_logged_not_returned",
			setup: func(e *testutils.RecordingExecutor) {
				e.On("reset", &device.Result{ExitCode: 2})
			},
			run: func(t *testing.T, r *device.Runner) (string, error) {
				return "", r.Run(testutils.NewContext(t, nil), cmds.Reset())
			},
			want: "",
		},
		{
			name: "start_failure_is_returned",
			setup: func(e *testutils.RecordingExecutor) {
				e.OnError("reset", errors.New("executable file not found in $PATH"))
			},
			run: func(t *testing.T, r *device.Runner) (string, error) {
				return "", r.Run(testutils.NewContext(t, nil), cmds.Reset())
			},
			wantErr: "executable file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := testutils.NewRecordingExecutor()
			if tt.setup != nil {
				tt.setup(exec)
			}
			r := device.NewRunner(exec)

			got, err := tt.run(t, r)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, exec.Calls(), 1, "runner should execute exactly once")
		})
	}
}

func TestRunnerFailureMessage(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	ctx := testutils.NewContext(t, buf)

	exec := testutils.NewRecordingExecutor().
		On("ls", &device.Result{ExitCode: 1, Stderr: []byte("could not enter raw repl\n")})
	r := device.NewRunner(exec)

	out, err := r.Capture(ctx, device.NewCommands("ampy", "COM3", 0).List("/"))
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Contains(t, buf.String(), "Command failed (exit 1): ampy --port COM3 ls / could not enter raw repl")
}
