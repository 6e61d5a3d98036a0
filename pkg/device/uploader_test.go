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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/ampysync/pkg/device"
	"github.com/walteh/ampysync/pkg/testutils"
)

func makeStage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("print(1)\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib", "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "nested", "x.py"), []byte("x = 1\n"), 0644))
	return dir
}

func TestUploader(t *testing.T) {
	stage := makeStage(t)
	cmds := device.NewCommands("ampy", "COM3", 0)

	tests := []struct {
		name      string
		targetDir string
		wantCalls [][]string
	}{
		{
			name:      "root_target",
			targetDir: "/",
			wantCalls: [][]string{
				{"ampy", "--port", "COM3", "put", filepath.Join(stage, "lib")},
				{"ampy", "--port", "COM3", "put", filepath.Join(stage, "main.py")},
			},
		},
		{
			name:      "sub_target",
			targetDir: "/app",
			wantCalls: [][]string{
				{"ampy", "--port", "COM3", "put", filepath.Join(stage, "lib"), "/app/lib"},
				{"ampy", "--port", "COM3", "put", filepath.Join(stage, "main.py"), "/app/main.py"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := testutils.NewRecordingExecutor()
			uploader := device.NewUploader(device.NewRunner(exec), cmds, tt.targetDir)

			uploaded, err := uploader.Upload(testutils.NewContext(t, nil), stage)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCalls, exec.Calls(), "only top-level entries should be pushed")
			assert.Len(t, uploaded, 2)
		})
	}
}

func TestUploaderFailedPutDoesNotStop(t *testing.T) {
	stage := makeStage(t)
	exec := testutils.NewRecordingExecutor().
		On("ampy --port COM3 put "+filepath.Join(stage, "lib"), &device.Result{ExitCode: 1})
	uploader := device.NewUploader(device.NewRunner(exec), device.NewCommands("ampy", "COM3", 0), "/")

	_, err := uploader.Upload(testutils.NewContext(t, nil), stage)
	require.NoError(t, err)
	assert.Equal(t, []string{"put", "put"}, exec.Operations())
}

func TestUploaderMissingStage(t *testing.T) {
	exec := testutils.NewRecordingExecutor()
	uploader := device.NewUploader(device.NewRunner(exec), device.NewCommands("ampy", "COM3", 0), "/")

	_, err := uploader.Upload(testutils.NewContext(t, nil), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading stage dir")
	assert.Empty(t, exec.Calls())
}
