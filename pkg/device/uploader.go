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
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/walteh/ampysync/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// ⬆️ Uploader pushes the top level of a staged tree to the board
type Uploader struct {
	runner    *Runner
	cmds      *Commands
	targetDir string
}

// 🏭 NewUploader creates an uploader writing into targetDir on the board
func NewUploader(runner *Runner, cmds *Commands, targetDir string) *Uploader {
	return &Uploader{
		runner:    runner,
		cmds:      cmds,
		targetDir: targetDir,
	}
}

// 🚀 Upload issues one put per direct child of stageDir. Directories are
// pushed whole by the tool. Individual failures are only logged.
func (u *Uploader) Upload(ctx context.Context, stageDir string) ([]string, error) {
	logger := log.FromContext(ctx)

	entries, err := os.ReadDir(stageDir)
	if err != nil {
		return nil, errors.Errorf("reading stage dir: %w", err)
	}

	uploaded := make([]string, 0, len(entries))
	for _, entry := range entries {
		local, err := filepath.Abs(filepath.Join(stageDir, entry.Name()))
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", entry.Name(), err)
		}

		remote := ""
		if u.targetDir != "" && u.targetDir != "/" {
			remote = path.Join(u.targetDir, entry.Name())
		}

		if err := u.runner.Run(ctx, u.cmds.Put(local, remote)); err != nil {
			return nil, errors.Errorf("uploading %s: %w", entry.Name(), err)
		}

		logger.LogEntry(ctx, log.EntryOperation{Path: entry.Name(), IsDir: entry.IsDir(), Action: log.ActionUploaded})
		uploaded = append(uploaded, local)
	}

	return uploaded, nil
}
