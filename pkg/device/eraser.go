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
	"path"
	"strings"

	"github.com/walteh/ampysync/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🗑️ Eraser removes everything from a board directory except essential entries
type Eraser struct {
	runner    *Runner
	cmds      *Commands
	targetDir string
	essential map[string]struct{}
}

// 📋 EraseResult lists what the eraser asked the board to do
type EraseResult struct {
	Removed []string // Entries a remove command was issued for
	Kept    []string // Entries left alone because they are essential
}

// 🏭 NewEraser creates an eraser for targetDir. Essential names are basenames.
func NewEraser(runner *Runner, cmds *Commands, targetDir string, essential []string) *Eraser {
	set := make(map[string]struct{}, len(essential))
	for _, name := range essential {
		set[name] = struct{}{}
	}
	return &Eraser{
		runner:    runner,
		cmds:      cmds,
		targetDir: targetDir,
		essential: set,
	}
}

// IsDirEntry reports whether a listing entry is taken to be a directory:
// its basename has no dot.
func IsDirEntry(entry string) bool {
	return !strings.Contains(path.Base(entry), ".")
}

// 🧹 Erase lists the board and issues one remove per non-essential entry.
// Removal outcomes are not checked.
func (e *Eraser) Erase(ctx context.Context) (*EraseResult, error) {
	logger := log.FromContext(ctx)
	result := &EraseResult{}

	output, err := e.runner.CaptureText(ctx, e.cmds.List(e.targetDir))
	if err != nil {
		return nil, errors.Errorf("listing board: %w", err)
	}
	if output == "" {
		logger.Info("Board is already empty")
		return result, nil
	}

	for _, line := range strings.Split(output, "\n") {
		item := strings.TrimSpace(line)
		if item == "" {
			continue
		}

		name := path.Base(item)
		isDir := IsDirEntry(item)

		if _, ok := e.essential[name]; ok {
			logger.LogEntry(ctx, log.EntryOperation{Path: item, IsDir: isDir, Action: log.ActionKept, Detail: "essential"})
			result.Kept = append(result.Kept, item)
			continue
		}

		args := e.cmds.RemoveFile(item)
		if isDir {
			args = e.cmds.RemoveDir(item)
		}

		if err := e.runner.Run(ctx, args); err != nil {
			return nil, errors.Errorf("removing %s: %w", item, err)
		}

		logger.LogEntry(ctx, log.EntryOperation{Path: item, IsDir: isDir, Action: log.ActionRemoved})
		result.Removed = append(result.Removed, item)
	}

	return result, nil
}
