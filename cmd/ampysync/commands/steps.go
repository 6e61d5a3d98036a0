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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/ampysync/cmd/ampysync/opts"
	"github.com/walteh/ampysync/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewBuildCmd creates the build command
func NewBuildCmd(opts *opts.RootOpts) *cobra.Command {
	return newStepCmd(opts, operation.StepBuild,
		"Stage the project without touching the board",
		`Build recreates the stage directory from the source directory.
Script files have their comments stripped unless a no-strip pattern matches;
excluded files and directories are left out.`)
}

// NewEraseCmd creates the erase command
func NewEraseCmd(opts *opts.RootOpts) *cobra.Command {
	return newStepCmd(opts, operation.StepErase,
		"Delete every non-essential entry from the board",
		`Erase lists the board's target directory and removes each entry.
Entries with a dot in their name are removed as files, everything else as a
directory. Entries named in essential_files are kept.`)
}

// NewUploadCmd creates the upload command
func NewUploadCmd(opts *opts.RootOpts) *cobra.Command {
	return newStepCmd(opts, operation.StepUpload,
		"Upload the staged project to the board",
		`Upload puts each top-level entry of the stage directory onto the board.
Run build first; upload fails when the stage directory does not exist.`)
}

// NewResetCmd creates the reset command
func NewResetCmd(opts *opts.RootOpts) *cobra.Command {
	return newStepCmd(opts, operation.StepReset,
		"Soft-reset the board",
		`Reset asks the board tool to reset the board so it reruns boot.py and main.py.`)
}

func newStepCmd(opts *opts.RootOpts, step, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   step,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline := operation.NewPipeline(operation.Options{
				Config:   opts.Config,
				Executor: opts.Executor,
			}, opts.Reporter)

			if err := pipeline.Run(cmd.Context(), step); err != nil {
				return errors.Errorf("running %s command: %w", step, err)
			}

			return nil
		},
	}
}
