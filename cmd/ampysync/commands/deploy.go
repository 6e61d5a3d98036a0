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

// NewDeployCmd creates the deploy command
func NewDeployCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Build, erase, upload and reset in one go",
		Long: `Deploy runs the full pipeline against the configured board.
It will:
1. Stage the project with comments stripped from scripts
2. Delete every non-essential entry on the board
3. Upload each top-level staged entry
4. Reset the board

A failed build is reported but does not stop the remaining steps.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunDeploy(cmd, opts)
		},
	}

	return cmd
}

// RunDeploy runs the full pipeline; the root command shares it
func RunDeploy(cmd *cobra.Command, opts *opts.RootOpts) error {
	pipeline := operation.NewPipeline(operation.Options{
		Config:   opts.Config,
		Executor: opts.Executor,
	}, opts.Reporter)

	if err := pipeline.Deploy(cmd.Context()); err != nil {
		return errors.Errorf("deploying: %w", err)
	}

	return nil
}
