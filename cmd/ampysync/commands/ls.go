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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/ampysync/cmd/ampysync/opts"
	"github.com/walteh/ampysync/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewLsCmd creates the ls command
func NewLsCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List the entries in the board's target directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			options := operation.Options{
				Config:   opts.Config,
				Executor: opts.Executor,
			}

			if err := operation.NewPipeline(options, opts.Reporter).PrepareEnv(ctx); err != nil {
				return err
			}

			entries, err := operation.List(ctx, options)
			if err != nil {
				return errors.Errorf("listing board: %w", err)
			}

			for _, entry := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}

			return nil
		},
	}

	return cmd
}
