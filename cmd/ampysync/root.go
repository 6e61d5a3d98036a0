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

package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ampysync/cmd/ampysync/commands"
	"github.com/walteh/ampysync/cmd/ampysync/opts"
	"github.com/walteh/ampysync/pkg/config"
	"github.com/walteh/ampysync/pkg/device"
	"github.com/walteh/ampysync/pkg/log"
	"github.com/walteh/ampysync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

const defaultConfigFile = ".ampysync.yaml"

// rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	configFile string
	debug      bool
	port       string
	dryRun     bool
}

// newRootCmd builds the command tree; deploy is the default action
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "ampysync",
		Short: "Build a MicroPython project and flash it onto a board with ampy",
		Long: `ampysync stages a MicroPython project with comments stripped from its
scripts, wipes the board, uploads the staged files and resets the board.

Running ampysync with no subcommand is the same as running "ampysync deploy".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), cmd.OutOrStdout(), flags.debug)
			cmd.SetContext(ctx)

			return newRootOpts(cmd, flags, rootOpts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunDeploy(cmd, rootOpts)
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewDeployCmd(rootOpts),
		commands.NewBuildCmd(rootOpts),
		commands.NewEraseCmd(rootOpts),
		commands.NewUploadCmd(rootOpts),
		commands.NewResetCmd(rootOpts),
		commands.NewLsCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", defaultConfigFile, "config file path (.yaml, .yml, .json or .hcl)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVarP(&flags.port, "port", "p", "", "serial port of the board, overrides the config")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "print board commands instead of running them")
}

// setupLogging installs the zerolog logger and the console logger in the context
func setupLogging(ctx context.Context, console io.Writer, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	ctx = zlog.WithContext(ctx)

	return log.NewContext(ctx, log.New(console, level))
}

// newRootOpts loads the config and wires the executor and reporter into rootOpts
func newRootOpts(cmd *cobra.Command, flags *rootFlags, rootOpts *opts.RootOpts) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx, flags.configFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	if flags.port != "" {
		cfg.Port = flags.port
	}

	var exec device.Executor = device.NewExecExecutor()
	if flags.dryRun {
		exec = device.NewDryRunExecutor(cmd.OutOrStdout())
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Bool("dry_run", flags.dryRun).Msg("configured")

	rootOpts.Config = cfg
	rootOpts.Executor = exec
	rootOpts.Reporter = status.NewReporter(ctx, cmd.OutOrStdout())

	return nil
}

// loadConfig falls back to the built-in defaults when the default config file is absent
func loadConfig(ctx context.Context, path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(ctx, path)
	if err == nil {
		return cfg, nil
	}

	if !explicit && errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
		return config.Default(), nil
	}

	return nil, errors.Errorf("loading config: %w", err)
}
