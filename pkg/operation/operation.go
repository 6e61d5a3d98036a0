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

package operation

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/ampysync/pkg/config"
	"github.com/walteh/ampysync/pkg/device"
	"github.com/walteh/ampysync/pkg/log"
	"github.com/walteh/ampysync/pkg/stage"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one step of a deploy
type Operation interface {
	// Name is the short step name used by the CLI and the reporter
	Name() string
	// Execute runs the step
	Execute(ctx context.Context) error
}

// 🔧 Options contains what every operation needs
type Options struct {
	// Config is the ampysync configuration
	Config *config.Config
	// Executor runs board tool commands
	Executor device.Executor
}

// 🧱 BaseOperation holds the shared board plumbing
type BaseOperation struct {
	Config   *config.Config
	Runner   *device.Runner
	Commands *device.Commands
}

// 🏭 NewBaseOperation creates the shared plumbing from options
func NewBaseOperation(opts Options) BaseOperation {
	return BaseOperation{
		Config:   opts.Config,
		Runner:   device.NewRunner(opts.Executor),
		Commands: device.NewCommands(opts.Config.Tool, opts.Config.Port, opts.Config.Baud),
	}
}

// 🏗️ buildOperation stages the project
type buildOperation struct {
	BaseOperation
}

// NewBuildOperation creates the staging step
func NewBuildOperation(opts Options) Operation {
	return &buildOperation{BaseOperation: NewBaseOperation(opts)}
}

func (op *buildOperation) Name() string { return "build" }

func (op *buildOperation) Execute(ctx context.Context) error {
	logger := log.FromContext(ctx)
	cfg := op.Config

	stager := stage.New(stage.Rules{
		ScriptExt:       cfg.ScriptExt,
		NoStripPatterns: cfg.NoStripPatterns,
		ExcludeFiles:    cfg.ExcludeFiles,
		ExcludeDirs:     cfg.ExcludeDirs,
	})

	logger.StartSection(ctx, "staging", fmt.Sprintf("%s -> %s", cfg.SourceDir, cfg.StageDir))
	defer logger.EndSection(ctx)

	result, err := stager.Stage(ctx, cfg.SourceDir, cfg.StageDir)
	if err != nil {
		return errors.Errorf("staging: %w", err)
	}

	logger.Infof("%d stripped, %d copied, %d skipped", result.Stripped, result.Copied, result.Skipped)
	return nil
}

// 🗑️ eraseOperation clears the board
type eraseOperation struct {
	BaseOperation
}

// NewEraseOperation creates the erase step
func NewEraseOperation(opts Options) Operation {
	return &eraseOperation{BaseOperation: NewBaseOperation(opts)}
}

func (op *eraseOperation) Name() string { return "erase" }

func (op *eraseOperation) Execute(ctx context.Context) error {
	logger := log.FromContext(ctx)

	logger.StartSection(ctx, "erasing", fmt.Sprintf("%s:%s", op.Config.Port, op.Config.TargetDir))
	defer logger.EndSection(ctx)

	eraser := device.NewEraser(op.Runner, op.Commands, op.Config.TargetDir, op.Config.EssentialFiles)
	if _, err := eraser.Erase(ctx); err != nil {
		return errors.Errorf("erasing board: %w", err)
	}
	return nil
}

// ⬆️ uploadOperation pushes the stage to the board
type uploadOperation struct {
	BaseOperation
}

// NewUploadOperation creates the upload step
func NewUploadOperation(opts Options) Operation {
	return &uploadOperation{BaseOperation: NewBaseOperation(opts)}
}

func (op *uploadOperation) Name() string { return "upload" }

func (op *uploadOperation) Execute(ctx context.Context) error {
	logger := log.FromContext(ctx)

	logger.StartSection(ctx, "uploading", fmt.Sprintf("%s -> %s:%s", op.Config.StageDir, op.Config.Port, op.Config.TargetDir))
	defer logger.EndSection(ctx)

	uploader := device.NewUploader(op.Runner, op.Commands, op.Config.TargetDir)
	if _, err := uploader.Upload(ctx, op.Config.StageDir); err != nil {
		return errors.Errorf("uploading stage: %w", err)
	}
	return nil
}

// 🔄 resetOperation soft-resets the board
type resetOperation struct {
	BaseOperation
}

// NewResetOperation creates the reset step
func NewResetOperation(opts Options) Operation {
	return &resetOperation{BaseOperation: NewBaseOperation(opts)}
}

func (op *resetOperation) Name() string { return "reset" }

func (op *resetOperation) Execute(ctx context.Context) error {
	if err := op.Runner.Run(ctx, op.Commands.Reset()); err != nil {
		return errors.Errorf("resetting board: %w", err)
	}
	return nil
}

// 📋 List returns the entries of the board's target directory
func List(ctx context.Context, opts Options) ([]string, error) {
	base := NewBaseOperation(opts)

	out, err := base.Runner.CaptureText(ctx, base.Commands.List(opts.Config.TargetDir))
	if err != nil {
		return nil, errors.Errorf("listing board: %w", err)
	}
	if out == "" {
		return nil, nil
	}

	var entries []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	return entries, nil
}
