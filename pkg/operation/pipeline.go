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

	"github.com/rs/zerolog"
	"github.com/walteh/ampysync/pkg/device"
	"github.com/walteh/ampysync/pkg/log"
	"github.com/walteh/ampysync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// Step names accepted by Pipeline.Run
const (
	StepBuild  = "build"
	StepErase  = "erase"
	StepUpload = "upload"
	StepReset  = "reset"
)

// 🚂 Pipeline runs the deploy steps in order
type Pipeline struct {
	opts     Options
	reporter *status.Reporter
	runner   *OperationRunner
	steps    map[string]Step
}

// 🏭 NewPipeline creates a pipeline over opts
func NewPipeline(opts Options, reporter *status.Reporter) *Pipeline {
	steps := map[string]Step{
		StepBuild: {
			Op:              NewBuildOperation(opts),
			StartMsg:        "Building python project...",
			DoneMsg:         "Done building python project.",
			FailedMsg:       "Failed building python project...",
			ContinueOnError: true,
		},
		StepErase: {
			Op:        NewEraseOperation(opts),
			StartMsg:  "Deleting files from board...",
			DoneMsg:   "Done deleting files from board.",
			FailedMsg: "Failed deleting files from board.",
		},
		StepUpload: {
			Op:        NewUploadOperation(opts),
			StartMsg:  "Uploading files to board...",
			DoneMsg:   "Done uploading files to board.",
			FailedMsg: "Failed uploading files to board.",
		},
		StepReset: {
			Op:        NewResetOperation(opts),
			StartMsg:  "Resetting board...",
			DoneMsg:   "Done resetting board.",
			FailedMsg: "Failed resetting board.",
		},
	}

	return &Pipeline{
		opts:     opts,
		reporter: reporter,
		runner:   NewRunner(reporter),
		steps:    steps,
	}
}

// 🧭 PrepareEnv puts the tool directory in front of PATH
func (p *Pipeline) PrepareEnv(ctx context.Context) error {
	dir, err := p.opts.Config.ToolSearchDir()
	if err != nil {
		return errors.Errorf("resolving tool dir: %w", err)
	}

	if err := device.PrependSearchPath(dir); err != nil {
		return errors.Errorf("preparing PATH: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("prepended tool dir to PATH")
	return nil
}

// 🚀 Deploy builds, erases, uploads and resets, in that order
func (p *Pipeline) Deploy(ctx context.Context) error {
	return p.Run(ctx, StepBuild, StepErase, StepUpload, StepReset)
}

// 🏃 Run prepares the environment then runs the named steps in the order given
func (p *Pipeline) Run(ctx context.Context, names ...string) error {
	for _, name := range names {
		if _, ok := p.steps[name]; !ok {
			return errors.Errorf("unknown step %q", name)
		}
	}

	if err := p.PrepareEnv(ctx); err != nil {
		return err
	}

	logger := log.FromContext(ctx)
	summary := strings.Join(names, ", ")
	logger.Header(fmt.Sprintf("%s on %s", summary, p.opts.Config.Port))

	seen := len(p.reporter.Steps())
	for _, name := range names {
		if err := p.runner.Run(ctx, p.steps[name]); err != nil {
			return errors.Errorf("running %s: %w", name, err)
		}
	}

	failed := 0
	for _, step := range p.reporter.Steps()[seen:] {
		if step.State == status.StepFailed {
			failed++
		}
	}

	logger.LogNewline()
	if failed > 0 {
		logger.Warningf("Finished %s with %d failed step(s)", summary, failed)
	} else {
		logger.Successf("Finished %s", summary)
	}

	return nil
}
