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

	"github.com/rs/zerolog"
	"github.com/walteh/ampysync/pkg/log"
	"github.com/walteh/ampysync/pkg/status"
)

// 📝 Step pairs an operation with its progress messages
type Step struct {
	Op              Operation
	StartMsg        string
	DoneMsg         string
	FailedMsg       string
	ContinueOnError bool // Report a failure and carry on instead of stopping
}

// 🏃 OperationRunner executes steps one at a time
type OperationRunner struct {
	reporter *status.Reporter
}

// 🏗️ NewRunner creates a new runner
func NewRunner(reporter *status.Reporter) *OperationRunner {
	return &OperationRunner{
		reporter: reporter,
	}
}

// 🏃 Run executes a step, reporting its start and end. A failing step that
// may continue is reported and swallowed.
func (r *OperationRunner) Run(ctx context.Context, step Step) error {
	name := step.Op.Name()
	logger := zerolog.Ctx(ctx).With().Str("step", name).Logger()

	r.reporter.Start(name, step.StartMsg)

	if err := step.Op.Execute(logger.WithContext(ctx)); err != nil {
		r.reporter.Fail(name, step.FailedMsg, err)
		if step.ContinueOnError {
			logger.Debug().Err(err).Msg("continuing after failed step")
			log.FromContext(ctx).Warningf("%s failed, continuing with the next step", name)
			return nil
		}
		return err
	}

	r.reporter.Done(name, step.DoneMsg)
	return nil
}
