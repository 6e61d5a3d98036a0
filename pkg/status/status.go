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

package status

import (
	"context"
	"io"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📊 StepState is where a step ended up
type StepState int

const (
	StepPending StepState = iota
	StepRunning
	StepDone
	StepFailed
)

// String returns a string representation of StepState
func (s StepState) String() string {
	switch s {
	case StepRunning:
		return "running"
	case StepDone:
		return "done"
	case StepFailed:
		return "failed"
	default:
		return "pending"
	}
}

// 📄 StepRecord is the outcome of one step
type StepRecord struct {
	Name  string
	State StepState
	Err   error
}

// 📢 Reporter prints step progress with pterm and mirrors it to zerolog
type Reporter struct {
	log     zerolog.Logger
	start   *pterm.PrefixPrinter
	success *pterm.PrefixPrinter
	failure *pterm.PrefixPrinter

	mu    sync.Mutex
	steps []StepRecord
}

// 🏭 NewReporter creates a reporter writing to w
func NewReporter(ctx context.Context, w io.Writer) *Reporter {
	return &Reporter{
		log:     *zerolog.Ctx(ctx),
		start:   pterm.Info.WithPrefix(pterm.Prefix{Text: "▶", Style: pterm.Info.Prefix.Style}).WithWriter(w),
		success: pterm.Success.WithPrefix(pterm.Prefix{Text: "✔", Style: pterm.Success.Prefix.Style}).WithWriter(w),
		failure: pterm.Error.WithPrefix(pterm.Prefix{Text: "✘", Style: pterm.Error.Prefix.Style}).WithWriter(w),
	}
}

// ▶️ Start marks a step as running
func (r *Reporter) Start(name, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps = append(r.steps, StepRecord{Name: name, State: StepRunning})
	r.start.Println(msg)
	r.log.Debug().Str("step", name).Msg(msg)
}

// ✅ Done marks a step as finished
func (r *Reporter) Done(name, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finish(name, StepDone, nil)
	r.success.Println(msg)
	r.log.Debug().Str("step", name).Msg(msg)
}

// ❌ Fail marks a step as failed. The caller decides whether to go on.
func (r *Reporter) Fail(name, msg string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finish(name, StepFailed, err)
	r.failure.Println(msg)
	if err != nil {
		r.failure.Println(err.Error())
	}
	r.log.Debug().Err(err).Str("step", name).Msg(msg)
}

// finish updates the latest record for name, adding one if the step was never started
func (r *Reporter) finish(name string, state StepState, err error) {
	for i := len(r.steps) - 1; i >= 0; i-- {
		if r.steps[i].Name == name {
			r.steps[i].State = state
			r.steps[i].Err = err
			return
		}
	}
	r.steps = append(r.steps, StepRecord{Name: name, State: state, Err: err})
}

// 📋 Steps returns a copy of every step record in start order
func (r *Reporter) Steps() []StepRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]StepRecord, len(r.steps))
	copy(out, r.steps)
	return out
}
