// Copyright 2025 Tom Barlow
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

package debug

import (
	"context"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/brk/internal/tracing"
	pkgerrors "github.com/tombee/brk/pkg/errors"
)

// StepRequest asks the engine to execute Count lines in the current frame.
type StepRequest struct {
	Count int
}

// Stepper is the stepping engine. RequestStep hands control back to the
// engine; the caller leaves its read loop afterwards.
type Stepper interface {
	RequestStep(ctx context.Context, req StepRequest) error
}

// StepperFunc adapts a function to the Stepper interface.
type StepperFunc func(ctx context.Context, req StepRequest) error

// RequestStep implements Stepper.
func (f StepperFunc) RequestStep(ctx context.Context, req StepRequest) error {
	return f(ctx, req)
}

// ParseStepCount reads the optional line count of a step command. Only the
// first argument is considered; it defaults to 1 and must be positive.
func ParseStepCount(args []string) (StepRequest, error) {
	if len(args) == 0 {
		return StepRequest{Count: 1}, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return StepRequest{}, &pkgerrors.StepError{Input: args[0]}
	}
	return StepRequest{Count: n}, nil
}

// NextCommand steps over lines within the current frame.
type NextCommand struct {
	stepper Stepper
	logger  *slog.Logger
}

// NewNextCommand creates a next command driving stepper.
func NewNextCommand(stepper Stepper, logger *slog.Logger) *NextCommand {
	if logger == nil {
		logger = slog.Default()
	}
	return &NextCommand{stepper: stepper, logger: logger}
}

// Run validates the frame and count and forwards the step request. A nil
// error means the engine now owns control.
func (c *NextCommand) Run(ctx context.Context, frame Frame, args []string) error {
	if err := RequireFileContext(frame, ""); err != nil {
		recordCommand("next", "step", err)
		return err
	}

	req, err := ParseStepCount(args)
	if err != nil {
		recordCommand("next", "step", err)
		return err
	}

	c.logger.Debug("Requesting step", slog.Int("lines", req.Count))
	ctx, span := tracing.Tracer().Start(ctx, "nxt", trace.WithAttributes(attribute.Int("step.lines", req.Count)))
	err = c.stepper.RequestStep(ctx, req)
	tracing.End(span, err)
	recordCommand("next", "step", err)
	if err == nil {
		stepLines.Add(float64(req.Count))
	}
	return err
}
