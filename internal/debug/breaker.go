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
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tombee/brk/internal/breakpoint"
	brklog "github.com/tombee/brk/internal/log"
	"github.com/tombee/brk/internal/tracing"
	pkgerrors "github.com/tombee/brk/pkg/errors"
)

// BreakUsage is the help text of the brk command.
const BreakUsage = `Usage:   brk <METHOD | FILE:LINE | LINE> [if CONDITION]
         brk --condition N [CONDITION]
         brk [--show | --delete | --enable | --disable] N
         brk [--delete-all | --disable-all]
         brk
Aliases: break, breakpoint

Set a breakpoint. Accepts a line number in the current file, a file and
line number, or a method, and an optional condition.

Pass appropriate flags to manipulate existing breakpoints.

Examples:

  brk SomeClass#run         Break at the start of 'SomeClass#run'.
  brk Foo#bar if baz?       Break at 'Foo#bar' only if 'baz?'.
  brk app/models/user.rb:15 Break at line 15 in user.rb.
  brk 14                    Break at line 14 in the current file.

  brk --condition 4 x > 2   Add/change condition on breakpoint #4.
  brk --condition 3         Remove the condition on breakpoint #3.

  brk --delete 5            Delete breakpoint #5.
  brk --disable-all         Disable all breakpoints.

  brk --show 2              Show details about breakpoint #2.
  brk                       List all breakpoints.`

// BreakOptions tunes a BreakCommand.
type BreakOptions struct {
	// SkipFrameGuard lets management actions run without a paused frame.
	// Targets that need one (LINE, #method) still require it.
	SkipFrameGuard bool
}

// BreakCommand creates, edits and removes breakpoints.
type BreakCommand struct {
	store   breakpoint.Store
	printer *Printer
	logger  *slog.Logger
	opts    BreakOptions
}

// NewBreakCommand creates a brk command operating on store.
func NewBreakCommand(store breakpoint.Store, printer *Printer, logger *slog.Logger, opts BreakOptions) *BreakCommand {
	if logger == nil {
		logger = slog.Default()
	}
	return &BreakCommand{
		store:   store,
		printer: printer,
		logger:  logger,
		opts:    opts,
	}
}

// Run executes one brk invocation given its tokens (without the command
// name). Validation fails before the store is touched.
func (c *BreakCommand) Run(ctx context.Context, frame Frame, args []string) error {
	if err := c.guard(frame); err != nil {
		return err
	}

	flags, positional, err := ParseFlags(args)
	if err != nil {
		recordCommand("brk", "parse", err)
		return err
	}
	return c.dispatch(ctx, frame, flags, positional)
}

// RunFlags is Run for callers that have already parsed the options, such
// as a cobra command sharing the flag set from NewBreakFlagSet.
func (c *BreakCommand) RunFlags(ctx context.Context, frame Frame, flags Flags, args []string) error {
	if err := c.guard(frame); err != nil {
		return err
	}
	return c.dispatch(ctx, frame, flags, args)
}

func (c *BreakCommand) guard(frame Frame) error {
	if c.opts.SkipFrameGuard {
		return nil
	}
	err := RequireFileContext(frame, "")
	if err != nil {
		recordCommand("brk", "guard", err)
	}
	return err
}

func (c *BreakCommand) dispatch(ctx context.Context, frame Frame, flags Flags, args []string) error {
	if flags.Help {
		c.printer.Message("%s", BreakUsage)
		return nil
	}

	intent := Dispatch(flags, args)

	ctx, span := tracing.Tracer().Start(ctx, "brk."+string(intent.Kind))
	if intent.ID > 0 {
		span.SetAttributes(attribute.Int(brklog.BreakpointIDKey, intent.ID))
	}
	err := c.Execute(ctx, frame, intent)
	tracing.End(span, err)

	recordCommand("brk", string(intent.Kind), err)
	return err
}

// Execute performs intent against the store and prints the result.
func (c *BreakCommand) Execute(ctx context.Context, frame Frame, intent Intent) error {
	var err error

	switch intent.Kind {
	case IntentCreate:
		return c.create(ctx, frame, intent.Args)

	case IntentList:
		return c.listAll(ctx)

	case IntentShow:
		bp, err := c.store.FindByID(ctx, intent.ID)
		if err != nil {
			return err
		}
		c.printer.Full(bp)
		return nil

	case IntentChangeCondition:
		return c.changeCondition(ctx, intent.ID, intent.Condition)

	case IntentDelete:
		err = c.store.Delete(ctx, intent.ID)
	case IntentEnable:
		err = c.store.Enable(ctx, intent.ID)
	case IntentDisable:
		err = c.store.Disable(ctx, intent.ID)
	case IntentDisableAll:
		err = c.store.DisableAll(ctx)
	case IntentDeleteAll:
		err = c.store.DeleteAll(ctx)

	default:
		return fmt.Errorf("unknown breakpoint action: %s", intent.Kind)
	}

	if err != nil {
		return err
	}
	c.logger.Debug("Breakpoint action applied",
		slog.String("action", string(intent.Kind)),
		slog.Int(brklog.BreakpointIDKey, intent.ID),
	)

	if intent.RelistsAfter() {
		return c.listAll(ctx)
	}
	return nil
}

func (c *BreakCommand) create(ctx context.Context, frame Frame, args []string) error {
	spec, err := ResolveArgs(args, frame)
	if err != nil {
		return err
	}

	// An "if" with nothing after it creates an unconditional breakpoint.
	condition := conditionValue(spec.Condition)
	if spec.Condition != nil && condition == "" {
		c.logger.Debug("Empty condition ignored", slog.String("target", args[0]))
	}

	var bp *breakpoint.Breakpoint
	switch spec.Kind {
	case SpecLine:
		file, _ := frame.CurrentFile()
		bp, err = c.store.AddLine(ctx, file, spec.Line, condition)
	case SpecFileLine:
		bp, err = c.store.AddLine(ctx, spec.File, spec.Line, condition)
	case SpecMethod:
		bp, err = c.store.AddMethod(ctx, spec.Method, condition)
	default:
		return &pkgerrors.ResolveError{Target: args[0]}
	}
	if err != nil {
		return err
	}

	c.logger.Debug("Breakpoint created",
		slog.Int(brklog.BreakpointIDKey, bp.ID),
		slog.String("location", bp.Location()),
	)
	c.printer.Full(bp)
	return nil
}

func (c *BreakCommand) changeCondition(ctx context.Context, id int, condition *string) error {
	if err := c.store.ChangeCondition(ctx, id, conditionValue(condition)); err != nil {
		return err
	}
	bp, err := c.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	c.printer.Full(bp)
	return nil
}

func (c *BreakCommand) listAll(ctx context.Context) error {
	bps, err := c.store.List(ctx)
	if err != nil {
		return err
	}
	c.printer.List(bps)
	return nil
}

// conditionValue maps an optional condition to the store's representation,
// where "" means unconditional.
func conditionValue(cond *string) string {
	if cond == nil {
		return ""
	}
	return *cond
}
