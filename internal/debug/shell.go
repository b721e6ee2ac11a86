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
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tombee/brk/internal/breakpoint"
	pkgerrors "github.com/tombee/brk/pkg/errors"
)

// DefaultPrompt is shown while the engine is paused.
const DefaultPrompt = "brk> "

// ShellConfig configures a Shell. Zero values select stdin, stdout,
// DefaultPrompt, DefaultSourceContext and slog.Default().
type ShellConfig struct {
	Input         io.Reader
	Output        io.Writer
	Prompt        string
	SourceContext int
	Logger        *slog.Logger
}

// Shell provides an interactive debugging interface for an engine.
type Shell struct {
	engine  Engine
	breaker *BreakCommand
	printer *Printer
	logger  *slog.Logger
	scanner *bufio.Scanner
	output  io.Writer
	prompt  string
}

// NewShell creates a new debug shell connected to engine, managing
// breakpoints in store.
func NewShell(engine Engine, store breakpoint.Store, cfg ShellConfig) *Shell {
	if cfg.Input == nil {
		cfg.Input = os.Stdin
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	printer := NewPrinter(cfg.Output, cfg.SourceContext)
	return &Shell{
		engine:  engine,
		breaker: NewBreakCommand(store, printer, cfg.Logger, BreakOptions{}),
		printer: printer,
		logger:  cfg.Logger,
		scanner: bufio.NewScanner(cfg.Input),
		output:  cfg.Output,
		prompt:  cfg.Prompt,
	}
}

// Run starts the interactive debugging shell. It listens for engine events
// and reads commands whenever the engine pauses. It returns when the session
// completes or is aborted.
func (s *Shell) Run(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-sigCh:
			fmt.Fprintln(s.output, "\nInterrupt received. Type 'abort' to stop execution, or 'continue' to resume.")

		case event, ok := <-s.engine.EventChan():
			if !ok || event == nil {
				return nil
			}

			done, err := s.handleEvent(ctx, event)
			if err != nil || done {
				return err
			}
		}
	}
}

// handleEvent processes a debug event. done is true once the session is over.
func (s *Shell) handleEvent(ctx context.Context, event *Event) (bool, error) {
	switch event.Type {
	case EventPaused:
		return false, s.promptForCommand(ctx, event)

	case EventResumed:
		s.logger.Debug("Engine resumed", slog.String("message", event.Message))

	case EventCompleted:
		fmt.Fprintln(s.output, "✓ Program completed")
		return true, nil

	case EventAborted:
		fmt.Fprintln(s.output, "✗ Execution aborted")
		return true, nil
	}

	return false, nil
}

// promptForCommand reads commands until one hands control back to the
// engine (next, continue, abort) or input ends.
func (s *Shell) promptForCommand(ctx context.Context, event *Event) error {
	s.displayFrame(event)

	for {
		fmt.Fprint(s.output, s.prompt)

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
			// EOF - treat as abort
			return s.send(ctx, &Command{Type: CommandAbort})
		}

		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}

		resumed, err := s.execute(ctx, event.Frame, line)
		if err != nil {
			s.reportError(err)
			continue
		}
		if resumed {
			return nil
		}
	}
}

// execute runs one command line. resumed is true when the engine took back
// control and the read loop must end.
func (s *Shell) execute(ctx context.Context, frame *FrameState, line string) (bool, error) {
	parts := strings.Fields(line)
	name, args := strings.ToLower(parts[0]), parts[1:]

	switch name {
	case "brk", "break", "breakpoint", "b":
		return false, s.breaker.Run(ctx, frame, args)

	case "nxt", "next", "n":
		next := NewNextCommand(StepperFunc(func(ctx context.Context, req StepRequest) error {
			return s.send(ctx, &Command{Type: CommandNext, Count: req.Count})
		}), s.logger)
		if err := next.Run(ctx, frame, args); err != nil {
			return false, err
		}
		return true, nil

	case "c", "continue":
		return true, s.send(ctx, &Command{Type: CommandContinue})

	case "a", "abort":
		return true, s.send(ctx, &Command{Type: CommandAbort})

	case "i", "inspect":
		if len(args) == 0 {
			return false, fmt.Errorf("inspect requires an expression argument")
		}
		return false, s.handleInspect(ctx, frame, strings.Join(args, " "))

	case "ctx", "context":
		return false, s.handleContext(frame)

	case "w", "where":
		s.displayFrame(&Event{Type: EventPaused, Frame: frame})
		return false, nil

	case "h", "help", "?":
		s.showHelp()
		return false, nil

	default:
		return false, fmt.Errorf("unknown command: %s (type 'help' for commands)", name)
	}
}

func (s *Shell) send(ctx context.Context, cmd *Command) error {
	select {
	case s.engine.CommandChan() <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shell) reportError(err error) {
	fmt.Fprintf(s.output, "Error: %v\n", err)
	if suggestion := pkgerrors.SuggestionFor(err); suggestion != "" {
		fmt.Fprintf(s.output, "Suggestion: %s\n", suggestion)
	}
}

// displayFrame shows where execution is paused.
func (s *Shell) displayFrame(event *Event) {
	frame := event.Frame
	fmt.Fprintln(s.output, "\n═══════════════════════════════════════════════════════════")
	if frame == nil {
		fmt.Fprintln(s.output, "Paused (no frame)")
	} else {
		fmt.Fprintf(s.output, "Paused at %s:%d", frame.File, frame.Line)
		if frame.Method != "" {
			fmt.Fprintf(s.output, " in %s", frame.Method)
		}
		fmt.Fprintln(s.output)
	}
	if event.Reason == PauseBreakpoint && event.BreakpointID > 0 {
		fmt.Fprintf(s.output, "Hit breakpoint %d\n", event.BreakpointID)
	}
	fmt.Fprintln(s.output, "───────────────────────────────────────────────────────────")
	if frame != nil {
		if excerpt := s.printer.sourceExcerpt(frame.File, frame.Line); excerpt != "" {
			fmt.Fprint(s.output, excerpt)
		}
	}
	fmt.Fprintln(s.output, "═══════════════════════════════════════════════════════════")
}

// handleInspect evaluates a jq expression against the frame's variables.
func (s *Shell) handleInspect(ctx context.Context, frame *FrameState, expression string) error {
	var vars map[string]interface{}
	if frame != nil {
		vars = frame.Vars
	}
	inspector := NewInspector(vars)

	results, err := inspector.Query(ctx, expression)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(s.output, "%s produced no value\n", expression)
		return nil
	}
	for _, v := range results {
		formatted, err := inspector.Format(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.output, "%s = %s\n", expression, formatted)
	}
	return nil
}

// handleContext dumps all variables of the frame.
func (s *Shell) handleContext(frame *FrameState) error {
	if frame == nil || len(frame.Vars) == 0 {
		fmt.Fprintln(s.output, "No local variables")
		return nil
	}

	formatted, err := NewInspector(frame.Vars).FormatAll()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.output, "Locals:")
	fmt.Fprintln(s.output, formatted)
	return nil
}

// showHelp displays available commands.
func (s *Shell) showHelp() {
	help := `
Debug Commands:
  brk [options] [TARGET [if COND]]  Set, list or edit breakpoints (brk --help)
  next [LINES], nxt, n              Execute LINES lines (default 1) in this frame
  continue, c                       Resume until the next breakpoint or the end
  abort, a                          Stop execution immediately
  inspect <jq-expr>, i              Evaluate a jq expression over the locals
  context, ctx                      Dump all locals as JSON
  where, w                          Show the current location
  help, h, ?                        Show this help message

Press Ctrl+C to interrupt (then choose to abort or continue)
`
	fmt.Fprintln(s.output, help)
}
