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

package replay

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/tombee/brk/internal/breakpoint"
	"github.com/tombee/brk/internal/debug"
	brklog "github.com/tombee/brk/internal/log"
	"github.com/tombee/brk/internal/tracing"
)

// Compile-time interface assertion.
var _ debug.Engine = (*Session)(nil)

// Session replays a trace, pausing at breakpoints and after steps. It
// communicates with a debugger shell via channels for events and commands.
type Session struct {
	id         string
	trace      *Trace
	store      breakpoint.Store
	conditions *ConditionEvaluator
	logger     *slog.Logger

	// eventChan sends debug events to the debugger shell.
	eventChan chan *debug.Event

	// cmdChan receives debug commands from the shell.
	cmdChan chan *debug.Command

	// pos is the index of the current frame.
	pos int

	// aborted indicates execution was aborted.
	aborted bool
}

// NewSession creates a session replaying trace against the breakpoints in
// store.
func NewSession(trace *Trace, store breakpoint.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New().String()
	return &Session{
		id:         id,
		trace:      trace,
		store:      store,
		conditions: NewConditionEvaluator(),
		logger:     brklog.WithSessionContext(logger, id, trace.Name),
		eventChan:  make(chan *debug.Event, 10),
		cmdChan:    make(chan *debug.Command, 1),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// EventChan returns the channel for debug events.
func (s *Session) EventChan() <-chan *debug.Event {
	return s.eventChan
}

// CommandChan returns the channel for debug commands.
func (s *Session) CommandChan() chan<- *debug.Command {
	return s.cmdChan
}

// IsAborted returns true if execution was aborted.
func (s *Session) IsAborted() bool {
	return s.aborted
}

// Run replays the trace. It pauses on the first frame, then follows
// commands until the trace ends or the user aborts. The event channel is
// closed on return.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.eventChan)

	if len(s.trace.Frames) == 0 {
		return s.sendEvent(ctx, &debug.Event{Type: debug.EventCompleted, Message: "Trace is empty"})
	}

	s.pos = 0
	reason, bpID := debug.PauseEntry, 0
	for {
		cmd, err := s.pause(ctx, reason, bpID)
		if err != nil {
			return err
		}

		spanCtx, span := tracing.Tracer().Start(ctx, "replay."+string(cmd.Type), oteltrace.WithAttributes(
			attribute.String(brklog.SessionIDKey, s.id),
			attribute.Int("replay.from_line", s.trace.Frames[s.pos].Line),
		))

		var finished bool
		switch cmd.Type {
		case debug.CommandContinue:
			s.logger.Debug("Resuming execution")
			bpID, finished, err = s.runToBreakpoint(spanCtx)
			reason = debug.PauseBreakpoint

		case debug.CommandNext:
			s.logger.Debug("Stepping", slog.Int("lines", cmd.Count))
			span.SetAttributes(attribute.Int("step.lines", cmd.Count))
			reason, bpID, finished, err = s.stepOver(spanCtx, cmd.Count)

		case debug.CommandAbort:
			s.logger.Info("Aborting execution")
			s.aborted = true
			tracing.End(span, nil)
			return s.sendEvent(ctx, &debug.Event{Type: debug.EventAborted, Message: "Execution aborted by user"})

		default:
			err = fmt.Errorf("unknown command: %s", cmd.Type)
		}

		if !finished && err == nil {
			span.SetAttributes(
				attribute.Int("replay.to_line", s.trace.Frames[s.pos].Line),
				attribute.Int(brklog.BreakpointIDKey, bpID),
			)
		}
		tracing.End(span, err)

		if err != nil {
			return err
		}
		if finished {
			return s.sendEvent(ctx, &debug.Event{Type: debug.EventCompleted, Message: "Trace completed"})
		}
	}
}

// pause announces the current frame and waits for a command.
func (s *Session) pause(ctx context.Context, reason debug.PauseReason, bpID int) (*debug.Command, error) {
	frame := s.trace.Frames[s.pos]
	s.logger.Info("Paused",
		slog.String("file", frame.File),
		slog.Int("line", frame.Line),
		slog.String("reason", string(reason)),
	)

	if err := s.sendEvent(ctx, &debug.Event{
		Type:         debug.EventPaused,
		Reason:       reason,
		BreakpointID: bpID,
		Frame:        frame.State(),
		Message:      fmt.Sprintf("Paused at %s:%d", frame.File, frame.Line),
	}); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case cmd, ok := <-s.cmdChan:
		if !ok || cmd == nil {
			return &debug.Command{Type: debug.CommandAbort}, nil
		}
		return cmd, nil
	}
}

// runToBreakpoint advances until a breakpoint triggers or the trace ends.
func (s *Session) runToBreakpoint(ctx context.Context) (bpID int, finished bool, err error) {
	if err := s.sendEvent(ctx, &debug.Event{Type: debug.EventResumed, Message: "Resuming execution"}); err != nil {
		return 0, false, err
	}

	for s.pos+1 < len(s.trace.Frames) {
		s.pos++
		id, err := s.breakpointAt(ctx, s.trace.Frames[s.pos])
		if err != nil {
			return 0, false, err
		}
		if id > 0 {
			return id, false, nil
		}
	}
	return 0, true, nil
}

// stepOver executes count lines without descending into deeper frames. It
// stops early at a triggered breakpoint or when the current frame returns.
func (s *Session) stepOver(ctx context.Context, count int) (reason debug.PauseReason, bpID int, finished bool, err error) {
	if err := s.sendEvent(ctx, &debug.Event{Type: debug.EventResumed, Message: fmt.Sprintf("Stepping %d line(s)", count)}); err != nil {
		return "", 0, false, err
	}

	depth := s.trace.Frames[s.pos].Depth
	remaining := count
	for s.pos+1 < len(s.trace.Frames) {
		s.pos++
		frame := s.trace.Frames[s.pos]

		id, err := s.breakpointAt(ctx, frame)
		if err != nil {
			return "", 0, false, err
		}
		if id > 0 {
			return debug.PauseBreakpoint, id, false, nil
		}

		if frame.Depth < depth {
			return debug.PauseStep, 0, false, nil
		}
		if frame.Depth == depth {
			remaining--
			if remaining == 0 {
				return debug.PauseStep, 0, false, nil
			}
		}
	}
	return "", 0, true, nil
}

// breakpointAt returns the ID of the first enabled breakpoint that triggers
// on frame, or 0.
func (s *Session) breakpointAt(ctx context.Context, frame *Frame) (int, error) {
	bps, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list breakpoints: %w", err)
	}

	for _, bp := range bps {
		if !bp.Enabled || !matches(bp, frame) {
			continue
		}

		ok, err := s.conditions.Evaluate(bp.Condition, frame.Vars)
		if err != nil {
			s.logger.Warn("Breakpoint condition failed",
				slog.Int(brklog.BreakpointIDKey, bp.ID),
				slog.String("condition", bp.Condition),
				brklog.Error(err),
			)
			continue
		}
		if !ok {
			continue
		}

		if rec, isRec := s.store.(breakpoint.HitRecorder); isRec {
			if err := rec.RecordHit(ctx, bp.ID); err != nil {
				s.logger.Warn("Failed to record breakpoint hit", slog.Int(brklog.BreakpointIDKey, bp.ID), brklog.Error(err))
			}
		}
		return bp.ID, nil
	}
	return 0, nil
}

// matches reports whether bp's location is frame. Method breakpoints match
// on method entry only.
func matches(bp *breakpoint.Breakpoint, frame *Frame) bool {
	switch bp.Kind {
	case breakpoint.KindMethod:
		return frame.call && frame.Method == bp.Method
	case breakpoint.KindLine:
		return bp.Line == frame.Line && fileMatches(bp.File, frame.File)
	}
	return false
}

// fileMatches compares a breakpoint's file with a frame's file. A relative
// or glob breakpoint file matches any frame file it is a suffix of.
func fileMatches(pattern, file string) bool {
	pattern = filepath.ToSlash(pattern)
	file = filepath.ToSlash(file)
	if pattern == file {
		return true
	}
	if !filepath.IsAbs(pattern) && strings.HasSuffix(file, "/"+pattern) {
		return true
	}
	if ok, err := doublestar.Match(pattern, file); err == nil && ok {
		return true
	}
	if !filepath.IsAbs(pattern) {
		if ok, err := doublestar.Match("**/"+pattern, file); err == nil && ok {
			return true
		}
	}
	return false
}

// sendEvent delivers an event, giving up if ctx is cancelled.
func (s *Session) sendEvent(ctx context.Context, event *debug.Event) error {
	event.Timestamp = time.Now()
	select {
	case s.eventChan <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
