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
	"time"
)

// EventType represents the type of debug event.
type EventType string

const (
	// EventPaused indicates the engine stopped and is waiting for a command.
	EventPaused EventType = "paused"

	// EventResumed indicates execution has resumed.
	EventResumed EventType = "resumed"

	// EventCompleted indicates the program ran to the end.
	EventCompleted EventType = "completed"

	// EventAborted indicates execution was aborted by user.
	EventAborted EventType = "aborted"
)

// PauseReason says why the engine paused.
type PauseReason string

const (
	PauseEntry      PauseReason = "entry"
	PauseBreakpoint PauseReason = "breakpoint"
	PauseStep       PauseReason = "step"
)

// Event represents a debug event emitted by the engine.
type Event struct {
	// Type is the type of event.
	Type EventType

	// Reason is set on EventPaused.
	Reason PauseReason

	// BreakpointID is the breakpoint that triggered a pause, or 0.
	BreakpointID int

	// Frame is the paused frame. Nil unless Type is EventPaused.
	Frame *FrameState

	// Timestamp is when the event occurred.
	Timestamp time.Time

	// Message is an optional human-readable message.
	Message string
}

// CommandType represents the type of engine command.
type CommandType string

const (
	// CommandContinue resumes execution until the next breakpoint or completion.
	CommandContinue CommandType = "continue"

	// CommandNext executes Count lines without leaving the current frame.
	CommandNext CommandType = "next"

	// CommandAbort cancels execution immediately.
	CommandAbort CommandType = "abort"
)

// Command is sent from the shell to a paused engine.
type Command struct {
	// Type is the type of command.
	Type CommandType

	// Count is the number of lines for CommandNext.
	Count int
}

// Engine is the execution side of a debug session as seen by the shell.
type Engine interface {
	// EventChan delivers events; it is closed when the session ends.
	EventChan() <-chan *Event

	// CommandChan accepts a command while the engine is paused.
	CommandChan() chan<- *Command
}
