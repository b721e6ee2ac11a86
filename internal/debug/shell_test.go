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
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/brk/internal/breakpoint/memory"
)

// fakeEngine replays a fixed list of events and records commands.
type fakeEngine struct {
	events   chan *Event
	commands chan *Command
}

func newFakeEngine(events ...*Event) *fakeEngine {
	e := &fakeEngine{
		events:   make(chan *Event, len(events)),
		commands: make(chan *Command, 16),
	}
	for _, ev := range events {
		e.events <- ev
	}
	return e
}

func (e *fakeEngine) EventChan() <-chan *Event     { return e.events }
func (e *fakeEngine) CommandChan() chan<- *Command { return e.commands }

func (e *fakeEngine) sent() []*Command {
	var cmds []*Command
	for {
		select {
		case cmd := <-e.commands:
			cmds = append(cmds, cmd)
		default:
			return cmds
		}
	}
}

func pausedEvent() *Event {
	return &Event{
		Type:   EventPaused,
		Reason: PauseEntry,
		Frame: &FrameState{
			File:   "/src/app/models/user.rb",
			Line:   10,
			Class:  "User",
			Method: "User#name",
			Vars:   map[string]interface{}{"n": 3, "name": "ada"},
		},
	}
}

func runShell(t *testing.T, engine *fakeEngine, input string) (*memory.Store, string) {
	t.Helper()
	store := memory.New()
	out := &bytes.Buffer{}
	shell := NewShell(engine, store, ShellConfig{
		Input:  strings.NewReader(input),
		Output: out,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, shell.Run(ctx))
	return store, out.String()
}

func TestShell_BreakThenNext(t *testing.T) {
	engine := newFakeEngine(pausedEvent(), &Event{Type: EventCompleted})

	store, out := runShell(t, engine, "brk #save if n > 2\nnxt 2\n")

	bps, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, bps, 1)
	assert.Equal(t, "User#save", bps[0].Method)
	assert.Equal(t, "n > 2", bps[0].Condition)

	assert.Equal(t, []*Command{{Type: CommandNext, Count: 2}}, engine.sent())
	assert.Contains(t, out, "Paused at /src/app/models/user.rb:10 in User#name")
	assert.Contains(t, out, "Breakpoint 1: User#save (Enabled)")
	assert.Contains(t, out, "Program completed")
}

func TestShell_EOFAborts(t *testing.T) {
	engine := newFakeEngine(pausedEvent(), &Event{Type: EventAborted})

	_, out := runShell(t, engine, "")

	assert.Equal(t, []*Command{{Type: CommandAbort}}, engine.sent())
	assert.Contains(t, out, "Execution aborted")
}

func TestShell_ErrorsKeepReading(t *testing.T) {
	engine := newFakeEngine(pausedEvent(), &Event{Type: EventCompleted})

	_, out := runShell(t, engine, "frob\nnxt 0\nbrk ???\nbrk --show 9\ncontinue\n")

	assert.Equal(t, []*Command{{Type: CommandContinue}}, engine.sent())
	assert.Contains(t, out, "Error: unknown command: frob")
	assert.Contains(t, out, `Error: invalid step count "0"`)
	assert.Contains(t, out, `Error: cannot identify "???" as a breakpoint location`)
	assert.Contains(t, out, "Suggestion: Expected LINE, FILE:LINE")
	assert.Contains(t, out, "Error: breakpoint not found: 9")
}

func TestShell_NoFrame(t *testing.T) {
	engine := newFakeEngine(&Event{Type: EventPaused}, &Event{Type: EventAborted})

	_, out := runShell(t, engine, "brk Foo#bar\nnext\nabort\n")

	assert.Equal(t, []*Command{{Type: CommandAbort}}, engine.sent())
	assert.Contains(t, out, "Paused (no frame)")
	assert.Equal(t, 2, strings.Count(out, "Error: Cannot find local context."))
}

func TestShell_InspectAndContext(t *testing.T) {
	engine := newFakeEngine(pausedEvent(), &Event{Type: EventCompleted})

	_, out := runShell(t, engine, "inspect n\ni .name\ncontext\ninspect\nc\n")

	assert.Contains(t, out, "n = 3")
	assert.Contains(t, out, `.name = "ada"`)
	assert.Contains(t, out, "Locals:")
	assert.Contains(t, out, "Error: inspect requires an expression argument")
}

func TestShell_BreakpointPauseAndHelp(t *testing.T) {
	ev := pausedEvent()
	ev.Reason = PauseBreakpoint
	ev.BreakpointID = 4
	engine := newFakeEngine(ev, &Event{Type: EventCompleted})

	_, out := runShell(t, engine, "help\nwhere\nbrk --help\nc\n")

	assert.Contains(t, out, "Hit breakpoint 4")
	assert.Contains(t, out, "Debug Commands:")
	assert.Contains(t, out, "Usage:   brk")
	assert.Equal(t, 2, strings.Count(out, "Paused at"))
}

func TestShell_ClosedEventChannel(t *testing.T) {
	engine := newFakeEngine()
	close(engine.events)

	_, out := runShell(t, engine, "")
	assert.Empty(t, out)
}
