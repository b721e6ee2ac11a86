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

// Package breakpoint defines breakpoint records and the storage contract the
// debugger front-end drives.
//
// # Interface Hierarchy
//
//   - Store (required): add, find, change condition, enable/disable,
//     delete and list breakpoints
//   - HitRecorder (optional): RecordHit, used by engines that count hits
//   - io.Closer (optional): Close
//
// IDs are positive, assigned by the store in creation order and never reused
// within a store's lifetime. List returns breakpoints in creation order.
package breakpoint

import (
	"context"
	"fmt"
	"time"
)

// Kind identifies how a breakpoint's location is expressed.
type Kind string

const (
	// KindLine is a breakpoint on a line of a source file.
	KindLine Kind = "line"

	// KindMethod is a breakpoint on entry to a method, e.g. "Foo#bar".
	KindMethod Kind = "method"
)

// Breakpoint is a stored breakpoint.
type Breakpoint struct {
	// ID is the store-assigned identifier, starting at 1.
	ID int

	// Kind says which of File/Line or Method is set.
	Kind Kind

	// File and Line locate a KindLine breakpoint.
	File string
	Line int

	// Method is the qualified method name of a KindMethod breakpoint.
	Method string

	// Condition is an expression that must hold for the breakpoint to
	// trigger. Empty means unconditional.
	Condition string

	// Enabled is false for breakpoints disabled by the user.
	Enabled bool

	// HitCount counts how many times the breakpoint has triggered.
	HitCount int

	CreatedAt time.Time
}

// Location renders the breakpoint's location the way a user types it.
func (b *Breakpoint) Location() string {
	if b.Kind == KindMethod {
		return b.Method
	}
	return fmt.Sprintf("%s:%d", b.File, b.Line)
}

// HasCondition reports whether the breakpoint is conditional.
func (b *Breakpoint) HasCondition() bool {
	return b.Condition != ""
}

// Clone returns a copy that shares no memory with b.
func (b *Breakpoint) Clone() *Breakpoint {
	c := *b
	return &c
}

// Store is the breakpoint storage contract. Every ID-based method returns a
// *errors.NotFoundError (pkg/errors) when no breakpoint has the given ID.
type Store interface {
	// AddLine creates an enabled breakpoint at file:line.
	AddLine(ctx context.Context, file string, line int, condition string) (*Breakpoint, error)

	// AddMethod creates an enabled breakpoint on a qualified method name.
	AddMethod(ctx context.Context, method string, condition string) (*Breakpoint, error)

	// FindByID returns the breakpoint with the given ID.
	FindByID(ctx context.Context, id int) (*Breakpoint, error)

	// ChangeCondition replaces the condition; an empty condition removes it.
	ChangeCondition(ctx context.Context, id int, condition string) error

	// Delete removes a breakpoint.
	Delete(ctx context.Context, id int) error

	// Enable re-enables a disabled breakpoint.
	Enable(ctx context.Context, id int) error

	// Disable keeps the breakpoint but stops it from triggering.
	Disable(ctx context.Context, id int) error

	// DisableAll disables every breakpoint. Calling it again is a no-op.
	DisableAll(ctx context.Context) error

	// DeleteAll removes every breakpoint.
	DeleteAll(ctx context.Context) error

	// List returns all breakpoints in creation order.
	List(ctx context.Context) ([]*Breakpoint, error)
}

// HitRecorder is an optional interface for stores that track hit counts.
//
//	if rec, ok := store.(HitRecorder); ok {
//	    _ = rec.RecordHit(ctx, bp.ID)
//	}
type HitRecorder interface {
	RecordHit(ctx context.Context, id int) error
}
