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

// Package memory provides an in-memory breakpoint store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tombee/brk/internal/breakpoint"
	pkgerrors "github.com/tombee/brk/pkg/errors"
)

// Compile-time interface assertions.
var (
	_ breakpoint.Store       = (*Store)(nil)
	_ breakpoint.HitRecorder = (*Store)(nil)
)

// Store keeps breakpoints in creation order. Records handed out are copies.
type Store struct {
	mu     sync.RWMutex
	items  []*breakpoint.Breakpoint
	nextID int
}

// New creates an empty store.
func New() *Store {
	return &Store{nextID: 1}
}

// AddLine creates a breakpoint at file:line.
func (s *Store) AddLine(ctx context.Context, file string, line int, condition string) (*breakpoint.Breakpoint, error) {
	return s.add(&breakpoint.Breakpoint{
		Kind:      breakpoint.KindLine,
		File:      file,
		Line:      line,
		Condition: condition,
	}), nil
}

// AddMethod creates a breakpoint on a qualified method name.
func (s *Store) AddMethod(ctx context.Context, method string, condition string) (*breakpoint.Breakpoint, error) {
	return s.add(&breakpoint.Breakpoint{
		Kind:      breakpoint.KindMethod,
		Method:    method,
		Condition: condition,
	}), nil
}

func (s *Store) add(bp *breakpoint.Breakpoint) *breakpoint.Breakpoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	bp.ID = s.nextID
	bp.Enabled = true
	bp.CreatedAt = time.Now()
	s.nextID++
	s.items = append(s.items, bp)
	return bp.Clone()
}

// FindByID returns a copy of the breakpoint with the given ID.
func (s *Store) FindByID(ctx context.Context, id int) (*breakpoint.Breakpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, pkgerrors.NewBreakpointNotFound(id)
	}
	return s.items[idx].Clone(), nil
}

// ChangeCondition replaces the condition of a breakpoint.
func (s *Store) ChangeCondition(ctx context.Context, id int, condition string) error {
	return s.update(id, func(bp *breakpoint.Breakpoint) { bp.Condition = condition })
}

// Enable enables a breakpoint.
func (s *Store) Enable(ctx context.Context, id int) error {
	return s.update(id, func(bp *breakpoint.Breakpoint) { bp.Enabled = true })
}

// Disable disables a breakpoint.
func (s *Store) Disable(ctx context.Context, id int) error {
	return s.update(id, func(bp *breakpoint.Breakpoint) { bp.Enabled = false })
}

// RecordHit increments the hit count of a breakpoint.
func (s *Store) RecordHit(ctx context.Context, id int) error {
	return s.update(id, func(bp *breakpoint.Breakpoint) { bp.HitCount++ })
}

func (s *Store) update(id int, fn func(*breakpoint.Breakpoint)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return pkgerrors.NewBreakpointNotFound(id)
	}
	fn(s.items[idx])
	return nil
}

// Delete removes a breakpoint.
func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return pkgerrors.NewBreakpointNotFound(id)
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return nil
}

// DisableAll disables every breakpoint.
func (s *Store) DisableAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, bp := range s.items {
		bp.Enabled = false
	}
	return nil
}

// DeleteAll removes every breakpoint. IDs keep counting from where they were.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return nil
}

// List returns copies of all breakpoints in creation order.
func (s *Store) List(ctx context.Context) ([]*breakpoint.Breakpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*breakpoint.Breakpoint, 0, len(s.items))
	for _, bp := range s.items {
		out = append(out, bp.Clone())
	}
	return out, nil
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id int) int {
	for i, bp := range s.items {
		if bp.ID == id {
			return i
		}
	}
	return -1
}
