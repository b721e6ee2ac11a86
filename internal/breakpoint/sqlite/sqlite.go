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

// Package sqlite provides a SQLite breakpoint store so breakpoints survive
// across debugger sessions.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tombee/brk/internal/breakpoint"
	pkgerrors "github.com/tombee/brk/pkg/errors"
	_ "modernc.org/sqlite"
)

// Compile-time interface assertions.
var (
	_ breakpoint.Store       = (*Store)(nil)
	_ breakpoint.HitRecorder = (*Store)(nil)
)

// Store is a SQLite breakpoint store.
type Store struct {
	db *sql.DB
}

// Config contains SQLite connection configuration.
type Config struct {
	// Path is the database file path.
	Path string

	// WAL enables Write-Ahead Logging mode for concurrent reads.
	WAL bool
}

// New opens (and migrates) a SQLite breakpoint store.
func New(cfg Config) (*Store, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writes
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}

	if err := s.configurePragmas(ctx, cfg.WAL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure pragmas: %w", err)
	}

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func (s *Store) configurePragmas(ctx context.Context, enableWAL bool) error {
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	if enableWAL {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}

	for _, pragma := range pragmas {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}
	return nil
}

// migrate creates the schema. AUTOINCREMENT keeps IDs from being reused
// after a delete.
func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS breakpoints (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			file TEXT NOT NULL DEFAULT '',
			line INTEGER NOT NULL DEFAULT 0,
			method TEXT NOT NULL DEFAULT '',
			condition TEXT NOT NULL DEFAULT '',
			enabled INTEGER NOT NULL DEFAULT 1,
			hit_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddLine creates a breakpoint at file:line.
func (s *Store) AddLine(ctx context.Context, file string, line int, condition string) (*breakpoint.Breakpoint, error) {
	return s.insert(ctx, &breakpoint.Breakpoint{
		Kind:      breakpoint.KindLine,
		File:      file,
		Line:      line,
		Condition: condition,
	})
}

// AddMethod creates a breakpoint on a qualified method name.
func (s *Store) AddMethod(ctx context.Context, method string, condition string) (*breakpoint.Breakpoint, error) {
	return s.insert(ctx, &breakpoint.Breakpoint{
		Kind:      breakpoint.KindMethod,
		Method:    method,
		Condition: condition,
	})
}

func (s *Store) insert(ctx context.Context, bp *breakpoint.Breakpoint) (*breakpoint.Breakpoint, error) {
	bp.Enabled = true
	bp.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO breakpoints (kind, file, line, method, condition, enabled, hit_count, created_at)
		 VALUES (?, ?, ?, ?, ?, 1, 0, ?)`,
		string(bp.Kind), bp.File, bp.Line, bp.Method, bp.Condition, bp.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert breakpoint: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read breakpoint id: %w", err)
	}
	bp.ID = int(id)
	return bp, nil
}

const selectColumns = `SELECT id, kind, file, line, method, condition, enabled, hit_count, created_at FROM breakpoints`

// FindByID returns the breakpoint with the given ID.
func (s *Store) FindByID(ctx context.Context, id int) (*breakpoint.Breakpoint, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	bp, err := scanBreakpoint(row)
	if err == sql.ErrNoRows {
		return nil, pkgerrors.NewBreakpointNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get breakpoint: %w", err)
	}
	return bp, nil
}

// List returns all breakpoints ordered by ID.
func (s *Store) List(ctx context.Context) ([]*breakpoint.Breakpoint, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list breakpoints: %w", err)
	}
	defer rows.Close()

	var out []*breakpoint.Breakpoint
	for rows.Next() {
		bp, err := scanBreakpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan breakpoint: %w", err)
		}
		out = append(out, bp)
	}
	return out, rows.Err()
}

// ChangeCondition replaces the condition of a breakpoint.
func (s *Store) ChangeCondition(ctx context.Context, id int, condition string) error {
	return s.execByID(ctx, id, `UPDATE breakpoints SET condition = ? WHERE id = ?`, condition, id)
}

// Enable enables a breakpoint.
func (s *Store) Enable(ctx context.Context, id int) error {
	return s.execByID(ctx, id, `UPDATE breakpoints SET enabled = 1 WHERE id = ?`, id)
}

// Disable disables a breakpoint.
func (s *Store) Disable(ctx context.Context, id int) error {
	return s.execByID(ctx, id, `UPDATE breakpoints SET enabled = 0 WHERE id = ?`, id)
}

// Delete removes a breakpoint.
func (s *Store) Delete(ctx context.Context, id int) error {
	return s.execByID(ctx, id, `DELETE FROM breakpoints WHERE id = ?`, id)
}

// RecordHit increments the hit count of a breakpoint.
func (s *Store) RecordHit(ctx context.Context, id int) error {
	return s.execByID(ctx, id, `UPDATE breakpoints SET hit_count = hit_count + 1 WHERE id = ?`, id)
}

// DisableAll disables every breakpoint.
func (s *Store) DisableAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE breakpoints SET enabled = 0`); err != nil {
		return fmt.Errorf("failed to disable breakpoints: %w", err)
	}
	return nil
}

// DeleteAll removes every breakpoint.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM breakpoints`); err != nil {
		return fmt.Errorf("failed to delete breakpoints: %w", err)
	}
	return nil
}

// execByID runs a single-row statement and maps "no rows affected" to a
// NotFoundError.
func (s *Store) execByID(ctx context.Context, id int, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update breakpoint %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update breakpoint %d: %w", id, err)
	}
	if n == 0 {
		return pkgerrors.NewBreakpointNotFound(id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBreakpoint(row scanner) (*breakpoint.Breakpoint, error) {
	var (
		bp        breakpoint.Breakpoint
		kind      string
		enabled   int
		createdAt string
	)
	if err := row.Scan(&bp.ID, &kind, &bp.File, &bp.Line, &bp.Method, &bp.Condition, &enabled, &bp.HitCount, &createdAt); err != nil {
		return nil, err
	}
	bp.Kind = breakpoint.Kind(kind)
	bp.Enabled = enabled != 0
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		bp.CreatedAt = t
	}
	return &bp, nil
}
