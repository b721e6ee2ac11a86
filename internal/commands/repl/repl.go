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

// Package repl provides the command that debugs a recorded trace in an
// interactive shell.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tombee/brk/internal/commands/completion"
	"github.com/tombee/brk/internal/commands/shared"
	"github.com/tombee/brk/internal/debug"
	brklog "github.com/tombee/brk/internal/log"
	"github.com/tombee/brk/internal/replay"
)

// NewCommand creates the repl command.
func NewCommand() *cobra.Command {
	var tracePath string

	cmd := &cobra.Command{
		Use:   "repl --trace FILE",
		Short: "Debug a recorded execution trace",
		Long: `Replay a recorded execution trace and pause in an interactive shell.

The shell stops on the first line of the trace and accepts brk, next,
continue, abort, inspect and context commands. Breakpoints come from the
configured store, so breakpoints set here survive between sessions when
the sqlite backend is used.`,
		Example: `  brk repl --trace checkout.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), tracePath, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&tracePath, "trace", "t", "", "Trace file to replay (YAML)")
	_ = cmd.MarkFlagRequired("trace")
	_ = cmd.RegisterFlagCompletionFunc("trace", completion.CompleteTraceFiles)

	return cmd
}

func run(ctx context.Context, tracePath string, in io.Reader, out io.Writer) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return err
	}
	logger := shared.NewLogger(cfg)

	trace, err := replay.LoadTrace(tracePath)
	if err != nil {
		return shared.NewExecutionError("failed to load trace", err)
	}

	store, closeStore, err := shared.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close breakpoint store", brklog.Error(err))
		}
	}()

	defer shared.StartTracing(ctx, cfg, logger)()

	if cfg.Metrics.Addr != "" {
		srv := startMetricsServer(cfg.Metrics.Addr, logger)
		defer shutdownMetricsServer(srv, logger)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := replay.NewSession(trace, store, logger)
	logger.Debug("Starting replay session",
		slog.String(brklog.SessionIDKey, session.ID()),
		slog.Int("frames", len(trace.Frames)),
	)

	sessionErr := make(chan error, 1)
	go func() { sessionErr <- session.Run(ctx) }()

	if isTerminal(in) {
		fmt.Fprintf(out, "Replaying %s (%d lines). Type 'help' for commands.\n", tracePath, len(trace.Frames))
	}

	shell := debug.NewShell(session, store, debug.ShellConfig{
		Input:         in,
		Output:        out,
		Prompt:        cfg.Shell.Prompt,
		SourceContext: cfg.Shell.SourceContext,
		Logger:        logger,
	})
	shellErr := shell.Run(ctx)

	cancel()
	if err := <-sessionErr; err != nil && !errors.Is(err, context.Canceled) {
		return shared.NewExecutionError("replay failed", err)
	}
	return shellErr
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
