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

// Package breakpoints provides the command that runs one brk invocation
// against the configured breakpoint store.
package breakpoints

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tombee/brk/internal/breakpoint"
	"github.com/tombee/brk/internal/commands/completion"
	"github.com/tombee/brk/internal/commands/shared"
	"github.com/tombee/brk/internal/debug"
	brklog "github.com/tombee/brk/internal/log"
)

// frameOptions stand in for the paused frame of an interactive session.
type frameOptions struct {
	file  string
	line  int
	class string
}

// NewCommand creates the breakpoints command.
func NewCommand() *cobra.Command {
	var (
		flags debug.Flags
		frame frameOptions
	)

	cmd := &cobra.Command{
		Use:     "breakpoints [options] [TARGET [if CONDITION]]",
		Aliases: []string{"brk", "break", "breakpoint"},
		Short:   "Create, list and edit stored breakpoints",
		Long: `Run one brk invocation against the configured breakpoint store.

TARGET is LINE, FILE:LINE, Class#method or Class.method. A bare LINE needs
--file, and a bare #method needs --file and --class, since there is no
paused frame to take them from.

Options must come before TARGET so that condition text such as "x > -1"
is never read as an option. Without options or TARGET, all breakpoints are
listed.`,
		Example: `  brk breakpoints Foo#bar if baz?
  brk breakpoints --file app/models/user.rb 15
  brk breakpoints --condition 4 x > 2
  brk breakpoints --disable-all
  brk breakpoints --json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, frame, args)
		},
	}

	fs := cmd.Flags()
	fs.SetInterspersed(false)
	debug.NewBreakFlagSet(&flags).VisitAll(func(f *pflag.Flag) {
		// cobra provides --help
		if f.Name != "help" {
			fs.AddFlag(f)
		}
	})
	fs.StringVar(&frame.file, "file", "", "Current file for LINE and #method targets")
	fs.IntVar(&frame.line, "line", 0, "Current line, shown in logs only")
	fs.StringVar(&frame.class, "class", "", "Current class for #method targets")
	completion.RegisterBreakpointFlags(cmd, "condition", "show", "delete", "disable", "enable")

	return cmd
}

func run(cmd *cobra.Command, flags debug.Flags, frame frameOptions, args []string) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return err
	}
	logger := brklog.WithComponent(shared.NewLogger(cfg), "breakpoints")

	store, closeStore, err := shared.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close breakpoint store", brklog.Error(err))
		}
	}()

	defer shared.StartTracing(cmd.Context(), cfg, logger)()

	state := &debug.FrameState{File: frame.file, Line: frame.line, Class: frame.class}
	logger.Debug("Running brk",
		slog.String("file", state.File),
		slog.Int("line", state.Line),
		slog.Any("args", args),
	)

	intent := debug.Dispatch(flags, args)
	if shared.GetJSON() && intent.Kind == debug.IntentList {
		return emitList(cmd, store)
	}

	printer := debug.NewPrinter(cmd.OutOrStdout(), cfg.Shell.SourceContext)
	breaker := debug.NewBreakCommand(store, printer, logger, debug.BreakOptions{SkipFrameGuard: true})
	return breaker.RunFlags(cmd.Context(), state, flags, args)
}

// ListResponse is the JSON form of a breakpoint listing.
type ListResponse struct {
	shared.JSONResponse
	Breakpoints []*BreakpointJSON `json:"breakpoints"`
}

// BreakpointJSON is one breakpoint in JSON output.
type BreakpointJSON struct {
	ID        int    `json:"id"`
	Kind      string `json:"kind"`
	Location  string `json:"location"`
	Condition string `json:"condition,omitempty"`
	Enabled   bool   `json:"enabled"`
	HitCount  int    `json:"hit_count"`
}

func emitList(cmd *cobra.Command, store breakpoint.Store) error {
	bps, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	resp := ListResponse{
		JSONResponse: shared.JSONResponse{Version: "1.0", Command: "breakpoints", Success: true},
		Breakpoints:  make([]*BreakpointJSON, 0, len(bps)),
	}
	for _, bp := range bps {
		resp.Breakpoints = append(resp.Breakpoints, &BreakpointJSON{
			ID:        bp.ID,
			Kind:      string(bp.Kind),
			Location:  bp.Location(),
			Condition: bp.Condition,
			Enabled:   bp.Enabled,
			HitCount:  bp.HitCount,
		})
	}
	return shared.EmitJSON(cmd.OutOrStdout(), resp)
}
