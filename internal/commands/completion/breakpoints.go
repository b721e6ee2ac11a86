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

package completion

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/brk/internal/breakpoint"
	"github.com/tombee/brk/internal/commands/shared"
)

const storeTimeout = 500 * time.Millisecond

// openStore is replaced in tests.
var openStore = func() (breakpoint.Store, func() error, error) {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return shared.OpenStore(cfg)
}

// CompleteBreakpointIDs completes the ID argument of the brk management
// options from the configured store. Each completion carries the
// breakpoint's location as its description.
func CompleteBreakpointIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		store, closeStore, err := openStore()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		defer func() { _ = closeStore() }()

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		bps, err := store.List(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return breakpointCompletions(bps, toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

func breakpointCompletions(bps []*breakpoint.Breakpoint, prefix string) []string {
	completions := make([]string, 0, len(bps))
	for _, bp := range bps {
		id := strconv.Itoa(bp.ID)
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		desc := bp.Location()
		if !bp.Enabled {
			desc += " (disabled)"
		}
		completions = append(completions, fmt.Sprintf("%s\t%s", id, desc))
	}
	return completions
}

// RegisterBreakpointFlags attaches CompleteBreakpointIDs to every option
// of cmd that takes a breakpoint ID.
func RegisterBreakpointFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, CompleteBreakpointIDs)
	}
}
