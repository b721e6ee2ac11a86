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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	pkgerrors "github.com/tombee/brk/pkg/errors"
)

// IntentKind is the breakpoint-management action a brk invocation asks for.
type IntentKind string

const (
	IntentCreate          IntentKind = "create"
	IntentList            IntentKind = "list"
	IntentShow            IntentKind = "show"
	IntentDelete          IntentKind = "delete"
	IntentEnable          IntentKind = "enable"
	IntentDisable         IntentKind = "disable"
	IntentChangeCondition IntentKind = "condition"
	IntentDisableAll      IntentKind = "disable-all"
	IntentDeleteAll       IntentKind = "delete-all"
)

// Intent is the single action derived from one brk invocation.
type Intent struct {
	Kind IntentKind

	// ID is the breakpoint the action targets, for ID-based kinds.
	ID int

	// Condition is the new condition for IntentChangeCondition; nil removes it.
	Condition *string

	// Args are the "TARGET [if CONDITION]" tokens for IntentCreate.
	Args []string
}

// RelistsAfter reports whether a successful action is followed by listing
// every breakpoint.
func (i Intent) RelistsAfter() bool {
	switch i.Kind {
	case IntentDelete, IntentEnable, IntentDisable, IntentDisableAll, IntentDeleteAll:
		return true
	}
	return false
}

// Flags holds the brk options. ID-valued options are nil when absent.
type Flags struct {
	Condition  *int
	Show       *int
	Delete     *int
	Disable    *int
	Enable     *int
	DisableAll bool
	DeleteAll  bool
	Help       bool
}

// flagRule maps one option to the intent it produces.
type flagRule struct {
	name    string
	present func(Flags) bool
	intent  func(Flags, []string) Intent
}

// flagRules is scanned in declaration order and the first present option
// wins. The CLI layer normally allows only one.
var flagRules = []flagRule{
	{
		name:    "condition",
		present: func(f Flags) bool { return f.Condition != nil },
		intent: func(f Flags, args []string) Intent {
			var expr *string
			if len(args) > 0 {
				joined := strings.Join(args, " ")
				expr = &joined
			}
			return Intent{Kind: IntentChangeCondition, ID: *f.Condition, Condition: expr}
		},
	},
	{
		name:    "show",
		present: func(f Flags) bool { return f.Show != nil },
		intent:  func(f Flags, _ []string) Intent { return Intent{Kind: IntentShow, ID: *f.Show} },
	},
	{
		name:    "delete",
		present: func(f Flags) bool { return f.Delete != nil },
		intent:  func(f Flags, _ []string) Intent { return Intent{Kind: IntentDelete, ID: *f.Delete} },
	},
	{
		name:    "disable",
		present: func(f Flags) bool { return f.Disable != nil },
		intent:  func(f Flags, _ []string) Intent { return Intent{Kind: IntentDisable, ID: *f.Disable} },
	},
	{
		name:    "enable",
		present: func(f Flags) bool { return f.Enable != nil },
		intent:  func(f Flags, _ []string) Intent { return Intent{Kind: IntentEnable, ID: *f.Enable} },
	},
	{
		name:    "disable-all",
		present: func(f Flags) bool { return f.DisableAll },
		intent:  func(Flags, []string) Intent { return Intent{Kind: IntentDisableAll} },
	},
	{
		name:    "delete-all",
		present: func(f Flags) bool { return f.DeleteAll },
		intent:  func(Flags, []string) Intent { return Intent{Kind: IntentDeleteAll} },
	},
}

// Dispatch selects exactly one intent. Positional args are ignored when an
// option is present, except by --condition which takes them as the new
// expression.
func Dispatch(flags Flags, args []string) Intent {
	for _, rule := range flagRules {
		if rule.present(flags) {
			return rule.intent(flags, args)
		}
	}
	if len(args) > 0 {
		return Intent{Kind: IntentCreate, Args: args}
	}
	return Intent{Kind: IntentList}
}

// NewBreakFlagSet returns the option set of the brk command bound to f.
// Parsing stops at the first positional argument so condition text such as
// "x > -1" is never read as options.
func NewBreakFlagSet(f *Flags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("brk", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)

	fs.VarP(&idValue{dst: &f.Condition}, "condition", "c", "Change condition of a breakpoint.")
	fs.VarP(&idValue{dst: &f.Show}, "show", "s", "Show breakpoint details and source.")
	fs.VarP(&idValue{dst: &f.Delete}, "delete", "D", "Delete a breakpoint.")
	fs.VarP(&idValue{dst: &f.Disable}, "disable", "d", "Disable a breakpoint.")
	fs.VarP(&idValue{dst: &f.Enable}, "enable", "e", "Enable a disabled breakpoint.")
	fs.BoolVar(&f.DisableAll, "disable-all", false, "Disable all breakpoints.")
	fs.BoolVar(&f.DeleteAll, "delete-all", false, "Delete all breakpoints.")
	fs.BoolVarP(&f.Help, "help", "h", false, "Show this message.")
	return fs
}

// ParseFlags splits a tokenized brk command line into options and
// positional arguments.
func ParseFlags(args []string) (Flags, []string, error) {
	var f Flags
	fs := NewBreakFlagSet(&f)
	if err := fs.Parse(args); err != nil {
		return Flags{}, nil, &pkgerrors.ValidationError{
			Message:    err.Error(),
			Suggestion: "Run 'brk --help' for usage",
		}
	}
	return f, fs.Args(), nil
}

// idValue is a pflag.Value for a positive breakpoint ID that records
// presence by allocating the destination.
type idValue struct {
	dst **int
}

func (v *idValue) String() string {
	if v.dst == nil || *v.dst == nil {
		return ""
	}
	return strconv.Itoa(**v.dst)
}

func (v *idValue) Set(s string) error {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return fmt.Errorf("breakpoint ID must be a positive integer, got %q", s)
	}
	*v.dst = &id
	return nil
}

func (v *idValue) Type() string { return "N" }
