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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tombee/brk/pkg/errors"
)

func intPtr(n int) *int { return &n }

func TestDispatch(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		args  []string
		want  Intent
	}{
		{
			name:  "delete ignores positional args",
			flags: Flags{Delete: intPtr(5)},
			args:  []string{"ignored"},
			want:  Intent{Kind: IntentDelete, ID: 5},
		},
		{
			name:  "condition without args removes it",
			flags: Flags{Condition: intPtr(3)},
			want:  Intent{Kind: IntentChangeCondition, ID: 3},
		},
		{
			name:  "show",
			flags: Flags{Show: intPtr(2)},
			want:  Intent{Kind: IntentShow, ID: 2},
		},
		{
			name:  "enable",
			flags: Flags{Enable: intPtr(7)},
			args:  []string{"x"},
			want:  Intent{Kind: IntentEnable, ID: 7},
		},
		{
			name:  "disable",
			flags: Flags{Disable: intPtr(1)},
			want:  Intent{Kind: IntentDisable, ID: 1},
		},
		{
			name:  "disable all",
			flags: Flags{DisableAll: true},
			args:  []string{"Foo#bar"},
			want:  Intent{Kind: IntentDisableAll},
		},
		{
			name:  "delete all",
			flags: Flags{DeleteAll: true},
			want:  Intent{Kind: IntentDeleteAll},
		},
		{
			name: "args without flags create",
			args: []string{"Foo#bar", "if", "baz?"},
			want: Intent{Kind: IntentCreate, Args: []string{"Foo#bar", "if", "baz?"}},
		},
		{
			name: "nothing lists",
			want: Intent{Kind: IntentList},
		},
		{
			name:  "condition wins over later options",
			flags: Flags{Condition: intPtr(1), Delete: intPtr(2), DeleteAll: true},
			want:  Intent{Kind: IntentChangeCondition, ID: 1},
		},
		{
			name:  "show wins over delete",
			flags: Flags{Show: intPtr(4), Delete: intPtr(2)},
			want:  Intent{Kind: IntentShow, ID: 4},
		},
		{
			name:  "disable-all wins over delete-all",
			flags: Flags{DisableAll: true, DeleteAll: true},
			want:  Intent{Kind: IntentDisableAll},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dispatch(tt.flags, tt.args))
		})
	}
}

func TestDispatch_ConditionJoinsArgs(t *testing.T) {
	intent := Dispatch(Flags{Condition: intPtr(3)}, []string{"x", ">", "2"})

	assert.Equal(t, IntentChangeCondition, intent.Kind)
	assert.Equal(t, 3, intent.ID)
	require.NotNil(t, intent.Condition)
	assert.Equal(t, "x > 2", *intent.Condition)
}

func TestIntent_RelistsAfter(t *testing.T) {
	relist := map[IntentKind]bool{
		IntentCreate:          false,
		IntentList:            false,
		IntentShow:            false,
		IntentChangeCondition: false,
		IntentDelete:          true,
		IntentEnable:          true,
		IntentDisable:         true,
		IntentDisableAll:      true,
		IntentDeleteAll:       true,
	}
	for kind, want := range relist {
		assert.Equal(t, want, Intent{Kind: kind}.RelistsAfter(), kind)
	}
}

func TestParseFlags(t *testing.T) {
	t.Run("long options", func(t *testing.T) {
		flags, args, err := ParseFlags([]string{"--delete", "5", "ignored"})
		require.NoError(t, err)
		require.NotNil(t, flags.Delete)
		assert.Equal(t, 5, *flags.Delete)
		assert.Equal(t, []string{"ignored"}, args)
	})

	t.Run("short options", func(t *testing.T) {
		cases := map[string]func(Flags) *int{
			"-c": func(f Flags) *int { return f.Condition },
			"-s": func(f Flags) *int { return f.Show },
			"-D": func(f Flags) *int { return f.Delete },
			"-d": func(f Flags) *int { return f.Disable },
			"-e": func(f Flags) *int { return f.Enable },
		}
		for opt, get := range cases {
			flags, _, err := ParseFlags([]string{opt, "9"})
			require.NoError(t, err, opt)
			require.NotNil(t, get(flags), opt)
			assert.Equal(t, 9, *get(flags), opt)
		}
	})

	t.Run("equals form", func(t *testing.T) {
		flags, _, err := ParseFlags([]string{"--show=2"})
		require.NoError(t, err)
		require.NotNil(t, flags.Show)
		assert.Equal(t, 2, *flags.Show)
	})

	t.Run("boolean options", func(t *testing.T) {
		flags, args, err := ParseFlags([]string{"--disable-all"})
		require.NoError(t, err)
		assert.True(t, flags.DisableAll)
		assert.Empty(t, args)

		flags, _, err = ParseFlags([]string{"--delete-all"})
		require.NoError(t, err)
		assert.True(t, flags.DeleteAll)

		flags, _, err = ParseFlags([]string{"-h"})
		require.NoError(t, err)
		assert.True(t, flags.Help)
	})

	t.Run("condition text is not parsed as options", func(t *testing.T) {
		flags, args, err := ParseFlags([]string{"-c", "4", "x", ">", "-1"})
		require.NoError(t, err)
		require.NotNil(t, flags.Condition)
		assert.Equal(t, []string{"x", ">", "-1"}, args)

		flags, args, err = ParseFlags([]string{"Foo#bar", "if", "n", "==", "-d"})
		require.NoError(t, err)
		assert.Nil(t, flags.Disable)
		assert.Equal(t, []string{"Foo#bar", "if", "n", "==", "-d"}, args)
	})

	t.Run("no options", func(t *testing.T) {
		flags, args, err := ParseFlags(nil)
		require.NoError(t, err)
		assert.Equal(t, Flags{}, flags)
		assert.Empty(t, args)
	})
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"non-numeric id", []string{"--delete", "abc"}},
		{"zero id", []string{"--show", "0"}},
		{"negative id", []string{"--enable=-3"}},
		{"missing id", []string{"--disable"}},
		{"unknown option", []string{"--frobnicate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseFlags(tt.args)
			var valErr *pkgerrors.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.NotEmpty(t, valErr.Suggestion)
		})
	}
}
