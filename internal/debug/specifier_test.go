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

func pausedFrame() *FrameState {
	return &FrameState{File: "/src/app/models/user.rb", Line: 10, Class: "Baz"}
}

func TestRequireFileContext(t *testing.T) {
	assert.NoError(t, RequireFileContext(pausedFrame(), ""))

	err := RequireFileContext(&FrameState{}, "")
	var ctxErr *pkgerrors.ContextError
	require.ErrorAs(t, err, &ctxErr)
	assert.Equal(t, pkgerrors.DefaultContextMessage, ctxErr.Message)

	err = RequireFileContext(nil, "custom")
	require.ErrorAs(t, err, &ctxErr)
	assert.Equal(t, "custom", ctxErr.Message)

	var typedNil *FrameState
	assert.Error(t, RequireFileContext(typedNil, ""))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		input string
		frame Frame
		want  Specifier
	}{
		{
			name:  "bare line",
			input: "14",
			frame: pausedFrame(),
			want:  Specifier{Kind: SpecLine, Line: 14},
		},
		{
			name:  "file and line with context",
			input: "app/models/user.rb:15",
			frame: pausedFrame(),
			want:  Specifier{Kind: SpecFileLine, File: "app/models/user.rb", Line: 15},
		},
		{
			name:  "file and line without context",
			input: "lib/a.rb:3",
			frame: nil,
			want:  Specifier{Kind: SpecFileLine, File: "lib/a.rb", Line: 3},
		},
		{
			name:  "numeric file name",
			input: "12:34",
			frame: nil,
			want:  Specifier{Kind: SpecFileLine, File: "12", Line: 34},
		},
		{
			name:  "instance method",
			input: "Foo#bar",
			frame: nil,
			want:  Specifier{Kind: SpecMethod, Method: "Foo#bar"},
		},
		{
			name:  "class method",
			input: "Foo.bar",
			frame: nil,
			want:  Specifier{Kind: SpecMethod, Method: "Foo.bar"},
		},
		{
			name:  "namespaced method",
			input: "Foo::Bar#baz?",
			frame: nil,
			want:  Specifier{Kind: SpecMethod, Method: "Foo::Bar#baz?"},
		},
		{
			name:  "bare instance method is qualified",
			input: "#bar",
			frame: pausedFrame(),
			want:  Specifier{Kind: SpecMethod, Method: "Baz#bar"},
		},
		{
			name:  "bare class method is qualified",
			input: ".create",
			frame: pausedFrame(),
			want:  Specifier{Kind: SpecMethod, Method: "Baz.create"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.input, tt.frame)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_DigitsAlwaysLineInCurrentFile(t *testing.T) {
	for _, s := range []string{"0", "1", "7", "42", "0012", "99999"} {
		got, err := Resolve(s, pausedFrame())
		require.NoError(t, err, s)
		assert.Equal(t, SpecLine, got.Kind)

		_, err = Resolve(s, &FrameState{})
		var ctxErr *pkgerrors.ContextError
		require.ErrorAs(t, err, &ctxErr, s)
		assert.Equal(t, lineContextMessage, ctxErr.Message)
	}
}

func TestResolve_BareMethodNeedsContext(t *testing.T) {
	_, err := Resolve("#bar", nil)

	var ctxErr *pkgerrors.ContextError
	require.ErrorAs(t, err, &ctxErr)
	assert.Equal(t, methodContextMessage, ctxErr.Message)
}

func TestResolve_Unrecognized(t *testing.T) {
	for _, s := range []string{"???", "foo", "Foo#", ":12", "file:", ""} {
		_, err := Resolve(s, pausedFrame())
		var resolveErr *pkgerrors.ResolveError
		require.ErrorAs(t, err, &resolveErr, s)
		assert.Equal(t, s, resolveErr.Target)
	}
}

func TestResolve_LineOverflow(t *testing.T) {
	_, err := Resolve("99999999999999999999999", pausedFrame())
	var resolveErr *pkgerrors.ResolveError
	assert.ErrorAs(t, err, &resolveErr)
}

func TestParseCondition(t *testing.T) {
	assert.Nil(t, ParseCondition(nil))
	assert.Nil(t, ParseCondition([]string{"baz?"}))
	assert.Nil(t, ParseCondition([]string{"IF", "x"}))

	cond := ParseCondition([]string{"if", "x", ">", "2"})
	require.NotNil(t, cond)
	assert.Equal(t, "x > 2", *cond)

	// A bare "if" is an empty condition, not a missing one.
	empty := ParseCondition([]string{"if"})
	require.NotNil(t, empty)
	assert.Equal(t, "", *empty)
}

func TestResolveArgs(t *testing.T) {
	spec, err := ResolveArgs([]string{"Foo#bar", "if", "baz?"}, nil)
	require.NoError(t, err)
	assert.Equal(t, SpecMethod, spec.Kind)
	require.NotNil(t, spec.Condition)
	assert.Equal(t, "baz?", *spec.Condition)

	spec, err = ResolveArgs([]string{"Foo#bar"}, nil)
	require.NoError(t, err)
	assert.Nil(t, spec.Condition)

	_, err = ResolveArgs(nil, nil)
	assert.Error(t, err)
}
