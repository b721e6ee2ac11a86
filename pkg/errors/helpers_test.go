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

package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	brkerrors "github.com/tombee/brk/pkg/errors"
)

func TestWrap(t *testing.T) {
	original := errors.New("boom")

	wrapped := brkerrors.Wrap(original, "deleting breakpoint")
	require.Error(t, wrapped)
	assert.Equal(t, "deleting breakpoint: boom", wrapped.Error())
	assert.True(t, brkerrors.Is(wrapped, original))

	assert.NoError(t, brkerrors.Wrap(nil, "context"))
}

func TestWrapf(t *testing.T) {
	original := errors.New("boom")

	wrapped := brkerrors.Wrapf(original, "loading trace %s", "trace.yaml")
	assert.Equal(t, "loading trace trace.yaml: boom", wrapped.Error())
	assert.NoError(t, brkerrors.Wrapf(nil, "loading trace %s", "trace.yaml"))
}

func TestAs(t *testing.T) {
	wrapped := brkerrors.Wrap(&brkerrors.ResolveError{Target: "x"}, "brk")

	var target *brkerrors.ResolveError
	require.True(t, brkerrors.As(wrapped, &target))
	assert.Equal(t, "x", target.Target)

	var other *brkerrors.StepError
	assert.False(t, brkerrors.As(wrapped, &other))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, brkerrors.IsNotFound(brkerrors.Wrap(brkerrors.NewBreakpointNotFound(3), "show")))
	assert.False(t, brkerrors.IsNotFound(errors.New("other")))
	assert.False(t, brkerrors.IsNotFound(nil))
}

func TestSuggestionFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "context error through wrapping",
			err:  brkerrors.Wrap(brkerrors.NewContextError(""), "brk"),
			want: "Use FILE:LINE or Class#method to name the location explicitly",
		},
		{
			name: "step error has no suggestion",
			err:  &brkerrors.StepError{Input: "0"},
			want: "",
		},
		{
			name: "plain error",
			err:  errors.New("plain"),
			want: "",
		},
		{
			name: "nil",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, brkerrors.SuggestionFor(tt.err))
		})
	}
}
