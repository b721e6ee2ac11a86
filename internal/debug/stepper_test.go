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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tombee/brk/pkg/errors"
)

func TestParseStepCount(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default", args: nil, want: 1},
		{name: "explicit", args: []string{"4"}, want: 4},
		{name: "extra args ignored", args: []string{"2", "junk"}, want: 2},
		{name: "non-numeric", args: []string{"abc"}, wantErr: true},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "negative", args: []string{"-1"}, wantErr: true},
		{name: "fractional", args: []string{"1.5"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseStepCount(tt.args)
			if tt.wantErr {
				var stepErr *pkgerrors.StepError
				require.ErrorAs(t, err, &stepErr)
				assert.Equal(t, tt.args[0], stepErr.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Count)
		})
	}
}

type recordingStepper struct {
	requests []StepRequest
	err      error
}

func (r *recordingStepper) RequestStep(_ context.Context, req StepRequest) error {
	r.requests = append(r.requests, req)
	return r.err
}

func TestNextCommand_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards count", func(t *testing.T) {
		stepper := &recordingStepper{}
		err := NewNextCommand(stepper, nil).Run(ctx, pausedFrame(), []string{"3"})
		require.NoError(t, err)
		assert.Equal(t, []StepRequest{{Count: 3}}, stepper.requests)
	})

	t.Run("defaults to one line", func(t *testing.T) {
		stepper := &recordingStepper{}
		require.NoError(t, NewNextCommand(stepper, nil).Run(ctx, pausedFrame(), nil))
		assert.Equal(t, []StepRequest{{Count: 1}}, stepper.requests)
	})

	t.Run("requires a file context", func(t *testing.T) {
		stepper := &recordingStepper{}
		err := NewNextCommand(stepper, nil).Run(ctx, &FrameState{}, []string{"3"})

		var ctxErr *pkgerrors.ContextError
		require.ErrorAs(t, err, &ctxErr)
		assert.Empty(t, stepper.requests)
	})

	t.Run("guard runs before count validation", func(t *testing.T) {
		err := NewNextCommand(&recordingStepper{}, nil).Run(ctx, nil, []string{"abc"})
		var ctxErr *pkgerrors.ContextError
		assert.ErrorAs(t, err, &ctxErr)
	})

	t.Run("invalid count never reaches the engine", func(t *testing.T) {
		stepper := &recordingStepper{}
		err := NewNextCommand(stepper, nil).Run(ctx, pausedFrame(), []string{"0"})

		var stepErr *pkgerrors.StepError
		require.ErrorAs(t, err, &stepErr)
		assert.Empty(t, stepper.requests)
	})

	t.Run("engine error is returned", func(t *testing.T) {
		boom := errors.New("engine gone")
		err := NewNextCommand(&recordingStepper{err: boom}, nil).Run(ctx, pausedFrame(), nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("stepper func", func(t *testing.T) {
		var got StepRequest
		fn := StepperFunc(func(_ context.Context, req StepRequest) error {
			got = req
			return nil
		})
		require.NoError(t, NewNextCommand(fn, nil).Run(ctx, pausedFrame(), []string{"7"}))
		assert.Equal(t, 7, got.Count)
	})
}
