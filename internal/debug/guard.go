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
	pkgerrors "github.com/tombee/brk/pkg/errors"
)

// Frame is the paused execution scope commands are evaluated against.
type Frame interface {
	// CurrentFile returns the source file of the paused frame. ok is false
	// when the debugger is not paused inside a real file.
	CurrentFile() (file string, ok bool)

	// CurrentClassName returns the runtime class name of self. It is only
	// called when a bare method name needs qualifying.
	CurrentClassName() string
}

// RequireFileContext returns a *errors.ContextError carrying msg (or the
// default message) when frame has no current file.
func RequireFileContext(frame Frame, msg string) error {
	if frame == nil {
		return pkgerrors.NewContextError(msg)
	}
	if _, ok := frame.CurrentFile(); !ok {
		return pkgerrors.NewContextError(msg)
	}
	return nil
}

// FrameState is a snapshot of a paused frame.
type FrameState struct {
	File   string
	Line   int
	Class  string
	Method string
	Depth  int
	Vars   map[string]interface{}
}

// CurrentFile implements Frame.
func (f *FrameState) CurrentFile() (string, bool) {
	if f == nil || f.File == "" {
		return "", false
	}
	return f.File, true
}

// CurrentClassName implements Frame.
func (f *FrameState) CurrentClassName() string {
	if f == nil {
		return ""
	}
	return f.Class
}
