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

// Package replay provides a debugging engine that replays a recorded
// execution trace. It lets the debugger front-end be driven end to end
// without a live runtime.
package replay

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tombee/brk/internal/debug"
)

// Frame is one executed line in a trace.
type Frame struct {
	File   string                 `yaml:"file"`
	Line   int                    `yaml:"line"`
	Class  string                 `yaml:"class,omitempty"`
	Method string                 `yaml:"method,omitempty"`
	Depth  int                    `yaml:"depth,omitempty"`
	Vars   map[string]interface{} `yaml:"vars,omitempty"`

	// call is true on the first line executed after entering a method.
	call bool
}

// State returns the frame as seen by debugger commands.
func (f *Frame) State() *debug.FrameState {
	return &debug.FrameState{
		File:   f.File,
		Line:   f.Line,
		Class:  f.Class,
		Method: f.Method,
		Depth:  f.Depth,
		Vars:   f.Vars,
	}
}

// Trace is an ordered list of executed lines.
type Trace struct {
	Name   string   `yaml:"name,omitempty"`
	Frames []*Frame `yaml:"frames"`
}

// LoadTrace reads a YAML trace. Relative frame files are resolved against
// the trace file's directory.
func LoadTrace(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	trace, err := ParseTrace(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	for _, f := range trace.Frames {
		if !filepath.IsAbs(f.File) {
			f.File = filepath.Join(base, f.File)
		}
	}
	return trace, nil
}

// ParseTrace decodes and validates a YAML trace.
func ParseTrace(data []byte) (*Trace, error) {
	var trace Trace
	if err := yaml.Unmarshal(data, &trace); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, f := range trace.Frames {
		if f == nil || f.File == "" {
			return nil, fmt.Errorf("frame %d: file is required", i)
		}
		if f.Line <= 0 {
			return nil, fmt.Errorf("frame %d: line must be positive", i)
		}
		f.call = i == 0 || f.Depth > trace.Frames[i-1].Depth
	}
	return &trace, nil
}
