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
	"regexp"
	"strconv"
	"strings"

	pkgerrors "github.com/tombee/brk/pkg/errors"
)

// SpecifierKind tags which form a breakpoint target was written in.
type SpecifierKind string

const (
	// SpecLine is a bare line number in the current file, e.g. "14".
	SpecLine SpecifierKind = "line"

	// SpecFileLine is an explicit file and line, e.g. "app/models/user.rb:15".
	SpecFileLine SpecifierKind = "file_line"

	// SpecMethod is a class or instance method, e.g. "Foo#bar" or "Foo.bar".
	SpecMethod SpecifierKind = "method"
)

// Error messages for targets that need a paused frame.
const (
	lineContextMessage   = "Line number declaration valid only in a file context."
	methodContextMessage = "Method name declaration valid only in a file context."
)

var (
	lineTarget     = regexp.MustCompile(`^(\d+)$`)
	fileLineTarget = regexp.MustCompile(`^(.+):(\d+)$`)
	methodTarget   = regexp.MustCompile(`^(.*)[.#].+$`)
)

// Specifier is a resolved breakpoint target.
type Specifier struct {
	Kind SpecifierKind

	// File is set for SpecFileLine only. SpecLine refers to the frame's file.
	File string

	// Line is set for SpecLine and SpecFileLine.
	Line int

	// Method is the qualified name for SpecMethod.
	Method string

	// Condition is nil when no "if" clause was given. A bare "if" yields a
	// pointer to the empty string.
	Condition *string
}

// Resolve classifies target. Forms are tried in order: LINE, FILE:LINE,
// then Class#method / Class.method. A method target with nothing before the
// separator is qualified with the frame's class name.
func Resolve(target string, frame Frame) (Specifier, error) {
	if m := lineTarget.FindStringSubmatch(target); m != nil {
		if err := RequireFileContext(frame, lineContextMessage); err != nil {
			return Specifier{}, err
		}
		line, err := strconv.Atoi(m[1])
		if err != nil {
			return Specifier{}, &pkgerrors.ResolveError{Target: target}
		}
		return Specifier{Kind: SpecLine, Line: line}, nil
	}

	if m := fileLineTarget.FindStringSubmatch(target); m != nil {
		line, err := strconv.Atoi(m[2])
		if err != nil {
			return Specifier{}, &pkgerrors.ResolveError{Target: target}
		}
		return Specifier{Kind: SpecFileLine, File: m[1], Line: line}, nil
	}

	if m := methodTarget.FindStringSubmatch(target); m != nil {
		method := target
		if strings.TrimSpace(m[1]) == "" {
			if err := RequireFileContext(frame, methodContextMessage); err != nil {
				return Specifier{}, err
			}
			method = frame.CurrentClassName() + target[len(m[1]):]
		}
		return Specifier{Kind: SpecMethod, Method: method}, nil
	}

	return Specifier{}, &pkgerrors.ResolveError{Target: target}
}

// ParseCondition returns the condition carried by the tokens following a
// target: everything after a leading "if", joined by single spaces. Tokens
// not introduced by "if" carry no condition.
func ParseCondition(tokens []string) *string {
	if len(tokens) == 0 || tokens[0] != "if" {
		return nil
	}
	cond := strings.Join(tokens[1:], " ")
	return &cond
}

// ResolveArgs resolves "TARGET [if CONDITION]" given as tokens.
func ResolveArgs(args []string, frame Frame) (Specifier, error) {
	if len(args) == 0 {
		return Specifier{}, &pkgerrors.ResolveError{Target: ""}
	}

	spec, err := Resolve(args[0], frame)
	if err != nil {
		return Specifier{}, err
	}
	spec.Condition = ParseCondition(args[1:])
	return spec, nil
}
