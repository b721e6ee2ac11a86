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

package shared

import (
	"errors"
	"fmt"
	"io"
	"os"

	pkgerrors "github.com/tombee/brk/pkg/errors"
)

// Exit codes for brk commands
const (
	ExitSuccess   = 0
	ExitFailed    = 1
	ExitUsage     = 2  // Bad options, unrecognized target or step count
	ExitNoContext = 3  // Command needs a file context that was not given
	ExitNotFound  = 4  // Unknown breakpoint ID
	ExitConfig    = 78 // Configuration error (EX_CONFIG from sysexits.h)
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates an error for unusable configuration or stores
func NewConfigError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitConfig,
		Message: msg,
		Cause:   cause,
	}
}

// NewExecutionError creates an error for failures outside the user's input
func NewExecutionError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitFailed,
		Message: msg,
		Cause:   cause,
	}
}

// ExitCodeFor maps an error to the process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var (
		ctxErr     *pkgerrors.ContextError
		resolveErr *pkgerrors.ResolveError
		stepErr    *pkgerrors.StepError
		valErr     *pkgerrors.ValidationError
		cfgErr     *pkgerrors.ConfigError
	)
	switch {
	case errors.As(err, &ctxErr):
		return ExitNoContext
	case errors.As(err, &resolveErr), errors.As(err, &stepErr), errors.As(err, &valErr):
		return ExitUsage
	case pkgerrors.IsNotFound(err):
		return ExitNotFound
	case errors.As(err, &cfgErr):
		return ExitConfig
	}
	return ExitFailed
}

// HandleExitError prints err with its suggestion and exits with the
// appropriate code
func HandleExitError(err error) {
	if err == nil {
		return
	}
	os.Exit(reportError(os.Stderr, err))
}

// reportError writes err to w and returns the exit code to use.
func reportError(w io.Writer, err error) int {
	if GetJSON() {
		_ = EmitJSONError(w, "brk", []JSONError{{
			Code:       ErrorCodeFor(err),
			Message:    err.Error(),
			Suggestion: pkgerrors.SuggestionFor(err),
		}})
		return ExitCodeFor(err)
	}

	fmt.Fprintln(w, "Error:", err.Error())
	if suggestion := pkgerrors.SuggestionFor(err); suggestion != "" {
		fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
	}
	return ExitCodeFor(err)
}
