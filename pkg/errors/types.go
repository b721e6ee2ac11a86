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

package errors

import (
	"fmt"
)

// DefaultContextMessage is reported when a command needs a paused frame
// but none is available.
const DefaultContextMessage = "Cannot find local context. Is the debugger paused in a frame?"

// ContextError reports that a command needs a current source file
// (a paused frame) and the debugger has none.
type ContextError struct {
	// Message is the human-readable reason, never empty once constructed
	// through NewContextError.
	Message string
}

// NewContextError returns a ContextError carrying msg, or the default
// message when msg is empty.
func NewContextError(msg string) *ContextError {
	if msg == "" {
		msg = DefaultContextMessage
	}
	return &ContextError{Message: msg}
}

// Error implements the error interface.
func (e *ContextError) Error() string {
	return e.Message
}

// IsUserVisible implements UserVisibleError.
func (e *ContextError) IsUserVisible() bool { return true }

// UserMessage implements UserVisibleError.
func (e *ContextError) UserMessage() string { return e.Message }

// Suggestion implements UserVisibleError.
func (e *ContextError) Suggestion() string {
	return "Use FILE:LINE or Class#method to name the location explicitly"
}

// ErrorType implements ErrorClassifier.
func (e *ContextError) ErrorType() string { return "context" }

// IsRetryable implements ErrorClassifier.
func (e *ContextError) IsRetryable() bool { return false }

// ResolveError reports a breakpoint target that matches none of the
// recognised forms (LINE, FILE:LINE, Class#method, Class.method).
type ResolveError struct {
	// Target is the raw text the user typed.
	Target string
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("cannot identify %q as a breakpoint location", e.Target)
}

// IsUserVisible implements UserVisibleError.
func (e *ResolveError) IsUserVisible() bool { return true }

// UserMessage implements UserVisibleError.
func (e *ResolveError) UserMessage() string { return e.Error() }

// Suggestion implements UserVisibleError.
func (e *ResolveError) Suggestion() string {
	return "Expected LINE, FILE:LINE, Class#method or Class.method"
}

// ErrorType implements ErrorClassifier.
func (e *ResolveError) ErrorType() string { return "resolve" }

// IsRetryable implements ErrorClassifier.
func (e *ResolveError) IsRetryable() bool { return false }

// StepError reports an invalid line count passed to a stepping command.
type StepError struct {
	// Input is the raw count argument.
	Input string
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("invalid step count %q: must be a positive integer", e.Input)
}

// IsUserVisible implements UserVisibleError.
func (e *StepError) IsUserVisible() bool { return true }

// UserMessage implements UserVisibleError.
func (e *StepError) UserMessage() string { return e.Error() }

// Suggestion implements UserVisibleError.
func (e *StepError) Suggestion() string { return "" }

// ErrorType implements ErrorClassifier.
func (e *StepError) ErrorType() string { return "step" }

// IsRetryable implements ErrorClassifier.
func (e *StepError) IsRetryable() bool { return false }

// ValidationError represents user input validation failures.
// Use this for invalid user input, malformed data, or constraint violations.
type ValidationError struct {
	// Field identifies which input field failed validation
	Field string

	// Message is the human-readable error description
	Message string

	// Suggestion provides actionable guidance for fixing the error
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError represents a resource not found error.
// Use this when a requested resource does not exist.
type NotFoundError struct {
	// Resource is the type of resource (e.g., "breakpoint")
	Resource string

	// ID is the identifier that was not found
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConfigError represents configuration problems.
// Use this for configuration file errors, missing settings, or invalid config values.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "store.backend")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
