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

	pkgerrors "github.com/tombee/brk/pkg/errors"
)

// Error codes for structured JSON output
const (
	// Input errors (E001-E099)
	ErrorCodeInvalidInput  = "E001" // Invalid option or value
	ErrorCodeUnrecognized  = "E002" // Target matches no breakpoint form
	ErrorCodeInvalidCount  = "E003" // Step count not a positive integer
	ErrorCodeNoFileContext = "E004" // No current file for LINE or #method

	// Configuration errors (E200-E299)
	ErrorCodeInvalidConfig = "E201" // Invalid config file or value

	// Resource errors (E400-E499)
	ErrorCodeNotFound = "E401" // Breakpoint not found
	ErrorCodeInternal = "E402" // Internal error
)

// ErrorCodeFor maps an error to its JSON error code
func ErrorCodeFor(err error) string {
	var (
		ctxErr     *pkgerrors.ContextError
		resolveErr *pkgerrors.ResolveError
		stepErr    *pkgerrors.StepError
		valErr     *pkgerrors.ValidationError
		cfgErr     *pkgerrors.ConfigError
		exitErr    *ExitError
	)

	switch {
	case errors.As(err, &ctxErr):
		return ErrorCodeNoFileContext
	case errors.As(err, &resolveErr):
		return ErrorCodeUnrecognized
	case errors.As(err, &stepErr):
		return ErrorCodeInvalidCount
	case errors.As(err, &valErr):
		return ErrorCodeInvalidInput
	case pkgerrors.IsNotFound(err):
		return ErrorCodeNotFound
	case errors.As(err, &cfgErr):
		return ErrorCodeInvalidConfig
	case errors.As(err, &exitErr) && exitErr.Code == ExitConfig:
		return ErrorCodeInvalidConfig
	}
	return ErrorCodeInternal
}
