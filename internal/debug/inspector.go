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
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/itchyny/gojq"
)

// Inspector provides utilities for inspecting the variables of a frame.
type Inspector struct {
	vars map[string]interface{}
}

// NewInspector creates a new inspector for the given variables.
func NewInspector(vars map[string]interface{}) *Inspector {
	if vars == nil {
		vars = map[string]interface{}{}
	}
	return &Inspector{vars: vars}
}

// DefaultQueryTimeout bounds a single inspect expression.
const DefaultQueryTimeout = 1 * time.Second

// Query evaluates a jq expression against the variables. A bare name such
// as "user" is treated as ".user".
func (i *Inspector) Query(ctx context.Context, expression string) ([]interface{}, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("empty expression")
	}
	if isIdentifier(expression) {
		expression = "." + expression
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compile error: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var results []interface{}
	iter := code.RunWithContext(execCtx, i.vars)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

func isIdentifier(s string) bool {
	for idx, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case idx > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Keys returns the variable names, sorted.
func (i *Inspector) Keys() []string {
	keys := make([]string, 0, len(i.vars))
	for k := range i.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Format formats a value for display.
func (i *Inspector) Format(value interface{}) (string, error) {
	bytes, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format value: %w", err)
	}
	return string(bytes), nil
}

// FormatAll formats every variable for display.
func (i *Inspector) FormatAll() (string, error) {
	return i.Format(i.vars)
}
