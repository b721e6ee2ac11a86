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

package replay

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ConditionEvaluator evaluates breakpoint conditions against frame
// variables. Compiled programs are cached by source text.
type ConditionEvaluator struct {
	cache map[string]*vm.Program
	mu    sync.RWMutex
}

// NewConditionEvaluator creates an evaluator with an empty cache.
func NewConditionEvaluator() *ConditionEvaluator {
	return &ConditionEvaluator{cache: make(map[string]*vm.Program)}
}

// Evaluate reports whether condition holds for vars. An empty condition
// always holds. Non-boolean results are errors.
func (e *ConditionEvaluator) Evaluate(condition string, vars map[string]interface{}) (bool, error) {
	if condition == "" {
		return true, nil
	}

	program, err := e.compile(condition)
	if err != nil {
		return false, fmt.Errorf("failed to compile condition: %w", err)
	}

	env := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		env[k] = v
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("condition evaluation failed: %w", err)
	}

	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition must return boolean, got %T (%v)", result, result)
	}
	return b, nil
}

func (e *ConditionEvaluator) compile(condition string) (*vm.Program, error) {
	e.mu.RLock()
	if prog, ok := e.cache[condition]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	prog, err := expr.Compile(condition, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[condition] = prog
	e.mu.Unlock()
	return prog, nil
}
