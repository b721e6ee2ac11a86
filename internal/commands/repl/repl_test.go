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

package repl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trace = `
name: demo
frames:
  - {file: main.rb, line: 1, vars: {n: 0}}
  - {file: main.rb, line: 2, vars: {n: 1}}
  - {file: main.rb, line: 3, vars: {n: 2}}
`

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("BRK_STORE_BACKEND", "memory")
	t.Setenv("BRK_METRICS_ADDR", "")

	path := filepath.Join(dir, "trace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(trace), 0o600))
	return path
}

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRepl_BreakAndContinue(t *testing.T) {
	path := setup(t)

	out, err := execute(t, "brk 3 if n == 2\ncontinue\ninspect n\ncontinue\n", "--trace", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Breakpoint 1:")
	assert.Contains(t, out, "Hit breakpoint 1")
	assert.Contains(t, out, "n = 2")
	assert.Contains(t, out, "Program completed")
}

func TestRepl_StepAndAbort(t *testing.T) {
	path := setup(t)

	out, err := execute(t, "next\nnext 0\n", "--trace", path)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "Paused at"))
	assert.Contains(t, out, "invalid step count")
	assert.Contains(t, out, "Execution aborted")
}

func TestRepl_MissingTrace(t *testing.T) {
	setup(t)

	_, err := execute(t, "", "--trace", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to load trace")

	_, err = execute(t, "")
	assert.Error(t, err)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("")))

	f, err := os.CreateTemp(t.TempDir(), "in")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}
