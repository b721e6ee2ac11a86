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
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tombee/brk/internal/breakpoint"
)

// DefaultSourceContext is the number of lines shown either side of a
// breakpoint's line by Full.
const DefaultSourceContext = 5

// Printer renders breakpoints for the user. Styling is dropped automatically
// when out is not a terminal.
type Printer struct {
	out          io.Writer
	bold         lipgloss.Style
	contextLines int
	readSource   func(path string) ([]byte, error)
}

// NewPrinter creates a printer writing to out. contextLines <= 0 selects
// DefaultSourceContext.
func NewPrinter(out io.Writer, contextLines int) *Printer {
	if contextLines <= 0 {
		contextLines = DefaultSourceContext
	}
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:          out,
		bold:         r.NewStyle().Bold(true),
		contextLines: contextLines,
		readSource:   os.ReadFile,
	}
}

// List prints a header followed by one line per breakpoint, in the order
// given.
func (p *Printer) List(bps []*breakpoint.Breakpoint) {
	if len(bps) == 0 {
		fmt.Fprintln(p.out, "No breakpoints defined.")
		return
	}

	width := len(strconv.Itoa(bps[len(bps)-1].ID))
	header := fmt.Sprintf("  %*s Enabled At", width, "#")
	fmt.Fprintln(p.out, p.bold.Render(header))
	fmt.Fprintln(p.out, p.bold.Render("  "+strings.Repeat("-", len(header)-2)))

	for _, bp := range bps {
		fmt.Fprintln(p.out, shortLine(bp, width))
	}
}

func shortLine(bp *breakpoint.Breakpoint, width int) string {
	status := "No"
	if bp.Enabled {
		status = "Yes"
	}
	line := fmt.Sprintf("  %*d %-7s %s", width, bp.ID, status, bp.Location())
	if bp.HasCondition() {
		line += " if " + bp.Condition
	}
	return line
}

// Full prints every detail of one breakpoint and, for line breakpoints whose
// file is readable, the surrounding source.
func (p *Printer) Full(bp *breakpoint.Breakpoint) {
	status := "Disabled"
	if bp.Enabled {
		status = "Enabled"
	}
	fmt.Fprintf(p.out, "%s %s (%s)\n", p.bold.Render(fmt.Sprintf("Breakpoint %d:", bp.ID)), bp.Location(), status)
	if bp.HasCondition() {
		fmt.Fprintf(p.out, "%s %s\n", p.bold.Render("Condition:"), bp.Condition)
	}
	if bp.HitCount > 0 {
		fmt.Fprintf(p.out, "%s %d\n", p.bold.Render("Hits:"), bp.HitCount)
	}

	if bp.Kind == breakpoint.KindLine {
		if excerpt := p.sourceExcerpt(bp.File, bp.Line); excerpt != "" {
			fmt.Fprintln(p.out)
			fmt.Fprint(p.out, excerpt)
		}
	}
}

// sourceExcerpt returns numbered lines around line, marking line with "=>".
// It returns "" when the file cannot be read or line is out of range.
func (p *Printer) sourceExcerpt(path string, line int) string {
	data, err := p.readSource(path)
	if err != nil {
		return ""
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	start := max(1, line-p.contextLines)
	end := min(len(lines), line+p.contextLines)
	width := len(strconv.Itoa(end))

	var b strings.Builder
	for n := start; n <= end; n++ {
		marker := "  "
		if n == line {
			marker = "=>"
		}
		fmt.Fprintf(&b, "%s %*d: %s\n", marker, width, n, lines[n-1])
	}
	return b.String()
}

// Message prints a plain line of feedback.
func (p *Printer) Message(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}
