package result

import (
	"fmt"
	"strings"
	"time"
)

// Render is a plain-text convenience summary for the external renderer
// (out of scope per spec.md §1 — the real colorized renderer lives outside
// this core). It exists so TestSuiteResult is usable standalone; a host
// that wants color output injects its own renderer through
// internal/render.ErrorRenderer instead.
func (s TestSuiteResult) Render(preamble string, elapsed time.Duration) string {
	var b strings.Builder
	if preamble != "" {
		b.WriteString(preamble)
		b.WriteString("\n")
	}

	counts := s.Count()
	for _, c := range s.AllMatchingTests(StatusFail, StatusTimeout) {
		b.WriteString(fmt.Sprintf("%s: %s\n", strings.Join(c.Name(), " > "), c.Status()))
		if c.It.ErrorMessage != nil {
			b.WriteString(fmt.Sprintf("  %s\n", *c.It.ErrorMessage))
		}
	}

	b.WriteString(fmt.Sprintf(
		"%d passed, %d failed, %d skipped, %d timed out (%d total)",
		counts.Pass, counts.Fail, counts.Skip, counts.Timeout, counts.Total,
	))
	if elapsed > 0 {
		b.WriteString(fmt.Sprintf(" in %s", elapsed))
	}
	return b.String()
}

// Render is the single-result convenience renderer for one case (spec.md
// §4.2).
func (c TestCaseResult) Render() string {
	status := c.Status()
	line := fmt.Sprintf("%s: %s", strings.Join(c.Name(), " > "), status)
	if status == StatusFail && c.It.ErrorMessage != nil {
		line += ": " + *c.It.ErrorMessage
	}
	return line
}
