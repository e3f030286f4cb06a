package result

import "time"

// RunResult is the result of executing exactly one user function: a hook
// body or a case's `it` body (spec.md §3).
type RunResult struct {
	Name         []string
	Filename     *string
	Status       TestStatus
	ErrorMessage *string     // present iff Status == StatusFail
	ErrorRender  any         // opaque, produced by the injected renderer; present iff Status == StatusFail
	Timeout      *time.Duration // present iff Status == StatusTimeout
}

// Pass builds a passing RunResult.
func Pass(name []string, filename *string) RunResult {
	return RunResult{Name: name, Filename: filename, Status: StatusPass}
}

// Skip builds a skipped RunResult.
func Skip(name []string, filename *string) RunResult {
	return RunResult{Name: name, Filename: filename, Status: StatusSkip}
}

// Fail builds a failing RunResult with the given error message and opaque
// render. errorRender may be nil when no renderer was configured.
func Fail(name []string, filename *string, errorMessage string, errorRender any) RunResult {
	msg := errorMessage
	return RunResult{Name: name, Filename: filename, Status: StatusFail, ErrorMessage: &msg, ErrorRender: errorRender}
}

// Timeout builds a timed-out RunResult recording the effective timeout that
// was exceeded.
func Timeout(name []string, filename *string, after time.Duration) RunResult {
	d := after
	return RunResult{Name: name, Filename: filename, Status: StatusTimeout, Timeout: &d}
}

// equals compares two RunResults structurally, ignoring ErrorRender (spec.md
// §4.2 "error renders are ignored; they may differ across renderers").
func (r RunResult) equals(other RunResult) bool {
	if !equalStrings(r.Name, other.Name) {
		return false
	}
	if !equalStringPtr(r.Filename, other.Filename) {
		return false
	}
	if r.Status != other.Status {
		return false
	}
	if !equalStringPtr(r.ErrorMessage, other.ErrorMessage) {
		return false
	}
	if !equalDurationPtr(r.Timeout, other.Timeout) {
		return false
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalDurationPtr(a, b *time.Duration) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
