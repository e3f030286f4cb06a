// Package result implements the immutable, serializable result tree:
// RunResult, TestCaseResult, and TestSuiteResult, plus the queries spec.md
// §4.2 defines over a TestSuiteResult (AllTests, AllMatchingMarks, Count,
// Equals, Serialize/Deserialize, Render).
package result

import "fmt"

// TestStatus is the outcome of one user function invocation, or the
// derived, folded outcome of a whole test case.
type TestStatus int

const (
	StatusPass TestStatus = iota
	StatusFail
	StatusSkip
	StatusTimeout
)

func (s TestStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusSkip:
		return "skip"
	case StatusTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("TestStatus(%d)", int(s))
	}
}

func (s TestStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *TestStatus) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"pass"`:
		*s = StatusPass
	case `"fail"`:
		*s = StatusFail
	case `"skip"`:
		*s = StatusSkip
	case `"timeout"`:
		*s = StatusTimeout
	default:
		return fmt.Errorf("unknown test status: %s", data)
	}
	return nil
}

// precedence ranks statuses fail > timeout > pass > skip, used to fold a
// sequence of RunResult statuses into one (spec.md §3, "Invariants").
func precedence(s TestStatus) int {
	switch s {
	case StatusFail:
		return 3
	case StatusTimeout:
		return 2
	case StatusPass:
		return 1
	case StatusSkip:
		return 0
	default:
		return -1
	}
}

// fold combines the running status acc with next by precedence, with the
// special case (handled by the caller, not here) that an all-pass chain
// folded with a skip should stay skip rather than being swallowed by the
// "pass beats skip" ordering that applies everywhere else in the chain.
func fold(acc, next TestStatus) TestStatus {
	if precedence(next) > precedence(acc) {
		return next
	}
	return acc
}
