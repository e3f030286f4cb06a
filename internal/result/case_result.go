package result

import "github.com/jamesshore/ergotest-sub002/internal/marks"

// TestCaseResult aggregates the result of running one test case: its
// beforeEach chain (outermost first), its `it` body, and its afterEach
// chain (innermost first). Name and Filename defer to It.
type TestCaseResult struct {
	Mark       marks.TestMark
	BeforeEach []RunResult
	AfterEach  []RunResult
	It         RunResult
}

// Status folds BeforeEach, It, and AfterEach into one derived status using
// the precedence fail > timeout > pass > skip, with the special case that a
// purely-passing before/after chain combined with a skipped `it` yields
// skip rather than being masked to pass (spec.md §3).
func (c TestCaseResult) Status() TestStatus {
	acc := StatusPass
	allPass := true

	fold1 := func(r RunResult) {
		acc = fold(acc, r.Status)
		if r.Status != StatusPass {
			allPass = false
		}
	}
	for _, r := range c.BeforeEach {
		fold1(r)
	}
	for _, r := range c.AfterEach {
		fold1(r)
	}

	if allPass && c.It.Status == StatusSkip {
		return StatusSkip
	}
	return fold(acc, c.It.Status)
}

// Name returns It's name.
func (c TestCaseResult) Name() []string { return c.It.Name }

// Filename returns It's filename.
func (c TestCaseResult) Filename() *string { return c.It.Filename }

func (c TestCaseResult) IsPass() bool    { return c.Status() == StatusPass }
func (c TestCaseResult) IsFail() bool    { return c.Status() == StatusFail }
func (c TestCaseResult) IsSkip() bool    { return c.Status() == StatusSkip }
func (c TestCaseResult) IsTimeout() bool { return c.Status() == StatusTimeout }

// AllMatchingMarks returns this case (wrapped as a TestResult) if its mark
// is one of marks, else an empty slice.
func (c TestCaseResult) AllMatchingMarks(wanted ...marks.TestMark) []TestResult {
	for _, m := range wanted {
		if c.Mark == m {
			return []TestResult{{Case: &c}}
		}
	}
	return nil
}

// Equals compares two TestCaseResults structurally, ignoring ErrorRender.
func (c TestCaseResult) Equals(other TestCaseResult) bool {
	if c.Mark != other.Mark {
		return false
	}
	if !c.It.equals(other.It) {
		return false
	}
	if len(c.BeforeEach) != len(other.BeforeEach) || len(c.AfterEach) != len(other.AfterEach) {
		return false
	}
	for i := range c.BeforeEach {
		if !c.BeforeEach[i].equals(other.BeforeEach[i]) {
			return false
		}
	}
	for i := range c.AfterEach {
		if !c.AfterEach[i].equals(other.AfterEach[i]) {
			return false
		}
	}
	return true
}
