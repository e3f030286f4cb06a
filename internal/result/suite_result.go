package result

import "github.com/jamesshore/ergotest-sub002/internal/marks"

// TestResult is a tagged union over the two kinds of node a TestSuiteResult
// can hold as a child: a case or a nested suite (spec.md §9's guidance to
// use tagged variants rather than subclassing). Exactly one field is set.
type TestResult struct {
	Case  *TestCaseResult
	Suite *TestSuiteResult
}

func (r TestResult) IsCase() bool  { return r.Case != nil }
func (r TestResult) IsSuite() bool { return r.Suite != nil }

// Name defers to whichever variant is set.
func (r TestResult) Name() []string {
	if r.Case != nil {
		return r.Case.Name()
	}
	return r.Suite.Name
}

// Filename defers to whichever variant is set.
func (r TestResult) Filename() *string {
	if r.Case != nil {
		return r.Case.Filename()
	}
	return r.Suite.Filename
}

// Mark defers to whichever variant is set.
func (r TestResult) Mark() marks.TestMark {
	if r.Case != nil {
		return r.Case.Mark
	}
	return r.Suite.Mark
}

func (r TestResult) equals(other TestResult) bool {
	switch {
	case r.Case != nil && other.Case != nil:
		return r.Case.Equals(*other.Case)
	case r.Suite != nil && other.Suite != nil:
		return r.Suite.Equals(*other.Suite)
	default:
		return false
	}
}

// TestSuiteResult aggregates the result of running one suite: its beforeAll
// and afterAll hook results (each a TestCaseResult wrapping a single
// RunResult with empty before/after arrays), and its child results in
// declaration order (spec.md §3).
type TestSuiteResult struct {
	Name      []string
	Filename  *string
	Mark      marks.TestMark
	BeforeAll []TestCaseResult
	AfterAll  []TestCaseResult
	Tests     []TestResult
}

// AllTests flattens this suite (preorder) to its case results, including
// beforeAll/afterAll wrappers positioned before/after the children of each
// sub-suite, exactly where they execute (spec.md §4.2).
func (s TestSuiteResult) AllTests() []TestCaseResult {
	var out []TestCaseResult
	out = append(out, s.BeforeAll...)
	for _, child := range s.Tests {
		switch {
		case child.Case != nil:
			out = append(out, *child.Case)
		case child.Suite != nil:
			out = append(out, child.Suite.AllTests()...)
		}
	}
	out = append(out, s.AfterAll...)
	return out
}

// AllMatchingTests is AllTests filtered to the given statuses.
func (s TestSuiteResult) AllMatchingTests(statuses ...TestStatus) []TestCaseResult {
	wanted := make(map[TestStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}
	var out []TestCaseResult
	for _, c := range s.AllTests() {
		if wanted[c.Status()] {
			out = append(out, c)
		}
	}
	return out
}

// AllMarkedResults returns every case and suite in this tree (this suite
// included) whose mark is not marks.None, in preorder.
func (s TestSuiteResult) AllMarkedResults() []TestResult {
	return s.AllMatchingMarks(marks.Skip, marks.Only)
}

// AllMatchingMarks returns every case and suite (this suite included) whose
// mark is one of wanted, in preorder.
func (s TestSuiteResult) AllMatchingMarks(wanted ...marks.TestMark) []TestResult {
	var out []TestResult
	matches := func(m marks.TestMark) bool {
		for _, w := range wanted {
			if m == w {
				return true
			}
		}
		return false
	}

	if matches(s.Mark) {
		self := s
		out = append(out, TestResult{Suite: &self})
	}
	for _, c := range s.BeforeAll {
		out = append(out, c.AllMatchingMarks(wanted...)...)
	}
	for _, child := range s.Tests {
		switch {
		case child.Case != nil:
			out = append(out, child.Case.AllMatchingMarks(wanted...)...)
		case child.Suite != nil:
			out = append(out, child.Suite.AllMatchingMarks(wanted...)...)
		}
	}
	for _, c := range s.AfterAll {
		out = append(out, c.AllMatchingMarks(wanted...)...)
	}
	return out
}

// AllPassingFiles returns the set of filenames for which every flattened
// case result passes.
func (s TestSuiteResult) AllPassingFiles() map[string]bool {
	byFile := map[string]bool{}
	seen := map[string]bool{}

	for _, c := range s.AllTests() {
		fn := c.Filename()
		if fn == nil {
			continue
		}
		seen[*fn] = true
		if !c.IsPass() {
			byFile[*fn] = false
		} else if _, exists := byFile[*fn]; !exists {
			byFile[*fn] = true
		}
	}

	out := map[string]bool{}
	for fn := range seen {
		if byFile[fn] {
			out[fn] = true
		}
	}
	return out
}

// Count tallies case results by status.
type Counts struct {
	Pass, Fail, Skip, Timeout, Total int
}

func (s TestSuiteResult) Count() Counts {
	var c Counts
	for _, t := range s.AllTests() {
		c.Total++
		switch t.Status() {
		case StatusPass:
			c.Pass++
		case StatusFail:
			c.Fail++
		case StatusSkip:
			c.Skip++
		case StatusTimeout:
			c.Timeout++
		}
	}
	return c
}

// Equals compares two TestSuiteResults structurally and recursively,
// ignoring ErrorRender throughout (spec.md §4.2, §8 property 2).
func (s TestSuiteResult) Equals(other TestSuiteResult) bool {
	if !equalStrings(s.Name, other.Name) {
		return false
	}
	if !equalStringPtr(s.Filename, other.Filename) {
		return false
	}
	if s.Mark != other.Mark {
		return false
	}
	if len(s.BeforeAll) != len(other.BeforeAll) || len(s.AfterAll) != len(other.AfterAll) {
		return false
	}
	for i := range s.BeforeAll {
		if !s.BeforeAll[i].Equals(other.BeforeAll[i]) {
			return false
		}
	}
	for i := range s.AfterAll {
		if !s.AfterAll[i].Equals(other.AfterAll[i]) {
			return false
		}
	}
	if len(s.Tests) != len(other.Tests) {
		return false
	}
	for i := range s.Tests {
		if !s.Tests[i].equals(other.Tests[i]) {
			return false
		}
	}
	return true
}
