// Package marks defines the author-facing annotation shared by the suite
// tree (internal/suite) and the result model (internal/result): every node
// in both trees carries exactly one TestMark.
package marks

import "fmt"

// TestMark is an author-declared annotation on a suite or case.
type TestMark int

const (
	// None is the default: the node is neither skipped nor forced to run.
	None TestMark = iota
	// Skip means the node (and everything under it) never runs, except
	// descendant cases that are themselves marked Only.
	Skip
	// Only forces the entire run into only-mode (see internal/engine).
	Only
)

func (m TestMark) String() string {
	switch m {
	case None:
		return "none"
	case Skip:
		return "skip"
	case Only:
		return "only"
	default:
		return fmt.Sprintf("TestMark(%d)", int(m))
	}
}

func (m TestMark) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *TestMark) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"none"`:
		*m = None
	case `"skip"`:
		*m = Skip
	case `"only"`:
		*m = Only
	default:
		return fmt.Errorf("unknown test mark: %s", data)
	}
	return nil
}
