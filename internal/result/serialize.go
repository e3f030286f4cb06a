package result

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jamesshore/ergotest-sub002/internal/marks"
)

// These wire shapes match spec.md §6 field-for-field: "type" discriminants
// so a TestResult round-trips without losing whether it held a case or a
// nested suite, and timeouts/durations cross the wire as milliseconds
// (the "structured-clone-equivalent serialization" spec.md §6 calls for).

type wireRunResult struct {
	Name         []string `json:"name"`
	Filename     *string  `json:"filename,omitempty"`
	Status       string   `json:"status"`
	ErrorMessage *string  `json:"errorMessage,omitempty"`
	ErrorRender  any      `json:"errorRender,omitempty"`
	TimeoutMs    *int64   `json:"timeout,omitempty"`
}

// wireCaseResult embeds the `it` RunResult so its name, filename, status,
// error and timeout fields sit at the top level of the serialized case.
type wireCaseResult struct {
	Type string `json:"type"`
	Mark string `json:"mark"`
	wireRunResult
	BeforeEach []wireRunResult `json:"beforeEach"`
	AfterEach  []wireRunResult `json:"afterEach"`
}

type wireSuiteResult struct {
	Type      string            `json:"type"`
	Name      []string          `json:"name"`
	Mark      string            `json:"mark"`
	Filename  *string           `json:"filename,omitempty"`
	BeforeAll []wireCaseResult  `json:"beforeAll"`
	AfterAll  []wireCaseResult  `json:"afterAll"`
	Tests     []json.RawMessage `json:"tests"`
}

func toWireRun(r RunResult) wireRunResult {
	w := wireRunResult{
		Name:         r.Name,
		Filename:     r.Filename,
		Status:       r.Status.String(),
		ErrorMessage: r.ErrorMessage,
		ErrorRender:  r.ErrorRender,
	}
	if r.Timeout != nil {
		ms := r.Timeout.Milliseconds()
		w.TimeoutMs = &ms
	}
	return w
}

func fromWireRun(w wireRunResult) (RunResult, error) {
	var status TestStatus
	if err := (&status).UnmarshalJSON([]byte(`"` + w.Status + `"`)); err != nil {
		return RunResult{}, err
	}
	r := RunResult{Name: w.Name, Filename: w.Filename, Status: status, ErrorMessage: w.ErrorMessage, ErrorRender: w.ErrorRender}
	if w.TimeoutMs != nil {
		d := time.Duration(*w.TimeoutMs) * time.Millisecond
		r.Timeout = &d
	}
	return r, nil
}

func toWireCase(c TestCaseResult) wireCaseResult {
	w := wireCaseResult{Type: "TestCaseResult", Mark: c.Mark.String(), wireRunResult: toWireRun(c.It)}
	for _, r := range c.BeforeEach {
		w.BeforeEach = append(w.BeforeEach, toWireRun(r))
	}
	for _, r := range c.AfterEach {
		w.AfterEach = append(w.AfterEach, toWireRun(r))
	}
	return w
}

func fromWireCase(w wireCaseResult) (TestCaseResult, error) {
	var mark marks.TestMark
	if err := (&mark).UnmarshalJSON([]byte(`"` + w.Mark + `"`)); err != nil {
		return TestCaseResult{}, err
	}
	c := TestCaseResult{Mark: mark}
	it, err := fromWireRun(w.wireRunResult)
	if err != nil {
		return TestCaseResult{}, err
	}
	c.It = it
	for _, r := range w.BeforeEach {
		rr, err := fromWireRun(r)
		if err != nil {
			return TestCaseResult{}, err
		}
		c.BeforeEach = append(c.BeforeEach, rr)
	}
	for _, r := range w.AfterEach {
		rr, err := fromWireRun(r)
		if err != nil {
			return TestCaseResult{}, err
		}
		c.AfterEach = append(c.AfterEach, rr)
	}
	return c, nil
}

// Serialize produces the JSON-shaped wire form spec.md §6 describes as
// SerializedTestCaseResult.
func (c TestCaseResult) Serialize() ([]byte, error) {
	return json.Marshal(toWireCase(c))
}

// Deserialize reconstructs a TestCaseResult from Serialize's output.
func DeserializeCase(data []byte) (TestCaseResult, error) {
	var w wireCaseResult
	if err := json.Unmarshal(data, &w); err != nil {
		return TestCaseResult{}, err
	}
	return fromWireCase(w)
}

func toWireResult(r TestResult) (json.RawMessage, error) {
	switch {
	case r.Case != nil:
		return json.Marshal(toWireCase(*r.Case))
	case r.Suite != nil:
		return toWireSuiteRaw(*r.Suite)
	default:
		return nil, fmt.Errorf("result: empty TestResult has neither case nor suite")
	}
}

func toWireSuiteRaw(s TestSuiteResult) (json.RawMessage, error) {
	w := wireSuiteResult{Type: "TestSuiteResult", Name: s.Name, Mark: s.Mark.String(), Filename: s.Filename}
	for _, c := range s.BeforeAll {
		w.BeforeAll = append(w.BeforeAll, toWireCase(c))
	}
	for _, c := range s.AfterAll {
		w.AfterAll = append(w.AfterAll, toWireCase(c))
	}
	for _, child := range s.Tests {
		raw, err := toWireResult(child)
		if err != nil {
			return nil, err
		}
		w.Tests = append(w.Tests, raw)
	}
	return json.Marshal(w)
}

func fromWireResult(raw json.RawMessage) (TestResult, error) {
	var disc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &disc); err != nil {
		return TestResult{}, err
	}
	switch disc.Type {
	case "TestCaseResult":
		var w wireCaseResult
		if err := json.Unmarshal(raw, &w); err != nil {
			return TestResult{}, err
		}
		c, err := fromWireCase(w)
		if err != nil {
			return TestResult{}, err
		}
		return TestResult{Case: &c}, nil
	case "TestSuiteResult":
		s, err := fromWireSuiteRaw(raw)
		if err != nil {
			return TestResult{}, err
		}
		return TestResult{Suite: &s}, nil
	default:
		return TestResult{}, fmt.Errorf("result: unknown serialized type %q", disc.Type)
	}
}

func fromWireSuiteRaw(raw json.RawMessage) (TestSuiteResult, error) {
	var w wireSuiteResult
	if err := json.Unmarshal(raw, &w); err != nil {
		return TestSuiteResult{}, err
	}
	var mark marks.TestMark
	if err := (&mark).UnmarshalJSON([]byte(`"` + w.Mark + `"`)); err != nil {
		return TestSuiteResult{}, err
	}
	s := TestSuiteResult{Name: w.Name, Mark: mark, Filename: w.Filename}
	for _, c := range w.BeforeAll {
		cc, err := fromWireCase(c)
		if err != nil {
			return TestSuiteResult{}, err
		}
		s.BeforeAll = append(s.BeforeAll, cc)
	}
	for _, c := range w.AfterAll {
		cc, err := fromWireCase(c)
		if err != nil {
			return TestSuiteResult{}, err
		}
		s.AfterAll = append(s.AfterAll, cc)
	}
	for _, raw := range w.Tests {
		child, err := fromWireResult(raw)
		if err != nil {
			return TestSuiteResult{}, err
		}
		s.Tests = append(s.Tests, child)
	}
	return s, nil
}

// Serialize produces the JSON-shaped wire form spec.md §6 describes as
// SerializedTestSuiteResult.
func (s TestSuiteResult) Serialize() ([]byte, error) {
	return toWireSuiteRaw(s)
}

// DeserializeSuite reconstructs a TestSuiteResult from Serialize's output,
// such that DeserializeSuite(s.Serialize()).Equals(s) for any well-formed s
// (spec.md §8 property 1).
func DeserializeSuite(data []byte) (TestSuiteResult, error) {
	return fromWireSuiteRaw(data)
}
