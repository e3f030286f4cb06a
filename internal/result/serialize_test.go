package result

import (
	"testing"
	"time"

	"github.com/jamesshore/ergotest-sub002/internal/marks"
)

func TestSerializeCaseRoundTrips(t *testing.T) {
	fn := "foo_test.go"
	original := TestCaseResult{
		Mark:       marks.Only,
		BeforeEach: []RunResult{Pass([]string{"setup"}, &fn)},
		It:         Fail([]string{"suite", "case"}, &fn, "boom", "opaque render"),
		AfterEach:  []RunResult{Timeout([]string{"teardown"}, &fn, 2*time.Second)},
	}

	data, err := original.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := DeserializeCase(data)
	if err != nil {
		t.Fatalf("DeserializeCase: %v", err)
	}
	if !got.Equals(original) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, original)
	}
}

func TestSerializeSuiteRoundTripsNestedTree(t *testing.T) {
	fn := "suite_test.go"
	original := TestSuiteResult{
		Name:      []string{"outer"},
		Filename:  &fn,
		Mark:      marks.None,
		BeforeAll: []TestCaseResult{{It: Pass([]string{"outer", "beforeAll"}, &fn)}},
		AfterAll:  []TestCaseResult{{It: Pass([]string{"outer", "afterAll"}, &fn)}},
		Tests: []TestResult{
			{Case: &TestCaseResult{It: Pass([]string{"outer", "case1"}, &fn)}},
			{Suite: &TestSuiteResult{
				Name: []string{"outer", "inner"},
				Mark: marks.Skip,
				Tests: []TestResult{
					{Case: &TestCaseResult{It: Skip([]string{"outer", "inner", "case2"}, &fn)}},
				},
			}},
		},
	}

	data, err := original.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := DeserializeSuite(data)
	if err != nil {
		t.Fatalf("DeserializeSuite: %v", err)
	}
	if !got.Equals(original) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, original)
	}
}

func TestSerializeTimeoutSurvivesMillisecondConversion(t *testing.T) {
	original := RunResult{Name: []string{"x"}, Status: StatusTimeout}
	d := 1500 * time.Millisecond
	original.Timeout = &d

	c := TestCaseResult{It: original}
	data, err := c.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := DeserializeCase(data)
	if err != nil {
		t.Fatalf("DeserializeCase: %v", err)
	}
	if got.It.Timeout == nil || *got.It.Timeout != d {
		t.Fatalf("expected timeout to survive round trip as %s, got %v", d, got.It.Timeout)
	}
}

func TestDeserializeResultRejectsUnknownType(t *testing.T) {
	_, err := fromWireResult([]byte(`{"type":"Nonsense"}`))
	if err == nil {
		t.Fatalf("expected an error for an unrecognized discriminant")
	}
}
