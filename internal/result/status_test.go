package result

import "testing"

func TestStatusFoldPrecedenceFailBeatsEverything(t *testing.T) {
	c := TestCaseResult{
		BeforeEach: []RunResult{Pass(nil, nil), Fail(nil, nil, "boom", nil)},
		It:         Pass(nil, nil),
		AfterEach:  []RunResult{Timeout(nil, nil, 0)},
	}
	if got := c.Status(); got != StatusFail {
		t.Fatalf("expected fail to win, got %s", got)
	}
}

func TestStatusFoldPrecedenceTimeoutBeatsPassAndSkip(t *testing.T) {
	c := TestCaseResult{
		BeforeEach: []RunResult{Pass(nil, nil)},
		It:         Timeout(nil, nil, 0),
		AfterEach:  []RunResult{Skip(nil, nil)},
	}
	if got := c.Status(); got != StatusTimeout {
		t.Fatalf("expected timeout to win over pass/skip, got %s", got)
	}
}

func TestStatusAllPassingChainWithSkippedItStaysSkip(t *testing.T) {
	c := TestCaseResult{
		BeforeEach: []RunResult{Pass(nil, nil)},
		It:         Skip(nil, nil),
		AfterEach:  []RunResult{Pass(nil, nil)},
	}
	if got := c.Status(); got != StatusSkip {
		t.Fatalf("expected an all-pass chain around a skipped it to report skip, got %s", got)
	}
}

func TestStatusFailingChainWithSkippedItIsFail(t *testing.T) {
	c := TestCaseResult{
		BeforeEach: []RunResult{Fail(nil, nil, "boom", nil)},
		It:         Skip(nil, nil),
	}
	if got := c.Status(); got != StatusFail {
		t.Fatalf("expected a failed beforeEach to outrank the it's skip, got %s", got)
	}
}

func TestStatusNoHooksReflectsItDirectly(t *testing.T) {
	c := TestCaseResult{It: Pass(nil, nil)}
	if got := c.Status(); got != StatusPass {
		t.Fatalf("expected pass, got %s", got)
	}
}

func TestStatusStringRoundTripsThroughJSON(t *testing.T) {
	for _, s := range []TestStatus{StatusPass, StatusFail, StatusSkip, StatusTimeout} {
		data, err := s.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON: %v", err)
		}
		var got TestStatus
		if err := (&got).UnmarshalJSON(data); err != nil {
			t.Fatalf("UnmarshalJSON: %v", err)
		}
		if got != s {
			t.Fatalf("round trip mismatch: %s != %s", got, s)
		}
	}
}
