package marks

import (
	"encoding/json"
	"testing"
)

func TestStringNamesEachMark(t *testing.T) {
	cases := map[TestMark]string{None: "none", Skip: "skip", Only: "only"}
	for mark, want := range cases {
		if got := mark.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestStringFallsBackForUnknownValue(t *testing.T) {
	unknown := TestMark(99)
	if got := unknown.String(); got != "TestMark(99)" {
		t.Fatalf("expected a fallback rendering, got %q", got)
	}
}

func TestJSONRoundTripsEachMark(t *testing.T) {
	for _, mark := range []TestMark{None, Skip, Only} {
		data, err := json.Marshal(mark)
		if err != nil {
			t.Fatalf("unexpected marshal error: %v", err)
		}

		var got TestMark
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unexpected unmarshal error: %v", err)
		}
		if got != mark {
			t.Fatalf("expected %v to round trip, got %v", mark, got)
		}
	}
}

func TestUnmarshalJSONRejectsUnknownText(t *testing.T) {
	var m TestMark
	err := json.Unmarshal([]byte(`"bogus"`), &m)
	if err == nil {
		t.Fatalf("expected an error for an unknown mark")
	}
}

func TestMarshalJSONProducesAQuotedString(t *testing.T) {
	data, err := Only.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"only"` {
		t.Fatalf(`expected "only", got %s`, data)
	}
}
