package suite

import (
	"context"
	"testing"

	"github.com/jamesshore/ergotest-sub002/internal/config"
	"github.com/jamesshore/ergotest-sub002/internal/marks"
)

func TestNewCaseCoercesNilFnToSkip(t *testing.T) {
	c := NewCase([]string{"x"}, marks.None, nil, nil)
	if c.Mark() != marks.Skip {
		t.Fatalf("expected a nil-fn case to be coerced to skip, got %s", c.Mark())
	}
}

func TestNewCasePreservesOnlyMarkEvenWithNilFn(t *testing.T) {
	c := NewCase([]string{"x"}, marks.Only, nil, nil)
	if c.Mark() != marks.Only {
		t.Fatalf("expected Only to survive a nil fn so the caller can build a synthetic failure, got %s", c.Mark())
	}
}

func TestNewCaseLeavesNonNilFnMarkUntouched(t *testing.T) {
	fn := func(context.Context, config.Accessor) error { return nil }
	c := NewCase([]string{"x"}, marks.None, nil, fn)
	if c.Mark() != marks.None {
		t.Fatalf("expected mark untouched when a fn is present, got %s", c.Mark())
	}
}

func TestWithFilenameReturnsACloneLeavingOriginalUntouched(t *testing.T) {
	s := New(Params{Name: []string{"outer"}})
	clone := s.WithFilename("foo_test.go")

	if s.Filename() != nil {
		t.Fatalf("expected the original suite's filename to remain nil")
	}
	if clone.Filename() == nil || *clone.Filename() != "foo_test.go" {
		t.Fatalf("expected the clone's filename to be set")
	}
	if s == clone {
		t.Fatalf("expected WithFilename to return a distinct suite, not mutate in place")
	}
}

func TestSuiteAccessorsReflectParams(t *testing.T) {
	kase := NewCase([]string{"outer", "case"}, marks.None, nil, nil)
	before := NewHook("outer > beforeAll", nil, func(context.Context, config.Accessor) error { return nil })

	s := New(Params{
		Name:      []string{"outer"},
		Mark:      marks.Skip,
		Children:  []TestNode{{Case: kase}},
		BeforeAll: []BeforeAfter{before},
	})

	if s.Mark() != marks.Skip {
		t.Fatalf("expected mark to round trip")
	}
	if len(s.Children()) != 1 || s.Children()[0].Case != kase {
		t.Fatalf("expected children to round trip")
	}
	if len(s.BeforeAll()) != 1 || s.BeforeAll()[0].Name() != "outer > beforeAll" {
		t.Fatalf("expected beforeAll to round trip")
	}
}

func TestTestNodeIsExactlyOneVariant(t *testing.T) {
	s := New(Params{Name: []string{"inner"}})
	node := TestNode{Suite: s}
	if node.Case != nil {
		t.Fatalf("expected Case to be nil on a suite node")
	}
}
