package dsl

import (
	"context"
	"testing"

	"github.com/jamesshore/ergotest-sub002/internal/config"
	"github.com/jamesshore/ergotest-sub002/internal/marks"
	"github.com/jamesshore/ergotest-sub002/internal/suite"
)

func noopFn(context.Context, config.Accessor) error { return nil }

func TestDescribeNestsChildrenInDeclarationOrder(t *testing.T) {
	var s *suite.TestSuite
	s = Describe("outer", Options{}, func() {
		It("first", Options{}, noopFn, marks.None)
		It("second", Options{}, noopFn, marks.None)
	}, marks.None)

	children := s.Children()
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if children[0].Case.Name()[1] != "first" || children[1].Case.Name()[1] != "second" {
		t.Fatalf("expected declaration order to be preserved, got %v, %v", children[0].Case.Name(), children[1].Case.Name())
	}
}

func TestDescribeNestedSuitesInheritDottedPath(t *testing.T) {
	var inner *suite.TestSuite
	Describe("outer", Options{}, func() {
		inner = Describe("inner", Options{}, func() {
			It("case", Options{}, noopFn, marks.None)
		}, marks.None)
	}, marks.None)

	if got := inner.Name(); len(got) != 2 || got[0] != "outer" || got[1] != "inner" {
		t.Fatalf("expected [outer inner], got %v", got)
	}
}

func TestDescribeEmptyNameInheritsParentPathUnchanged(t *testing.T) {
	var inner *suite.TestSuite
	Describe("outer", Options{}, func() {
		inner = Describe("", Options{}, func() {}, marks.None)
	}, marks.None)

	if got := inner.Name(); len(got) != 1 || got[0] != "outer" {
		t.Fatalf("expected path to stay [outer], got %v", got)
	}
}

func TestDescribeWithNilFnYieldsSkippedSuite(t *testing.T) {
	s := Describe("empty", Options{}, nil, marks.None)
	if s.Mark() != marks.Skip {
		t.Fatalf("expected a fn-less describe to yield a skipped suite, got %s", s.Mark())
	}
}

func TestDescribeOnlyWithNilFnYieldsSyntheticFailure(t *testing.T) {
	s := Describe("broken", Options{}, nil, marks.Only)
	if s.Mark() != marks.Only {
		t.Fatalf("expected the suite's own mark to remain only, got %s", s.Mark())
	}
	children := s.Children()
	if len(children) != 1 || children[0].Case == nil {
		t.Fatalf("expected one synthetic failing case, got %v", children)
	}
	if children[0].Case.Fn() == nil {
		t.Fatalf("expected the synthetic case to carry a failing function")
	}
	if err := children[0].Case.Fn()(context.Background(), nil); err == nil {
		t.Fatalf("expected the synthetic case's function to return an error")
	}
}

func TestItOutsideDescribePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected it() called outside describe() to panic")
		}
	}()
	It("orphan", Options{}, noopFn, marks.None)
}

func TestItEmptyNameBecomesUnnamed(t *testing.T) {
	var s *suite.TestSuite
	s = Describe("outer", Options{}, func() {
		It("", Options{}, noopFn, marks.None)
	}, marks.None)

	name := s.Children()[0].Case.Name()
	if name[len(name)-1] != "(unnamed)" {
		t.Fatalf("expected an empty it() name to become \"(unnamed)\", got %v", name)
	}
}

func TestHookNamingNumbersSecondOccurrenceOnward(t *testing.T) {
	var s *suite.TestSuite
	s = Describe("math", Options{}, func() {
		BeforeEach(Options{}, noopFn)
		BeforeEach(Options{}, noopFn)
	}, marks.None)

	hooks := s.BeforeEach()
	if len(hooks) != 2 {
		t.Fatalf("expected 2 beforeEach hooks, got %d", len(hooks))
	}
	if hooks[0].Name() != "math / beforeEach" {
		t.Fatalf("expected first hook unnumbered, got %q", hooks[0].Name())
	}
	if hooks[1].Name() != "math / beforeEach #2" {
		t.Fatalf("expected second hook numbered #2, got %q", hooks[1].Name())
	}
}

func TestAddHookOutsideDescribePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected beforeEach() called outside describe() to panic")
		}
	}()
	BeforeEach(Options{}, noopFn)
}

func TestAddHookWithNilFnPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected beforeEach() with a nil function to panic")
		}
	}()
	Describe("outer", Options{}, func() {
		BeforeEach(Options{}, nil)
	}, marks.None)
}

func TestDescribeStackIsPoppedEvenWhenFnPanics(t *testing.T) {
	func() {
		defer func() { recover() }()
		Describe("outer", Options{}, func() {
			panic("boom")
		}, marks.None)
	}()

	// If the stack wasn't popped, this It would attach to the panicking
	// builder instead of panicking for lack of an enclosing describe.
	defer func() {
		if recover() == nil {
			t.Fatalf("expected the stack to have been popped after the panic")
		}
	}()
	It("orphan", Options{}, noopFn, marks.None)
}
