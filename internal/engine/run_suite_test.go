package engine

import (
	"context"
	"testing"

	"github.com/jamesshore/ergotest-sub002/internal/clock"
	"github.com/jamesshore/ergotest-sub002/internal/config"
	"github.com/jamesshore/ergotest-sub002/internal/marks"
	"github.com/jamesshore/ergotest-sub002/internal/suite"
)

func TestRunSuiteNonRunnablePlanSkipsEveryChildWithoutHooks(t *testing.T) {
	hookRan := false
	s := suite.New(suite.Params{
		Name: []string{"s"},
		BeforeAll: []suite.BeforeAfter{
			suite.NewHook("s / beforeAll", nil, func(context.Context, config.Accessor) error {
				hookRan = true
				return nil
			}),
		},
		Children: []suite.TestNode{leafCase("a", marks.Skip, passFn)},
	})

	eng := New(Options{Clock: clock.NewNull()})
	plan := planSuite(s, false, false, false)
	sr := eng.runSuite(context.Background(), plan, hookChain{}, eng.defaultTimeout)

	if len(sr.BeforeAll) != 0 {
		t.Fatalf("expected no beforeAll results when the suite plan is non-runnable, got %v", sr.BeforeAll)
	}
	if hookRan {
		t.Fatalf("expected beforeAll to never be invoked for a non-runnable suite")
	}
	if len(sr.Tests) != 1 || !sr.Tests[0].Case.IsSkip() {
		t.Fatalf("expected the one child to be reported as skipped, got %+v", sr.Tests)
	}
}

func TestRunSuiteNestedSuiteResultsNestCorrectly(t *testing.T) {
	inner := suite.New(suite.Params{
		Name:     []string{"outer", "inner"},
		Children: []suite.TestNode{leafCase("x", marks.None, passFn)},
	})
	outer := suite.New(suite.Params{
		Name:     []string{"outer"},
		Children: []suite.TestNode{{Suite: inner}},
	})

	eng := New(Options{Clock: clock.NewNull()})
	plan := planSuite(outer, false, false, false)
	sr := eng.runSuite(context.Background(), plan, hookChain{}, eng.defaultTimeout)

	if len(sr.Tests) != 1 || sr.Tests[0].Suite == nil {
		t.Fatalf("expected one nested suite result, got %+v", sr.Tests)
	}
	nestedTests := sr.Tests[0].Suite.Tests
	if len(nestedTests) != 1 || !nestedTests[0].Case.IsPass() {
		t.Fatalf("expected the nested case to pass, got %+v", nestedTests)
	}
}
