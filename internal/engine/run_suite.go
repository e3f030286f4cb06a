package engine

import (
	"context"
	"time"

	"github.com/jamesshore/ergotest-sub002/internal/marks"
	"github.com/jamesshore/ergotest-sub002/internal/result"
)

// runSuite implements spec.md §4.5's "per-suite orchestration".
func (e *Engine) runSuite(ctx context.Context, plan suitePlan, inherited hookChain, inheritedTimeout time.Duration) *result.TestSuiteResult {
	s := plan.s
	filename := s.Filename()
	timeout := effectiveTimeout(s.Timeout(), inheritedTimeout)
	chain := inherited.extend(s)

	if !plan.run {
		children := make([]result.TestResult, len(plan.children))
		for i, np := range plan.children {
			children[i] = e.skipNode(np, chain, filename, timeout)
		}
		return &result.TestSuiteResult{
			Name:     s.Name(),
			Filename: filename,
			Mark:     s.Mark(),
			Tests:    children,
		}
	}

	beforeAll := make([]result.TestCaseResult, 0, len(s.BeforeAll()))
	beforeAllFailed := false
	for _, h := range s.BeforeAll() {
		if beforeAllFailed {
			beforeAll = append(beforeAll, result.TestCaseResult{Mark: marks.None, It: result.Skip(hookName(h), filename)})
			continue
		}
		rr := e.runHook(ctx, h, filename, timeout)
		beforeAll = append(beforeAll, result.TestCaseResult{Mark: marks.None, It: rr})
		if rr.Status != result.StatusPass {
			beforeAllFailed = true
		}
	}

	children := make([]result.TestResult, len(plan.children))
	for i, np := range plan.children {
		if beforeAllFailed {
			children[i] = e.skipNode(np, chain, filename, timeout)
			continue
		}
		switch {
		case np.kase != nil:
			c := e.runCase(ctx, *np.kase, chain, filename, timeout)
			children[i] = result.TestResult{Case: &c}
		case np.suite != nil:
			sr := e.runSuite(ctx, *np.suite, chain, timeout)
			children[i] = result.TestResult{Suite: sr}
		}
	}

	afterAll := make([]result.TestCaseResult, 0, len(s.AfterAll()))
	for _, h := range s.AfterAll() {
		rr := e.runHook(ctx, h, filename, timeout)
		afterAll = append(afterAll, result.TestCaseResult{Mark: marks.None, It: rr})
	}

	return &result.TestSuiteResult{
		Name:      s.Name(),
		Filename:  filename,
		Mark:      s.Mark(),
		BeforeAll: beforeAll,
		AfterAll:  afterAll,
		Tests:     children,
	}
}

// skipNode produces a result subtree where nothing actually ran: used both
// for a suite with no runnable cases (plan.run == false) and for every
// sibling once a beforeAll has failed (spec.md §4.5 step 2: "mark every
// remaining beforeAll, every descendant case ... as skipped").
func (e *Engine) skipNode(np nodePlan, chain hookChain, filename *string, timeout time.Duration) result.TestResult {
	switch {
	case np.kase != nil:
		forced := casePlan{c: np.kase.c, run: false}
		c := e.runCase(context.Background(), forced, chain, filename, timeout)
		return result.TestResult{Case: &c}
	case np.suite != nil:
		sr := e.skipSuite(*np.suite, chain, timeout)
		return result.TestResult{Suite: sr}
	}
	return result.TestResult{}
}

func (e *Engine) skipSuite(plan suitePlan, chain hookChain, inheritedTimeout time.Duration) *result.TestSuiteResult {
	s := plan.s
	filename := s.Filename()
	timeout := effectiveTimeout(s.Timeout(), inheritedTimeout)
	childChain := chain.extend(s)

	children := make([]result.TestResult, len(plan.children))
	for i, np := range plan.children {
		children[i] = e.skipNode(np, childChain, filename, timeout)
	}
	return &result.TestSuiteResult{
		Name:     s.Name(),
		Filename: filename,
		Mark:     s.Mark(),
		Tests:    children,
	}
}
