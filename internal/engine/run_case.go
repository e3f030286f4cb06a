package engine

import (
	"context"
	"time"

	"github.com/jamesshore/ergotest-sub002/internal/clock"
	"github.com/jamesshore/ergotest-sub002/internal/marks"
	"github.com/jamesshore/ergotest-sub002/internal/result"
	"github.com/jamesshore/ergotest-sub002/internal/suite"
)

// hookChain carries the beforeEach/afterEach hooks a case inherits from its
// ancestor suites, already in the order spec.md §5 fixes: beforeEach
// outermost-first, afterEach innermost-first.
type hookChain struct {
	beforeEach []suite.BeforeAfter
	afterEach  []suite.BeforeAfter
}

// extend returns the chain a child of s should inherit: s's own hooks
// folded in at the correct end of each list.
func (h hookChain) extend(s *suite.TestSuite) hookChain {
	return hookChain{
		beforeEach: append(append([]suite.BeforeAfter{}, h.beforeEach...), s.BeforeEach()...),
		afterEach:  append(append([]suite.BeforeAfter{}, s.AfterEach()...), h.afterEach...),
	}
}

// runCase implements spec.md §4.5's "per-case orchestration". It always
// emits exactly one TestCaseResult to onTestCaseResult before returning.
func (e *Engine) runCase(ctx context.Context, cp casePlan, chain hookChain, filename *string, inheritedTimeout time.Duration) result.TestCaseResult {
	c := cp.c

	if !cp.run {
		r := result.TestCaseResult{Mark: c.Mark(), It: result.Skip(c.Name(), filename)}
		e.onTestCaseResult(r)
		return r
	}

	timeout := effectiveTimeout(c.Timeout(), inheritedTimeout)

	beforeResults := make([]result.RunResult, 0, len(chain.beforeEach))
	beforeOK := true
	for _, h := range chain.beforeEach {
		if !beforeOK {
			beforeResults = append(beforeResults, result.Skip(hookName(h), filename))
			continue
		}
		rr := e.runHook(ctx, h, filename, inheritedTimeout)
		beforeResults = append(beforeResults, rr)
		if rr.Status != result.StatusPass {
			beforeOK = false
		}
	}

	var it result.RunResult
	switch {
	case !beforeOK:
		it = result.Skip(c.Name(), filename)
	case c.Fn() == nil:
		it = result.Skip(c.Name(), filename)
	default:
		it = e.runUserFunc(ctx, c.Name(), c.Mark(), filename, timeout, c.Fn())
	}

	afterResults := make([]result.RunResult, 0, len(chain.afterEach))
	for _, h := range chain.afterEach {
		afterResults = append(afterResults, e.runHook(ctx, h, filename, inheritedTimeout))
	}

	r := result.TestCaseResult{
		Mark:       c.Mark(),
		BeforeEach: beforeResults,
		AfterEach:  afterResults,
		It:         it,
	}
	e.onTestCaseResult(r)
	return r
}

func hookName(h suite.BeforeAfter) []string { return []string{h.Name()} }

// runHook wraps a single before/after-each or before/after-all invocation.
func (e *Engine) runHook(ctx context.Context, h suite.BeforeAfter, filename *string, inheritedTimeout time.Duration) result.RunResult {
	timeout := effectiveTimeout(h.Timeout(), inheritedTimeout)
	return e.runUserFunc(ctx, hookName(h), marks.None, filename, timeout, h.Fn())
}

// runUserFunc wraps one fn invocation in the timeout race spec.md §4.1 and
// §4.5 describe, converting panics via capture (spec.md §7 category 1). A
// nil fn (an `it` with no body) is the caller's job to treat as a skip
// before reaching here.
func (e *Engine) runUserFunc(ctx context.Context, name []string, mark marks.TestMark, filename *string, timeout time.Duration, fn suite.UserFunc) result.RunResult {
	if fn == nil {
		return result.Skip(name, filename)
	}

	type outcome struct {
		err     error
		timeout bool
	}

	o, _ := clock.TimeoutAsync[outcome](ctx, e.clock, timeout,
		func(ctx context.Context) (outcome, error) {
			return outcome{err: capture(func() error { return fn(ctx, e.cfg) })}, nil
		},
		func(context.Context) (outcome, error) {
			return outcome{timeout: true}, nil
		},
	)

	if o.timeout {
		return result.Timeout(name, filename, timeout)
	}
	if o.err != nil {
		rendered, renderErr := e.renderer(name, o.err, mark, filename)
		if renderErr != nil {
			rendered = nil
		}
		return result.Fail(name, filename, o.err.Error(), rendered)
	}
	return result.Pass(name, filename)
}
