// Package engine implements the execution engine (spec.md §4.5): it walks
// an immutable internal/suite.TestSuite tree, resolves only-mode and
// effective timeouts, runs hooks and cases in the declaration order spec.md
// §5 fixes, and folds the results into an internal/result.TestSuiteResult.
// Error containment is grounded on rizqme-gode's SafeOperationWithResult
// (internal/engine/capture.go); the timeout race is grounded on
// internal/clock.TimeoutAsync.
package engine

import (
	"context"
	"time"

	"github.com/jamesshore/ergotest-sub002/internal/clock"
	"github.com/jamesshore/ergotest-sub002/internal/config"
	"github.com/jamesshore/ergotest-sub002/internal/marks"
	"github.com/jamesshore/ergotest-sub002/internal/render"
	"github.com/jamesshore/ergotest-sub002/internal/result"
	"github.com/jamesshore/ergotest-sub002/internal/suite"
)

// Options configures one run (spec.md §6: "options = { timeout?, config?,
// onTestCaseResult?, renderer? }"), plus the keep-alive tick interval C7's
// worker runner needs independently of the watchdog it feeds.
type Options struct {
	Clock             clock.Clock
	DefaultTimeout    time.Duration
	Config            config.Accessor
	Renderer          render.ErrorRenderer
	OnTestCaseResult  func(result.TestCaseResult)
	KeepAliveInterval time.Duration
	OnKeepAlive       func()
}

// Engine runs a suite tree to completion. It holds no mutable state across
// runs; every call to Run is independent.
type Engine struct {
	clock             clock.Clock
	defaultTimeout    time.Duration
	cfg               config.Accessor
	renderer          render.ErrorRenderer
	onTestCaseResult  func(result.TestCaseResult)
	keepAliveInterval time.Duration
	onKeepAlive       func()
}

// New builds an Engine from Options, filling in the spec's documented
// defaults (2000ms default timeout, render.Plain) where the caller left a
// field zero.
func New(opts Options) *Engine {
	e := &Engine{
		clock:             opts.Clock,
		defaultTimeout:    opts.DefaultTimeout,
		cfg:               opts.Config,
		renderer:          opts.Renderer,
		onTestCaseResult:  opts.OnTestCaseResult,
		keepAliveInterval: opts.KeepAliveInterval,
		onKeepAlive:       opts.OnKeepAlive,
	}
	if e.clock == nil {
		e.clock = clock.New()
	}
	if e.defaultTimeout == 0 {
		e.defaultTimeout = 2000 * time.Millisecond
	}
	if e.cfg == nil {
		e.cfg = config.Map{}
	}
	if e.renderer == nil {
		e.renderer = render.Plain
	}
	if e.onTestCaseResult == nil {
		e.onTestCaseResult = func(result.TestCaseResult) {}
	}
	if e.keepAliveInterval == 0 {
		e.keepAliveInterval = e.defaultTimeout / 2
		if e.keepAliveInterval == 0 {
			e.keepAliveInterval = time.Second
		}
	}
	return e
}

// Run executes root to completion (spec.md §4.5, §5). It emits a keepalive
// tick on a fixed interval for the lifetime of the run (§4.5 "Keep-alive
// signal"), drives only-mode detection, and returns the folded suite result.
func (e *Engine) Run(ctx context.Context, root *suite.TestSuite) *result.TestSuiteResult {
	if e.onKeepAlive != nil {
		cancel := e.clock.Repeat(e.keepAliveInterval, e.onKeepAlive)
		defer cancel()
	}

	onlyMode := detectOnlyMode(root)
	plan := planSuite(root, onlyMode, false, false)
	return e.runSuite(ctx, plan, hookChain{}, e.defaultTimeout)
}

// detectOnlyMode scans the whole tree once before execution (spec.md §4.5:
// "Before execution, scan the tree: the run is in only-mode iff any node
// has mark=only").
func detectOnlyMode(s *suite.TestSuite) bool {
	if s.Mark() == marks.Only {
		return true
	}
	for _, child := range s.Children() {
		if child.Case != nil && child.Case.Mark() == marks.Only {
			return true
		}
		if child.Suite != nil && detectOnlyMode(child.Suite) {
			return true
		}
	}
	return false
}

// effectiveTimeout resolves spec.md §4.5's "innermost of: case option,
// parent-suite option, ancestor-suite option, run option, default" chain.
// Callers thread `inherited` down the tree, overriding it with a node's own
// timeout whenever that node sets one; `own` is nil for nodes (most hooks,
// most cases) that don't override.
func effectiveTimeout(own *time.Duration, inherited time.Duration) time.Duration {
	if own != nil {
		return *own
	}
	return inherited
}
