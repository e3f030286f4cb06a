// Package ergotest is the public surface of the test framework: the
// author-facing DSL (spec.md §4.4, §6) and the two automation-facing entry
// points, RunInCurrentProcessAsync and RunInChildProcessAsync (spec.md
// §4.7, §6). A test module built against this package exports its suite as
// a package-level TestSuite variable, the contract internal/loader expects.
package ergotest

import (
	"context"
	"time"

	"github.com/jamesshore/ergotest-sub002/internal/clock"
	"github.com/jamesshore/ergotest-sub002/internal/config"
	"github.com/jamesshore/ergotest-sub002/internal/dsl"
	"github.com/jamesshore/ergotest-sub002/internal/engine"
	"github.com/jamesshore/ergotest-sub002/internal/loader"
	"github.com/jamesshore/ergotest-sub002/internal/marks"
	"github.com/jamesshore/ergotest-sub002/internal/render"
	"github.com/jamesshore/ergotest-sub002/internal/result"
	"github.com/jamesshore/ergotest-sub002/internal/suite"
	"github.com/jamesshore/ergotest-sub002/internal/worker"
)

// Re-exported types test modules and runners both need at their call sites.
type (
	TestSuite       = suite.TestSuite
	TestCaseResult  = result.TestCaseResult
	TestSuiteResult = result.TestSuiteResult
	TestResult      = result.TestResult
	RunResult       = result.RunResult
	TestStatus      = result.TestStatus
	Accessor        = config.Accessor
	UserFunc        = suite.UserFunc
	ErrorRenderer   = render.ErrorRenderer
)

// Options bundles Options fields that differ per call site than per-module
// config, re-exported from internal/dsl.
type Options = dsl.Options

// ---- DSL ------------------------------------------------------------------

// Describe registers a nested suite (spec.md §4.4 `describe`).
func Describe(name string, opts Options, fn func()) *TestSuite {
	return dsl.Describe(name, opts, fn, marks.None)
}

// DescribeSkip registers a suite whose contents never run.
func DescribeSkip(name string, opts Options, fn func()) *TestSuite {
	return dsl.Describe(name, opts, fn, marks.Skip)
}

// DescribeOnly registers a suite that forces only-mode (spec.md §4.5).
func DescribeOnly(name string, opts Options, fn func()) *TestSuite {
	return dsl.Describe(name, opts, fn, marks.Only)
}

// It registers a case (spec.md §4.4 `it`).
func It(name string, opts Options, fn UserFunc) {
	dsl.It(name, opts, fn, marks.None)
}

// ItSkip registers a case that always records skip.
func ItSkip(name string, opts Options, fn UserFunc) {
	dsl.It(name, opts, fn, marks.Skip)
}

// ItOnly registers a case that forces only-mode.
func ItOnly(name string, opts Options, fn UserFunc) {
	dsl.It(name, opts, fn, marks.Only)
}

// BeforeAll, AfterAll, BeforeEach, AfterEach register suite hooks (spec.md §4.4).
func BeforeAll(opts Options, fn UserFunc)  { dsl.BeforeAll(opts, fn) }
func AfterAll(opts Options, fn UserFunc)   { dsl.AfterAll(opts, fn) }
func BeforeEach(opts Options, fn UserFunc) { dsl.BeforeEach(opts, fn) }
func AfterEach(opts Options, fn UserFunc)  { dsl.AfterEach(opts, fn) }

// ---- Automation-facing API --------------------------------------------

// RunOptions is the automation-facing run configuration (spec.md §6
// "options = { timeout?, config?, onTestCaseResult?, renderer? }").
type RunOptions struct {
	Timeout          time.Duration
	Config           map[string]any
	OnTestCaseResult func(TestCaseResult)
	Renderer         ErrorRenderer // in-process only; out-of-process takes a module path instead
	RendererPath     string        // out-of-process only
	WorkerBinary     string        // out-of-process only: path to this program's own binary
	WatchdogInterval time.Duration // out-of-process only
	Clock            clock.Clock   // tests only; defaults to the real clock
}

// RunInCurrentProcessAsync loads paths and executes them in this process
// (spec.md §4.7 "in-process": "load via C6, invoke C5, return the result").
func RunInCurrentProcessAsync(ctx context.Context, paths []string, opts RunOptions) *TestSuiteResult {
	root := loader.Load(paths)

	eng := engine.New(engine.Options{
		Clock:            opts.Clock,
		DefaultTimeout:   opts.Timeout,
		Config:           config.Map(opts.Config),
		Renderer:         opts.Renderer,
		OnTestCaseResult: opts.OnTestCaseResult,
	})
	return eng.Run(ctx, root)
}

// RunInChildProcessAsync loads and executes paths in an isolated worker
// process, under watchdog supervision (spec.md §4.7 "out-of-process").
func RunInChildProcessAsync(ctx context.Context, paths []string, opts RunOptions) (*TestSuiteResult, error) {
	return worker.RunInChildProcessAsync(ctx, worker.Options{
		WorkerBinary:     opts.WorkerBinary,
		ModulePaths:      paths,
		Timeout:          opts.Timeout,
		Config:           opts.Config,
		RendererPath:     opts.RendererPath,
		OnTestCaseResult: opts.OnTestCaseResult,
		Clock:            opts.Clock,
		WatchdogInterval: opts.WatchdogInterval,
	})
}
