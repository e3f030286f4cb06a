// Package suite implements the immutable suite tree: TestSuite, TestCase,
// and BeforeAfter, built once by internal/dsl and never mutated afterward
// (spec.md §3, §4.3).
package suite

import (
	"context"
	"time"

	"github.com/jamesshore/ergotest-sub002/internal/config"
	"github.com/jamesshore/ergotest-sub002/internal/marks"
)

// UserFunc is a hook or case body. It receives the run's context (carrying
// the effective per-call timeout, see internal/engine) and a read-only
// accessor into the run's configuration (spec.md §4.5 step 2, §6
// "getConfig(key)").
type UserFunc func(ctx context.Context, cfg config.Accessor) error

// TestNode is a tagged union over a suite tree's two kinds of child: a
// nested suite or a leaf case (spec.md §9: "tagged variants rather than
// subclassing"). Exactly one field is set.
type TestNode struct {
	Suite *TestSuite
	Case  *TestCase
}

// BeforeAfter is a before/after hook: a generated name (prefixed with the
// owning suite's full path, category, and 1-based occurrence index — e.g.
// "math / beforeAll #2"), an optional timeout, and a user function.
type BeforeAfter struct {
	name    string
	timeout *time.Duration
	fn      UserFunc
}

// NewHook constructs a BeforeAfter. Used only by internal/dsl.
func NewHook(name string, timeout *time.Duration, fn UserFunc) BeforeAfter {
	return BeforeAfter{name: name, timeout: timeout, fn: fn}
}

func (h BeforeAfter) Name() string            { return h.name }
func (h BeforeAfter) Timeout() *time.Duration { return h.timeout }
func (h BeforeAfter) Fn() UserFunc            { return h.fn }

// TestCase is a single test, produced by `it`.
type TestCase struct {
	name    []string
	mark    marks.TestMark
	timeout *time.Duration
	fn      UserFunc
}

// NewCase constructs a TestCase. A case with no user function has its mark
// coerced to marks.Skip, since there is nothing to run — unless it was
// marked Only, in which case the caller (internal/dsl) must instead produce
// a synthetic failing case explaining the misuse (spec.md §3, §4.4 step 3).
func NewCase(name []string, mark marks.TestMark, timeout *time.Duration, fn UserFunc) *TestCase {
	if fn == nil && mark != marks.Only {
		mark = marks.Skip
	}
	return &TestCase{name: name, mark: mark, timeout: timeout, fn: fn}
}

func (c *TestCase) Name() []string            { return c.name }
func (c *TestCase) Mark() marks.TestMark      { return c.mark }
func (c *TestCase) Timeout() *time.Duration   { return c.timeout }
func (c *TestCase) Fn() UserFunc              { return c.fn }

// TestSuite is a named, ordered, immutable container of child suites,
// cases, and hooks, produced by `describe`.
type TestSuite struct {
	name       []string
	mark       marks.TestMark
	timeout    *time.Duration
	children   []TestNode
	beforeAll  []BeforeAfter
	afterAll   []BeforeAfter
	beforeEach []BeforeAfter
	afterEach  []BeforeAfter
	filename   *string
}

// Params bundles TestSuite's construction arguments so New reads cleanly at
// call sites with many optional fields.
type Params struct {
	Name       []string
	Mark       marks.TestMark
	Timeout    *time.Duration
	Children   []TestNode
	BeforeAll  []BeforeAfter
	AfterAll   []BeforeAfter
	BeforeEach []BeforeAfter
	AfterEach  []BeforeAfter
}

// New constructs a TestSuite. Used by internal/dsl and internal/loader.
func New(p Params) *TestSuite {
	return &TestSuite{
		name:       p.Name,
		mark:       p.Mark,
		timeout:    p.Timeout,
		children:   p.Children,
		beforeAll:  p.BeforeAll,
		afterAll:   p.AfterAll,
		beforeEach: p.BeforeEach,
		afterEach:  p.AfterEach,
	}
}

func (s *TestSuite) Name() []string             { return s.name }
func (s *TestSuite) Mark() marks.TestMark       { return s.mark }
func (s *TestSuite) Timeout() *time.Duration    { return s.timeout }
func (s *TestSuite) Children() []TestNode       { return s.children }
func (s *TestSuite) BeforeAll() []BeforeAfter   { return s.beforeAll }
func (s *TestSuite) AfterAll() []BeforeAfter    { return s.afterAll }
func (s *TestSuite) BeforeEach() []BeforeAfter  { return s.beforeEach }
func (s *TestSuite) AfterEach() []BeforeAfter   { return s.afterEach }
func (s *TestSuite) Filename() *string          { return s.filename }

// WithFilename returns a copy of s with its filename set. This is the
// one-shot filename operation spec.md §4.3 describes, used by
// internal/loader once a module has finished importing; it never mutates s
// in place, preserving TestSuite's immutability.
func (s *TestSuite) WithFilename(filename string) *TestSuite {
	clone := *s
	clone.filename = &filename
	return &clone
}
