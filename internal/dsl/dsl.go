// Package dsl implements the describe/it/beforeEach-style builder that
// produces an immutable internal/suite.TestSuite tree. It mirrors the
// context-stack pattern rizqme-gode's test module uses for its
// Describe/Test/BeforeEach bridge, but replaces the mutable, pointer-linked
// TestSuite/TestRunner pair with a stack of builders that snapshot their
// children once `describe`'s function returns (spec.md §4.4, §9: "build
// immutable value objects, not a mutable tree walked in place").
package dsl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jamesshore/ergotest-sub002/internal/config"
	"github.com/jamesshore/ergotest-sub002/internal/marks"
	"github.com/jamesshore/ergotest-sub002/internal/suite"
)

// builder accumulates one suite's children and hooks while its describe
// function runs. It is pushed onto the stack by Describe and popped when
// Describe's fn returns, whether normally or via panic.
type builder struct {
	name       []string
	mark       marks.TestMark
	timeout    *time.Duration
	children   []suite.TestNode
	beforeAll  []suite.BeforeAfter
	afterAll   []suite.BeforeAfter
	beforeEach []suite.BeforeAfter
	afterEach  []suite.BeforeAfter

	hookCounts map[string]int // category name -> occurrences so far, for "#N" naming
}

func newBuilder(name []string, mark marks.TestMark, timeout *time.Duration) *builder {
	return &builder{name: name, mark: mark, timeout: timeout, hookCounts: make(map[string]int)}
}

func (b *builder) hookName(category string) string {
	b.hookCounts[category]++
	n := b.hookCounts[category]
	path := pathString(b.name)
	if n == 1 {
		return fmt.Sprintf("%s / %s", path, category)
	}
	return fmt.Sprintf("%s / %s #%d", path, category, n)
}

func pathString(name []string) string {
	out := ""
	for i, n := range name {
		if i > 0 {
			out += " > "
		}
		out += n
	}
	return out
}

// stack is the process-wide context stack of builders (spec.md §4.4: "a
// process-wide context stack of per-suite builders backs the DSL entry
// points"). Guarded by mu since module loading (internal/loader) may import
// several test modules concurrently.
type stack struct {
	mu    sync.Mutex
	items []*builder
}

var current = &stack{}

func (s *stack) push(b *builder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, b)
}

func (s *stack) pop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = s.items[:len(s.items)-1]
}

func (s *stack) top() (*builder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[len(s.items)-1], true
}

// Options carries the overloaded describe/it argument fields spec.md §4.4
// step 1 describes as needing "decode the overloaded signature" into. Go
// has no call-signature overloading, so instead of decoding argument shapes
// at runtime, Options is the second, optional positional argument; the
// Describe/It wrappers supply the zero value when the caller omits it.
type Options struct {
	Timeout time.Duration // zero means "inherit"
}

func (o Options) timeoutPtr() *time.Duration {
	if o.Timeout == 0 {
		return nil
	}
	t := o.Timeout
	return &t
}

// Fn is a describe body: it runs synchronously and registers children and
// hooks against the builder Describe pushed for it (spec.md §4.4 step 4).
type Fn func()

// Describe implements spec.md §4.4's `describe`. name may be empty, in
// which case the suite inherits its parent's path unchanged (step 2). If fn
// is nil, Describe yields a skipped suite, unless mark is marks.Only, in
// which case it yields a suite with one synthetic failing case (step 3).
func Describe(name string, opts Options, fn Fn, mark marks.TestMark) *suite.TestSuite {
	parent, hasParent := current.top()

	fullName := describeFullName(parent, name)

	if fn == nil {
		return buildFnlessSuite(fullName, mark, opts, hasParent, parent)
	}

	b := newBuilder(fullName, mark, opts.timeoutPtr())
	current.push(b)

	func() {
		defer current.pop()
		fn()
	}()

	result := suite.New(suite.Params{
		Name:       b.name,
		Mark:       b.mark,
		Timeout:    b.timeout,
		Children:   b.children,
		BeforeAll:  b.beforeAll,
		AfterAll:   b.afterAll,
		BeforeEach: b.beforeEach,
		AfterEach:  b.afterEach,
	})

	if hasParent {
		parent.children = append(parent.children, suite.TestNode{Suite: result})
	}
	return result
}

func describeFullName(parent *builder, name string) []string {
	var parentName []string
	if parent != nil {
		parentName = parent.name
	}
	if name == "" {
		return append([]string{}, parentName...)
	}
	return append(append([]string{}, parentName...), name)
}

// buildFnlessSuite handles spec.md §4.4 step 3's two outcomes for a
// describe call with no function: an ordinary skipped suite, or — when the
// caller wrote `describe.only(...)` without a body, which can never run
// anything — a suite holding one synthetic failing case that explains the
// misuse, the same "fail fast with a message naming the function" discipline
// step 6 demands of argument-shape errors.
func buildFnlessSuite(fullName []string, mark marks.TestMark, opts Options, hasParent bool, parent *builder) *suite.TestSuite {
	var children []suite.TestNode
	effectiveMark := mark
	if mark == marks.Only {
		caseName := append(append([]string{}, fullName...), "(describe.only with no function)")
		failFn := func(_ context.Context, _ config.Accessor) error {
			return fmt.Errorf("describe.only(%q) was called without a function; it can never run", pathString(fullName))
		}
		children = []suite.TestNode{{Case: suite.NewCase(caseName, marks.Only, nil, failFn)}}
	} else {
		effectiveMark = marks.Skip
	}

	result := suite.New(suite.Params{
		Name:     fullName,
		Mark:     effectiveMark,
		Timeout:  opts.timeoutPtr(),
		Children: children,
	})
	if hasParent {
		parent.children = append(parent.children, suite.TestNode{Suite: result})
	}
	return result
}

// It implements spec.md §4.4's `it`. It requires a non-empty stack; an
// empty name is rewritten to "(unnamed)" (the DSL entry point, not
// suite.NewCase, performs that rewrite, matching where spec.md places it).
func It(name string, opts Options, fn suite.UserFunc, mark marks.TestMark) {
	b, ok := current.top()
	if !ok {
		panic("it() called outside describe()")
	}
	if name == "" {
		name = "(unnamed)"
	}
	fullName := append(append([]string{}, b.name...), name)
	if fn == nil && mark == marks.Only {
		path := pathString(fullName)
		fn = func(_ context.Context, _ config.Accessor) error {
			return fmt.Errorf("it.only(%q) was called without a function; it can never run", path)
		}
	}
	c := suite.NewCase(fullName, mark, opts.timeoutPtr(), fn)
	b.children = append(b.children, suite.TestNode{Case: c})
}

// BeforeAll implements spec.md §4.4's `beforeAll`.
func BeforeAll(opts Options, fn suite.UserFunc) {
	addHook("beforeAll", opts, fn, func(b *builder, h suite.BeforeAfter) {
		b.beforeAll = append(b.beforeAll, h)
	})
}

// AfterAll implements spec.md §4.4's `afterAll`.
func AfterAll(opts Options, fn suite.UserFunc) {
	addHook("afterAll", opts, fn, func(b *builder, h suite.BeforeAfter) {
		b.afterAll = append(b.afterAll, h)
	})
}

// BeforeEach implements spec.md §4.4's `beforeEach`.
func BeforeEach(opts Options, fn suite.UserFunc) {
	addHook("beforeEach", opts, fn, func(b *builder, h suite.BeforeAfter) {
		b.beforeEach = append(b.beforeEach, h)
	})
}

// AfterEach implements spec.md §4.4's `afterEach`.
func AfterEach(opts Options, fn suite.UserFunc) {
	addHook("afterEach", opts, fn, func(b *builder, h suite.BeforeAfter) {
		b.afterEach = append(b.afterEach, h)
	})
}

func addHook(category string, opts Options, fn suite.UserFunc, attach func(*builder, suite.BeforeAfter)) {
	b, ok := current.top()
	if !ok {
		panic(category + "() called outside describe()")
	}
	if fn == nil {
		panic(category + "() requires a function argument")
	}
	name := b.hookName(category)
	attach(b, suite.NewHook(name, opts.timeoutPtr(), fn))
}
