// Package loader implements the module loader (spec.md §4.6): given a list
// of absolute paths to compiled test-module plugins, it dynamically imports
// each one and wraps the loaded suites into a single unnamed parent suite.
//
// JavaScript's dynamic `import()` has no direct Go equivalent; the closest
// idiomatic analogue for "load code I didn't link against at compile time"
// is the standard library's plugin package, which rizqme-gode already uses
// this way in internal/plugins/loader.go (Open + Lookup by symbol name).
// This package follows that same Open/Lookup shape, but looks up a single
// exported symbol, "TestSuite", instead of a 3-function plugin interface —
// a test module's only contract is "default export is a suite" (spec.md
// §4.6), not a general plugin ABI.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"strings"

	"github.com/jamesshore/ergotest-sub002/internal/config"
	"github.com/jamesshore/ergotest-sub002/internal/marks"
	"github.com/jamesshore/ergotest-sub002/internal/render"
	"github.com/jamesshore/ergotest-sub002/internal/suite"
)

// exportedSymbol is the name every test-module plugin must export: a
// package-level variable of type *suite.TestSuite (built via the
// internal/dsl entry points), or a niladic function returning one.
const exportedSymbol = "TestSuite"

// Load dynamically imports each of paths and wraps the results into one
// unnamed parent suite, preserving order (spec.md §4.6, last bullet).
func Load(paths []string) *suite.TestSuite {
	children := make([]suite.TestNode, len(paths))
	for i, path := range paths {
		children[i] = suite.TestNode{Suite: loadOne(path)}
	}
	return suite.New(suite.Params{Children: children})
}

// loadOne imports a single module path, converting every failure mode
// spec.md §4.6 and §7 category 2 name into a synthetic failing suite rather
// than aborting the whole load.
func loadOne(path string) *suite.TestSuite {
	if !filepath.IsAbs(path) {
		// spec.md §8 "Loader — relative path": filename stays unset for this
		// failure specifically, since there was never a real module file to
		// attribute the synthetic case to.
		return syntheticFailure(path, fmt.Sprintf("Test module filenames must use absolute paths: %s", path))
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return syntheticFailure(path, fmt.Sprintf("Test module not found: %s", path)).WithFilename(path)
	}

	p, err := plugin.Open(path)
	if err != nil {
		if isModuleNotFound(err) {
			return syntheticFailure(path, fmt.Sprintf("Test module not found: %s", path)).WithFilename(path)
		}
		return syntheticFailure(path, fmt.Sprintf("Failed to import test module %s: %v", path, err)).WithFilename(path)
	}

	loaded, err := lookupSuite(p)
	if err != nil {
		return syntheticFailure(path, fmt.Sprintf("Test module %s does not export a TestSuite: %v", path, err)).WithFilename(path)
	}

	return loaded.WithFilename(path)
}

// lookupSuite resolves the module's exported TestSuite symbol, accepting
// either a direct *suite.TestSuite value or a niladic constructor function
// — the latter lets a module defer building its suite until load time,
// which matters because internal/dsl's context stack must be empty when
// Describe runs.
func lookupSuite(p *plugin.Plugin) (*suite.TestSuite, error) {
	sym, err := p.Lookup(exportedSymbol)
	if err != nil {
		return nil, err
	}

	switch v := sym.(type) {
	case *suite.TestSuite:
		return v, nil
	case func() *suite.TestSuite:
		return v(), nil
	default:
		return nil, fmt.Errorf("symbol %q has unexpected type %T", exportedSymbol, sym)
	}
}

// isModuleNotFound distinguishes spec.md §4.6's "module not found" case
// from any other import failure. loadOne has already reported a path that
// does not exist (plugin.Open itself only says "realpath failed" for one);
// for the remaining plugin.Open failures, which wrap the dlopen error
// without a typed sentinel, this is a best-effort string match on the
// "no such file" / "cannot open shared object" / "not found" texts — the
// same gap spec.md §9 leaves open for the original implementation.
func isModuleNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such file") ||
		strings.Contains(msg, "cannot open shared object") ||
		strings.Contains(msg, "not found")
}

// rendererSymbol is the name a renderer module must export: a function
// matching internal/render.ErrorRenderer's signature (spec.md §6:
// "renderer is a module path exporting a renderError(...) function").
const rendererSymbol = "RenderError"

// IsLoadableRendererPath reports whether path is an absolute path to a
// plugin exporting RenderError — the renderer preflight check spec.md §4.7
// step 3 requires before a worker run is allowed to start ("If loading
// fails, abort the run with a fatal error").
func IsLoadableRendererPath(path string) bool {
	_, ok := LoadRenderer(path)
	return ok
}

// LoadRenderer loads the RenderError symbol from path, for the worker's own
// use once the parent's preflight check (IsLoadableRendererPath) has
// already passed.
func LoadRenderer(path string) (render.ErrorRenderer, bool) {
	if !filepath.IsAbs(path) {
		return nil, false
	}
	p, err := plugin.Open(path)
	if err != nil {
		return nil, false
	}
	sym, err := p.Lookup(rendererSymbol)
	if err != nil {
		return nil, false
	}
	fn, ok := sym.(func([]string, error, marks.TestMark, *string) (any, error))
	if !ok {
		return nil, false
	}
	return render.ErrorRenderer(fn), true
}

// syntheticFailure builds the one-case failing suite spec.md §7 category 2
// describes: "Converted to a synthetic failing TestCase so the rest of the
// run proceeds." Its name follows spec.md §8's "error when importing
// <basename>" format; callers attach a filename themselves where one
// applies (not every failure mode has a real file to attribute it to).
func syntheticFailure(path, message string) *suite.TestSuite {
	name := fmt.Sprintf("error when importing %s", filepath.Base(path))
	failFn := func(context.Context, config.Accessor) error { return fmt.Errorf("%s", message) }
	c := suite.NewCase([]string{name}, marks.None, nil, failFn)
	return suite.New(suite.Params{
		Name:     []string{name},
		Children: []suite.TestNode{{Case: c}},
	})
}
