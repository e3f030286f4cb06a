// Package render defines the one capability the core depends on but does
// not implement: turning a failing user function's error into the opaque
// value a RunResult carries as ErrorRender. spec.md §1 and §9 treat the
// colorized renderer as an external collaborator — "inject at run time; do
// not hard-code" — so this package is deliberately just an interface and a
// minimal default, never a colorizer.
package render

import "github.com/jamesshore/ergotest-sub002/internal/marks"

// ErrorRenderer turns a failing user function's error into an opaque,
// renderer-specific value. name is the case or hook's full path, mark is
// its TestMark, and filename is the test module it came from, if known.
type ErrorRenderer func(name []string, err error, mark marks.TestMark, filename *string) (any, error)

// Plain is the trivial default renderer used when a run configures none:
// it renders nothing beyond the error's own message, which RunResult
// already stores separately as ErrorMessage. Real (colorized, diff-aware)
// rendering is out of scope for this core — see spec.md §1.
func Plain(_ []string, err error, _ marks.TestMark, _ *string) (any, error) {
	if err == nil {
		return nil, nil
	}
	return err.Error(), nil
}

// SourceLookup is the capability interface for the source-map lookup used
// only for stack highlighting (spec.md §1, explicitly out of scope: "specify
// only their interfaces where the core touches them"). No implementation
// ships in this repository; a host that wants stack highlighting supplies
// one and threads it through its own ErrorRenderer.
type SourceLookup func(file string, line, column int) (originalFile string, originalLine, originalColumn int, ok bool)
