// Package config holds the two distinct configuration concepts ergotest
// carries (spec.md §6, SPEC_FULL.md §2 AMBIENT STACK):
//
//   - Accessor is the run-scoped, read-only key/value map every user
//     function can query via getConfig(key); it is part of the public
//     contract in spec.md §6.
//   - Ambient, added in SPEC_FULL.md: tool-level defaults (timeouts, the
//     watchdog interval, the worker binary path) loaded once per process
//     from an optional ergotest.yml plus environment overrides.
package config

import "fmt"

// Accessor is the read-only view of a run's configuration values, passed
// into every user function. Values must be structured-clone-serializable
// (spec.md §6), i.e. plain data: strings, numbers, bools, slices, maps.
type Accessor interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (any, bool)

	// MustGet returns the value for key, panicking with a message that
	// names the key if it is absent (spec.md §6: "the message must
	// mention the key"). The execution engine converts this panic into a
	// failing RunResult like any other user-code panic (spec.md §7,
	// category 1).
	MustGet(key string) any
}

// Map is the straightforward Accessor backed by a plain map, built once per
// run from options.Config (spec.md §6) and shared read-only across every
// user function invocation (spec.md §5: "Configuration is read-only during
// a run").
type Map map[string]any

func (m Map) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Map) MustGet(key string) any {
	v, ok := m[key]
	if !ok {
		panic(fmt.Sprintf("no such config key: %q", key))
	}
	return v
}

var _ Accessor = Map(nil)
