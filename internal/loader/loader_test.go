package loader

import (
	"testing"
)

func TestLoadOneRejectsNonAbsolutePath(t *testing.T) {
	s := loadOne("relative/module.so")
	if s.Mark().String() != "none" {
		t.Fatalf("expected the synthetic failure suite to carry no mark, got %s", s.Mark())
	}
	if s.Filename() != nil {
		t.Fatalf("expected no filename for a non-absolute path, got %v", *s.Filename())
	}
	cases := s.Children()
	if len(cases) != 1 || cases[0].Case == nil {
		t.Fatalf("expected one synthetic failing case, got %v", cases)
	}
	if name := cases[0].Case.Name(); len(name) != 1 || name[0] != "error when importing module.so" {
		t.Fatalf(`expected name ["error when importing module.so"], got %v`, name)
	}
	err := cases[0].Case.Fn()(nil, nil)
	if err == nil {
		t.Fatalf("expected the synthetic case to fail")
	}
	if got := err.Error(); got == "" {
		t.Fatalf("expected a non-empty message naming the bad path")
	}
}

func TestLoadOneSetsFilenameWhenTheModuleWasNotFound(t *testing.T) {
	s := loadOne("/abs/no_such.so")
	if s.Filename() == nil || *s.Filename() != "/abs/no_such.so" {
		t.Fatalf("expected the filename to be set to the attempted path, got %v", s.Filename())
	}
}

func TestLoadWrapsEachPathInDeclarationOrder(t *testing.T) {
	root := Load([]string{"relative/a.so", "relative/b.so"})
	children := root.Children()
	if len(children) != 2 {
		t.Fatalf("expected 2 wrapped suites, got %d", len(children))
	}
	if children[0].Suite == nil || children[1].Suite == nil {
		t.Fatalf("expected every child to be a wrapped suite")
	}
}

func TestIsModuleNotFoundMatchesCommonDlopenMessages(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"open foo.so: no such file or directory", true},
		{"foo.so: cannot open shared object file: No such file or directory", true},
		{"plugin: symbol TestSuite not found", true},
		{"plugin was built with a different version of package runtime", false},
	}
	for _, c := range cases {
		if got := isModuleNotFound(errString(c.msg)); got != c.want {
			t.Fatalf("isModuleNotFound(%q) = %v, want %v", c.msg, got, c.want)
		}
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestIsLoadableRendererPathRejectsNonAbsolutePath(t *testing.T) {
	if IsLoadableRendererPath("relative/renderer.so") {
		t.Fatalf("expected a non-absolute renderer path to be unloadable")
	}
}

func TestIsLoadableRendererPathRejectsMissingFile(t *testing.T) {
	if IsLoadableRendererPath("/nonexistent/renderer.so") {
		t.Fatalf("expected a nonexistent renderer path to be unloadable")
	}
}
