package engine

import (
	"github.com/jamesshore/ergotest-sub002/internal/marks"
	"github.com/jamesshore/ergotest-sub002/internal/suite"
)

// casePlan and suitePlan are the engine's first-pass output (spec.md §4.5:
// "Implement as a two-pass traversal: first pass computes 'is this subtree
// forced on or off'; second pass executes"). `run` means "execute for
// real"; a false plan still produces a skip result during the second pass,
// it just never invokes hooks or the case body.
type casePlan struct {
	c   *suite.TestCase
	run bool
}

type nodePlan struct {
	suite *suitePlan
	kase  *casePlan
}

type suitePlan struct {
	s        *suite.TestSuite
	run      bool // true iff this subtree has at least one runnable case
	children []nodePlan
}

// planSuite walks s once, deciding which cases will actually execute.
// onlyMode is the whole-tree flag from detectOnlyMode. onlyInherited is true
// if an ancestor (or this suite itself) carries marks.Only, which forces
// every non-skipped descendant on even in only-mode. skipInherited is true
// if an ancestor (or this suite itself) carries marks.Skip, which forces
// every descendant off regardless of only-mode, except cases that are
// themselves marked Only (see planCase).
func planSuite(s *suite.TestSuite, onlyMode, onlyInherited, skipInherited bool) suitePlan {
	suiteSkip := skipInherited || s.Mark() == marks.Skip
	suiteOnly := onlyInherited || s.Mark() == marks.Only

	children := make([]nodePlan, len(s.Children()))
	runnable := false
	for i, child := range s.Children() {
		switch {
		case child.Case != nil:
			cp := planCase(child.Case, onlyMode, suiteOnly, suiteSkip)
			children[i] = nodePlan{kase: &cp}
			if cp.run {
				runnable = true
			}
		case child.Suite != nil:
			sp := planSuite(child.Suite, onlyMode, suiteOnly, suiteSkip)
			children[i] = nodePlan{suite: &sp}
			if sp.run {
				runnable = true
			}
		}
	}

	return suitePlan{s: s, run: runnable, children: children}
}

// planCase resolves spec.md §4.5's mark precedence. A case's own marks.Only
// always wins, even under an inherited skip (rule (b) carries no "no
// intervening skip" qualifier) — only forcing-on via an ancestor's only mark
// (rule (a)) is subject to skipInherited.
func planCase(c *suite.TestCase, onlyMode, onlyInherited, skipInherited bool) casePlan {
	if c.Mark() == marks.Skip || c.Fn() == nil {
		return casePlan{c: c, run: false}
	}
	if c.Mark() == marks.Only {
		return casePlan{c: c, run: true}
	}
	if skipInherited {
		return casePlan{c: c, run: false}
	}
	if !onlyMode {
		return casePlan{c: c, run: true}
	}
	return casePlan{c: c, run: onlyInherited}
}
