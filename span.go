package predpatt

import (
	"sort"
	"strings"
)

// functionWordTags are the tags of words that never make a useful argument on their own.
var functionWordTags = map[string]bool{
	TagADP:   true,
	TagAUX:   true,
	TagCCONJ: true,
	TagDET:   true,
	TagPART:  true,
	TagSCONJ: true,
	TagPUNCT: true,
}

func (x *extractor) isEventRoot(pos int) bool {
	for _, p := range x.events {
		if p.root == pos {
			return true
		}
	}

	return false
}

// extractPredPhrase builds the predicate span from the root subtree, then pulls in the case markers of the
// arguments.
func (x *extractor) extractPredPhrase(p *predicate) {
	if p.kind == KindPoss {
		p.tokens = []int{p.root}
		return
	}

	follow := x.predPhraseFollow(p)
	p.tokens = x.s.subtree(p.root, follow)

	if x.opts.Simple {
		return
	}

	for _, a := range p.args {
		if x.ud.IsAdjLike(x.s.rel(p.root)) && x.s.gov(p.root) == a.root {
			continue
		}

		// The case marker brings along what the predicate phrase itself would keep below it.
		for _, e := range x.s.deps(a.root) {
			if e.Rel == x.ud.Case {
				a.rules = append(a.rules, Rule{ID: RuleMoveCaseTokenToPred, Token: e.Dependent})
				p.tokens = append(p.tokens, x.s.subtree(e.Dependent, follow)...)
				p.rules = append(p.rules, Rule{ID: RuleN6, Token: e.Dependent})
			}
		}
	}
}

func (x *extractor) predPhraseFollow(p *predicate) func(e Edge) bool {
	return func(e Edge) bool {
		if p.hasArg(e.Dependent) {
			p.rules = append(p.rules, Rule{ID: RuleN2, Token: e.Dependent})
			return false
		}
		if x.isEventRoot(e.Dependent) && e.Rel != x.ud.Amod {
			p.rules = append(p.rules, Rule{ID: RuleN3, Token: e.Dependent})
			return false
		}
		if x.ud.predDepsToDrop[e.Rel] {
			p.rules = append(p.rules, Rule{ID: RuleN4, Token: e.Dependent})
			return false
		}
		if (e.Head == p.root || x.s.rel(e.Head) == x.ud.Xcomp) && (e.Rel == x.ud.Cc || e.Rel == x.ud.Conj) {
			p.rules = append(p.rules, Rule{ID: RuleN5, Token: e.Dependent})
			return false
		}
		if x.opts.Simple {
			switch e.Rel {
			case x.ud.Advmod:
				p.rules = append(p.rules, Rule{ID: RuleQ, Token: e.Dependent})
				return false
			case x.ud.Aux:
				p.rules = append(p.rules, Rule{ID: RuleR, Token: e.Dependent})
				return false
			}
		}

		p.rules = append(p.rules, Rule{ID: RuleN1, Token: e.Dependent})
		return true
	}
}

func (x *extractor) extractArgPhrase(p *predicate, a *argument) {
	a.span.positions = append(a.span.positions, x.s.subtree(a.root, x.argPhraseFollow(p, a))...)
}

func (x *extractor) argPhraseFollow(p *predicate, a *argument) func(e Edge) bool {
	return func(e Edge) bool {
		if x.opts.BigArgs {
			return true
		}

		drop := func(id RuleID) bool {
			a.rules = append(a.rules, Rule{ID: id, Token: e.Dependent})
			return false
		}

		switch {
		case p.hasToken(e.Dependent):
			return drop(RulePredicateHas)
		case e.Head == a.root && e.Rel == x.ud.Case:
			return false
		case x.opts.ResolveAppos && e.Rel == x.ud.Appos:
			return drop(RuleDropAppos)
		case e.Rel == x.ud.Dep:
			return drop(RuleDropUnknown)
		case a.root == x.s.gov(p.root) && e.Head == a.root && x.ud.specialArgDrop[e.Rel]:
			return drop(RuleSpecialArgDropDirectDep)
		case x.opts.ResolveConj && e.Head == a.root && (e.Rel == x.ud.Cc || e.Rel == x.ud.CcPreconj):
			return drop(RuleDropCc)
		case x.opts.ResolveConj && e.Head == a.root && e.Rel == x.ud.Conj:
			return drop(RuleDropConj)
		}

		a.rules = append(a.rules, Rule{ID: RuleCleanArgToken, Token: e.Dependent})
		return true
	}
}

// simpleArg decides whether a survives simple mode.
func (x *extractor) simpleArg(p *predicate, a *argument) bool {
	if p.kind == KindPoss {
		return true
	}
	if x.ud.IsAdjLike(x.s.rel(p.root)) && x.s.gov(p.root) == a.root {
		return true
	}

	rel := x.s.rel(a.root)
	if x.ud.IsSubj(rel) {
		return true
	}
	if x.ud.IsNmod(rel) {
		p.rules = append(p.rules, Rule{ID: RuleP1, Token: a.root})
		return false
	}

	gov := x.s.gov(a.root)
	if gov != p.root && x.s.rel(gov) != x.ud.Xcomp {
		p.rules = append(p.rules, Rule{ID: RuleP2, Token: a.root})
		return false
	}
	if tokens := a.tokens(); len(tokens) == 1 && functionWordTags[x.s.tag(tokens[0])] {
		p.rules = append(p.rules, Rule{ID: RuleP2, Token: a.root})
		return false
	}

	return true
}

// resolveConjunctionTokens lends a coordinated predicate the negation of its coordinator, and the span of
// the xcomp governor it is coordinated under.
func (x *extractor) resolveConjunctionTokens(p *predicate) {
	gov := x.s.gov(p.root)

	if g := x.byRoot[gov]; g != nil && p.shareSubj(x.s, g) {
		for _, d := range x.s.deps(g.root) {
			if d.Rel == x.ud.Neg {
				p.tokens = append(p.tokens, d.Dependent)
				p.rules = append(p.rules, Rule{ID: RulePredConjBorrowAuxNeg, Token: d.Dependent, Friend: g.root})
			}
		}
	}

	if !x.opts.Cut && x.s.rel(gov) == x.ud.Xcomp {
		if g := x.topXcomp(p); g != nil {
			for _, y := range g.tokens {
				if y == gov || x.s.rel(y) == x.ud.Case {
					continue
				}
				if x.s.gov(y) == gov && x.s.rel(y) == x.ud.Advmod {
					continue
				}

				p.tokens = append(p.tokens, y)
				p.rules = append(p.rules, Rule{ID: RulePredConjBorrowTokensXcomp, Token: y, Friend: g.root})
			}
		}
	}
}

// strip sorts tokens and trims trivial tokens from both ends. An argument that starts with a marker in
// front of a verb keeps the marker. Runs of punctuation collapse to their last token and a trailing
// punctuation token is removed. The second result reports whether anything was removed.
func (x *extractor) strip(tokens []int, isArg bool) ([]int, bool) {
	res := append(make([]int, 0, len(tokens)), tokens...)
	sort.Ints(res)
	if !x.opts.strip() {
		return res, false
	}

	orig := len(res)
	for len(res) > 0 && x.ud.IsTrivial(x.s.rel(res[0])) {
		if isArg && x.s.rel(res[0]) == x.ud.Mark {
			if len(res) < 2 {
				res = res[:0]
				break
			}
			if x.s.tag(res[1]) == TagVERB {
				break
			}
		}
		res = res[1:]
	}
	for len(res) > 0 && x.ud.IsTrivial(x.s.rel(res[len(res)-1])) {
		res = res[:len(res)-1]
	}

	kept := make([]int, 0, len(res))
	for i, pos := range res {
		if x.s.rel(pos) != x.ud.Punct || (i+1 < len(res) && x.s.rel(res[i+1]) != x.ud.Punct) {
			kept = append(kept, pos)
		}
	}

	return kept, len(kept) != orig
}

func (x *extractor) stripPredicate(p *predicate) {
	var changed bool
	p.tokens, changed = x.strip(p.tokens, false)
	if changed {
		p.rules = append(p.rules, Rule{ID: RuleU})
	}
}

// stripArgument replaces a's span, which detaches it from any reference sharing the old one.
func (x *extractor) stripArgument(a *argument) {
	tokens, changed := x.strip(a.tokens(), true)
	a.span = &span{positions: tokens}
	if changed {
		a.rules = append(a.rules, Rule{ID: RuleU})
	}
}

func (x *extractor) phrase(tokens []int) string {
	words := make([]string, 0, len(tokens))
	for _, pos := range tokens {
		words = append(words, x.s.text(pos))
	}

	return strings.Join(words, " ")
}
