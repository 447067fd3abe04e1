package predpatt

import "strings"

// topXcomp climbs the chain of xcomp predicates above p and returns the predicate at its top, or nil if
// the chain ends at the root.
func (x *extractor) topXcomp(p *predicate) *predicate {
	c := x.s.gov(p.root)
	for c != 0 && x.s.rel(c) == x.ud.Xcomp && x.byRoot[c] != nil {
		c = x.s.gov(c)
	}

	return x.byRoot[c]
}

// parents lists the predicates governing p, nearest first.
func (x *extractor) parents(p *predicate) []*predicate {
	res := make([]*predicate, 0, 4)
	for c := x.s.gov(p.root); c != 0; c = x.s.gov(c) {
		if g := x.byRoot[c]; g != nil {
			res = append(res, g)
		}
	}

	return res
}

// borrow lends a to p as a shared reference unless p already has an argument at the same root.
func (x *extractor) borrow(p *predicate, a *argument, id RuleID, from *predicate) {
	if p.hasArg(a.root) {
		return
	}

	ref := a.reference()
	ref.rules = append(ref.rules, Rule{ID: id, Token: a.root, Friend: from.root})
	p.args = append(p.args, ref)
}

func (x *extractor) markedFromOrFor(root int) bool {
	for _, e := range x.s.deps(root) {
		if e.Rel != x.ud.Mark {
			continue
		}
		switch strings.ToLower(x.s.text(e.Dependent)) {
		case "from", "for":
			return true
		}
	}

	return false
}

// resolveArguments runs the argument resolution passes over the identified predicates and returns the
// predicates that remain events afterwards.
func (x *extractor) resolveArguments(events []*predicate) []*predicate {
	if !x.opts.Cut {
		events = x.mergeXcomp(events)
	}

	if x.opts.borrowRelcl() {
		for _, p := range events {
			if strings.HasPrefix(x.s.rel(p.root), x.ud.Acl) {
				p.args = append(p.args, newArgument(x.s.gov(p.root), Rule{ID: RuleArgResolveRelcl}))
				p.rules = append(p.rules, Rule{ID: RulePredResolveRelcl})
			}
		}
		if x.opts.ResolveConj {
			x.spreadRelcl(events)
		}
	}

	if x.opts.ResolveConj {
		for _, p := range events {
			if x.s.rel(p.root) != x.ud.Conj {
				continue
			}
			g := x.byRoot[x.s.gov(p.root)]
			if g == nil {
				continue
			}

			if !p.hasSubj(x.s) {
				if subj := g.subj(x.s); subj != nil {
					x.borrow(p, subj, RuleBorrowSubj, g)
				} else if top := x.topXcomp(g); top != nil {
					if subj := top.subj(x.s); subj != nil {
						x.borrow(p, subj, RuleBorrowSubj, top)
					}
				}
			}
			if p.ownArgs() == 0 && !p.hasObj(x.s) {
				if obj := g.obj(x.s); obj != nil {
					x.borrow(p, obj, RuleBorrowObj, g)
				}
			}
		}
	}

	for _, p := range events {
		if x.s.rel(p.root) != x.ud.Advcl || p.hasSubj(x.s) || x.markedFromOrFor(p.root) {
			continue
		}
		if g := x.byRoot[x.s.gov(p.root)]; g != nil {
			if subj := g.subj(x.s); subj != nil {
				x.borrow(p, subj, RuleBorrowSubj, g)
			}
		}
	}

	if x.opts.Cut {
		for _, p := range events {
			if x.s.rel(p.root) == x.ud.Xcomp {
				x.cutBorrow(p)
			}
		}
	}

	for _, p := range events {
		if x.s.rel(p.root) != x.ud.Advcl || p.hasSubj(x.s) || !x.markedFromOrFor(p.root) {
			continue
		}
		if g := x.byRoot[x.s.gov(p.root)]; g != nil {
			if obj := g.obj(x.s); obj != nil {
				x.borrow(p, obj, RuleBorrowSubj, g)
			}
		}
	}

	for _, p := range events {
		x.borrowMissingSubj(p)
	}

	return events
}

// mergeXcomp folds every xcomp predicate into the top of its xcomp chain. Merged predicates stay in
// byRoot but are no longer events.
func (x *extractor) mergeXcomp(events []*predicate) []*predicate {
	merged := make(map[int]bool)
	for _, p := range events {
		if x.s.rel(p.root) != x.ud.Xcomp {
			continue
		}
		g := x.topXcomp(p)
		if g == nil {
			continue
		}

		g.rules = append(g.rules, Rule{ID: RuleL})
		for _, a := range p.args {
			a.rules = append(a.rules, Rule{ID: RuleL})
			g.args = append(g.args, a)
		}
		merged[p.root] = true
	}

	kept := events[:0:0]
	for _, p := range events {
		if !merged[p.root] {
			kept = append(kept, p)
		}
	}

	return kept
}

// spreadRelcl gives the conjuncts of a relative clause predicate the noun the clause modifies. events must
// be in position order so that chains of conjuncts are handled left to right.
func (x *extractor) spreadRelcl(events []*predicate) {
	for _, p := range events {
		if x.s.rel(p.root) != x.ud.Conj || p.rules.has(RulePredResolveRelcl) {
			continue
		}
		g := x.byRoot[x.s.gov(p.root)]
		if g == nil || !g.rules.has(RulePredResolveRelcl) {
			continue
		}

		for _, a := range g.args {
			if a.rules.has(RuleArgResolveRelcl) && !p.hasArg(a.root) {
				p.args = append(p.args, newArgument(a.root, Rule{ID: RuleArgResolveRelcl}))
				p.rules = append(p.rules, Rule{ID: RulePredResolveRelcl})
				break
			}
		}
	}
}

// cutBorrow gives an embedded xcomp predicate the controller found in the nearest governing predicate.
func (x *extractor) cutBorrow(p *predicate) {
	for _, g := range x.parents(p) {
		if obj := g.obj(x.s); obj != nil {
			x.borrow(p, obj, RuleCutBorrowObj, g)
			return
		}
		if subj := g.subj(x.s); subj != nil {
			x.borrow(p, subj, RuleCutBorrowSubj, g)
			return
		}
		if x.ud.IsAdjLike(x.s.rel(g.root)) {
			gov := x.s.gov(g.root)
			if !p.hasArg(gov) {
				p.args = append(p.args, newArgument(gov, Rule{ID: RuleCutBorrowOther, Token: gov, Friend: g.root}))
			}
			return
		}
	}
}

// borrowMissingSubj lends a subject to a plain predicate that still has none, taking it from the
// governing predicate or from the top of its xcomp chain.
func (x *extractor) borrowMissingSubj(p *predicate) {
	rel := x.s.rel(p.root)
	switch {
	case p.hasSubj(x.s), p.kind != KindNormal, p.hasBorrowedArg():
		return
	case rel == x.ud.Csubj, rel == x.ud.Csubjpass, strings.HasPrefix(rel, x.ud.Acl):
		return
	case rel == x.ud.Conj && !x.opts.ResolveConj:
		return
	}

	g := x.byRoot[x.s.gov(p.root)]
	if g == nil {
		return
	}
	if subj := g.subj(x.s); subj != nil {
		x.borrow(p, subj, RuleBorrowSubj, g)
		return
	}
	if top := x.topXcomp(p); top != nil {
		if subj := top.subj(x.s); subj != nil {
			x.borrow(p, subj, RuleBorrowSubj, top)
		}
	}
}

// coordinate adds the conjuncts of p's arguments as arguments of p itself. Own arguments without a span
// are dropped; borrowed ones are kept until their owner has extracted its phrases. Calling it again on the
// same predicate changes nothing.
func (x *extractor) coordinate(p *predicate) {
	args := make([]*argument, 0, len(p.args))
	for _, a := range p.args {
		if a.share || len(a.tokens()) > 0 {
			args = append(args, a)
		}
	}
	p.args = args

	if !x.opts.ResolveConj || p.kind == KindAmod {
		return
	}

	for _, a := range args {
		if rel := x.s.rel(a.root); rel == x.ud.Ccomp || rel == x.ud.Csubj {
			continue
		}

		for _, e := range x.s.deps(a.root) {
			if e.Rel != x.ud.Conj || p.hasArg(e.Dependent) {
				continue
			}

			c := newArgument(e.Dependent, Rule{ID: RuleM})
			x.extractArgPhrase(p, c)
			if len(c.tokens()) > 0 {
				p.args = append(p.args, c)
			}
		}
	}

	p.sortArgs()
}

// dropRelclDummies removes relative pronoun arguments from predicates given the noun their clause
// modifies.
func (x *extractor) dropRelclDummies(p *predicate) {
	if !p.rules.has(RulePredResolveRelcl) {
		return
	}

	kept := make([]*argument, 0, len(p.args))
	for _, a := range p.args {
		switch strings.ToLower(x.phrase(a.tokens())) {
		case "that", "which", "who":
			continue
		}
		kept = append(kept, a)
	}

	if len(kept) != len(p.args) {
		p.args = kept
		p.rules = append(p.rules, Rule{ID: RuleEnRelclDummyArgFilter})
	}
}
