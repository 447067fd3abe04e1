package predpatt

import "strings"

// extractor carries the state of one extraction.
type extractor struct {
	s    *sentence
	ud   *Schema
	opts Options

	// byRoot holds every identified predicate, including xcomp predicates merged into their governor.
	byRoot map[int]*predicate
	// events holds the predicates that survived argument resolution.
	events []*predicate
}

func newExtractor(p *Parse, opts Options) *extractor {
	ud := opts.schema()

	return &extractor{
		s:    newSentence(p, ud),
		ud:   ud,
		opts: opts,
	}
}

func (x *extractor) govLooksLikePredicate(e Edge) bool {
	if x.s.tag(e.Head) == TagVERB {
		switch e.Rel {
		case x.ud.Nmod, x.ud.NmodNpmod, x.ud.Obl, x.ud.OblNpmod:
			return true
		}
	}

	switch e.Rel {
	case x.ud.Nsubj, x.ud.Nsubjpass, x.ud.Csubj, x.ud.Csubjpass, x.ud.Dobj, x.ud.Iobj, x.ud.Ccomp, x.ud.Xcomp, x.ud.Advcl:
		return true
	default:
		return false
	}
}

func (x *extractor) qualifiedConjoinedPredicate(gov, dep int) bool {
	if !x.s.isWord(dep) {
		return false
	}
	if x.s.tag(gov) == TagVERB {
		return x.s.tag(dep) == TagVERB
	}

	return true
}

// identifyPredicates runs the predicate root rules over every edge, then spreads predicate status over
// qualified conjuncts. The result is ordered by root position.
func (x *extractor) identifyPredicates() []*predicate {
	roots := make(map[int]*predicate)
	order := make([]*predicate, 0, 8)

	nominate := func(root int, rule Rule, kind PredicateKind) *predicate {
		if p, ok := roots[root]; ok {
			p.rules = append(p.rules, rule)
			return p
		}

		p := &predicate{root: root, kind: kind, rules: ruleList{rule}}
		roots[root] = p
		order = append(order, p)

		return p
	}

	for _, e := range x.s.edges {
		if e.Head == 0 || !x.s.isWord(e.Dependent) {
			continue
		}

		for _, r := range predicateRootRules {
			if r.guarded && x.s.rel(e.Head) == x.ud.Dep {
				break
			}
			if !r.match(x, e) {
				continue
			}

			switch r.target {
			case targetGovernor:
				nominate(e.Head, Rule{ID: r.id, Rel: e.Rel, Token: e.Head, Friend: e.Dependent}, r.kind)
			default:
				nominate(e.Dependent, Rule{ID: r.id}, r.kind)
			}
		}
	}

	queue := append(make([]*predicate, 0, len(order)), order...)
	for len(queue) > 0 {
		gov := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		for _, e := range x.s.deps(gov.root) {
			if e.Rel == x.ud.Conj && x.qualifiedConjoinedPredicate(e.Head, e.Dependent) {
				queue = append(queue, nominate(e.Dependent, Rule{ID: RuleF}, KindNormal))
			}
		}
	}

	sortPredicates(order)
	return order
}

// extractArguments runs the argument root rules over the dependents of p's root.
func (x *extractor) extractArguments(p *predicate) []*argument {
	args := make([]*argument, 0, 4)

	for _, e := range x.s.deps(p.root) {
		for _, r := range argumentRootRules {
			if !r.match(x, p, e) {
				continue
			}
			if !r.exclude {
				rule := Rule{ID: r.id}
				if r.id == RuleG1 {
					rule.Rel = e.Rel
				}
				args = append(args, newArgument(e.Dependent, rule))
			}
			break
		}
	}

	for _, e := range x.s.deps(p.root) {
		if e.Rel != x.ud.Advmod {
			continue
		}
		for _, tr := range x.s.deps(e.Dependent) {
			if strings.HasPrefix(tr.Rel, x.ud.Nmod) || tr.Rel == x.ud.Obl {
				args = append(args, newArgument(tr.Dependent, Rule{ID: RuleH2}))
			}
		}
	}

	gov := x.s.gov(p.root)
	switch p.kind {
	case KindAmod:
		args = append(args, newArgument(gov, Rule{ID: RuleI}))
	case KindAppos:
		args = append(args, newArgument(gov, Rule{ID: RuleJ}))
	case KindPoss:
		args = append(args, newArgument(gov, Rule{ID: RuleW1}))
		args = append(args, newArgument(p.root, Rule{ID: RuleW2}))
	}

	return args
}
