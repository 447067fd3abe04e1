package predpatt

import "sort"

type PredicateKind string

func (k PredicateKind) Valid() bool {
	switch k {
	case KindNormal, KindPoss, KindAppos, KindAmod:
		return true
	default:
		return false
	}
}

const (
	// KindNormal predicates are headed by verbs, copular clauses and clausal complements.
	KindNormal PredicateKind = "normal"
	// KindPoss predicates relate a possessor and a possessee.
	KindPoss PredicateKind = "poss"
	// KindAppos predicates are built from an appositive and the noun it renames.
	KindAppos PredicateKind = "appos"
	// KindAmod predicates are built from an adjectival modifier and the noun it modifies.
	KindAmod PredicateKind = "amod"
)

// span is a token list that argument references share until one of them is stripped.
type span struct {
	positions []int
}

// argument is a working argument candidate.
type argument struct {
	root  int
	rules ruleList
	share bool
	span  *span
}

func newArgument(root int, rules ...Rule) *argument {
	return &argument{root: root, rules: rules, span: &span{}}
}

// reference makes a shared copy of a. The copy sees later changes to a's span.
func (a *argument) reference() *argument {
	return &argument{
		root:  a.root,
		rules: append(ruleList(nil), a.rules...),
		share: true,
		span:  a.span,
	}
}

func (a *argument) tokens() []int {
	return a.span.positions
}

// predicate is a working predicate candidate.
type predicate struct {
	root   int
	kind   PredicateKind
	rules  ruleList
	args   []*argument
	tokens []int
}

func (p *predicate) hasToken(pos int) bool {
	for _, t := range p.tokens {
		if t == pos {
			return true
		}
	}

	return false
}

func (p *predicate) hasArg(root int) bool {
	for _, a := range p.args {
		if a.root == root {
			return true
		}
	}

	return false
}

func (p *predicate) subj(s *sentence) *argument {
	for _, a := range p.args {
		if s.ud.IsSubj(s.rel(a.root)) {
			return a
		}
	}

	return nil
}

func (p *predicate) obj(s *sentence) *argument {
	for _, a := range p.args {
		if s.ud.IsObj(s.rel(a.root)) {
			return a
		}
	}

	return nil
}

func (p *predicate) hasSubj(s *sentence) bool { return p.subj(s) != nil }
func (p *predicate) hasObj(s *sentence) bool  { return p.obj(s) != nil }

// shareSubj reports whether both predicates have a subject rooted at the same token.
func (p *predicate) shareSubj(s *sentence, other *predicate) bool {
	a, b := p.subj(s), other.subj(s)
	return a != nil && b != nil && a.root == b.root
}

func (p *predicate) hasBorrowedArg() bool {
	for _, a := range p.args {
		if a.share && len(a.rules) > 0 {
			return true
		}
	}

	return false
}

// ownArgs counts the arguments that were not borrowed from another predicate.
func (p *predicate) ownArgs() int {
	n := 0
	for _, a := range p.args {
		if !a.share {
			n++
		}
	}

	return n
}

func (p *predicate) sortArgs() {
	sort.SliceStable(p.args, func(i, j int) bool {
		return p.args[i].root < p.args[j].root
	})
}

func sortPredicates(preds []*predicate) {
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].root < preds[j].root
	})
}
