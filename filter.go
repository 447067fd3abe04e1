package predpatt

import (
	"strings"
)

type FilterName string

func (n FilterName) Valid() bool {
	_, ok := namedFilters[n]
	return ok
}

const (
	FilterIsNotInterrogative FilterName = "is_not_interrogative"
	FilterIsPredVerb         FilterName = "is_pred_verb"
	FilterIsNotCopula        FilterName = "is_not_copula"
	FilterIsGoodAncestor     FilterName = "is_good_ancestor"
	FilterIsGoodDescendants  FilterName = "is_good_descendants"
	FilterHasSubj            FilterName = "has_subj"
	FilterHasSubjPassive     FilterName = "has_subj_passive"
	FilterIsNotHave          FilterName = "is_not_have"
	FilterIsSbjOrObj         FilterName = "is_sbj_or_obj"
	FilterIsNotPronoun       FilterName = "is_not_pronoun"
	FilterHasDirectArc       FilterName = "has_direct_arc"
	// FilterNucl keeps plain verbal events with an active subject and a veridical context.
	FilterNucl FilterName = "nucl"
	// FilterSprl is FilterNucl without the copula and have checks, and it accepts passive subjects.
	FilterSprl FilterName = "sprl"
)

// Filter keeps or drops predicates and arguments of an assembled extraction. Either func may be nil.
type Filter struct {
	Name      FilterName
	Predicate func(ex *Extraction, p *Predicate) bool
	Argument  func(ex *Extraction, p *Predicate, a *Argument) bool
}

// LookupFilter finds a named filter.
func LookupFilter(name FilterName) (Filter, bool) {
	f, ok := namedFilters[name]
	if !ok {
		return Filter{}, false
	}

	return Filter{Name: name, Predicate: f.predicate, Argument: f.argument}, true
}

// FilterNames lists the named filters in their fixed order.
func FilterNames() []FilterName {
	return append([]FilterName(nil), filterOrder...)
}

// Filter returns a copy of ex without the predicates and arguments some filter rejected. Dropping a
// predicate drops its arguments; dropping every argument of a predicate keeps the predicate.
func (ex *Extraction) Filter(filters ...Filter) *Extraction {
	res := &Extraction{
		Options:    ex.Options,
		Parse:      ex.Parse,
		Predicates: make([]Predicate, 0, len(ex.Predicates)),
	}

predicateLoop:
	for i := range ex.Predicates {
		p := &ex.Predicates[i]
		for _, f := range filters {
			if f.Predicate != nil && !f.Predicate(ex, p) {
				continue predicateLoop
			}
		}

		np := *p
		np.Arguments = make([]Argument, 0, len(p.Arguments))

	argumentLoop:
		for j := range p.Arguments {
			a := &p.Arguments[j]
			for _, f := range filters {
				if f.Argument != nil && !f.Argument(ex, p, a) {
					continue argumentLoop
				}
			}

			np.Arguments = append(np.Arguments, *a)
		}

		res.Predicates = append(res.Predicates, np)
	}

	res.linkClauses()
	return res
}

type filterFuncs struct {
	predicate func(ex *Extraction, p *Predicate) bool
	argument  func(ex *Extraction, p *Predicate, a *Argument) bool
}

var filterOrder = []FilterName{
	FilterIsNotInterrogative, FilterIsPredVerb, FilterIsNotCopula, FilterIsGoodAncestor,
	FilterIsGoodDescendants, FilterHasSubj, FilterHasSubjPassive, FilterIsNotHave,
	FilterIsSbjOrObj, FilterIsNotPronoun, FilterHasDirectArc,
	FilterNucl, FilterSprl,
}

var namedFilters = map[FilterName]filterFuncs{
	FilterIsNotInterrogative: {predicate: isNotInterrogative},
	FilterIsPredVerb:         {predicate: isPredVerb},
	FilterIsNotCopula:        {predicate: isNotCopula},
	FilterIsGoodAncestor:     {predicate: isGoodAncestor},
	FilterIsGoodDescendants:  {predicate: isGoodDescendants},
	FilterHasSubj:            {predicate: hasSubj},
	FilterHasSubjPassive:     {predicate: hasSubjPassive},
	FilterIsNotHave:          {predicate: isNotHave},
	FilterIsSbjOrObj:         {argument: isSbjOrObj},
	FilterIsNotPronoun:       {argument: isNotPronoun},
	FilterHasDirectArc:       {argument: hasDirectArc},
	FilterNucl: {predicate: all(isNotInterrogative, isPredVerb, isNotCopula, isNotHave, hasSubj,
		isGoodAncestor, isGoodDescendants)},
	FilterSprl: {predicate: all(isNotInterrogative, isPredVerb, isGoodAncestor, isGoodDescendants,
		hasSubjPassive)},
}

var copulaForms = map[string]bool{
	"be": true, "am": true, "is": true, "are": true, "was": true, "were": true, "being": true, "been": true,
}

var haveForms = map[string]bool{"have": true, "had": true, "has": true}

var pronounLike = map[string]bool{"that": true, "this": true, "which": true, "what": true}

func all(funcs ...func(ex *Extraction, p *Predicate) bool) func(ex *Extraction, p *Predicate) bool {
	return func(ex *Extraction, p *Predicate) bool {
		for _, f := range funcs {
			if !f(ex, p) {
				return false
			}
		}

		return true
	}
}

// isNotInterrogative looks for a question mark in the span and among the root's dependents, since
// stripping removes trailing punctuation from the span.
func isNotInterrogative(ex *Extraction, p *Predicate) bool {
	for _, pos := range p.Span {
		if t := ex.Token(pos); t != nil && t.Text == "?" {
			return false
		}
	}
	for _, e := range ex.Dependents(p.Root) {
		if t := ex.Token(e.Dependent); t != nil && t.Text == "?" {
			return false
		}
	}

	return true
}

func isPredVerb(ex *Extraction, p *Predicate) bool {
	t := ex.Token(p.Root)
	return t != nil && strings.HasPrefix(t.Tag, "V")
}

func isNotCopula(ex *Extraction, p *Predicate) bool {
	ud := ex.schema()
	for _, e := range ex.Dependents(p.Root) {
		if e.Rel == ud.Cop || copulaForms[ex.Token(e.Dependent).Text] {
			return false
		}
	}

	return true
}

func isGoodAncestor(ex *Extraction, p *Predicate) bool {
	ud := ex.schema()
	embedding := map[string]bool{
		ud.Acl: true, ud.AclRelcl: true, ud.Mwe: true, "mwe": true, ud.Ccomp: true, ud.Xcomp: true,
		ud.Advcl: true, ud.Case: true, ud.Conj: true, ud.Parataxis: true, ud.Csubj: true, "compound": true,
		ud.Nmod: true,
	}

	for pos := p.Root; pos != 0; {
		head, rel := ex.Governor(pos)
		if rel == RelRoot {
			break
		}
		if embedding[rel] {
			return false
		}
		pos = head
	}

	return true
}

func isGoodDescendants(ex *Extraction, p *Predicate) bool {
	ud := ex.schema()
	for _, e := range ex.Dependents(p.Root) {
		switch e.Rel {
		case ud.Neg, ud.Advmod, ud.Aux, ud.Mark, ud.Advcl, ud.Appos:
			return false
		}
	}

	return true
}

func hasSubj(ex *Extraction, p *Predicate) bool {
	ud := ex.schema()
	for _, e := range ex.Dependents(p.Root) {
		if e.Rel == ud.Nsubj {
			return true
		}
	}

	return false
}

func hasSubjPassive(ex *Extraction, p *Predicate) bool {
	ud := ex.schema()
	for _, e := range ex.Dependents(p.Root) {
		if e.Rel == ud.Nsubj || e.Rel == ud.Nsubjpass {
			return true
		}
	}

	return false
}

func isNotHave(ex *Extraction, p *Predicate) bool {
	t := ex.Token(p.Root)
	return t == nil || !haveForms[t.Text]
}

func isSbjOrObj(ex *Extraction, p *Predicate, a *Argument) bool {
	ud := ex.schema()
	switch ex.rel(a.Root) {
	case ud.Nsubj, ud.Dobj, ud.Iobj:
		return true
	default:
		return false
	}
}

func isNotPronoun(ex *Extraction, p *Predicate, a *Argument) bool {
	t := ex.Token(a.Root)
	if t == nil {
		return true
	}
	if t.XPOS == "PRP" || t.Tag == "PRP" || t.Tag == TagPRON {
		return false
	}

	return !pronounLike[strings.ToLower(t.Text)]
}

func hasDirectArc(ex *Extraction, p *Predicate, a *Argument) bool {
	head, _ := ex.Governor(a.Root)
	return head == p.Root
}
