package predpatt

import (
	"sort"
)

// Extraction is the result of running the rules over one parse.
type Extraction struct {
	Options    Options     `json:"options" yaml:"options"`
	Parse      Parse       `json:"parse" yaml:"parse"`
	Predicates []Predicate `json:"predicates" yaml:"predicates"`
}

// Predicate is an extracted predicate. Span is sorted and always contains Root.
type Predicate struct {
	Root      int           `json:"root" yaml:"root"`
	Kind      PredicateKind `json:"kind" yaml:"kind"`
	Span      []int         `json:"span" yaml:"span"`
	Rules     []Rule        `json:"rules,omitempty" yaml:"rules,omitempty"`
	Arguments []Argument    `json:"arguments" yaml:"arguments"`
}

// Argument is an extracted argument. Shared arguments were lent by another predicate. Clause is the root of
// the predicate this argument embeds, or 0.
type Argument struct {
	Root   int    `json:"root" yaml:"root"`
	Span   []int  `json:"span" yaml:"span"`
	Rules  []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	Shared bool   `json:"shared,omitempty" yaml:"shared,omitempty"`
	Clause int    `json:"clause,omitempty" yaml:"clause,omitempty"`
}

// Extract runs predicate and argument extraction over p. It fails only on invalid options or a malformed
// parse; a sentence without predicates gives an empty extraction.
func Extract(p *Parse, opts Options) (*Extraction, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &ParseError{Code: "empty", Message: "no parse"}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	opts.Filters = append([]FilterName(nil), opts.Filters...)
	if opts.UD == "" {
		opts.UD = UDv1
	}

	parse := p.Copy()
	x := newExtractor(&parse, opts)

	ex := &Extraction{
		Options:    opts,
		Parse:      parse,
		Predicates: x.assemble(x.run()),
	}
	ex.linkClauses()

	if len(opts.Filters) > 0 {
		filters := make([]Filter, 0, len(opts.Filters))
		for _, name := range opts.Filters {
			f, _ := LookupFilter(name)
			filters = append(filters, f)
		}

		ex = ex.Filter(filters...)
	}

	return ex, nil
}

func (x *extractor) run() []*predicate {
	events := x.identifyPredicates()

	x.byRoot = make(map[int]*predicate, len(events))
	for _, p := range events {
		x.byRoot[p.root] = p
	}
	for _, p := range events {
		p.args = x.extractArguments(p)
	}

	events = x.resolveArguments(events)
	for _, p := range events {
		p.sortArgs()
	}
	x.events = events

	instances := make([]*predicate, 0, len(events))
	for _, p := range events {
		x.extractPredPhrase(p)
		for _, a := range p.args {
			if !a.share && len(a.tokens()) == 0 {
				x.extractArgPhrase(p, a)
			}
		}

		if x.opts.Simple {
			kept := p.args[:0:0]
			for _, a := range p.args {
				if x.simpleArg(p, a) {
					kept = append(kept, a)
				}
			}
			p.args = kept
		}

		if x.s.rel(p.root) == x.ud.Conj {
			x.resolveConjunctionTokens(p)
		}

		if len(p.tokens) > 0 {
			x.coordinate(p)
			instances = append(instances, p)
		}
	}

	// A borrowed argument whose owner never extracted a phrase gets one from the borrower.
	for _, p := range instances {
		for _, a := range p.args {
			if len(a.tokens()) == 0 {
				x.extractArgPhrase(p, a)
			}
		}
	}

	if x.opts.borrowRelcl() {
		for _, p := range instances {
			x.dropRelclDummies(p)
		}
	}

	kept := instances[:0]
	for _, p := range instances {
		x.stripPredicate(p)
		for _, a := range p.args {
			x.stripArgument(a)
		}

		if !x.broken(p) {
			kept = append(kept, p)
		}
	}

	return kept
}

// broken reports whether p can not be emitted: it lost its span, one of its arguments did, or it is a
// possessive without exactly two arguments.
func (x *extractor) broken(p *predicate) bool {
	if len(p.tokens) == 0 {
		return true
	}
	for _, a := range p.args {
		if len(a.tokens()) == 0 {
			return true
		}
	}

	return p.kind == KindPoss && len(p.args) != 2
}

func (x *extractor) assemble(preds []*predicate) []Predicate {
	sortPredicates(preds)

	res := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		p.sortArgs()

		args := make([]Argument, 0, len(p.args))
		for _, a := range p.args {
			args = append(args, Argument{
				Root:   a.root,
				Span:   normalizeSpan(a.tokens(), a.root),
				Rules:  append([]Rule(nil), a.rules...),
				Shared: a.share,
			})
		}

		res = append(res, Predicate{
			Root:      p.root,
			Kind:      p.kind,
			Span:      normalizeSpan(p.tokens, p.root),
			Rules:     append([]Rule(nil), p.rules...),
			Arguments: args,
		})
	}

	return res
}

// normalizeSpan dedupes and sorts positions, and makes sure root is one of them.
func normalizeSpan(positions []int, root int) []int {
	seen := make(map[int]bool, len(positions)+1)
	res := make([]int, 0, len(positions)+1)
	add := func(pos int) {
		if pos > 0 && !seen[pos] {
			seen[pos] = true
			res = append(res, pos)
		}
	}
	for _, pos := range positions {
		add(pos)
	}
	add(root)

	sort.Ints(res)
	return res
}

// linkClauses points every argument rooted at another emitted predicate's root to that predicate.
func (ex *Extraction) linkClauses() {
	roots := make(map[int]bool, len(ex.Predicates))
	for _, p := range ex.Predicates {
		roots[p.Root] = true
	}

	for i := range ex.Predicates {
		p := &ex.Predicates[i]
		for j := range p.Arguments {
			a := &p.Arguments[j]
			if a.Root != p.Root && roots[a.Root] {
				a.Clause = a.Root
			} else {
				a.Clause = 0
			}
		}
	}
}

// Predicate finds the predicate rooted at a position.
func (ex *Extraction) Predicate(root int) *Predicate {
	for i := range ex.Predicates {
		if ex.Predicates[i].Root == root {
			return &ex.Predicates[i]
		}
	}

	return nil
}

// Token returns the token at a 1-indexed position, or nil.
func (ex *Extraction) Token(pos int) *Token {
	return ex.Parse.Token(pos)
}

// Governor returns the head and relation of the token at pos. Tokens hanging off the root report head 0.
func (ex *Extraction) Governor(pos int) (int, string) {
	for _, e := range ex.Parse.Edges {
		if e.Dependent == pos {
			return e.Head, e.Rel
		}
	}

	return 0, ""
}

// Dependents returns the edges headed by pos in dependent order.
func (ex *Extraction) Dependents(pos int) []Edge {
	res := make([]Edge, 0, 4)
	for _, e := range ex.Parse.Edges {
		if e.Head == pos {
			res = append(res, e)
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Dependent < res[j].Dependent
	})

	return res
}

func (ex *Extraction) rel(pos int) string {
	_, rel := ex.Governor(pos)
	return rel
}

func (ex *Extraction) schema() *Schema {
	return ex.Options.schema()
}
