package predpatt

import (
	"sort"
	"strings"
)

// Markers of the linearized form.
const (
	ArgOpen        = "^(("
	ArgClose       = "))$"
	PredOpen       = "^((("
	PredClose      = ")))$"
	ArgPredOpen    = "^(((:a"
	ArgPredClose   = ")))$:a"
	ArgSuffix      = ":a"
	PredSuffix     = ":p"
	HeaderSuffix   = "_h"
	SomethingToken = "SOMETHING:a="
)

type LinearizeOptions struct {
	// Recursive nests dependent predicates inside their governors.
	Recursive bool `json:"recursive" yaml:"recursive"`
	// DistinguishHeader marks the root word of predicates and arguments with HeaderSuffix.
	DistinguishHeader bool `json:"distinguishHeader" yaml:"distinguish_header"`
	// OnlyHead keeps only root words (and the negation of predicates).
	OnlyHead bool `json:"onlyHead" yaml:"only_head"`
}

func DefaultLinearizeOptions() LinearizeOptions {
	return LinearizeOptions{Recursive: true, DistinguishHeader: true}
}

// Linearize flattens an extraction into a single bracketed token sequence. Predicate words end in :p,
// argument words in :a. Predicates governed by another likely predicate are nested inside it.
func Linearize(ex *Extraction, opts LinearizeOptions) string {
	l := linearizer{ex: ex, ud: ex.schema(), opts: opts}
	roots := l.buildDependencies()

	parts := make([]string, 0, len(roots))
	for _, p := range roots {
		parts = append(parts, l.enclosePredicate(p))
	}

	return strings.Join(parts, " ")
}

type linearizer struct {
	ex       *Extraction
	ud       *Schema
	opts     LinearizeOptions
	children map[int][]*Predicate
}

func (l *linearizer) likelyPredicate(p *Predicate) bool {
	if len(p.Arguments) == 0 {
		return false
	}

	tag := l.ex.Token(p.Root).Tag
	if tag == TagVERB || tag == TagADJ || l.ex.rel(p.Root) == l.ud.Appos {
		return true
	}
	for _, pos := range p.Span {
		if l.ex.rel(pos) == l.ud.Cop {
			return true
		}
	}

	return false
}

// buildDependencies attaches every likely predicate to the nearest governing predicate, and returns
// the ones left at the top.
func (l *linearizer) buildDependencies() []*Predicate {
	l.children = make(map[int][]*Predicate)
	byRoot := make(map[int]*Predicate, len(l.ex.Predicates))
	for i := range l.ex.Predicates {
		byRoot[l.ex.Predicates[i].Root] = &l.ex.Predicates[i]
	}

	roots := make([]*Predicate, 0, 4)
	for i := range l.ex.Predicates {
		p := &l.ex.Predicates[i]
		if !l.likelyPredicate(p) {
			continue
		}

		gov, _ := l.ex.Governor(p.Root)
		for gov != 0 && byRoot[gov] == nil {
			gov, _ = l.ex.Governor(gov)
		}
		if gov == 0 || !l.likelyPredicate(byRoot[gov]) {
			roots = append(roots, p)
			continue
		}

		l.children[gov] = append(l.children[gov], p)
	}

	return roots
}

func (l *linearizer) enclosePredicate(p *Predicate) string {
	flat, dependent := l.flattenPredicate(p)
	if dependent {
		return ArgPredOpen + " " + flat + " " + ArgPredClose
	}

	return PredOpen + " " + flat + " " + PredClose
}

func (l *linearizer) predSuffix() string {
	if l.opts.DistinguishHeader {
		return PredSuffix + HeaderSuffix
	}

	return PredSuffix
}

// linearItem is a predicate word, an argument or a nested predicate placed by position.
type linearItem struct {
	pos  int
	arg  *Argument
	pred *Predicate
}

func (l *linearizer) flattenPredicate(p *Predicate) (string, bool) {
	res := make([]string, 0, len(p.Span)+len(p.Arguments)*3)
	args := p.Arguments

	sortItems := func(items []linearItem) {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].pos < items[j].pos
		})
	}

	if p.Kind == KindPoss {
		items := make([]linearItem, 0, 4)
		for i := range args {
			if i < 2 {
				items = append(items, linearItem{pos: args[i].Root, arg: &args[i]})
			}
		}
		for _, c := range l.children[p.Root] {
			items = append(items, linearItem{pos: c.Root, pred: c})
		}
		sortItems(items)

		seen := 0
		for _, it := range items {
			switch {
			case it.arg != nil:
				res = append(res, l.encloseArgument(it.arg))
				if seen++; seen == 1 {
					res = append(res, string(KindPoss)+l.predSuffix())
				}
			case l.opts.Recursive:
				res = append(res, l.enclosePredicate(it.pred))
			}
		}

		return strings.Join(res, " "), false
	}

	if (p.Kind == KindAmod || p.Kind == KindAppos) && len(args) > 0 {
		head, _ := l.ex.Governor(p.Root)
		first := 0
		for i := range args {
			if args[i].Root == head {
				first = i
				break
			}
		}

		res = append(res, l.encloseArgument(&args[first]), "is/are"+l.predSuffix())
		rest := make([]Argument, 0, len(args)-1)
		rest = append(rest, args[:first]...)
		args = append(rest, args[first+1:]...)
	}

	items := make([]linearItem, 0, len(p.Span)+len(args))
	for _, pos := range l.predicateWords(p) {
		items = append(items, linearItem{pos: pos})
	}
	for i := range args {
		items = append(items, linearItem{pos: args[i].Root, arg: &args[i]})
	}
	for _, c := range l.children[p.Root] {
		items = append(items, linearItem{pos: c.Root, pred: c})
	}
	sortItems(items)

	inSpan := make(map[int]bool, len(p.Span))
	for _, pos := range p.Span {
		inSpan[pos] = true
	}

	for _, it := range items {
		switch {
		case it.arg != nil:
			head, rel := l.ex.Governor(it.arg.Root)
			if l.ud.IsClausal(rel) && inSpan[head] {
				res = append(res, SomethingToken)
			}
			res = append(res, l.encloseArgument(it.arg))
		case it.pred != nil:
			if l.opts.Recursive {
				res = append(res, l.enclosePredicate(it.pred))
			}
		case l.opts.DistinguishHeader && it.pos == p.Root:
			res = append(res, l.ex.Token(it.pos).Text+PredSuffix+HeaderSuffix)
		default:
			res = append(res, l.ex.Token(it.pos).Text+PredSuffix)
		}
	}

	return strings.Join(res, " "), l.dependsOnPredicate(p.Root)
}

// predicateWords is the span, or with OnlyHead the root and its negation.
func (l *linearizer) predicateWords(p *Predicate) []int {
	if !l.opts.OnlyHead {
		return p.Span
	}

	res := []int{p.Root}
	for _, pos := range p.Span {
		if head, rel := l.ex.Governor(pos); head == p.Root && rel == l.ud.Neg {
			res = append(res, pos)
		}
	}

	sort.Ints(res)
	return res
}

func (l *linearizer) dependsOnPredicate(root int) bool {
	switch l.ex.rel(root) {
	case l.ud.Nsubj, l.ud.Nsubjpass, l.ud.Dobj, l.ud.Iobj, l.ud.Csubj, l.ud.Csubjpass, l.ud.Ccomp,
		l.ud.Xcomp, l.ud.Nmod, l.ud.Advcl, l.ud.Advmod, l.ud.Neg:
		return true
	default:
		return false
	}
}

func (l *linearizer) encloseArgument(a *Argument) string {
	words := make([]string, 0, len(a.Span))
	if l.opts.OnlyHead {
		words = append(words, l.argWord(a.Root, a.Root))
	} else {
		for _, pos := range a.Span {
			words = append(words, l.argWord(pos, a.Root))
		}
	}

	return ArgOpen + " " + strings.Join(words, " ") + " " + ArgClose
}

func (l *linearizer) argWord(pos, root int) string {
	text := l.ex.Token(pos).Text
	if l.opts.DistinguishHeader && pos == root {
		return text + ArgSuffix + HeaderSuffix
	}

	return text + ArgSuffix
}

// CheckRecoverable reports whether a linearized token sequence starts and ends with predicate brackets
// and every bracket kind is balanced without closing early.
func CheckRecoverable(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	if tokens[0] != PredOpen && tokens[0] != ArgPredOpen {
		return false
	}
	if last := tokens[len(tokens)-1]; last != PredClose && last != ArgPredClose {
		return false
	}

	var arg, pred, argPred int
	for _, t := range tokens {
		switch t {
		case ArgOpen:
			arg++
		case ArgClose:
			arg--
		case PredOpen:
			pred++
		case PredClose:
			pred--
		case ArgPredOpen:
			argPred++
		case ArgPredClose:
			argPred--
		default:
			continue
		}

		if arg < 0 || pred < 0 || argPred < 0 {
			return false
		}
	}

	return arg == 0 && pred == 0 && argPred == 0
}

// LinearText strips markers and suffixes from a linearized token sequence and returns the plain words.
func LinearText(tokens []string) []string {
	res := make([]string, 0, len(tokens))
	for _, t := range tokens {
		switch t {
		case PredOpen, PredClose, ArgOpen, ArgClose, ArgPredOpen, ArgPredClose, SomethingToken:
			continue
		}

		i := strings.LastIndex(t, ":")
		if i < 0 {
			continue
		}
		res = append(res, t[:i])
	}

	return res
}
