package predpatt

import (
	"fmt"
	"sort"
	"strings"
)

// ArgumentName gives the i-th argument of a predicate its placeholder: ?a to ?z, then ?a1 and onwards.
func ArgumentName(i int) string {
	if i < 26 {
		return fmt.Sprintf("?%c", 'a'+i)
	}

	return fmt.Sprintf("?%c%d", 'a'+i%26, i/26)
}

// Phrase renders the predicate with placeholders in place of its arguments, e.g. "?a gave ?b to ?c".
func (ex *Extraction) Phrase(p *Predicate) string {
	names := make(map[int]string, len(p.Arguments))
	for i := range p.Arguments {
		names[i] = ArgumentName(i)
	}

	type item struct {
		pos int
		arg int
	}
	items := make([]item, 0, len(p.Span)+len(p.Arguments))
	for _, pos := range p.Span {
		items = append(items, item{pos: pos, arg: -1})
	}
	for i, a := range p.Arguments {
		items = append(items, item{pos: a.Root, arg: i})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].pos < items[j].pos
	})

	text := func(it item) string {
		if it.arg >= 0 {
			return names[it.arg]
		}

		return ex.Token(it.pos).Text
	}

	switch p.Kind {
	case KindPoss:
		if len(p.Arguments) == 2 {
			return fmt.Sprintf("%s %s %s", names[0], KindPoss, names[1])
		}
	case KindAppos, KindAmod:
		head, _ := ex.Governor(p.Root)
		for i, a := range p.Arguments {
			if a.Root != head {
				continue
			}

			rest := make([]string, 0, len(items))
			for _, it := range items {
				if it.arg != i {
					rest = append(rest, text(it))
				}
			}

			return fmt.Sprintf("%s is/are %s", names[i], strings.Join(rest, " "))
		}
	}

	copular := false
	if p.Kind == KindNormal && ex.rel(p.Root) == ex.schema().Xcomp {
		tag := ex.Token(p.Root).Tag
		copular = tag != TagVERB && tag != TagADJ
	}

	words := make([]string, 0, len(items)+1)
	for _, it := range items {
		words = append(words, text(it))
		if copular && it.arg >= 0 {
			words = append(words, "is/are")
			copular = false
		}
	}

	return strings.Join(words, " ")
}

// ArgumentPhrase renders the words of an argument span.
func (ex *Extraction) ArgumentPhrase(a *Argument) string {
	return ex.spanText(a.Span)
}

func (ex *Extraction) spanText(span []int) string {
	words := make([]string, 0, len(span))
	for _, pos := range span {
		words = append(words, ex.Token(pos).Text)
	}

	return strings.Join(words, " ")
}

// Format renders every predicate on one line followed by one indented line per argument. With trackRules
// the lines end with the root word, its relation and the rules that fired.
func (ex *Extraction) Format(trackRules bool) string {
	lines := make([]string, 0, len(ex.Predicates)*3)
	for i := range ex.Predicates {
		lines = append(lines, ex.formatPredicate(&ex.Predicates[i], trackRules, "\t")...)
	}

	return strings.Join(lines, "\n")
}

func (ex *Extraction) formatPredicate(p *Predicate, trackRules bool, indent string) []string {
	lines := make([]string, 0, len(p.Arguments)+1)

	verbose := ""
	if trackRules {
		verbose = fmt.Sprintf(" [%s-%s,%s]", ex.Token(p.Root).Text, ex.rel(p.Root), sortedRules(p.Rules))
	}
	lines = append(lines, indent+ex.Phrase(p)+verbose)

	inSpan := make(map[int]bool, len(p.Span))
	for _, pos := range p.Span {
		inSpan[pos] = true
	}

	for i := range p.Arguments {
		a := &p.Arguments[i]
		head, rel := ex.Governor(a.Root)

		s := ex.ArgumentPhrase(a)
		if p.Kind == KindNormal && ex.schema().IsClausal(rel) && inSpan[head] {
			s = "SOMETHING := " + s
		}

		verbose := ""
		if trackRules {
			verbose = fmt.Sprintf(" [%s-%s,%s]", ex.Token(a.Root).Text, rel, sortedRules(a.Rules))
		}

		lines = append(lines, fmt.Sprintf("%s%s%s: %s%s", indent, indent, ArgumentName(i), s, verbose))
	}

	return lines
}

func sortedRules(rules []Rule) string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.String())
	}
	sort.Strings(names)

	return strings.Join(names, ",")
}
