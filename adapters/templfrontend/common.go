package templfrontend

import (
	"sort"
	"strings"

	"github.com/gissleh/predpatt"
)

type corpusLink struct {
	name      string
	sentences int
}

// corpusLinks counts the sentences of each corpus, ordered by name.
func corpusLinks(sentences []predpatt.Sentence) []corpusLink {
	counts := make(map[string]int)
	for _, sentence := range sentences {
		counts[sentence.Source.Corpus]++
	}

	res := make([]corpusLink, 0, len(counts))
	for name, n := range counts {
		res = append(res, corpusLink{name: name, sentences: n})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].name < res[j].name })

	return res
}

type result struct {
	id        string
	text      string
	formatted string
	err       string
}

func newResult(sentence *predpatt.Sentence, ex *predpatt.Extraction, trackRules bool, errMsg string) result {
	r := result{id: sentence.ID, text: sentence.DisplayText(), err: errMsg}
	if ex != nil {
		r.formatted = strings.TrimRight(ex.Format(trackRules), "\n")
		if r.formatted == "" {
			r.formatted = "(no predicates)"
		}
	}

	return r
}
