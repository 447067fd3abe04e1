package predpatt

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gaveRows = []string{
	"Chris PROPN 2 nsubj",
	"gave VERB 0 root",
	"the DET 4 det",
	"book NOUN 2 dobj",
	"to ADP 6 case",
	"Pat PROPN 2 nmod",
	". PUNCT 2 punct",
}

var thoughtRows = []string{
	"Gene PROPN 2 nsubj",
	"thought VERB 0 root",
	"that SCONJ 5 mark",
	"Chris PROPN 5 nsubj",
	"gave VERB 2 ccomp",
	"the DET 7 det",
	"book NOUN 5 dobj",
	"to ADP 9 case",
	"Pat PROPN 5 nmod",
	". PUNCT 2 punct",
}

var coordinatedSubjectRows = []string{
	"Chris PROPN 4 nsubj",
	"and CCONJ 1 cc",
	"Pat PROPN 1 conj",
	"gave VERB 0 root",
	"the DET 6 det",
	"book NOUN 4 dobj",
	". PUNCT 4 punct",
}

var wantsRows = []string{
	"Chris PROPN 2 nsubj",
	"wants VERB 0 root",
	"to PART 4 mark",
	"eat VERB 2 xcomp",
	"the DET 6 det",
	"apple NOUN 4 dobj",
	". PUNCT 2 punct",
}

var relclRows = []string{
	"The DET 2 det",
	"man NOUN 7 nsubj",
	"who PRON 4 nsubj",
	"sang VERB 2 acl:relcl",
	"and CCONJ 4 cc",
	"danced VERB 4 conj",
	"left VERB 0 root",
	". PUNCT 7 punct",
}

// summary is the part of an extraction the tests compare: predicate roots mapped to their span and the
// spans of their arguments keyed by root.
type summary map[int]predicateSummary

type predicateSummary struct {
	Span []int
	Args map[int][]int
}

func summarize(ex *Extraction) summary {
	res := make(summary, len(ex.Predicates))
	for _, p := range ex.Predicates {
		args := make(map[int][]int, len(p.Arguments))
		for _, a := range p.Arguments {
			args[a.Root] = a.Span
		}

		res[p.Root] = predicateSummary{Span: p.Span, Args: args}
	}

	return res
}

func argRoots(p *Predicate) []int {
	res := make([]int, 0, len(p.Arguments))
	for _, a := range p.Arguments {
		res = append(res, a.Root)
	}

	return res
}

func TestExtract(t *testing.T) {
	table := []struct {
		name string
		rows []string
		opts func(o *Options)
		want summary
	}{
		{
			name: "SimpleClause",
			rows: gaveRows,
			want: summary{
				2: {Span: []int{2, 5}, Args: map[int][]int{1: {1}, 4: {3, 4}, 6: {6}}},
			},
		},
		{
			name: "ClausalComplement",
			rows: thoughtRows,
			want: summary{
				2: {Span: []int{2}, Args: map[int][]int{1: {1}, 5: {4, 5, 6, 7, 8, 9}}},
				5: {Span: []int{5, 8}, Args: map[int][]int{4: {4}, 7: {6, 7}, 9: {9}}},
			},
		},
		{
			name: "CoordinatedSubjects",
			rows: coordinatedSubjectRows,
			opts: func(o *Options) { o.ResolveConj = true },
			want: summary{
				4: {Span: []int{4}, Args: map[int][]int{1: {1}, 3: {3}, 6: {5, 6}}},
			},
		},
		{
			name: "CoordinatedSubjectsUnresolved",
			rows: coordinatedSubjectRows,
			want: summary{
				4: {Span: []int{4}, Args: map[int][]int{1: {1, 2, 3}, 6: {5, 6}}},
			},
		},
		{
			name: "XcompMerged",
			rows: wantsRows,
			want: summary{
				2: {Span: []int{2, 3, 4}, Args: map[int][]int{1: {1}, 6: {5, 6}}},
			},
		},
		{
			name: "XcompCut",
			rows: wantsRows,
			opts: func(o *Options) { o.Cut = true },
			want: summary{
				2: {Span: []int{2}, Args: map[int][]int{1: {1}, 4: {3, 4, 5, 6}}},
				4: {Span: []int{4}, Args: map[int][]int{1: {1}, 6: {5, 6}}},
			},
		},
		{
			name: "SimpleMode",
			rows: gaveRows,
			opts: func(o *Options) { o.Simple = true },
			want: summary{
				2: {Span: []int{2}, Args: map[int][]int{1: {1}, 4: {3, 4}}},
			},
		},
		{
			name: "Possessive",
			rows: []string{
				"Chris PROPN 3 nmod:poss",
				"'s PART 1 case",
				"dog NOUN 4 nsubj",
				"barked VERB 0 root",
				". PUNCT 4 punct",
			},
			opts: func(o *Options) { o.ResolvePoss = true },
			want: summary{
				1: {Span: []int{1}, Args: map[int][]int{1: {1}, 3: {3}}},
				4: {Span: []int{4}, Args: map[int][]int{3: {1, 2, 3}}},
			},
		},
		{
			name: "AdjectivalModifier",
			rows: []string{
				"Chris PROPN 2 nsubj",
				"saw VERB 0 root",
				"a DET 5 det",
				"red ADJ 5 amod",
				"car NOUN 2 dobj",
				". PUNCT 2 punct",
			},
			opts: func(o *Options) { o.ResolveAmod = true },
			want: summary{
				2: {Span: []int{2}, Args: map[int][]int{1: {1}, 5: {3, 4, 5}}},
				4: {Span: []int{4}, Args: map[int][]int{5: {3, 5}}},
			},
		},
		{
			name: "NoPredicates",
			rows: []string{"Hello INTJ 0 root", "! PUNCT 1 punct"},
			want: summary{},
		},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			opts := DefaultOptions()
			if row.opts != nil {
				row.opts(&opts)
			}

			ex, err := Extract(testParse(t, row.rows...), opts)
			require.NoError(t, err)

			if diff := cmp.Diff(row.want, summarize(ex)); diff != "" {
				t.Errorf("extraction mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_UDv2(t *testing.T) {
	opts := DefaultOptions()
	opts.UD = UDv2

	ex, err := Extract(testParse(t,
		"Chris PROPN 2 nsubj",
		"gave VERB 0 root",
		"the DET 4 det",
		"book NOUN 2 obj",
		"to ADP 6 case",
		"Pat PROPN 2 obl",
		". PUNCT 2 punct",
	), opts)
	require.NoError(t, err)

	want := summary{2: {Span: []int{2, 5}, Args: map[int][]int{1: {1}, 4: {3, 4}, 6: {6}}}}
	assert.Empty(t, cmp.Diff(want, summarize(ex)))
}

func TestExtract_Clause(t *testing.T) {
	ex, err := Extract(testParse(t, thoughtRows...), DefaultOptions())
	require.NoError(t, err)

	thought := ex.Predicate(2)
	require.NotNil(t, thought)
	require.Len(t, thought.Arguments, 2)
	assert.Equal(t, 0, thought.Arguments[0].Clause)
	assert.Equal(t, 5, thought.Arguments[1].Clause)

	for _, a := range ex.Predicate(5).Arguments {
		assert.Zero(t, a.Clause)
	}
}

func TestExtract_CutBorrowsSubject(t *testing.T) {
	opts := DefaultOptions()
	opts.Cut = true

	ex, err := Extract(testParse(t, wantsRows...), opts)
	require.NoError(t, err)

	eat := ex.Predicate(4)
	require.NotNil(t, eat)
	require.Len(t, eat.Arguments, 2)

	chris := eat.Arguments[0]
	assert.Equal(t, 1, chris.Root)
	assert.True(t, chris.Shared)
	assert.Contains(t, chris.Rules, Rule{ID: RuleCutBorrowSubj, Token: 1, Friend: 2})
}

// caseUnderXcompRows has an xcomp whose case marker carries appositive and relative clause material.
var caseUnderXcompRows = []string{
	"one NOUN 7 appos",
	"the DET 3 det",
	"went VERB 0 root",
	"by ADP 8 case",
	"two NOUN 4 appos",
	"big ADJ 4 amod",
	"ran VERB 4 acl:relcl",
	"home VERB 3 xcomp",
}

func TestExtract_CutMonotonicity(t *testing.T) {
	table := []struct {
		name string
		rows []string
	}{
		{name: "Gave", rows: gaveRows},
		{name: "Thought", rows: thoughtRows},
		{name: "Wants", rows: wantsRows},
		{name: "Relcl", rows: relclRows},
		{name: "CaseUnderXcomp", rows: caseUnderXcompRows},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			plain, err := Extract(testParse(t, row.rows...), DefaultOptions())
			require.NoError(t, err)

			opts := DefaultOptions()
			opts.Cut = true
			cut, err := Extract(testParse(t, row.rows...), opts)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, len(cut.Predicates), len(plain.Predicates))

			before := summarize(plain)
			for root, after := range summarize(cut) {
				pred, ok := before[root]
				if !ok {
					continue
				}
				assert.LessOrEqual(t, len(after.Span), len(pred.Span), "predicate %d", root)

				for argRoot, span := range after.Args {
					if prev, ok := pred.Args[argRoot]; ok {
						assert.LessOrEqual(t, len(span), len(prev), "argument %d of %d", argRoot, root)
					}
				}
			}
		})
	}
}

func TestExtract_CaseMarkerKeepsPhraseFilter(t *testing.T) {
	opts := DefaultOptions()
	opts.Cut = true

	ex, err := Extract(testParse(t, caseUnderXcompRows...), opts)
	require.NoError(t, err)

	went := ex.Predicate(3)
	require.NotNil(t, went)
	assert.NotContains(t, went.Span, 5)
	assert.NotContains(t, went.Span, 7)
	assert.NotContains(t, went.Span, 1)
	assert.Contains(t, went.Span, 4)
}

func TestExtract_Deterministic(t *testing.T) {
	opts := Options{
		ResolveRelcl:      true,
		ResolveConj:       true,
		ResolveAmod:       true,
		ResolveAppos:      true,
		ResolvePoss:       true,
		BorrowArgForRelcl: true,
		Strip:             true,
	}

	for _, rows := range [][]string{gaveRows, thoughtRows, coordinatedSubjectRows, wantsRows, relclRows} {
		a, err := Extract(testParse(t, rows...), opts)
		require.NoError(t, err)
		b, err := Extract(testParse(t, rows...), opts)
		require.NoError(t, err)

		assert.Empty(t, cmp.Diff(a, b))
		assert.Equal(t, a.Format(true), b.Format(true))
	}
}

func TestExtract_Spans(t *testing.T) {
	opts := Options{
		ResolveRelcl:      true,
		ResolveConj:       true,
		ResolveAmod:       true,
		ResolvePoss:       true,
		BorrowArgForRelcl: true,
		Strip:             true,
	}

	for _, rows := range [][]string{gaveRows, thoughtRows, coordinatedSubjectRows, wantsRows, relclRows} {
		ex, err := Extract(testParse(t, rows...), opts)
		require.NoError(t, err)

		roots := make(map[int]bool)
		for _, p := range ex.Predicates {
			assert.False(t, roots[p.Root], "duplicate root %d", p.Root)
			roots[p.Root] = true

			assert.NotEmpty(t, p.Span)
			assert.Contains(t, p.Span, p.Root)
			assert.IsIncreasing(t, p.Span)

			for _, a := range p.Arguments {
				assert.NotEmpty(t, a.Span)
				assert.Contains(t, a.Span, a.Root)
			}
		}
	}
}

func TestExtract_RelativeClause(t *testing.T) {
	table := []struct {
		name    string
		relcl   bool
		conj    bool
		sang    []int
		danced  []int
		dummies bool
	}{
		{name: "RelclAndConj", relcl: true, conj: true, sang: []int{2}, danced: []int{2}, dummies: true},
		{name: "RelclOnly", relcl: true, sang: []int{2}, danced: []int{}, dummies: true},
		{name: "ConjOnly", conj: true, sang: []int{3}, danced: []int{3}},
		{name: "Neither", sang: []int{3}, danced: []int{}},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.ResolveRelcl = row.relcl
			opts.ResolveConj = row.conj

			ex, err := Extract(testParse(t, relclRows...), opts)
			require.NoError(t, err)

			sang := ex.Predicate(4)
			require.NotNil(t, sang)
			assert.Equal(t, row.sang, argRoots(sang))
			assert.Equal(t, row.dummies, ruleList(sang.Rules).has(RuleEnRelclDummyArgFilter))

			danced := ex.Predicate(6)
			require.NotNil(t, danced)
			assert.Equal(t, row.danced, argRoots(danced))

			left := ex.Predicate(7)
			require.NotNil(t, left)
			assert.Equal(t, []int{2}, argRoots(left))
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	_, err := Extract(nil, DefaultOptions())
	assert.True(t, errors.Is(err, ErrMalformedParse))

	opts := DefaultOptions()
	opts.UD = "3.0"
	_, err = Extract(testParse(t, gaveRows...), opts)
	assert.True(t, errors.Is(err, ErrInvalidOptions))

	opts = DefaultOptions()
	opts.Filters = []FilterName{"is_fancy"}
	_, err = Extract(testParse(t, gaveRows...), opts)
	assert.True(t, errors.Is(err, ErrInvalidOptions))

	p := testParse(t, gaveRows...)
	p.Edges = p.Edges[1:]
	_, err = Extract(p, DefaultOptions())
	assert.True(t, errors.Is(err, ErrMalformedParse))
}

func TestExtract_DoesNotMutateParse(t *testing.T) {
	p := testParse(t, thoughtRows...)
	before := p.Copy()

	_, err := Extract(p, DefaultOptions())
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(before, *p))
}
