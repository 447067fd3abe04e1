package predpatt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_CoordinateIdempotent(t *testing.T) {
	opts := DefaultOptions()
	opts.ResolveConj = true

	x := newExtractor(testParse(t, coordinatedSubjectRows...), opts)
	preds := x.run()
	require.Len(t, preds, 1)

	p := preds[0]
	before := make([]int, 0, len(p.args))
	for _, a := range p.args {
		before = append(before, a.root)
	}
	assert.Equal(t, []int{1, 3, 6}, before)

	x.coordinate(p)
	x.coordinate(p)

	after := make([]int, 0, len(p.args))
	for _, a := range p.args {
		after = append(after, a.root)
	}
	assert.Equal(t, before, after)
}

func TestExtractor_TopXcomp(t *testing.T) {
	opts := DefaultOptions()
	opts.Cut = true

	x := newExtractor(testParse(t,
		"Chris PROPN 2 nsubj",
		"wants VERB 0 root",
		"to PART 4 mark",
		"try VERB 2 xcomp",
		"to PART 6 mark",
		"eat VERB 4 xcomp",
		"apples NOUN 6 dobj",
	), opts)

	events := x.identifyPredicates()
	x.byRoot = make(map[int]*predicate)
	for _, p := range events {
		x.byRoot[p.root] = p
	}
	require.NotNil(t, x.byRoot[6])

	top := x.topXcomp(x.byRoot[6])
	require.NotNil(t, top)
	assert.Equal(t, 2, top.root)

	parents := x.parents(x.byRoot[6])
	require.Len(t, parents, 2)
	assert.Equal(t, 4, parents[0].root)
	assert.Equal(t, 2, parents[1].root)
}

func TestExtractor_AdvclBorrowsSubject(t *testing.T) {
	opts := DefaultOptions()
	opts.ResolveRelcl = true

	ex, err := Extract(testParse(t,
		"Chris PROPN 2 nsubj",
		"left VERB 0 root",
		"after SCONJ 4 mark",
		"eating VERB 2 advcl",
		"lunch NOUN 4 dobj",
		". PUNCT 2 punct",
	), opts)
	require.NoError(t, err)

	eating := ex.Predicate(4)
	require.NotNil(t, eating)
	assert.Equal(t, []int{1, 5}, argRoots(eating))
	assert.True(t, eating.Arguments[0].Shared)
	assert.Contains(t, eating.Arguments[0].Rules, Rule{ID: RuleBorrowSubj, Token: 1, Friend: 2})
}

func TestExtractor_AdvclBeforeGovernorBorrowsSubject(t *testing.T) {
	rows := []string{
		"After SCONJ 2 mark",
		"eating VERB 6 advcl",
		"lunch NOUN 2 dobj",
		", PUNCT 6 punct",
		"Chris PROPN 6 nsubj",
		"left VERB 0 root",
		". PUNCT 6 punct",
	}

	for _, resolveConj := range []bool{false, true} {
		t.Run(fmt.Sprintf("ResolveConj=%t", resolveConj), func(t *testing.T) {
			opts := DefaultOptions()
			opts.ResolveRelcl = true
			opts.ResolveConj = resolveConj

			ex, err := Extract(testParse(t, rows...), opts)
			require.NoError(t, err)

			eating := ex.Predicate(2)
			require.NotNil(t, eating)
			assert.Equal(t, []int{3, 5}, argRoots(eating))

			chris := eating.Arguments[1]
			assert.True(t, chris.Shared)
			assert.Equal(t, []int{5}, chris.Span)
			assert.Contains(t, chris.Rules, Rule{ID: RuleBorrowSubj, Token: 5, Friend: 6})
		})
	}
}

func TestExtractor_ConjBorrowsObject(t *testing.T) {
	opts := DefaultOptions()
	opts.ResolveConj = true

	ex, err := Extract(testParse(t,
		"Chris PROPN 2 nsubj",
		"bought VERB 0 root",
		"and CCONJ 4 cc",
		"ate VERB 2 conj",
		"apples NOUN 2 dobj",
		". PUNCT 2 punct",
	), opts)
	require.NoError(t, err)

	ate := ex.Predicate(4)
	require.NotNil(t, ate)
	assert.Equal(t, []int{1, 5}, argRoots(ate))
	for _, a := range ate.Arguments {
		assert.True(t, a.Shared)
	}

	opts.ResolveConj = false
	ex, err = Extract(testParse(t,
		"Chris PROPN 2 nsubj",
		"bought VERB 0 root",
		"and CCONJ 4 cc",
		"ate VERB 2 conj",
		"apples NOUN 2 dobj",
		". PUNCT 2 punct",
	), opts)
	require.NoError(t, err)

	ate = ex.Predicate(4)
	require.NotNil(t, ate)
	assert.Empty(t, ate.Arguments)
}

func TestExtractor_Strip(t *testing.T) {
	x := newExtractor(testParse(t,
		"to PART 2 mark",
		"eat VERB 0 root",
		", PUNCT 2 punct",
		", PUNCT 2 punct",
		"now ADV 2 advmod",
		". PUNCT 2 punct",
	), DefaultOptions())

	tokens, changed := x.strip([]int{6, 5, 4, 3, 2, 1}, true)
	assert.True(t, changed)
	assert.Equal(t, []int{1, 2, 4, 5}, tokens)

	tokens, changed = x.strip([]int{6, 5, 4, 3, 2, 1}, false)
	assert.True(t, changed)
	assert.Equal(t, []int{2, 4, 5}, tokens)

	tokens, changed = x.strip([]int{2, 5}, false)
	assert.False(t, changed)
	assert.Equal(t, []int{2, 5}, tokens)

	x.opts.BigArgs = true
	tokens, changed = x.strip([]int{6, 1}, false)
	assert.False(t, changed)
	assert.Equal(t, []int{1, 6}, tokens)
}
