package predpatt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	ex, err := Extract(testParse(t, thoughtRows...), DefaultOptions())
	require.NoError(t, err)

	g := Project(ex, "s1")
	assert.Equal(t, "s1-semantics-pred-2", g.PredicateNodeID(2))
	assert.Equal(t, "s1-syntax-3", g.SyntaxNodeID(3))
	assert.Equal(t, "s1-root-0", g.SyntaxNodeID(0))

	assert.Equal(t, 7, assertOneHeadEdge(t, g))

	clausal := g.EdgesFrom("s1-semantics-arg-5", DomainSemantics)
	require.Len(t, clausal, 1)
	assert.Equal(t, "s1-semantics-pred-5", clausal[0].Target)
	assert.Equal(t, EdgeHead, clausal[0].Type)
	assert.Len(t, g.EdgesFrom("s1-semantics-arg-5", DomainInterface), 5)

	deps := g.EdgesFrom("s1-semantics-pred-5", DomainSemantics)
	targets := make([]string, 0, len(deps))
	for _, e := range deps {
		assert.Equal(t, EdgeDependency, e.Type)
		targets = append(targets, e.Target)
	}
	assert.ElementsMatch(t, []string{"s1-semantics-arg-4", "s1-semantics-arg-7", "s1-semantics-arg-9"}, targets)

	syntax := g.EdgesFrom("s1-syntax-5", DomainSyntax)
	assert.Len(t, syntax, 4)
}

// assertOneHeadEdge checks that every semantics node has exactly one head edge and returns how many
// semantics nodes there are.
func assertOneHeadEdge(t *testing.T, g *Graph) int {
	t.Helper()

	semantics := 0
	for _, n := range g.Nodes {
		if n.Domain != DomainSemantics {
			continue
		}
		semantics++

		heads := 0
		for _, e := range g.EdgesFrom(n.ID, "") {
			if e.Type == EdgeHead {
				heads++
			}
		}
		assert.Equal(t, 1, heads, n.ID)
	}

	return semantics
}

var possRows = []string{
	"This PRON 5 nsubj",
	"is VERB 5 cop",
	"Pat PROPN 5 nmod:poss",
	"'s PART 3 case",
	"car NOUN 0 root",
	". PUNCT 5 punct",
}

var amodRows = []string{
	"Chris PROPN 2 nsubj",
	"ate VERB 0 root",
	"red ADJ 4 amod",
	"apples NOUN 2 dobj",
	". PUNCT 2 punct",
}

func TestProject_OneHeadEdge(t *testing.T) {
	everything := Options{
		ResolveRelcl:      true,
		ResolveConj:       true,
		ResolveAmod:       true,
		ResolveAppos:      true,
		ResolvePoss:       true,
		BorrowArgForRelcl: true,
		Strip:             true,
	}

	table := []struct {
		name string
		rows []string
		opts func(o *Options)
	}{
		{name: "Possessive", rows: possRows, opts: func(o *Options) { o.ResolvePoss = true }},
		{name: "Amod", rows: amodRows, opts: func(o *Options) { o.ResolveAmod = true }},
		{name: "CoordinatedSubject", rows: coordinatedSubjectRows, opts: func(o *Options) { o.ResolveConj = true }},
		{name: "RelclConj", rows: relclRows, opts: func(o *Options) { o.ResolveRelcl, o.ResolveConj = true, true }},
		{name: "PossessiveEverything", rows: possRows, opts: func(o *Options) { *o = everything }},
		{name: "ThoughtEverything", rows: thoughtRows, opts: func(o *Options) { *o = everything }},
		{name: "CutWants", rows: wantsRows, opts: func(o *Options) { o.Cut = true }},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			opts := DefaultOptions()
			row.opts(&opts)

			ex, err := Extract(testParse(t, row.rows...), opts)
			require.NoError(t, err)

			g := Project(ex, "s")
			assert.NotZero(t, assertOneHeadEdge(t, g))
		})
	}
}

func TestProject_PossessorIsClauseEverywhere(t *testing.T) {
	opts := DefaultOptions()
	opts.ResolvePoss = true

	ex, err := Extract(testParse(t, possRows...), opts)
	require.NoError(t, err)
	require.NotNil(t, ex.Predicate(3))

	g := Project(ex, "s")
	require.NotNil(t, g.Node("s-semantics-arg-3"))

	heads := make([]GraphEdge, 0, 1)
	for _, e := range g.EdgesFrom("s-semantics-arg-3", "") {
		if e.Type == EdgeHead {
			heads = append(heads, e)
		}
	}
	require.Len(t, heads, 1)
	assert.Equal(t, GraphEdge{Source: "s-semantics-arg-3", Target: "s-semantics-pred-3", Domain: DomainSemantics, Type: EdgeHead}, heads[0])
}

func TestProject_Deterministic(t *testing.T) {
	ex, err := Extract(testParse(t, coordinatedSubjectRows...), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, Project(ex, "a"), Project(ex, "a"))
}

func TestGraph_AddPerformative(t *testing.T) {
	ex, err := Extract(testParse(t, thoughtRows...), DefaultOptions())
	require.NoError(t, err)

	g := Project(ex, "s1")
	before := len(g.Edges)
	g.AddPerformative()

	require.NotNil(t, g.Node("s1-semantics-pred-root"))
	require.NotNil(t, g.Node("s1-semantics-arg-0"))
	require.NotNil(t, g.Node("s1-semantics-arg-author"))
	require.NotNil(t, g.Node("s1-semantics-arg-addressee"))

	deps := g.EdgesFrom("s1-semantics-pred-root", DomainSemantics)
	assert.Len(t, deps, 3)

	heads := g.EdgesFrom("s1-semantics-arg-0", DomainSemantics)
	require.Len(t, heads, 1)
	assert.Equal(t, "s1-semantics-pred-2", heads[0].Target)

	iface := g.EdgesFrom("s1-semantics-arg-0", DomainInterface)
	require.Len(t, iface, 1)
	assert.Equal(t, "s1-root-0", iface[0].Target)

	assert.Equal(t, before+5, len(g.Edges))

	g.AddPerformative()
	assert.Equal(t, before+5, len(g.Edges))
}

func TestProject_NoGraphID(t *testing.T) {
	ex, err := Extract(testParse(t, gaveRows...), DefaultOptions())
	require.NoError(t, err)

	g := Project(ex, "")
	assert.NotNil(t, g.Node("semantics-pred-2"))
	assert.NotNil(t, g.Node("syntax-2"))
	assert.NotNil(t, g.Node("root-0"))
}
