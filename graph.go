package predpatt

import (
	"fmt"
	"sort"
)

// Graph domains and edge types.
const (
	DomainSyntax    = "syntax"
	DomainSemantics = "semantics"
	DomainInterface = "interface"

	EdgeHead       = "head"
	EdgeNonhead    = "nonhead"
	EdgeDependency = "dependency"

	NodePredicate = "predicate"
	NodeArgument  = "argument"
	NodeToken     = "token"
	NodeRoot      = "root"
)

// Graph joins the syntax of a sentence with the predicates and arguments extracted from it.
type Graph struct {
	ID    string      `json:"id"`
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

type GraphNode struct {
	ID       string `json:"id"`
	Domain   string `json:"domain"`
	Type     string `json:"type"`
	Position int    `json:"position,omitempty"`
	Text     string `json:"text,omitempty"`
}

type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Domain string `json:"domain"`
	Type   string `json:"type"`
	Rel    string `json:"rel,omitempty"`
}

func (g *Graph) prefix() string {
	if g.ID == "" {
		return ""
	}

	return g.ID + "-"
}

// SyntaxNodeID is the id of the token at pos. Position 0 is the root node.
func (g *Graph) SyntaxNodeID(pos int) string {
	if pos == 0 {
		return g.prefix() + "root-0"
	}

	return fmt.Sprintf("%ssyntax-%d", g.prefix(), pos)
}

func (g *Graph) PredicateNodeID(root int) string {
	return fmt.Sprintf("%ssemantics-pred-%d", g.prefix(), root)
}

func (g *Graph) ArgumentNodeID(root int) string {
	return fmt.Sprintf("%ssemantics-arg-%d", g.prefix(), root)
}

// Node finds a node by id.
func (g *Graph) Node(id string) *GraphNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}

	return nil
}

// EdgesFrom lists the edges leaving a node, optionally restricted to one domain.
func (g *Graph) EdgesFrom(id string, domain string) []GraphEdge {
	res := make([]GraphEdge, 0, 4)
	for _, e := range g.Edges {
		if e.Source == id && (domain == "" || e.Domain == domain) {
			res = append(res, e)
		}
	}

	return res
}

// Project builds the graph of an extraction. Every semantics node gets exactly one head edge: an interface
// head edge to its root token, or for an argument that embeds another predicate, a semantics head edge to
// that predicate.
func Project(ex *Extraction, graphID string) *Graph {
	b := graphBuilder{
		g:     &Graph{ID: graphID},
		nodes: make(map[string]bool),
		edges: make(map[GraphEdge]bool),
	}
	g := b.g

	b.addNode(GraphNode{ID: g.SyntaxNodeID(0), Domain: DomainSyntax, Type: NodeRoot})
	for _, t := range ex.Parse.Tokens {
		b.addNode(GraphNode{ID: g.SyntaxNodeID(t.Position), Domain: DomainSyntax, Type: NodeToken, Position: t.Position, Text: t.Text})
	}
	for _, e := range ex.Parse.Edges {
		b.addEdge(GraphEdge{Source: g.SyntaxNodeID(e.Head), Target: g.SyntaxNodeID(e.Dependent), Domain: DomainSyntax, Type: EdgeDependency, Rel: e.Rel})
	}

	for _, p := range ex.Predicates {
		predID := g.PredicateNodeID(p.Root)
		b.addNode(GraphNode{ID: predID, Domain: DomainSemantics, Type: NodePredicate, Position: p.Root, Text: ex.Token(p.Root).Text})
		b.addSpan(predID, p.Root, p.Span, true)
	}

	// Argument nodes are keyed by root, so a token that is a clause under any predicate is one everywhere.
	clauses := make(map[int]int)
	for _, p := range ex.Predicates {
		for _, a := range p.Arguments {
			if a.Clause != 0 {
				clauses[a.Root] = a.Clause
			}
		}
	}

	for _, p := range ex.Predicates {
		predID := g.PredicateNodeID(p.Root)
		for _, a := range p.Arguments {
			argID := g.ArgumentNodeID(a.Root)
			b.addNode(GraphNode{ID: argID, Domain: DomainSemantics, Type: NodeArgument, Position: a.Root, Text: ex.Token(a.Root).Text})
			b.addEdge(GraphEdge{Source: predID, Target: argID, Domain: DomainSemantics, Type: EdgeDependency})

			if clause := clauses[a.Root]; clause != 0 {
				b.addSpan(argID, a.Root, a.Span, false)
				b.addEdge(GraphEdge{Source: argID, Target: g.PredicateNodeID(clause), Domain: DomainSemantics, Type: EdgeHead})
			} else {
				b.addSpan(argID, a.Root, a.Span, true)
			}
		}
	}

	b.finish()
	return g
}

// AddPerformative adds the speech act layer: a root predicate whose arguments are the speaker, the
// addressee and the content, where the content heads every predicate not governed by another.
func (g *Graph) AddPerformative() {
	rootID := g.prefix() + "semantics-pred-root"
	if g.Node(rootID) != nil {
		return
	}

	b := graphBuilder{g: g, nodes: make(map[string]bool), edges: make(map[GraphEdge]bool)}
	for _, n := range g.Nodes {
		b.nodes[n.ID] = true
	}
	for _, e := range g.Edges {
		b.edges[e] = true
	}

	governed := make(map[string]bool)
	for _, e := range g.Edges {
		if e.Domain == DomainSemantics {
			governed[e.Target] = true
		}
	}
	tops := make([]string, 0, 4)
	for _, n := range g.Nodes {
		if n.Domain == DomainSemantics && n.Type == NodePredicate && !governed[n.ID] {
			tops = append(tops, n.ID)
		}
	}

	contentID := g.prefix() + "semantics-arg-0"
	authorID := g.prefix() + "semantics-arg-author"
	addresseeID := g.prefix() + "semantics-arg-addressee"

	b.addNode(GraphNode{ID: rootID, Domain: DomainSemantics, Type: NodePredicate})
	for _, id := range []string{contentID, authorID, addresseeID} {
		b.addNode(GraphNode{ID: id, Domain: DomainSemantics, Type: NodeArgument})
		b.addEdge(GraphEdge{Source: rootID, Target: id, Domain: DomainSemantics, Type: EdgeDependency})
	}
	for _, id := range tops {
		b.addEdge(GraphEdge{Source: contentID, Target: id, Domain: DomainSemantics, Type: EdgeHead})
	}
	b.addEdge(GraphEdge{Source: contentID, Target: g.SyntaxNodeID(0), Domain: DomainInterface, Type: EdgeHead})

	b.finish()
}

type graphBuilder struct {
	g     *Graph
	nodes map[string]bool
	edges map[GraphEdge]bool
}

func (b *graphBuilder) addNode(n GraphNode) {
	if b.nodes[n.ID] {
		return
	}

	b.nodes[n.ID] = true
	b.g.Nodes = append(b.g.Nodes, n)
}

func (b *graphBuilder) addEdge(e GraphEdge) {
	if b.edges[e] {
		return
	}

	b.edges[e] = true
	b.g.Edges = append(b.g.Edges, e)
}

// addSpan links a semantics node to the tokens of its span. The head edge goes to root.
func (b *graphBuilder) addSpan(id string, root int, span []int, head bool) {
	if head {
		b.addEdge(GraphEdge{Source: id, Target: b.g.SyntaxNodeID(root), Domain: DomainInterface, Type: EdgeHead})
	}
	for _, pos := range span {
		if pos != root {
			b.addEdge(GraphEdge{Source: id, Target: b.g.SyntaxNodeID(pos), Domain: DomainInterface, Type: EdgeNonhead})
		}
	}
}

// finish orders edges by domain, then source and target, so that equal extractions give equal graphs.
func (b *graphBuilder) finish() {
	sort.SliceStable(b.g.Edges, func(i, j int) bool {
		a, c := b.g.Edges[i], b.g.Edges[j]
		if a.Domain != c.Domain {
			return a.Domain > c.Domain
		}
		if a.Source != c.Source {
			return a.Source < c.Source
		}
		if a.Target != c.Target {
			return a.Target < c.Target
		}

		return a.Type < c.Type
	})
}
