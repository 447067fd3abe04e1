package predpatt

import (
	"fmt"
	"sort"
	"strings"
)

// Token is one word of a parsed sentence. Positions start at 1; position 0 is the synthetic root.
type Token struct {
	Position int               `json:"position" yaml:"position"`
	Text     string            `json:"text" yaml:"text"`
	Lemma    string            `json:"lemma,omitempty" yaml:"lemma,omitempty"`
	Tag      string            `json:"tag" yaml:"tag"`
	XPOS     string            `json:"xpos,omitempty" yaml:"xpos,omitempty"`
	Feats    map[string]string `json:"feats,omitempty" yaml:"feats,omitempty"`
}

func (t *Token) IsWord() bool {
	return t.Tag != TagPUNCT
}

func (t *Token) String() string {
	return fmt.Sprintf("%s/%d", t.Text, t.Position)
}

// Edge is a labeled head to dependent arc. Head 0 is the synthetic root.
type Edge struct {
	Head      int    `json:"head" yaml:"head"`
	Dependent int    `json:"dependent" yaml:"dependent"`
	Rel       string `json:"rel" yaml:"rel"`
}

func (e Edge) String() string {
	return fmt.Sprintf("%s(%d,%d)", e.Rel, e.Dependent, e.Head)
}

// Parse is a single dependency-parsed sentence.
type Parse struct {
	Tokens []Token `json:"tokens" yaml:"tokens"`
	Edges  []Edge  `json:"edges" yaml:"edges"`
}

// NewParse copies tokens and edges into a validated Parse with edges ordered by dependent position.
func NewParse(tokens []Token, edges []Edge) (*Parse, error) {
	p := &Parse{
		Tokens: append(make([]Token, 0, len(tokens)), tokens...),
		Edges:  append(make([]Edge, 0, len(edges)), edges...),
	}
	p.sortEdges()

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Parse) sortEdges() {
	sort.SliceStable(p.Edges, func(i, j int) bool {
		return p.Edges[i].Dependent < p.Edges[j].Dependent
	})
}

// Validate checks that the edges form a tree over the tokens rooted at position 0. The returned error is
// a *ParseError.
func (p *Parse) Validate() error {
	n := len(p.Tokens)
	if n == 0 {
		return &ParseError{Code: "empty", Message: "sentence has no tokens"}
	}

	for i, token := range p.Tokens {
		if token.Position != i+1 {
			return &ParseError{
				Code:     "position",
				Position: token.Position,
				Message:  fmt.Sprintf("token %d has position %d, positions must be 1..%d in order", i+1, token.Position, n),
			}
		}
	}

	heads := make([]int, n+1)
	for i := range heads {
		heads[i] = -1
	}
	for _, e := range p.Edges {
		if e.Dependent < 1 || e.Dependent > n {
			return &ParseError{
				Code:     "position",
				Position: e.Dependent,
				Message:  fmt.Sprintf("edge %s has a dependent outside the sentence", e),
			}
		}
		if e.Head < 0 || e.Head > n {
			return &ParseError{
				Code:     "head",
				Position: e.Dependent,
				Message:  fmt.Sprintf("edge %s has a head outside the sentence", e),
			}
		}
		if heads[e.Dependent] != -1 {
			return &ParseError{
				Code:     "duplicate_head",
				Position: e.Dependent,
				Message:  fmt.Sprintf("token has heads %d and %d", heads[e.Dependent], e.Head),
			}
		}

		heads[e.Dependent] = e.Head
	}

	for pos := 1; pos <= n; pos++ {
		if heads[pos] == -1 {
			return &ParseError{Code: "missing_head", Position: pos, Message: "token has no incoming edge"}
		}
	}

	// 0 = unvisited, 1 = on the current walk, 2 = known to reach the root.
	state := make([]int, n+1)
	state[0] = 2
	for pos := 1; pos <= n; pos++ {
		walk := make([]int, 0, 8)
		curr := pos
		for state[curr] == 0 {
			state[curr] = 1
			walk = append(walk, curr)
			curr = heads[curr]
		}
		if state[curr] == 1 {
			cycle := make([]string, 0, len(walk))
			for _, w := range walk {
				cycle = append(cycle, fmt.Sprint(w))
			}

			return &ParseError{
				Code:     "cycle",
				Position: curr,
				Message:  fmt.Sprintf("dependency cycle through tokens %s", strings.Join(cycle, ",")),
			}
		}
		for _, w := range walk {
			state[w] = 2
		}
	}

	return nil
}

// Token returns the token at a 1-indexed position.
func (p *Parse) Token(position int) *Token {
	if position < 1 || position > len(p.Tokens) {
		return nil
	}

	return &p.Tokens[position-1]
}

func (p *Parse) Text() string {
	sb := strings.Builder{}
	for i, token := range p.Tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(token.Text)
	}

	return sb.String()
}

// Copy returns a deep copy.
func (p *Parse) Copy() Parse {
	tokens := make([]Token, len(p.Tokens))
	for i, token := range p.Tokens {
		tokens[i] = token
		if token.Feats != nil {
			tokens[i].Feats = make(map[string]string, len(token.Feats))
			for k, v := range token.Feats {
				tokens[i].Feats[k] = v
			}
		}
	}

	return Parse{
		Tokens: tokens,
		Edges:  append(make([]Edge, 0, len(p.Edges)), p.Edges...),
	}
}

// node is the indexed view of a token that the rules work on.
type node struct {
	tok  *Token
	gov  int
	rel  string
	deps []Edge
}

// sentence indexes a validated parse by position. Index 0 is the synthetic root and has gov -1.
type sentence struct {
	parse *Parse
	ud    *Schema
	nodes []node
	edges []Edge
}

func newSentence(p *Parse, ud *Schema) *sentence {
	s := &sentence{
		parse: p,
		ud:    ud,
		nodes: make([]node, len(p.Tokens)+1),
		edges: append(make([]Edge, 0, len(p.Edges)), p.Edges...),
	}

	sort.SliceStable(s.edges, func(i, j int) bool {
		return s.edges[i].Dependent < s.edges[j].Dependent
	})

	s.nodes[0] = node{tok: &Token{Position: 0, Text: "ROOT"}, gov: -1}
	for i := range p.Tokens {
		s.nodes[i+1].tok = &p.Tokens[i]
	}
	for _, e := range s.edges {
		s.nodes[e.Dependent].gov = e.Head
		s.nodes[e.Dependent].rel = e.Rel
		s.nodes[e.Head].deps = append(s.nodes[e.Head].deps, e)
	}

	return s
}

func (s *sentence) text(pos int) string { return s.nodes[pos].tok.Text }
func (s *sentence) tag(pos int) string  { return s.nodes[pos].tok.Tag }
func (s *sentence) rel(pos int) string  { return s.nodes[pos].rel }
func (s *sentence) deps(pos int) []Edge { return s.nodes[pos].deps }

// gov returns the governing token or 0 when the token hangs off the root.
func (s *sentence) gov(pos int) int {
	if pos <= 0 {
		return 0
	}

	return s.nodes[pos].gov
}

func (s *sentence) isWord(pos int) bool {
	return pos > 0 && s.nodes[pos].tok.IsWord()
}

func (s *sentence) argumentLike(pos int) bool {
	return s.ud.IsArgLike(s.rel(pos))
}

// hardToFindArguments reports whether pos may head a predicate whose arguments are not its dependents.
func (s *sentence) hardToFindArguments(pos int) bool {
	for _, e := range s.deps(pos) {
		if s.ud.IsSubj(e.Rel) || s.ud.IsObj(e.Rel) {
			return false
		}
	}

	return s.ud.hardToFindArgs[s.rel(pos)]
}

// subtree walks the dependency subtree below pos depth-first, following only the edges follow accepts.
// The visiting order matches a stack that pushes dependents in edge order.
func (s *sentence) subtree(pos int, follow func(e Edge) bool) []int {
	res := make([]int, 0, 8)
	stack := []int{pos}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res = append(res, curr)

		for _, e := range s.deps(curr) {
			if follow == nil || follow(e) {
				stack = append(stack, e.Dependent)
			}
		}
	}

	return res
}
