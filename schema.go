package predpatt

// Universal POS tags.
const (
	TagADJ   = "ADJ"
	TagADV   = "ADV"
	TagINTJ  = "INTJ"
	TagNOUN  = "NOUN"
	TagPROPN = "PROPN"
	TagVERB  = "VERB"
	TagADP   = "ADP"
	TagAUX   = "AUX"
	TagCCONJ = "CCONJ"
	TagDET   = "DET"
	TagNUM   = "NUM"
	TagPART  = "PART"
	TagPRON  = "PRON"
	TagSCONJ = "SCONJ"
	TagPUNCT = "PUNCT"
	TagSYM   = "SYM"
	TagX     = "X"
)

// RelRoot is the relation label of edges headed by the synthetic root.
const RelRoot = "root"

// Schema holds the relation labels of one Universal Dependencies release. Rules refer to relations only
// through a Schema so that v1 and v2 trees are handled by the same code.
type Schema struct {
	Version UDVersion

	Nsubj     string
	Nsubjpass string
	Csubj     string
	Csubjpass string
	Dobj      string
	Iobj      string
	Cop       string
	Aux       string
	Auxpass   string
	Neg       string
	Amod      string
	Advmod    string
	Nmod      string
	NmodPoss  string
	NmodTmod  string
	NmodNpmod string
	Obl       string
	OblNpmod  string
	Appos     string
	Cc        string
	Conj      string
	CcPreconj string
	Mark      string
	Case      string
	Mwe       string
	Parataxis string
	Punct     string
	Ccomp     string
	Xcomp     string
	Advcl     string
	Acl       string
	AclRelcl  string
	Dep       string

	subj           relSet
	obj            relSet
	nmods          relSet
	adjLikeMods    relSet
	argLike        relSet
	trivials       relSet
	predDepsToDrop relSet
	specialArgDrop relSet
	hardToFindArgs relSet
}

type relSet map[string]bool

func newRelSet(rels ...string) relSet {
	s := make(relSet, len(rels))
	for _, rel := range rels {
		s[rel] = true
	}

	return s
}

var schemaV1 = newSchema(Schema{
	Version:   UDv1,
	Nsubj:     "nsubj",
	Nsubjpass: "nsubjpass",
	Csubj:     "csubj",
	Csubjpass: "csubjpass",
	Dobj:      "dobj",
	Iobj:      "iobj",
	Auxpass:   "auxpass",
	Obl:       "nmod",
	OblNpmod:  "nmod:npmod",
})

var schemaV2 = newSchema(Schema{
	Version:   UDv2,
	Nsubj:     "nsubj",
	Nsubjpass: "nsubj:pass",
	Csubj:     "csubj",
	Csubjpass: "csubj:pass",
	Dobj:      "obj",
	Iobj:      "iobj",
	Auxpass:   "aux:pass",
	Obl:       "obl",
	OblNpmod:  "obl:npmod",
})

// newSchema fills in the labels shared by both releases and builds the relation classes.
func newSchema(s Schema) *Schema {
	s.Cop = "cop"
	s.Aux = "aux"
	s.Neg = "neg"
	s.Amod = "amod"
	s.Advmod = "advmod"
	s.Nmod = "nmod"
	s.NmodPoss = "nmod:poss"
	s.NmodTmod = "nmod:tmod"
	s.NmodNpmod = "nmod:npmod"
	s.Appos = "appos"
	s.Cc = "cc"
	s.Conj = "conj"
	s.CcPreconj = "cc:preconj"
	s.Mark = "mark"
	s.Case = "case"
	s.Mwe = "fixed"
	s.Parataxis = "parataxis"
	s.Punct = "punct"
	s.Ccomp = "ccomp"
	s.Xcomp = "xcomp"
	s.Advcl = "advcl"
	s.Acl = "acl"
	s.AclRelcl = "acl:relcl"
	s.Dep = "dep"

	s.subj = newRelSet(s.Nsubj, s.Csubj, s.Nsubjpass, s.Csubjpass)
	s.obj = newRelSet(s.Dobj, s.Iobj)
	s.nmods = newRelSet(s.Nmod, s.Obl, s.NmodNpmod, s.NmodTmod)
	s.adjLikeMods = newRelSet(s.Amod, s.Appos, s.Acl, s.AclRelcl)
	s.argLike = newRelSet(s.Nmod, s.Obl, s.NmodNpmod, s.NmodTmod, s.Nsubj, s.Csubj, s.Csubjpass, s.Dobj, s.Iobj)
	s.trivials = newRelSet(s.Mark, s.Cc, s.Punct)
	s.predDepsToDrop = newRelSet(s.Ccomp, s.Csubj, s.Advcl, s.Acl, s.AclRelcl, s.NmodTmod, s.Parataxis, s.Appos, s.Dep)
	s.specialArgDrop = newRelSet(s.Nsubj, s.Dobj, s.Iobj, s.Csubj, s.Csubjpass, s.Neg, s.Aux, s.Advcl,
		s.Auxpass, s.Ccomp, s.Cop, s.Mark, s.Mwe, s.Parataxis)
	s.hardToFindArgs = newRelSet(s.Amod, s.Dep, s.Conj, s.Acl, s.AclRelcl, s.Advcl)

	return &s
}

// SchemaFor returns the relation schema for a UD release. Unknown versions get the v1 schema.
func SchemaFor(version UDVersion) *Schema {
	if version == UDv2 {
		return schemaV2
	}

	return schemaV1
}

func (s *Schema) IsSubj(rel string) bool    { return s.subj[rel] }
func (s *Schema) IsObj(rel string) bool     { return s.obj[rel] }
func (s *Schema) IsNmod(rel string) bool    { return s.nmods[rel] }
func (s *Schema) IsAdjLike(rel string) bool { return s.adjLikeMods[rel] }
func (s *Schema) IsArgLike(rel string) bool { return s.argLike[rel] }
func (s *Schema) IsTrivial(rel string) bool { return s.trivials[rel] }

// IsClausal reports whether rel attaches a clausal complement or subject.
func (s *Schema) IsClausal(rel string) bool {
	return rel == s.Ccomp || rel == s.Csubj || rel == s.Csubjpass || rel == s.Xcomp
}
