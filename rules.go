package predpatt

import (
	"fmt"
	"strings"
)

// RuleID names one rule of the fixed inventory. The numeric order carries no meaning; evaluation order is
// fixed by the rule tables below.
type RuleID uint8

const (
	RuleUnknown RuleID = iota

	// Predicate root rules.
	RuleA1
	RuleA2
	RuleB
	RuleC
	RuleD
	RuleE
	RuleV
	RuleF

	// Predicate conjunction rules.
	RulePredConjBorrowAuxNeg
	RulePredConjBorrowTokensXcomp

	// Predicate phrase rules.
	RuleN1
	RuleN2
	RuleN3
	RuleN4
	RuleN5
	RuleN6

	// Simplification rules.
	RuleP1
	RuleP2
	RuleQ
	RuleR
	RuleU

	// Argument root rules.
	RuleG1
	RuleH1
	RuleH2
	RuleI
	RuleJ
	RuleK
	RuleW1
	RuleW2
	RuleDropTrivial

	// Argument resolution rules.
	RuleCutBorrowOther
	RuleCutBorrowSubj
	RuleCutBorrowObj
	RuleBorrowSubj
	RuleBorrowObj
	RuleArgResolveRelcl
	RulePredResolveRelcl
	RuleL
	RuleM

	// Argument phrase rules.
	RuleCleanArgToken
	RuleMoveCaseTokenToPred
	RulePredicateHas
	RuleDropAppos
	RuleDropUnknown
	RuleDropCc
	RuleDropConj
	RuleSpecialArgDropDirectDep

	RuleEnRelclDummyArgFilter

	ruleCount
)

var ruleNames = [ruleCount]string{
	RuleUnknown:                   "unknown",
	RuleA1:                        "a1",
	RuleA2:                        "a2",
	RuleB:                         "b",
	RuleC:                         "c",
	RuleD:                         "d",
	RuleE:                         "e",
	RuleV:                         "v",
	RuleF:                         "f",
	RulePredConjBorrowAuxNeg:      "pred_conj_borrow_aux_neg",
	RulePredConjBorrowTokensXcomp: "pred_conj_borrow_tokens_xcomp",
	RuleN1:                        "n1",
	RuleN2:                        "n2",
	RuleN3:                        "n3",
	RuleN4:                        "n4",
	RuleN5:                        "n5",
	RuleN6:                        "n6",
	RuleP1:                        "p1",
	RuleP2:                        "p2",
	RuleQ:                         "q",
	RuleR:                         "r",
	RuleU:                         "u",
	RuleG1:                        "g1",
	RuleH1:                        "h1",
	RuleH2:                        "h2",
	RuleI:                         "i",
	RuleJ:                         "j",
	RuleK:                         "k",
	RuleW1:                        "w1",
	RuleW2:                        "w2",
	RuleDropTrivial:               "drop_trivial",
	RuleCutBorrowOther:            "cut_borrow_other",
	RuleCutBorrowSubj:             "cut_borrow_subj",
	RuleCutBorrowObj:              "cut_borrow_obj",
	RuleBorrowSubj:                "borrow_subj",
	RuleBorrowObj:                 "borrow_obj",
	RuleArgResolveRelcl:           "arg_resolve_relcl",
	RulePredResolveRelcl:          "pred_resolve_relcl",
	RuleL:                         "l",
	RuleM:                         "m",
	RuleCleanArgToken:             "clean_arg_token",
	RuleMoveCaseTokenToPred:       "move_case_token_to_pred",
	RulePredicateHas:              "predicate_has",
	RuleDropAppos:                 "drop_appos",
	RuleDropUnknown:               "drop_unknown",
	RuleDropCc:                    "drop_cc",
	RuleDropConj:                  "drop_conj",
	RuleSpecialArgDropDirectDep:   "special_arg_drop_direct_dep",
	RuleEnRelclDummyArgFilter:     "en_relcl_dummy_arg_filter",
}

func (id RuleID) Valid() bool {
	return id > RuleUnknown && id < ruleCount
}

func (id RuleID) String() string {
	if id >= ruleCount {
		return ruleNames[RuleUnknown]
	}

	return ruleNames[id]
}

func (id RuleID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *RuleID) UnmarshalText(text []byte) error {
	name := string(text)
	for i, n := range ruleNames {
		if n == name {
			*id = RuleID(i)
			return nil
		}
	}

	return fmt.Errorf("unknown rule %q", name)
}

// Rule is one firing of a rule. Token and Friend are positions whose meaning depends on the rule: the
// token a phrase rule kept or dropped, the argument root a borrowing rule took, and the predicate root it
// was taken from.
type Rule struct {
	ID     RuleID `json:"id"`
	Rel    string `json:"rel,omitempty"`
	Token  int    `json:"token,omitempty"`
	Friend int    `json:"friend,omitempty"`
}

func (r Rule) String() string {
	switch r.ID {
	case RuleG1:
		return fmt.Sprintf("g1(%s)", r.Rel)
	case RuleC:
		return fmt.Sprintf("add_root(%d)_for_%s_from_(%d)", r.Token, r.Rel, r.Friend)
	case RuleBorrowSubj, RuleBorrowObj, RuleCutBorrowSubj, RuleCutBorrowObj:
		return fmt.Sprintf("%s(%d)_from(%d)", r.ID, r.Token, r.Friend)
	case RuleMoveCaseTokenToPred:
		return fmt.Sprintf("move_case_token(%d)_to_pred", r.Token)
	case RuleCleanArgToken, RulePredicateHas, RuleDropAppos, RuleDropUnknown, RuleDropCc, RuleDropConj,
		RuleSpecialArgDropDirectDep:
		return fmt.Sprintf("%s(%d)", r.ID, r.Token)
	default:
		return r.ID.String()
	}
}

// ruleList is an ordered provenance list.
type ruleList []Rule

func (l ruleList) has(id RuleID) bool {
	for _, r := range l {
		if r.ID == id {
			return true
		}
	}

	return false
}

func (l ruleList) String() string {
	names := make([]string, 0, len(l))
	for _, r := range l {
		names = append(names, r.String())
	}

	return strings.Join(names, ",")
}

type ruleTarget uint8

const (
	targetDependent ruleTarget = iota
	targetGovernor
)

// predicateRootRule nominates a predicate root from one edge. Rules with guarded set are not evaluated when
// the edge's head is itself attached with the unknown `dep` relation.
type predicateRootRule struct {
	id      RuleID
	kind    PredicateKind
	target  ruleTarget
	guarded bool
	match   func(x *extractor, e Edge) bool
}

// predicateRootRules is evaluated top to bottom for every edge. Several rules may fire for one edge; the
// first rule that nominates a token decides its kind.
var predicateRootRules = []predicateRootRule{
	{id: RuleD, kind: KindAppos, target: targetDependent, match: func(x *extractor, e Edge) bool {
		return x.opts.ResolveAppos && e.Rel == x.ud.Appos
	}},
	{id: RuleV, kind: KindPoss, target: targetDependent, match: func(x *extractor, e Edge) bool {
		return x.opts.ResolvePoss && e.Rel == x.ud.NmodPoss
	}},
	{id: RuleE, kind: KindAmod, target: targetDependent, match: func(x *extractor, e Edge) bool {
		return x.opts.ResolveAmod && e.Rel == x.ud.Amod &&
			x.s.tag(e.Dependent) == TagADJ && x.s.tag(e.Head) != TagADJ
	}},
	{id: RuleA1, kind: KindNormal, target: targetDependent, guarded: true, match: func(x *extractor, e Edge) bool {
		return e.Rel == x.ud.Ccomp || e.Rel == x.ud.Csubj || e.Rel == x.ud.Csubjpass
	}},
	{id: RuleB, kind: KindNormal, target: targetDependent, guarded: true, match: func(x *extractor, e Edge) bool {
		return x.opts.ResolveRelcl && (e.Rel == x.ud.Advcl || e.Rel == x.ud.Acl || e.Rel == x.ud.AclRelcl)
	}},
	{id: RuleA2, kind: KindNormal, target: targetDependent, guarded: true, match: func(x *extractor, e Edge) bool {
		return e.Rel == x.ud.Xcomp
	}},
	{id: RuleC, kind: KindNormal, target: targetGovernor, guarded: true, match: func(x *extractor, e Edge) bool {
		if !x.govLooksLikePredicate(e) {
			return false
		}
		if e.Rel == x.ud.Ccomp && x.s.argumentLike(e.Head) {
			return false
		}
		if x.s.rel(e.Head) == x.ud.Xcomp {
			g := x.s.gov(e.Head)
			return g != 0 && !x.s.hardToFindArguments(g)
		}

		return !x.s.hardToFindArguments(e.Head)
	}},
}

// argumentRootRule nominates an argument from a direct dependent of a predicate root. Rules with exclude
// set stop the scan without producing an argument.
type argumentRootRule struct {
	id      RuleID
	exclude bool
	match   func(x *extractor, p *predicate, e Edge) bool
}

// argumentRootRules is scanned first-match-wins for every dependent of a predicate root.
var argumentRootRules = []argumentRootRule{
	{id: RuleG1, match: func(x *extractor, p *predicate, e Edge) bool {
		return e.Rel == x.ud.Nsubj || e.Rel == x.ud.Nsubjpass || e.Rel == x.ud.Dobj || e.Rel == x.ud.Iobj
	}},
	{id: RuleH1, match: func(x *extractor, p *predicate, e Edge) bool {
		return (strings.HasPrefix(e.Rel, x.ud.Nmod) || strings.HasPrefix(e.Rel, x.ud.Obl)) && p.kind != KindAmod
	}},
	{id: RuleK, match: func(x *extractor, p *predicate, e Edge) bool {
		return e.Rel == x.ud.Ccomp || e.Rel == x.ud.Csubj || e.Rel == x.ud.Csubjpass ||
			(x.opts.Cut && e.Rel == x.ud.Xcomp)
	}},
	{id: RuleDropTrivial, exclude: true, match: func(x *extractor, p *predicate, e Edge) bool {
		return true
	}},
}
