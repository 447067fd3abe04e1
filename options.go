package predpatt

import (
	"strings"
)

type UDVersion string

func (v UDVersion) Valid() bool {
	switch v {
	case UDv1, UDv2:
		return true
	default:
		return false
	}
}

const (
	UDv1 UDVersion = "1.0"
	UDv2 UDVersion = "2.0"
)

// Options controls which resolution passes run and how spans are built.
//
// When two options interact the more conservative one wins: BorrowArgForRelcl has no effect without
// ResolveRelcl, and BigArgs disables Strip.
type Options struct {
	Simple            bool         `json:"simple" yaml:"simple"`
	Cut               bool         `json:"cut" yaml:"cut"`
	ResolveRelcl      bool         `json:"resolveRelcl" yaml:"resolve_relcl"`
	ResolveAppos      bool         `json:"resolveAppos" yaml:"resolve_appos"`
	ResolveAmod       bool         `json:"resolveAmod" yaml:"resolve_amod"`
	ResolveConj       bool         `json:"resolveConj" yaml:"resolve_conj"`
	ResolvePoss       bool         `json:"resolvePoss" yaml:"resolve_poss"`
	BorrowArgForRelcl bool         `json:"borrowArgForRelcl" yaml:"borrow_arg_for_relcl"`
	BigArgs           bool         `json:"bigArgs" yaml:"big_args"`
	Strip             bool         `json:"strip" yaml:"strip"`
	UD                UDVersion    `json:"ud" yaml:"ud"`
	Filters           []FilterName `json:"filters,omitempty" yaml:"filters,omitempty"`
}

func DefaultOptions() Options {
	return Options{
		BorrowArgForRelcl: true,
		Strip:             true,
		UD:                UDv1,
	}
}

// Validate checks the enum-valued options. An empty UD version is accepted and means v1.
func (o Options) Validate() error {
	if o.UD != "" && !o.UD.Valid() {
		return &OptionsError{Field: "ud", Value: string(o.UD), Message: "must be 1.0 or 2.0"}
	}

	for _, name := range o.Filters {
		if !name.Valid() {
			return &OptionsError{Field: "filters", Value: string(name), Message: "unknown filter"}
		}
	}

	return nil
}

func (o Options) schema() *Schema {
	return SchemaFor(o.UD)
}

func (o Options) borrowRelcl() bool {
	return o.ResolveRelcl && o.BorrowArgForRelcl
}

func (o Options) strip() bool {
	return o.Strip && !o.BigArgs
}

// Key is a stable, compact fingerprint of the options, suitable for cache keys.
func (o Options) Key() string {
	sb := strings.Builder{}
	sb.Grow(32)

	flags := []struct {
		c  byte
		on bool
	}{
		{'s', o.Simple},
		{'c', o.Cut},
		{'r', o.ResolveRelcl},
		{'a', o.ResolveAppos},
		{'m', o.ResolveAmod},
		{'j', o.ResolveConj},
		{'p', o.ResolvePoss},
		{'b', o.BorrowArgForRelcl},
		{'g', o.BigArgs},
		{'t', o.Strip},
	}
	for _, flag := range flags {
		if flag.on {
			sb.WriteByte(flag.c)
		} else {
			sb.WriteByte('-')
		}
	}

	sb.WriteString(":")
	sb.WriteString(string(o.schema().Version))
	for _, name := range o.Filters {
		sb.WriteString(":")
		sb.WriteString(string(name))
	}

	return sb.String()
}
