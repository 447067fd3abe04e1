package main

import (
	"github.com/gissleh/predpatt"
	"github.com/spf13/cobra"
)

func addOptionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("simple", false, "Keep only core arguments and drop function words")
	flags.Bool("cut", false, "Treat xcomp as a separate predicate that borrows its missing arguments")
	flags.Bool("resolve-relcl", false, "Extract relative clauses as predicates")
	flags.Bool("resolve-appos", false, "Extract appositives as predicates")
	flags.Bool("resolve-amod", false, "Extract adjectival modifiers as predicates")
	flags.Bool("resolve-conj", false, "Distribute arguments over conjoined predicates and arguments")
	flags.Bool("resolve-poss", false, "Extract possessives as predicates")
	flags.Bool("borrow-arg-for-relcl", true, "Give relative clause predicates the noun they modify")
	flags.Bool("big-args", false, "Keep whole subtrees as argument phrases")
	flags.Bool("strip", true, "Strip leading and trailing punctuation from phrases")
	flags.String("ud", string(predpatt.UDv1), "Universal Dependencies version of the input (1.0 or 2.0)")
	flags.StringSlice("filter", nil, "Named filters to apply, in order")
	flags.Int("workers", 0, "Number of extraction workers (default: number of CPUs)")
}

// applyOptionFlags copies the option flags that were set on the command line onto opts.
func applyOptionFlags(cmd *cobra.Command, opts *predpatt.Options) error {
	flags := cmd.Flags()

	bools := []struct {
		name  string
		value *bool
	}{
		{"simple", &opts.Simple},
		{"cut", &opts.Cut},
		{"resolve-relcl", &opts.ResolveRelcl},
		{"resolve-appos", &opts.ResolveAppos},
		{"resolve-amod", &opts.ResolveAmod},
		{"resolve-conj", &opts.ResolveConj},
		{"resolve-poss", &opts.ResolvePoss},
		{"borrow-arg-for-relcl", &opts.BorrowArgForRelcl},
		{"big-args", &opts.BigArgs},
		{"strip", &opts.Strip},
	}
	for _, b := range bools {
		if flags.Lookup(b.name) == nil || !flags.Changed(b.name) {
			continue
		}

		v, err := flags.GetBool(b.name)
		if err != nil {
			return err
		}
		*b.value = v
	}

	if flags.Lookup("ud") != nil && flags.Changed("ud") {
		ud, _ := flags.GetString("ud")
		opts.UD = predpatt.UDVersion(ud)
	}
	if flags.Lookup("filter") != nil && flags.Changed("filter") {
		names, _ := flags.GetStringSlice("filter")
		opts.Filters = opts.Filters[:0:0]
		for _, name := range names {
			opts.Filters = append(opts.Filters, predpatt.FilterName(name))
		}
	}

	return opts.Validate()
}
