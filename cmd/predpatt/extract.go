package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gissleh/predpatt"
	"github.com/gissleh/predpatt/adapters/conllu"
	"github.com/gissleh/predpatt/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	formatText   = "text"
	formatJSON   = "json"
	formatGraph  = "graph"
	formatLinear = "linear"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract predicates from CoNLL-U files",
	Long: `Reads CoNLL-U from the given files, or from stdin when there are none, and
prints the predicates and arguments of every sentence.

Example:
  predpatt extract --resolve-conj --format json en_ewt-ud-dev.conllu`,
	RunE: runExtract,
}

func init() {
	addOptionFlags(extractCmd)
	extractCmd.Flags().StringP("format", "f", formatText, "Output format: text, json, graph or linear")
	extractCmd.Flags().Bool("rules", false, "Show the rules behind each predicate and argument (text format)")
	extractCmd.Flags().Bool("performative", false, "Add the speech act layer to graphs")
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatText, formatJSON, formatGraph, formatLinear:
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	trackRules, _ := cmd.Flags().GetBool("rules")
	performative, _ := cmd.Flags().GetBool("performative")

	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sentences, err := readSentences(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	logger.Debug("Sentences read", zap.Int("sentences", len(sentences)), zap.Strings("files", args))

	svc := &service.Service{Options: conf.Options, Logger: logger, Workers: conf.Workers, ReadOnly: true}
	results, err := svc.ExtractCorpus(cmd.Context(), sentences, nil)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	return writeResults(out, results, format, trackRules, performative)
}

func readSentences(stdin io.Reader, files []string) ([]predpatt.Sentence, error) {
	if len(files) == 0 || (len(files) == 1 && files[0] == "-") {
		return conllu.ReadLenient(stdin, "stdin", "")
	}

	res := make([]predpatt.Sentence, 0, 256)
	for _, file := range files {
		sentences, err := conllu.ReadFileLenient(file, "")
		if err != nil {
			return nil, err
		}

		res = append(res, sentences...)
	}

	return res, nil
}

func writeResults(w io.Writer, results []service.SentenceResult, format string, trackRules, performative bool) error {
	enc := json.NewEncoder(w)

	for _, r := range results {
		if r.Error != "" {
			logger.Warn("Sentence skipped", zap.String("sentence", r.Sentence.ID), zap.String("error", r.Error))
			continue
		}

		var err error
		switch format {
		case formatJSON:
			err = enc.Encode(map[string]any{
				"id":         r.Sentence.ID,
				"text":       r.Sentence.DisplayText(),
				"extraction": r.Extraction,
			})
		case formatGraph:
			g := predpatt.Project(r.Extraction, r.Sentence.ID)
			if performative {
				g.AddPerformative()
			}
			err = enc.Encode(g)
		case formatLinear:
			_, err = fmt.Fprintln(w, predpatt.Linearize(r.Extraction, predpatt.DefaultLinearizeOptions()))
		default:
			_, err = fmt.Fprintf(w, "label:    %s\nsentence: %s\n\n%s\n\n", r.Sentence.ID, r.Sentence.DisplayText(), r.Extraction.Format(trackRules))
		}
		if err != nil {
			return err
		}
	}

	return nil
}
