package conllu

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gissleh/predpatt"
)

const (
	fieldSeparator    = "\t"
	numFields         = 10
	featureSeparator  = "|"
	featureAssignment = "="
	empty             = "_"
)

// SyntaxError is a CoNLL-U file that could not be read. Line is the 1-indexed line of the offending row,
// or of the first line of the sentence when the parse itself is malformed.
type SyntaxError struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *SyntaxError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	}

	return fmt.Sprintf("line %d: %s", e.Line, msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ReadFile reads a CoNLL-U file. Sentences are tagged with corpus, or with the file name without its
// extension if corpus is empty.
func ReadFile(path, corpus string) ([]predpatt.Sentence, error) {
	return readFile(path, corpus, false)
}

// ReadFileLenient is ReadFile that keeps sentences whose tree is malformed, see ReadLenient.
func ReadFileLenient(path, corpus string) ([]predpatt.Sentence, error) {
	return readFile(path, corpus, true)
}

func readFile(path, corpus string, lenient bool) ([]predpatt.Sentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if corpus == "" {
		corpus = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return read(f, corpus, filepath.Base(path), lenient)
}

// Read reads blank line separated sentences. The id of a sentence is its sent_id comment, else its last
// other comment, else sent_N counting from 1. Multi-word and empty node rows are skipped.
func Read(r io.Reader, corpus, file string) ([]predpatt.Sentence, error) {
	return read(r, corpus, file, false)
}

// ReadLenient is Read that keeps a sentence whose rows are well formed but do not make up a valid tree.
// Its Parse holds the rows as read and fails Validate, so extraction reports it per sentence. Rows that
// can not be read still fail the whole input.
func ReadLenient(r io.Reader, corpus, file string) ([]predpatt.Sentence, error) {
	return read(r, corpus, file, true)
}

func read(r io.Reader, corpus, file string, lenient bool) ([]predpatt.Sentence, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	res := make([]predpatt.Sentence, 0, 64)
	b := blockReader{corpus: corpus, file: file, lenient: lenient}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			if sentence, err := b.finish(); err != nil {
				return nil, err
			} else if sentence != nil {
				res = append(res, *sentence)
			}
			continue
		}

		if err := b.add(lineNo, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if sentence, err := b.finish(); err != nil {
		return nil, err
	} else if sentence != nil {
		res = append(res, *sentence)
	}

	return res, nil
}

type blockReader struct {
	corpus  string
	file    string
	lenient bool
	count   int

	start    int
	id       string
	hasID    bool
	text     string
	comments []string
	meta     map[string]string
	tokens   []predpatt.Token
	edges    []predpatt.Edge
}

func (b *blockReader) add(lineNo int, line string) error {
	if b.start == 0 {
		b.start = lineNo
	}

	if strings.HasPrefix(line, "#") {
		b.comment(strings.TrimSpace(line[1:]))
		return nil
	}

	fields := strings.Split(line, fieldSeparator)
	if len(fields) != numFields {
		return &SyntaxError{File: b.file, Line: lineNo, Message: fmt.Sprintf("expected %d columns, found %d", numFields, len(fields))}
	}
	if strings.ContainsAny(fields[0], "-.") {
		return nil
	}

	position, err := strconv.Atoi(fields[0])
	if err != nil {
		return &SyntaxError{File: b.file, Line: lineNo, Message: fmt.Sprintf("bad token id %q", fields[0])}
	}
	head, err := strconv.Atoi(fields[6])
	if err != nil {
		return &SyntaxError{File: b.file, Line: lineNo, Message: fmt.Sprintf("bad head %q", fields[6])}
	}
	feats, err := parseFeatures(fields[5])
	if err != nil {
		return &SyntaxError{File: b.file, Line: lineNo, Message: err.Error()}
	}

	b.tokens = append(b.tokens, predpatt.Token{
		Position: position,
		Text:     fields[1],
		Lemma:    value(fields[2]),
		Tag:      fields[3],
		XPOS:     value(fields[4]),
		Feats:    feats,
	})
	b.edges = append(b.edges, predpatt.Edge{Head: head, Dependent: position, Rel: fields[7]})

	return nil
}

func (b *blockReader) comment(c string) {
	key, val, isPair := strings.Cut(c, featureAssignment)
	key, val = strings.TrimSpace(key), strings.TrimSpace(val)

	switch {
	case strings.HasPrefix(c, "sent_id"):
		b.id = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(c, "sent_id")), featureAssignment))
		b.hasID = true
		return
	case isPair && key == "text":
		b.text = val
		return
	}

	if !b.hasID {
		b.id = c
	}
	b.comments = append(b.comments, c)
	if isPair && key != "" && !strings.ContainsAny(key, " \t") {
		if b.meta == nil {
			b.meta = make(map[string]string, 4)
		}
		b.meta[key] = val
	}
}

func (b *blockReader) finish() (*predpatt.Sentence, error) {
	defer b.reset()
	// Comment-only blocks, such as document headers, are not sentences.
	if len(b.tokens) == 0 {
		return nil, nil
	}

	b.count++

	parse, err := predpatt.NewParse(b.tokens, b.edges)
	if err != nil && b.lenient {
		parse = &predpatt.Parse{Tokens: b.tokens, Edges: b.edges}
	} else if err != nil {
		return nil, &SyntaxError{File: b.file, Line: b.start, Message: "invalid parse", Err: err}
	}

	id := b.id
	if id == "" {
		id = fmt.Sprintf("sent_%d", b.count)
	}

	return &predpatt.Sentence{
		ID:   id,
		Text: b.text,
		Source: predpatt.Source{
			ID:     id,
			Corpus: b.corpus,
			File:   b.file,
			Line:   b.start,
		},
		Parse:    *parse,
		Comments: b.comments,
		Meta:     b.meta,
	}, nil
}

func (b *blockReader) reset() {
	b.start = 0
	b.id = ""
	b.hasID = false
	b.text = ""
	b.comments = nil
	b.meta = nil
	b.tokens = nil
	b.edges = nil
}

func value(s string) string {
	if s == empty {
		return ""
	}

	return s
}

func parseFeatures(s string) (map[string]string, error) {
	if s == empty || s == "" {
		return nil, nil
	}

	list := strings.Split(s, featureSeparator)
	res := make(map[string]string, len(list))
	for _, feat := range list {
		k, v, ok := strings.Cut(feat, featureAssignment)
		if !ok || k == "" {
			return nil, fmt.Errorf("bad feature %q", feat)
		}

		res[k] = v
	}

	return res, nil
}

// Write writes sentences in CoNLL-U, each preceded by its sent_id and text comments.
func Write(w io.Writer, sentences ...predpatt.Sentence) error {
	bw := bufio.NewWriter(w)

	for _, sentence := range sentences {
		heads := make(map[int]predpatt.Edge, len(sentence.Parse.Edges))
		for _, e := range sentence.Parse.Edges {
			heads[e.Dependent] = e
		}

		if sentence.ID != "" {
			fmt.Fprintf(bw, "# sent_id = %s\n", sentence.ID)
		}
		fmt.Fprintf(bw, "# text = %s\n", sentence.DisplayText())
		for _, c := range sentence.Comments {
			fmt.Fprintf(bw, "# %s\n", c)
		}

		for _, t := range sentence.Parse.Tokens {
			e := heads[t.Position]
			fields := []string{
				strconv.Itoa(t.Position),
				t.Text,
				orEmpty(t.Lemma),
				orEmpty(t.Tag),
				orEmpty(t.XPOS),
				formatFeatures(t.Feats),
				strconv.Itoa(e.Head),
				orEmpty(e.Rel),
				empty,
				empty,
			}

			bw.WriteString(strings.Join(fields, fieldSeparator))
			bw.WriteByte('\n')
		}

		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func orEmpty(s string) string {
	if s == "" {
		return empty
	}

	return s
}

func formatFeatures(feats map[string]string) string {
	if len(feats) == 0 {
		return empty
	}

	keys := make([]string, 0, len(feats))
	for k := range feats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb := strings.Builder{}
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(featureSeparator)
		}
		sb.WriteString(k)
		sb.WriteString(featureAssignment)
		sb.WriteString(feats[k])
	}

	return sb.String()
}
