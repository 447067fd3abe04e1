package predpatt

// Source tells where a sentence came from.
type Source struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Corpus string `json:"corpus,omitempty" yaml:"corpus,omitempty"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Sentence is a stored, parsed sentence.
type Sentence struct {
	ID       string            `json:"id" yaml:"id"`
	Text     string            `json:"text" yaml:"text"`
	Source   Source            `json:"source" yaml:"source"`
	Parse    Parse             `json:"parse" yaml:"parse"`
	Comments []string          `json:"comments,omitempty" yaml:"comments,omitempty"`
	Meta     map[string]string `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// ListBefore orders sentences by corpus, then file and line, then id.
func (s *Sentence) ListBefore(another *Sentence) bool {
	if s.Source.Corpus == another.Source.Corpus {
		if s.Source.File == another.Source.File {
			if s.Source.Line == another.Source.Line {
				return s.ID < another.ID
			}

			return s.Source.Line < another.Source.Line
		}

		return s.Source.File < another.Source.File
	}

	return s.Source.Corpus < another.Source.Corpus
}

// DisplayText is Text, or the words of the parse when the sentence has no text of its own.
func (s *Sentence) DisplayText() string {
	if s.Text != "" {
		return s.Text
	}

	return s.Parse.Text()
}

func (s *Sentence) Copy() Sentence {
	s2 := *s
	s2.Parse = s.Parse.Copy()
	s2.Comments = append(s.Comments[:0:0], s.Comments...)
	if s.Meta != nil {
		s2.Meta = make(map[string]string, len(s.Meta))
		for k, v := range s.Meta {
			s2.Meta[k] = v
		}
	}

	return s2
}
