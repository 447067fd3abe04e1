package jsonstorage

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/gissleh/predpatt"
)

func New(path string) *Storage {
	return &Storage{
		path:      path,
		readOnly:  false,
		sentences: make(map[string]predpatt.Sentence, 1024),
		index:     make(map[string][]string, 1024),
	}
}

func FromData(path string, readOnly bool, data Data) *Storage {
	s := &Storage{
		path:      path,
		readOnly:  readOnly,
		sentences: data.Sentences,
		index:     data.Index,
	}
	if s.sentences == nil {
		s.sentences = make(map[string]predpatt.Sentence, 1024)
	}
	if s.index == nil {
		s.index = make(map[string][]string, 1024)
		for _, sentence := range s.sentences {
			s.indexSentences(sentence)
		}
	}

	return s
}

func Open(path string, readOnly bool) (*Storage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var data Data
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return nil, err
	}

	return FromData(path, readOnly, data), nil
}

// Storage keeps every sentence in memory and writes them to a single JSON file on demand. A read-only
// storage skips locking.
type Storage struct {
	mu        sync.Mutex
	path      string
	readOnly  bool
	sentences map[string]predpatt.Sentence
	index     map[string][]string
}

type Data struct {
	Sentences map[string]predpatt.Sentence `json:"sentences"`
	Index     map[string][]string          `json:"index"`
}

func (s *Storage) FindSentence(ctx context.Context, id string) (*predpatt.Sentence, error) {
	if !s.readOnly {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	sentence, ok := s.sentences[id]
	if !ok {
		return nil, predpatt.ErrSentenceNotFound
	}

	sentence = sentence.Copy()
	return &sentence, nil
}

func (s *Storage) ListSentences(ctx context.Context) ([]predpatt.Sentence, error) {
	if !s.readOnly {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	res := make([]predpatt.Sentence, 0, len(s.sentences))
	for _, sentence := range s.sentences {
		res = append(res, sentence.Copy())
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].ListBefore(&res[j])
	})

	return res, nil
}

func (s *Storage) ListSentencesByCorpus(ctx context.Context, corpus string) ([]predpatt.Sentence, error) {
	return s.listIndexed("corpus:" + corpus)
}

// ListSentencesWithWord lists the sentences that contain a word, matched case-insensitively against both
// the text and the lemma of each token.
func (s *Storage) ListSentencesWithWord(ctx context.Context, word string) ([]predpatt.Sentence, error) {
	return s.listIndexed("word:" + strings.ToLower(word))
}

func (s *Storage) listIndexed(key string) ([]predpatt.Sentence, error) {
	if !s.readOnly {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	res := make([]predpatt.Sentence, 0, len(s.index[key]))
	for _, sentenceID := range s.index[key] {
		sentence := s.sentences[sentenceID]
		res = append(res, sentence.Copy())
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].ListBefore(&res[j])
	})

	return res, nil
}

func (s *Storage) SaveSentence(ctx context.Context, sentence predpatt.Sentence) error {
	if s.readOnly {
		return predpatt.ErrReadOnly
	}

	s.mu.Lock()
	if old, ok := s.sentences[sentence.ID]; ok {
		s.unIndexSentences(old)
	}
	s.sentences[sentence.ID] = sentence.Copy()
	s.indexSentences(sentence)
	s.mu.Unlock()

	return nil
}

func (s *Storage) DeleteSentence(ctx context.Context, sentence predpatt.Sentence) error {
	if s.readOnly {
		return predpatt.ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.sentences[sentence.ID]
	if !ok {
		return predpatt.ErrSentenceNotFound
	}

	s.unIndexSentences(old)
	delete(s.sentences, sentence.ID)

	return nil
}

func (s *Storage) SentenceCount() int {
	if !s.readOnly {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	return len(s.sentences)
}

func (s *Storage) WriteToFile() error {
	data := Data{
		Sentences: make(map[string]predpatt.Sentence, 1024),
		Index:     make(map[string][]string, 1024),
	}

	s.mu.Lock()
	for _, sentence := range s.sentences {
		data.Sentences[sentence.ID] = sentence
	}
	for key, index := range s.index {
		data.Index[key] = append(make([]string, 0, len(index)), index...)
	}
	s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer file.Close()
	enc := json.NewEncoder(file)

	return enc.Encode(data)
}

func indexKeys(sentence predpatt.Sentence) []string {
	seen := make(map[string]bool, len(sentence.Parse.Tokens)*2)
	keys := make([]string, 0, len(sentence.Parse.Tokens)*2+1)

	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	add("corpus:" + sentence.Source.Corpus)
	for _, token := range sentence.Parse.Tokens {
		if !token.IsWord() {
			continue
		}

		add("word:" + strings.ToLower(token.Text))
		if token.Lemma != "" {
			add("word:" + strings.ToLower(token.Lemma))
		}
	}

	return keys
}

func (s *Storage) indexSentences(sentences ...predpatt.Sentence) {
	for _, sentence := range sentences {
		for _, key := range indexKeys(sentence) {
			s.index[key] = append(s.index[key], sentence.ID)
		}
	}
}

func (s *Storage) unIndexSentences(sentences ...predpatt.Sentence) {
	for _, sentence := range sentences {
		for _, key := range indexKeys(sentence) {
			s.index[key] = sliceWithout(s.index[key], sentence.ID)
			if len(s.index[key]) == 0 {
				delete(s.index, key)
			}
		}
	}
}

func sliceWithout(list []string, value string) []string {
	res := list[:0]
	for _, v := range list {
		if v != value {
			res = append(res, v)
		}
	}

	return res
}
