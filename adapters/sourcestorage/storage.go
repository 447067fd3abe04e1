package sourcestorage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/gissleh/predpatt"
	"github.com/gissleh/predpatt/adapters/conllu"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	dataExt = ".conllu"
	metaExt = ".yaml"
)

// Storage is a directory with one CoNLL-U file per corpus. A corpus may have a yaml file of the same name
// next to it that describes where it came from.
type Storage struct {
	mu        sync.Mutex
	path      string
	logger    *zap.Logger
	sentences []predpatt.Sentence
	corpora   map[string]corpusMeta
}

type corpusMeta struct {
	URL         string `yaml:"url,omitempty"`
	Description string `yaml:"description,omitempty"`
}

func (s *Storage) FindSentence(ctx context.Context, id string) (*predpatt.Sentence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sentence := range s.sentences {
		if sentence.ID == id {
			sentenceCopy := sentence.Copy()
			return &sentenceCopy, nil
		}
	}

	return nil, predpatt.ErrSentenceNotFound
}

func (s *Storage) ListSentences(ctx context.Context) ([]predpatt.Sentence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]predpatt.Sentence, 0, len(s.sentences))
	for _, sentence := range s.sentences {
		res = append(res, sentence.Copy())
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ListBefore(&res[j]) })

	return res, nil
}

func (s *Storage) ListSentencesByCorpus(ctx context.Context, corpus string) ([]predpatt.Sentence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	res := make([]predpatt.Sentence, 0, 32)
	for _, sentence := range s.sentences {
		if sentence.Source.Corpus == corpus {
			res = append(res, sentence.Copy())
		}
	}
	s.mu.Unlock()

	sort.Slice(res, func(i, j int) bool { return res[i].ListBefore(&res[j]) })

	return res, nil
}

// Corpora lists the corpus names in the directory.
func (s *Storage) Corpora() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	res := make([]string, 0, 8)
	for _, sentence := range s.sentences {
		if !seen[sentence.Source.Corpus] {
			seen[sentence.Source.Corpus] = true
			res = append(res, sentence.Source.Corpus)
		}
	}
	sort.Strings(res)

	return res
}

func (s *Storage) SaveSentence(ctx context.Context, sentence predpatt.Sentence) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sentence = sentence.Copy()
	sentence.Source.File = sentence.Source.Corpus + dataExt
	if meta, ok := s.corpora[sentence.Source.Corpus]; ok && sentence.Source.URL == "" {
		sentence.Source.URL = meta.URL
	}

	for i, existing := range s.sentences {
		if existing.ID == sentence.ID {
			prevCorpus := existing.Source.Corpus
			s.sentences[i] = sentence

			err := s.save(sentence.Source.Corpus)
			if err != nil {
				return err
			}

			if prevCorpus != sentence.Source.Corpus {
				err := s.save(prevCorpus)
				if err != nil {
					return err
				}
			}

			return nil
		}
	}

	s.sentences = append(s.sentences, sentence)

	return s.save(sentence.Source.Corpus)
}

func (s *Storage) DeleteSentence(ctx context.Context, sentence predpatt.Sentence) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.sentences {
		if existing.ID == sentence.ID {
			s.sentences = append(s.sentences[:i], s.sentences[i+1:]...)
			return s.save(existing.Source.Corpus)
		}
	}

	return predpatt.ErrSentenceNotFound
}

func (s *Storage) WriteAllFiles() error {
	for _, corpus := range s.Corpora() {
		s.logger.Info("Saving corpus", zap.String("corpus", corpus))

		s.mu.Lock()
		err := s.save(corpus)
		s.mu.Unlock()
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) SentenceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sentences)
}

// save rewrites the file of one corpus in list order, and removes it once the corpus is empty.
func (s *Storage) save(corpus string) error {
	sentences := make([]predpatt.Sentence, 0, 64)
	for _, sentence := range s.sentences {
		if sentence.Source.Corpus == corpus {
			sentences = append(sentences, sentence)
		}
	}
	sort.Slice(sentences, func(i, j int) bool { return sentences[i].ListBefore(&sentences[j]) })

	filePath := path.Join(s.path, corpus+dataExt)
	if len(sentences) == 0 {
		err := os.Remove(filePath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		return nil
	}

	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := conllu.Write(f, sentences...); err != nil {
		return err
	}

	if meta, ok := s.corpora[corpus]; ok {
		return s.saveMeta(corpus, meta)
	}

	return nil
}

func (s *Storage) saveMeta(corpus string, meta corpusMeta) error {
	f, err := os.OpenFile(path.Join(s.path, corpus+metaExt), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return yaml.NewEncoder(f).Encode(meta)
}

// SetCorpusURL records where a corpus came from. Sentences stored later inherit it.
func (s *Storage) SetCorpusURL(corpus, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := s.corpora[corpus]
	meta.URL = url
	s.corpora[corpus] = meta

	for i := range s.sentences {
		if s.sentences[i].Source.Corpus == corpus {
			s.sentences[i].Source.URL = url
		}
	}

	return s.saveMeta(corpus, meta)
}

func Open(ctx context.Context, storagePath string, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	stat, err := os.Stat(storagePath)
	if os.IsNotExist(err) {
		err := os.MkdirAll(storagePath, 0766)
		if err != nil {
			return nil, err
		}

		return &Storage{path: storagePath, logger: logger, corpora: make(map[string]corpusMeta)}, nil
	} else if err != nil {
		return nil, err
	}

	if !stat.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", storagePath)
	}

	entries, err := os.ReadDir(storagePath)
	if err != nil {
		return nil, err
	}

	corpora := make(map[string]corpusMeta)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), metaExt) {
			continue
		}

		f, err := os.Open(path.Join(storagePath, entry.Name()))
		if err != nil {
			return nil, err
		}

		meta := corpusMeta{}
		err = yaml.NewDecoder(f).Decode(&meta)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("could not load corpus metadata %s: %w", entry.Name(), err)
		}

		corpora[strings.TrimSuffix(entry.Name(), metaExt)] = meta
	}

	var sentences []predpatt.Sentence
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), dataExt) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		corpus := strings.TrimSuffix(entry.Name(), dataExt)
		loaded, err := conllu.ReadFile(path.Join(storagePath, entry.Name()), corpus)
		if err != nil {
			return nil, fmt.Errorf("could not load corpus %s: %w", corpus, err)
		}

		for i := range loaded {
			loaded[i].Source.URL = corpora[corpus].URL
		}
		sentences = append(sentences, loaded...)

		logger.Debug("Corpus loaded", zap.String("corpus", corpus), zap.Int("sentences", len(loaded)))
	}

	return &Storage{path: storagePath, logger: logger, sentences: sentences, corpora: corpora}, nil
}
