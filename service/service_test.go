package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gissleh/predpatt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memStorage struct {
	mu        sync.Mutex
	sentences map[string]predpatt.Sentence
}

func newMemStorage(sentences ...predpatt.Sentence) *memStorage {
	s := &memStorage{sentences: make(map[string]predpatt.Sentence)}
	for _, sentence := range sentences {
		s.sentences[sentence.ID] = sentence
	}

	return s
}

func (s *memStorage) FindSentence(ctx context.Context, id string) (*predpatt.Sentence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sentence, ok := s.sentences[id]
	if !ok {
		return nil, predpatt.ErrSentenceNotFound
	}

	sentence = sentence.Copy()
	return &sentence, nil
}

func (s *memStorage) ListSentences(ctx context.Context) ([]predpatt.Sentence, error) {
	return s.ListSentencesByCorpus(ctx, "")
}

func (s *memStorage) ListSentencesByCorpus(ctx context.Context, corpus string) ([]predpatt.Sentence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]predpatt.Sentence, 0, len(s.sentences))
	for _, sentence := range s.sentences {
		if corpus == "" || sentence.Source.Corpus == corpus {
			res = append(res, sentence.Copy())
		}
	}

	return res, nil
}

func (s *memStorage) SaveSentence(ctx context.Context, sentence predpatt.Sentence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sentences[sentence.ID] = sentence.Copy()
	return nil
}

func (s *memStorage) DeleteSentence(ctx context.Context, sentence predpatt.Sentence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sentences, sentence.ID)
	return nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]*predpatt.Extraction
	hits    int
}

func (c *memCache) FindExtraction(ctx context.Context, sentenceID, optionsKey string) (*predpatt.Extraction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ex, ok := c.entries[sentenceID+"/"+optionsKey]
	if !ok {
		return nil, predpatt.ErrExtractionNotCached
	}

	c.hits++
	return ex, nil
}

func (c *memCache) SaveExtraction(ctx context.Context, sentenceID string, extraction *predpatt.Extraction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries == nil {
		c.entries = make(map[string]*predpatt.Extraction)
	}
	c.entries[sentenceID+"/"+extraction.Options.Key()] = extraction
	return nil
}

func (c *memCache) DeleteExtractions(ctx context.Context, sentenceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if len(key) > len(sentenceID) && key[:len(sentenceID)+1] == sentenceID+"/" {
			delete(c.entries, key)
		}
	}
	return nil
}

func testSentence(t *testing.T, id, corpus string, line int) predpatt.Sentence {
	t.Helper()

	parse, err := predpatt.NewParse(
		[]predpatt.Token{
			{Position: 1, Text: "Chris", Tag: predpatt.TagPROPN},
			{Position: 2, Text: "gave", Tag: predpatt.TagVERB},
			{Position: 3, Text: "the", Tag: predpatt.TagDET},
			{Position: 4, Text: "book", Tag: predpatt.TagNOUN},
			{Position: 5, Text: "to", Tag: predpatt.TagADP},
			{Position: 6, Text: "Pat", Tag: predpatt.TagPROPN},
		},
		[]predpatt.Edge{
			{Head: 2, Dependent: 1, Rel: "nsubj"},
			{Head: 0, Dependent: 2, Rel: "root"},
			{Head: 4, Dependent: 3, Rel: "det"},
			{Head: 2, Dependent: 4, Rel: "dobj"},
			{Head: 6, Dependent: 5, Rel: "case"},
			{Head: 2, Dependent: 6, Rel: "nmod"},
		},
	)
	require.NoError(t, err)

	return predpatt.Sentence{
		ID:     id,
		Source: predpatt.Source{Corpus: corpus, File: corpus + ".conllu", Line: line},
		Parse:  *parse,
	}
}

func brokenSentence(id string) predpatt.Sentence {
	return predpatt.Sentence{
		ID:     id,
		Source: predpatt.Source{Corpus: "broken"},
		Parse: predpatt.Parse{
			Tokens: []predpatt.Token{{Position: 1, Text: "Hi", Tag: predpatt.TagINTJ}},
		},
	}
}

func TestService_ExtractCorpus(t *testing.T) {
	sentences := make([]predpatt.Sentence, 0, 40)
	for i := 0; i < 40; i++ {
		sentences = append(sentences, testSentence(t, "s"+string(rune('a'+i%26))+string(rune('0'+i/26)), "c", i))
	}
	sentences[7] = brokenSentence("broken")

	svc := &Service{Options: predpatt.DefaultOptions(), Workers: 3}
	res, err := svc.ExtractCorpus(context.Background(), sentences, nil)
	require.NoError(t, err)
	require.Len(t, res, len(sentences))

	for i, r := range res {
		assert.Equal(t, sentences[i].ID, r.Sentence.ID)
		if i == 7 {
			assert.Nil(t, r.Extraction)
			assert.NotEmpty(t, r.Error)
			continue
		}

		require.NotNil(t, r.Extraction, r.Sentence.ID)
		assert.Len(t, r.Extraction.Predicates, 1)
	}
}

func TestService_ExtractCorpus_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := &Service{Options: predpatt.DefaultOptions(), Workers: 2}
	_, err := svc.ExtractCorpus(ctx, []predpatt.Sentence{testSentence(t, "a", "c", 1)}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_ExtractCorpus_InvalidOptions(t *testing.T) {
	svc := &Service{Options: predpatt.DefaultOptions()}
	opts := predpatt.DefaultOptions()
	opts.UD = "9"

	_, err := svc.ExtractCorpus(context.Background(), nil, &opts)
	assert.ErrorIs(t, err, predpatt.ErrInvalidOptions)
}

func TestService_ExtractStored(t *testing.T) {
	cache := &memCache{}
	svc := &Service{
		Options: predpatt.DefaultOptions(),
		Storage: newMemStorage(testSentence(t, "a", "c", 1)),
		Cache:   cache,
	}

	first, err := svc.ExtractStored(context.Background(), "a", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.hits)

	second, err := svc.ExtractStored(context.Background(), "a", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.Extraction, second.Extraction)

	opts := predpatt.DefaultOptions()
	opts.Simple = true
	_, err = svc.ExtractStored(context.Background(), "a", &opts)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	_, err = svc.ExtractStored(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, predpatt.ErrSentenceNotFound)
}

func TestService_SaveSentence(t *testing.T) {
	table := []struct {
		name     string
		sentence predpatt.Sentence
		readOnly bool
		dry      bool
		err      error
	}{
		{name: "New", sentence: testSentence(t, "", "c", 1)},
		{name: "Existing", sentence: testSentence(t, "keep", "c", 1)},
		{name: "Dry", sentence: testSentence(t, "", "c", 1), dry: true},
		{name: "ReadOnly", sentence: testSentence(t, "", "c", 1), readOnly: true, err: predpatt.ErrReadOnly},
		{name: "NoCorpus", sentence: testSentence(t, "", "", 1), err: ErrMissingCorpus},
		{name: "Malformed", sentence: brokenSentence(""), err: predpatt.ErrMalformedParse},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			storage := newMemStorage()
			svc := &Service{Options: predpatt.DefaultOptions(), Storage: storage, ReadOnly: row.readOnly}

			saved, err := svc.SaveSentence(context.Background(), row.sentence, row.dry)
			if row.err != nil {
				assert.True(t, errors.Is(err, row.err), err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Chris gave the book to Pat", saved.Text)

			if row.dry {
				assert.Empty(t, saved.ID)
				assert.Empty(t, storage.sentences)
				return
			}

			if row.sentence.ID != "" {
				assert.Equal(t, row.sentence.ID, saved.ID)
			} else {
				assert.Len(t, saved.ID, 22)
			}

			found, err := svc.FindSentence(context.Background(), saved.ID)
			require.NoError(t, err)
			assert.Equal(t, *saved, *found)
		})
	}
}

func TestService_DeleteSentence(t *testing.T) {
	cache := &memCache{}
	svc := &Service{
		Options: predpatt.DefaultOptions(),
		Storage: newMemStorage(testSentence(t, "a", "c", 1), testSentence(t, "b", "c", 2)),
		Cache:   cache,
	}

	_, err := svc.ExtractStored(context.Background(), "a", nil)
	require.NoError(t, err)
	require.Len(t, cache.entries, 1)

	deleted, err := svc.DeleteSentence(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", deleted.ID)
	assert.Empty(t, cache.entries)

	_, err = svc.DeleteSentence(context.Background(), "a")
	assert.ErrorIs(t, err, predpatt.ErrSentenceNotFound)

	list, err := svc.ListSentences(context.Background(), "c")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	svc.ReadOnly = true
	_, err = svc.DeleteSentence(context.Background(), "b")
	assert.ErrorIs(t, err, predpatt.ErrReadOnly)
}

func TestService_ListSentences(t *testing.T) {
	svc := &Service{Storage: newMemStorage(
		testSentence(t, "x", "b", 1),
		testSentence(t, "y", "a", 2),
		testSentence(t, "z", "a", 1),
	)}

	list, err := svc.ListSentences(context.Background(), "")
	require.NoError(t, err)

	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"z", "y", "x"}, ids)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predpatt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9000"
storage:
  path: ./data
redis:
  addr: localhost:6379
  ttl: 10m
options:
  resolve_conj: true
  filters: [nucl]
`), 0644))

	conf, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, conf.ValidateAndDefaults(nil))

	assert.Equal(t, ":9000", conf.Listen)
	assert.Equal(t, StorageSource, conf.Storage.Kind)
	assert.Positive(t, conf.Workers)
	assert.Equal(t, "predpatt", conf.Redis.Prefix)
	assert.Equal(t, "10m0s", conf.Redis.TTL.String())
	assert.True(t, conf.Options.ResolveConj)
	assert.True(t, conf.Options.Strip)
	assert.True(t, conf.Options.BorrowArgForRelcl)
	assert.Equal(t, []predpatt.FilterName{predpatt.FilterNucl}, conf.Options.Filters)
}

func TestConfig_ValidateAndDefaults(t *testing.T) {
	table := []struct {
		name string
		conf Config
		ok   bool
	}{
		{name: "Minimal", conf: Config{Storage: StorageConfig{Path: "x"}}, ok: true},
		{name: "NoPath", conf: Config{}},
		{name: "BadKind", conf: Config{Storage: StorageConfig{Kind: "sql", Path: "x"}}},
		{name: "RedisWithoutAddr", conf: Config{Storage: StorageConfig{Path: "x"}, Redis: &RedisConfig{}}},
		{name: "BadFilter", conf: Config{Storage: StorageConfig{Path: "x"}, Options: predpatt.Options{Filters: []predpatt.FilterName{"x"}}}},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			err := row.conf.ValidateAndDefaults(nil)
			if row.ok {
				assert.NoError(t, err)
				assert.Equal(t, DefaultListen, row.conf.Listen)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
