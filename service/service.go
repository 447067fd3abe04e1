package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/gissleh/predpatt"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrMissingCorpus = errors.New("sentence source has no corpus")

type Service struct {
	Options  predpatt.Options
	Storage  SentenceStorage
	Cache    ExtractionCache
	Logger   *zap.Logger
	Workers  int
	ReadOnly bool
}

// SentenceResult is the outcome of extracting one sentence of a corpus. A sentence with a malformed
// parse gets Error instead of an extraction, and does not stop the run.
type SentenceResult struct {
	Sentence   predpatt.Sentence    `json:"sentence"`
	Extraction *predpatt.Extraction `json:"extraction,omitempty"`
	Error      string               `json:"error,omitempty"`
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}

	return s.Logger
}

func (s *Service) workers() int {
	if s.Workers <= 0 {
		return runtime.NumCPU()
	}

	return s.Workers
}

func (s *Service) options(opts *predpatt.Options) predpatt.Options {
	if opts == nil {
		return s.Options
	}

	return *opts
}

// Extract runs the engine on a single parse. A nil opts uses the service options.
func (s *Service) Extract(ctx context.Context, parse *predpatt.Parse, opts *predpatt.Options) (*predpatt.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return predpatt.Extract(parse, s.options(opts))
}

// ExtractCorpus extracts every sentence on a bounded pool of workers. The results are in the order of
// sentences. Cancelling ctx stops the run between sentences.
func (s *Service) ExtractCorpus(ctx context.Context, sentences []predpatt.Sentence, opts *predpatt.Options) ([]SentenceResult, error) {
	options := s.options(opts)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	res := make([]SentenceResult, len(sentences))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers())
	for i := range sentences {
		if egCtx.Err() != nil {
			break
		}

		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			res[i].Sentence = sentences[i]
			ex, err := predpatt.Extract(&sentences[i].Parse, options)
			if err != nil {
				if !errors.Is(err, predpatt.ErrMalformedParse) {
					return err
				}

				s.logger().Warn("Skipping malformed sentence",
					zap.String("sentence", sentences[i].ID),
					zap.Error(err),
				)
				res[i].Error = err.Error()
				return nil
			}

			res[i].Extraction = ex
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger().Info("Corpus extracted",
		zap.Int("sentences", len(sentences)),
		zap.Int("predicates", countPredicates(res)),
		zap.Duration("duration", time.Since(start)),
	)

	return res, nil
}

// ExtractStoredCorpus extracts every stored sentence of a corpus, or all of them if corpus is empty.
func (s *Service) ExtractStoredCorpus(ctx context.Context, corpus string, opts *predpatt.Options) ([]SentenceResult, error) {
	sentences, err := s.ListSentences(ctx, corpus)
	if err != nil {
		return nil, err
	}

	return s.ExtractCorpus(ctx, sentences, opts)
}

// ExtractStored extracts a stored sentence, going through the cache when there is one.
func (s *Service) ExtractStored(ctx context.Context, id string, opts *predpatt.Options) (*SentenceResult, error) {
	options := s.options(opts)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	sentence, err := s.Storage.FindSentence(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		ex, err := s.Cache.FindExtraction(ctx, id, options.Key())
		if err == nil {
			return &SentenceResult{Sentence: *sentence, Extraction: ex}, nil
		}
		if !errors.Is(err, predpatt.ErrExtractionNotCached) {
			return nil, err
		}

		s.logger().Debug("Extraction not cached", zap.String("sentence", id), zap.String("options", options.Key()))
	}

	ex, err := predpatt.Extract(&sentence.Parse, options)
	if err != nil {
		return nil, fmt.Errorf("sentence %s: %w", id, err)
	}

	if s.Cache != nil {
		if err := s.Cache.SaveExtraction(ctx, id, ex); err != nil {
			s.logger().Warn("Failed to cache extraction", zap.String("sentence", id), zap.Error(err))
		}
	}

	return &SentenceResult{Sentence: *sentence, Extraction: ex}, nil
}

func (s *Service) FindSentence(ctx context.Context, id string) (*predpatt.Sentence, error) {
	return s.Storage.FindSentence(ctx, id)
}

func (s *Service) ListSentences(ctx context.Context, corpus string) ([]predpatt.Sentence, error) {
	var sentences []predpatt.Sentence
	var err error
	if corpus == "" {
		sentences, err = s.Storage.ListSentences(ctx)
	} else {
		sentences, err = s.Storage.ListSentencesByCorpus(ctx, corpus)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(sentences, func(i, j int) bool {
		return sentences[i].ListBefore(&sentences[j])
	})

	return sentences, nil
}

// SaveSentence validates and stores a sentence, giving it an id if it has none. With dry set, nothing
// is stored.
func (s *Service) SaveSentence(ctx context.Context, sentence predpatt.Sentence, dry bool) (*predpatt.Sentence, error) {
	if s.ReadOnly {
		return nil, predpatt.ErrReadOnly
	}

	if sentence.Source.Corpus == "" {
		return nil, ErrMissingCorpus
	}
	if err := sentence.Parse.Validate(); err != nil {
		return nil, err
	}
	if sentence.Text == "" {
		sentence.Text = sentence.Parse.Text()
	}

	if !dry {
		if sentence.ID == "" {
			id := uuid.New()
			sentence.ID = base64.RawURLEncoding.EncodeToString(id[:])
		}

		err := s.Storage.SaveSentence(ctx, sentence)
		if err != nil {
			return nil, err
		}

		s.invalidate(ctx, sentence.ID)
		s.logger().Info("Sentence saved",
			zap.String("sentence", sentence.ID),
			zap.String("corpus", sentence.Source.Corpus),
		)
	}

	return &sentence, nil
}

func (s *Service) DeleteSentence(ctx context.Context, id string) (*predpatt.Sentence, error) {
	if s.ReadOnly {
		return nil, predpatt.ErrReadOnly
	}

	sentence, err := s.Storage.FindSentence(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.Storage.DeleteSentence(ctx, *sentence)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.logger().Info("Sentence deleted", zap.String("sentence", id))

	return sentence, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.Cache == nil {
		return
	}

	if err := s.Cache.DeleteExtractions(ctx, id); err != nil {
		s.logger().Warn("Failed to invalidate cached extractions", zap.String("sentence", id), zap.Error(err))
	}
}

func countPredicates(results []SentenceResult) int {
	n := 0
	for _, r := range results {
		if r.Extraction != nil {
			n += len(r.Extraction.Predicates)
		}
	}

	return n
}
