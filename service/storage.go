package service

import (
	"context"

	"github.com/gissleh/predpatt"
)

type SentenceStorage interface {
	FindSentence(ctx context.Context, id string) (*predpatt.Sentence, error)
	ListSentences(ctx context.Context) ([]predpatt.Sentence, error)
	ListSentencesByCorpus(ctx context.Context, corpus string) ([]predpatt.Sentence, error)
	SaveSentence(ctx context.Context, sentence predpatt.Sentence) error
	DeleteSentence(ctx context.Context, sentence predpatt.Sentence) error
}

// ExtractionCache keeps extractions of stored sentences, keyed by sentence id and Options.Key. A miss is
// reported with predpatt.ErrExtractionNotCached.
type ExtractionCache interface {
	FindExtraction(ctx context.Context, sentenceID, optionsKey string) (*predpatt.Extraction, error)
	SaveExtraction(ctx context.Context, sentenceID string, extraction *predpatt.Extraction) error
	DeleteExtractions(ctx context.Context, sentenceID string) error
}
