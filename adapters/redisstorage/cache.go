package redisstorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gissleh/predpatt"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

// Cache stores extractions in one redis hash per sentence, with a field per options key. Deleting the
// hash drops every extraction of the sentence at once.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

func Open(addr, password string, db int, prefix string, ttl time.Duration) *Cache {
	return New(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), prefix, ttl)
}

func (c *Cache) key(sentenceID string) string {
	return fmt.Sprintf("%s:extractions:%s", c.prefix, sentenceID)
}

func (c *Cache) FindExtraction(ctx context.Context, sentenceID, optionsKey string) (*predpatt.Extraction, error) {
	data, err := c.client.HGet(ctx, c.key(sentenceID), optionsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, predpatt.ErrExtractionNotCached
	} else if err != nil {
		return nil, err
	}

	ex := new(predpatt.Extraction)
	if err := json.Unmarshal(data, ex); err != nil {
		return nil, fmt.Errorf("bad cached extraction for %s: %w", sentenceID, err)
	}

	return ex, nil
}

func (c *Cache) SaveExtraction(ctx context.Context, sentenceID string, extraction *predpatt.Extraction) error {
	data, err := json.Marshal(extraction)
	if err != nil {
		return err
	}

	key := c.key(sentenceID)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, extraction.Options.Key(), data)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})

	return err
}

func (c *Cache) DeleteExtractions(ctx context.Context, sentenceID string) error {
	return c.client.Del(ctx, c.key(sentenceID)).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
