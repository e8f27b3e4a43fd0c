// Package tablecache caches fetched study record tables in a key-value store.
package tablecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/studysearch/internal/db"
	"github.com/kailas-cloud/studysearch/internal/domain/study"
	"github.com/kailas-cloud/studysearch/internal/logger"
)

// DefaultKeyPrefix namespaces cached tables.
const DefaultKeyPrefix = "studysearch:table:v1:"

// Fetcher retrieves record tables from the upstream API.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (study.Table, error)
}

// store is the consumer interface for the table cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedFetcher serves record tables from cache, falling back to the inner fetcher.
// Only raw records are cached; models are always rebuilt per query.
type CachedFetcher struct {
	inner      Fetcher
	store      store
	ttl        time.Duration
	keyPrefix  string
	enc        *zstd.Encoder
	dec        *zstd.Decoder
	cacheTotal *prometheus.CounterVec
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Fetcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
) (*CachedFetcher, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &CachedFetcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		keyPrefix:  DefaultKeyPrefix,
		enc:        enc,
		dec:        dec,
		cacheTotal: cacheTotal,
	}, nil
}

// WithKeyPrefix overrides the cache key namespace.
func (c *CachedFetcher) WithKeyPrefix(prefix string) *CachedFetcher {
	c.keyPrefix = prefix
	return c
}

// Fetch returns a cached table or calls the inner fetcher.
// Cache failures are logged and never fail the request.
func (c *CachedFetcher) Fetch(ctx context.Context, query string) (study.Table, error) {
	key := c.Key(query)
	log := logger.FromContext(ctx)

	if table, ok := c.getFromCache(ctx, log, key); ok {
		c.incCache("hit")
		return table, nil
	}
	c.incCache("miss")

	table, err := c.inner.Fetch(ctx, query)
	if err != nil {
		return study.Table{}, fmt.Errorf("fetch studies: %w", err)
	}

	c.putToCache(ctx, log, key, table)
	return table, nil
}

// Key returns the cache key for a query. Queries differing only in
// surrounding or repeated whitespace share a key.
func (c *CachedFetcher) Key(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	h := sha256.Sum256([]byte(normalized))
	return c.keyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedFetcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedFetcher) getFromCache(ctx context.Context, log *zap.Logger, key string) (study.Table, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			log.Warn("Failed to get cached table", zap.String("key", key), zap.Error(err))
		}
		return study.Table{}, false
	}
	if len(data) == 0 {
		return study.Table{}, false
	}

	table, err := c.decode(data)
	if err != nil {
		log.Warn("Failed to decode cached table", zap.String("key", key), zap.Error(err))
		return study.Table{}, false
	}
	return table, true
}

func (c *CachedFetcher) putToCache(ctx context.Context, log *zap.Logger, key string, table study.Table) {
	data, err := c.encode(table)
	if err != nil {
		log.Warn("Failed to encode table", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		log.Warn("Failed to cache table", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedFetcher) encode(table study.Table) ([]byte, error) {
	raw, err := json.Marshal(table.Records())
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	return c.enc.EncodeAll(raw, nil), nil
}

func (c *CachedFetcher) decode(data []byte) (study.Table, error) {
	raw, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return study.Table{}, fmt.Errorf("decompress: %w", err)
	}
	var rows []study.Record
	if err := json.Unmarshal(raw, &rows); err != nil {
		return study.Table{}, fmt.Errorf("unmarshal records: %w", err)
	}
	return study.NewTable(rows), nil
}
