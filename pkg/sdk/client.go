package studysearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/studysearch/internal/config"
	"github.com/kailas-cloud/studysearch/internal/db"
	dbRedis "github.com/kailas-cloud/studysearch/internal/db/redis"
	"github.com/kailas-cloud/studysearch/internal/domain/search/request"
	"github.com/kailas-cloud/studysearch/internal/domain/search/result"
	"github.com/kailas-cloud/studysearch/internal/repository/tablecache"
	"github.com/kailas-cloud/studysearch/internal/semantic"
	"github.com/kailas-cloud/studysearch/internal/text"
	"github.com/kailas-cloud/studysearch/internal/transport/osdr"
	healthuc "github.com/kailas-cloud/studysearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/studysearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultTimeout          = 30 * time.Second
	defaultPageSize         = 25
	defaultCacheTTL         = 5 * time.Minute
	defaultUserAgent        = "studysearch-sdk"
)

var errDegraded = errors.New("degraded")

// Internal interfaces, swapped for fakes in tests.
type searchUseCase interface {
	Search(ctx context.Context, req request.Request) ([]result.Result, error)
}

// Client is the studysearch SDK entry point.
type Client struct {
	store     db.Store // nil without a cache
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. When a cache is configured the provided context
// bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	applyDefaults(cfg)

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if cfg.driver != "" {
		store, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("studysearch: cache not ready: %w", err)
		}
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil && store != nil {
		store.Close()
	}
	return c, err
}

func applyDefaults(cfg *clientConfig) {
	if cfg.upstreamURL == "" {
		cfg.upstreamURL = config.DefaultUpstreamURL
	}
	if cfg.timeout <= 0 {
		cfg.timeout = defaultTimeout
	}
	if cfg.pageSize <= 0 {
		cfg.pageSize = defaultPageSize
	}
	if cfg.maxPages <= 0 {
		cfg.maxPages = 1
	}
	if cfg.userAgent == "" {
		cfg.userAgent = defaultUserAgent
	}
	if cfg.minTokenLength <= 0 {
		cfg.minTokenLength = text.DefaultMinTokenLength
	}
	if !cfg.stoplistSet {
		cfg.stoplist = semantic.DefaultDomainStoplist
	}
	if cfg.cacheTTL <= 0 {
		cfg.cacheTTL = defaultCacheTTL
	}
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		// Valkey speaks the Redis protocol; both go through rueidis.
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			ClientName: "studysearch-sdk",
		})
		if err != nil {
			return nil, fmt.Errorf("studysearch: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("studysearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	tok, err := text.New(
		text.WithStemmer(cfg.stemmer),
		text.WithMinTokenLength(cfg.minTokenLength),
	)
	if err != nil {
		return nil, fmt.Errorf("studysearch: tokenizer: %w", err)
	}

	upstream, err := osdr.NewClient(osdr.Config{
		BaseURL:    cfg.upstreamURL,
		Timeout:    cfg.timeout,
		PageSize:   cfg.pageSize,
		MaxPages:   cfg.maxPages,
		RateLimit:  cfg.rateLimit,
		UserAgent:  cfg.userAgent,
		HTTPClient: cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("studysearch: upstream: %w", err)
	}

	var fetcher searchuc.Fetcher = upstream
	// Pass a nil interface, not a typed nil pointer, when there is no cache.
	var cache healthuc.CachePinger
	if store != nil {
		cached, err := tablecache.New(upstream, store, cfg.cacheTTL, obs.cacheCounter())
		if err != nil {
			return nil, fmt.Errorf("studysearch: cache: %w", err)
		}
		fetcher = cached
		cache = store
	}

	searchSvc := searchuc.New(fetcher, tok, searchuc.Config{
		NumTopics: cfg.numTopics,
		TopN:      cfg.topN,
		Stoplist:  cfg.stoplist,
	})

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(upstream, cache),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
