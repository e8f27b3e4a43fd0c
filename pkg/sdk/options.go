package studysearch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	upstreamURL string
	httpClient  *http.Client
	timeout     time.Duration
	pageSize    int
	maxPages    int
	rateLimit   float64
	userAgent   string

	numTopics      int
	topN           int
	minTokenLength int
	stemmer        string
	stoplist       []string
	stoplistSet    bool

	driver   string // "valkey" or "redis", empty = no cache
	addrs    []string
	password string
	cacheTTL time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithUpstream sets the study search API endpoint.
// Defaults to the public OSDR search endpoint.
func WithUpstream(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.upstreamURL = baseURL
	})
}

// WithHTTPClient overrides the HTTP client used for upstream calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout bounds each upstream request. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithPaging sets the upstream page size and the maximum number of pages per query.
// Default: 25 records, one page.
func WithPaging(pageSize, maxPages int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = pageSize
		c.maxPages = maxPages
	})
}

// WithRateLimit caps upstream requests per second. Zero disables the limit.
func WithRateLimit(rps float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.rateLimit = rps
	})
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return optionFunc(func(c *clientConfig) {
		c.userAgent = ua
	})
}

// WithNumTopics caps the latent dimension of the per-query model. Default: 300.
func WithNumTopics(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.numTopics = n
	})
}

// WithTopN sets how many studies Search returns when SearchOptions.TopN is unset.
// Default: 5.
func WithTopN(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topN = n
	})
}

// WithMinTokenLength drops tokens of n runes or fewer. Default: 2.
func WithMinTokenLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minTokenLength = n
	})
}

// WithStemmer selects "snowball" (default) or "porter".
func WithStemmer(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.stemmer = name
	})
}

// WithDomainStoplist replaces the built-in list of words removed from the
// model vocabulary. Call with no arguments to disable it.
func WithDomainStoplist(words ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.stoplist = words
		c.stoplistSet = true
	})
}

// WithValkey caches upstream records in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis caches upstream records in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCacheTTL sets how long cached records stay valid. Default: 5m.
func WithCacheTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts, durations and
// cache hits) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
