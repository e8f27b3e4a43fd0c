// Package osdr is a client for the OSDR study search API.
package osdr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/studysearch/internal/domain"
	"github.com/kailas-cloud/studysearch/internal/domain/study"
	"github.com/kailas-cloud/studysearch/internal/logger"
	"github.com/kailas-cloud/studysearch/internal/metrics"
)

const (
	maxBodyBytes  = 32 << 20
	maxErrorBytes = 512
)

// Config holds the search API client settings.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	PageSize       int
	MaxPages       int
	MaxConcurrency int
	RateLimit      float64 // requests per second, 0 = unlimited
	UserAgent      string
	HTTPClient     *http.Client // optional, overrides Timeout
}

// Client fetches study records matching a search term.
type Client struct {
	http      *http.Client
	baseURL   *url.URL
	pageSize  int
	maxPages  int
	maxConc   int
	limiter   *rate.Limiter
	userAgent string
}

// NewClient creates a search API client.
func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url must be absolute, got %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		http:      hc,
		baseURL:   u,
		pageSize:  max(cfg.PageSize, 1),
		maxPages:  max(cfg.MaxPages, 1),
		maxConc:   max(cfg.MaxConcurrency, 1),
		userAgent: cfg.UserAgent,
	}
	if cfg.RateLimit > 0 {
		burst := int(math.Ceil(cfg.RateLimit))
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// Fetch returns the records matching query, in upstream order.
// The first page is fetched alone; remaining pages are fetched
// concurrently and concatenated in page order.
func (c *Client) Fetch(ctx context.Context, query string) (study.Table, error) {
	first, total, err := c.fetchPage(ctx, query, 0, c.pageSize)
	if err != nil {
		return study.Table{}, err
	}

	pages := c.pageCount(total)
	if pages <= 1 {
		return study.NewTable(first), nil
	}

	rest := make([][]study.Record, pages-1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConc)
	for p := 1; p < pages; p++ {
		g.Go(func() error {
			rows, _, err := c.fetchPage(gctx, query, p*c.pageSize, c.pageSize)
			if err != nil {
				return err
			}
			rest[p-1] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return study.Table{}, err //nolint:wrapcheck // already wrapped by fetchPage
	}

	all := first
	for _, rows := range rest {
		all = append(all, rows...)
	}
	logger.FromContext(ctx).Debug("Fetched studies",
		zap.Int("total", total),
		zap.Int("pages", pages),
		zap.Int("records", len(all)),
	)
	return study.NewTable(all), nil
}

// HealthCheck issues a minimal search to verify the API is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, _, err := c.fetchPage(ctx, "space", 0, 1); err != nil {
		return fmt.Errorf("study search health check: %w", err)
	}
	return nil
}

func (c *Client) pageCount(total int) int {
	if total <= c.pageSize {
		return 1
	}
	pages := (total + c.pageSize - 1) / c.pageSize
	return min(pages, c.maxPages)
}

func (c *Client) pageURL(query string, from, size int) string {
	u := *c.baseURL
	q := u.Query()
	q.Set("term", query)
	q.Set("from", strconv.Itoa(from))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) fetchPage(ctx context.Context, query string, from, size int) ([]study.Record, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(query, from, size), http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, fmt.Errorf("search request: %w", ctxErr)
		}
		return nil, 0, domain.NewUpstreamError(0, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return nil, 0, domain.NewUpstreamError(resp.StatusCode, string(snippet))
	}

	rows, total, err := decodeResponse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, domain.NewUpstreamError(resp.StatusCode, err.Error())
	}
	return rows, total, nil
}

// decodeResponse parses a search response body.
func decodeResponse(r io.Reader) ([]study.Record, int, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body searchResponse
	if err := dec.Decode(&body); err != nil {
		return nil, 0, fmt.Errorf("decode response: %w", err)
	}

	rows := make([]study.Record, 0, len(body.Hits.Hits))
	for _, h := range body.Hits.Hits {
		rows = append(rows, h.Source.record())
	}

	total, err := body.Hits.Total.count()
	if err != nil {
		return nil, 0, err
	}
	return rows, max(total, len(rows)), nil
}
