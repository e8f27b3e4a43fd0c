package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/studysearch/internal/config"
	dbRedis "github.com/kailas-cloud/studysearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/studysearch/internal/logger"
	"github.com/kailas-cloud/studysearch/internal/metrics"
	"github.com/kailas-cloud/studysearch/internal/repository/tablecache"
	"github.com/kailas-cloud/studysearch/internal/semantic"
	"github.com/kailas-cloud/studysearch/internal/text"
	chiTransport "github.com/kailas-cloud/studysearch/internal/transport/chi"
	"github.com/kailas-cloud/studysearch/internal/transport/osdr"
	healthuc "github.com/kailas-cloud/studysearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/studysearch/internal/usecase/search"
	"github.com/kailas-cloud/studysearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting studysearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// Register pipeline, upstream and cache metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	tok, err := text.New(
		text.WithStemmer(cfg.Ranking.Stemmer),
		text.WithMinTokenLength(cfg.Ranking.MinTokenLength),
	)
	if err != nil {
		logger.Fatal("Failed to create tokenizer", zap.Error(err))
	}

	upstream, err := osdr.NewClient(osdr.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		Timeout:        time.Duration(cfg.Upstream.TimeoutSec) * time.Second,
		PageSize:       cfg.Upstream.PageSize,
		MaxPages:       cfg.Upstream.MaxPages,
		MaxConcurrency: cfg.Upstream.MaxConcurrency,
		RateLimit:      cfg.Upstream.RateLimitRPS,
		UserAgent:      cfg.Upstream.UserAgent,
	})
	if err != nil {
		logger.Fatal("Failed to create upstream client", zap.Error(err))
	}

	// Fetcher chain: upstream -> optional table cache
	var fetcher searchuc.Fetcher = upstream
	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Cache.Addrs,
			Password:   cfg.Cache.Password,
			ClientName: "studysearch",
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache",
			zap.String("driver", cfg.Cache.Driver),
			zap.Strings("addrs", cfg.Cache.Addrs),
		)

		cached, err := tablecache.New(upstream, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.TableCacheTotal)
		if err != nil {
			logger.Fatal("Failed to create table cache", zap.Error(err))
		}
		fetcher = cached
		cachePinger = store
	}

	stoplist := cfg.Ranking.DomainStoplist
	if stoplist == nil {
		stoplist = semantic.DefaultDomainStoplist
	}

	searchSvc := searchuc.New(fetcher, tok, searchuc.Config{
		NumTopics: cfg.Ranking.NumTopics,
		TopN:      cfg.Ranking.TopN,
		Stoplist:  stoplist,
	}).WithStageObserver(metrics.ObserveStage)
	healthSvc := healthuc.New(upstream, cachePinger)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			}
			if q := r.URL.Query().Get("query"); q != "" {
				fields = append(fields, zap.String("query", q))
			}
			reqLogger.Info("http_request", fields...)
		})
	}
}
