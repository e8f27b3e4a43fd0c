package chi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/studysearch/internal/domain"
	"github.com/kailas-cloud/studysearch/internal/domain/search/request"
	"github.com/kailas-cloud/studysearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/studysearch/internal/usecase/health"
)

//go:embed static
var staticFiles embed.FS

// Route paths.
const (
	PathSearch  = "/semantic-search"
	PathHealth  = "/health"
	PathMetrics = "/metrics"
	PathIndex   = "/"
	PathStyles  = "/styles.css"
	PathScript  = "/script.js"
)

const msgNoQuery = "No query provided"

// Searcher ranks studies against a query.
type Searcher interface {
	Search(ctx context.Context, req request.Request) ([]result.Result, error)
}

// HealthChecker reports aggregated component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the search API, health, metrics and the static UI.
type Server struct {
	search        Searcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, msgNoQuery),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ""),
		upstreamHandler,
	}
	return s
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get(PathSearch, s.SemanticSearch)
	r.Get(PathHealth, s.HealthCheck)
	r.Handle(PathMetrics, promhttp.Handler())
	r.Get(PathIndex, staticHandler("static/index.html"))
	r.Get(PathStyles, staticHandler("static/styles.css"))
	r.Get(PathScript, staticHandler("static/script.js"))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// searchResultItem is the wire shape of one ranked study.
type searchResultItem struct {
	Relevance   float64 `json:"Relevance"`
	ID          string  `json:"study ID"`
	Title       string  `json:"study Title"`
	URL         string  `json:"study URL"`
	Description string  `json:"study description"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SemanticSearch handles GET /semantic-search.
func (s *Server) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, msgNoQuery)
		return
	}

	var topN *int
	if err := runtime.BindQueryParameter("form", true, false, "top_n", r.URL.Query(), &topN); err != nil {
		writeError(w, http.StatusBadRequest, "invalid top_n: "+err.Error())
		return
	}
	n := 0
	if topN != nil {
		if *topN < 1 {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("top_n must be between 1 and %d", request.MaxTopN))
			return
		}
		n = *topN
	}

	req, err := request.New(query, n)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToItem(&results[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func staticHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticFiles, name)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// An empty msg reports the error text itself.
func sentinelHandler(sentinel error, status int, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		m := msg
		if m == "" {
			m = err.Error()
		}
		writeError(w, status, m)
		return true
	}
}

// upstreamHandler maps study search API failures to 502 with the upstream message.
func upstreamHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrUpstream) {
		return false
	}
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		writeError(w, http.StatusBadGateway, ue.Error())
		return true
	}
	writeError(w, http.StatusBadGateway, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("search error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func searchResultToItem(r *result.Result) searchResultItem {
	return searchResultItem{
		Relevance:   r.Relevance(),
		ID:          r.Accession(),
		Title:       r.Title(),
		URL:         r.URL(),
		Description: r.Description(),
	}
}
