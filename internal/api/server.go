package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docmap/internal/llm"
	"github.com/dgallion1/docmap/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Ingester turns a stored document into a knowledge map.
type Ingester interface {
	Ingest(ctx context.Context, req pipeline.IngestRequest) (*pipeline.IngestResult, error)
}

// Answerer answers a question about an ingested document.
type Answerer interface {
	Answer(ctx context.Context, req pipeline.QueryRequest) (*pipeline.Answer, error)
}

// Server is the HTTP API server for docmap.
type Server struct {
	router   chi.Router
	ingester Ingester
	answerer Answerer
	stats    *llm.LLMStats
	model    string
	log      *slog.Logger
}

// NewServer creates and configures the HTTP server. stats may be nil, in
// which case the stats endpoint reports itself unavailable.
func NewServer(ingester Ingester, answerer Answerer, stats *llm.LLMStats, model string, log *slog.Logger) *Server {
	s := &Server{
		ingester: ingester,
		answerer: answerer,
		stats:    stats,
		model:    model,
		log:      log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Post("/api/ingest", s.handleIngest)
	r.Post("/api/query", s.handleQuery)
	r.Get("/api/stats/llm", s.handleLLMStats)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
