package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/docmap/internal/llm"
	"github.com/dgallion1/docmap/internal/pipeline"
)

// maxRequestBytes bounds a JSON request body.
const maxRequestBytes = 1 << 20

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req pipeline.IngestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.ingester.Ingest(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req pipeline.QueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	answer, err := s.answerer.Answer(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		textError(w, "Invalid JSON payload.", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps a pipeline error onto the two failure statuses: 400 for
// request validation, 500 with the error text for everything else.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *pipeline.ValidationError
	if errors.As(err, &verr) {
		textError(w, verr.Message, http.StatusBadRequest)
		return
	}
	s.log.Error("request failed", "path", r.URL.Path, "retryable", llm.IsRetryable(err), "error", err)
	textError(w, "Error: "+err.Error(), http.StatusInternalServerError)
}

func textError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
