// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/blogdex/core"
)

// Search modes accepted by the mode query parameter.
const (
	ModeHybrid = "hybrid"
	ModeText   = "text"
	ModeVector = "vector"
)

// Searcher answers queries in each mode.
type Searcher interface {
	TextSearch(ctx context.Context, query string) ([]*core.SearchResult, error)
	VectorSearch(ctx context.Context, query string) ([]*core.SearchResult, error)
	HybridSearch(ctx context.Context, query string) ([]*core.SearchResult, error)
}

// Server is the HTTP query server.
type Server struct {
	router   chi.Router
	searcher Searcher
	log      *slog.Logger
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Query   string               `json:"query"`
	Mode    string               `json:"mode"`
	Count   int                  `json:"count"`
	Results []*core.SearchResult `json:"results"`
}

// NewServer creates and configures the HTTP server.
func NewServer(searcher Searcher, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		searcher: searcher,
		log:      log.With("component", "api"),
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
	r.Get("/api/search", s.handleSearch)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	if !params.Has("q") {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	query := params.Get("q")
	mode := strings.ToLower(strings.TrimSpace(params.Get("mode")))
	if mode == "" {
		mode = ModeHybrid
	}

	var search func(context.Context, string) ([]*core.SearchResult, error)
	switch mode {
	case ModeHybrid:
		search = s.searcher.HybridSearch
	case ModeText:
		search = s.searcher.TextSearch
	case ModeVector:
		search = s.searcher.VectorSearch
	default:
		jsonError(w, "mode must be one of hybrid, text, vector", http.StatusBadRequest)
		return
	}

	results, err := search(r.Context(), query)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrEmbeddingUnavailable) {
			status = http.StatusServiceUnavailable
		}
		s.log.Error("search failed", "mode", mode, "error", err)
		jsonError(w, "search failed: "+err.Error(), status)
		return
	}
	if results == nil {
		results = []*core.SearchResult{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   query,
		Mode:    mode,
		Count:   len(results),
		Results: results,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
