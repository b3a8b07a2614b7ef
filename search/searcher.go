package search

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/poiesic/blogdex/ai"
	"github.com/poiesic/blogdex/core"
	"github.com/poiesic/blogdex/lexical"
	"github.com/poiesic/blogdex/vector"
	"golang.org/x/sync/errgroup"
)

// DefaultTopK is the per-index result bound.
const DefaultTopK = 5

// Searcher provides hybrid lexical and semantic search over chunk records.
// It is safe for concurrent use.
type Searcher struct {
	lexical  *lexical.Index
	vector   *vector.Index
	embedder ai.Embedder
	topK     int
	dedup    DedupMode
	filters  map[string]string
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithTopK sets how many results each index contributes.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(s *Searcher) error {
		if k <= 0 {
			return fmt.Errorf("%w: top_k must be positive, got %d", core.ErrInvalidParameter, k)
		}
		s.topK = k
		return nil
	}
}

// WithDedup sets the identity used to drop duplicates when merging.
// Default is DedupArticle.
func WithDedup(mode DedupMode) Option {
	return func(s *Searcher) error {
		if mode != DedupArticle && mode != DedupChunk {
			return fmt.Errorf("%w: unknown dedup mode %d", core.ErrInvalidParameter, mode)
		}
		s.dedup = mode
		return nil
	}
}

// WithFilters restricts lexical results to records whose keyword fields equal
// the given values. The fields must be declared as keyword fields of the
// lexical index.
func WithFilters(filters map[string]string) Option {
	return func(s *Searcher) error {
		s.filters = maps.Clone(filters)
		return nil
	}
}

// NewSearcher creates a new searcher over a pair of indices built from the
// same chunk sequence. The embedder must be the model that encoded the
// vector index.
func NewSearcher(lex *lexical.Index, vec *vector.Index, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if lex == nil {
		return nil, ErrLexicalIndexRequired
	}
	if vec == nil {
		return nil, ErrVectorIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		lexical:  lex,
		vector:   vec,
		embedder: embedder,
		topK:     DefaultTopK,
		dedup:    DedupArticle,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// TopK returns the per-index result bound.
func (s *Searcher) TopK() int {
	return s.topK
}

// TextSearch returns up to top_k lexical results for the query.
func (s *Searcher) TextSearch(ctx context.Context, query string) ([]*core.SearchResult, error) {
	if isBlank(query) {
		return []*core.SearchResult{}, nil
	}
	return s.textSearch(query)
}

// VectorSearch encodes the query and returns up to top_k nearest chunks.
func (s *Searcher) VectorSearch(ctx context.Context, query string) ([]*core.SearchResult, error) {
	if isBlank(query) {
		return []*core.SearchResult{}, nil
	}
	results, _, err := s.vectorSearch(ctx, query)
	return results, err
}

// HybridSearch runs both lookups and merges them.
// The result holds between 0 and 2*top_k records, lexical results first.
func (s *Searcher) HybridSearch(ctx context.Context, query string) ([]*core.SearchResult, error) {
	return s.HybridSearchWithMonitor(ctx, query, nil)
}

// HybridSearchWithMonitor is HybridSearch with callbacks at each stage.
func (s *Searcher) HybridSearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) ([]*core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)
	if isBlank(query) {
		results := []*core.SearchResult{}
		monitor.Finish(results)
		return results, nil
	}

	var (
		lexResults []*core.SearchResult
		vecResults []*core.SearchResult
		dimensions int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lexResults, err = s.textSearch(query)
		return err
	})
	g.Go(func() error {
		var err error
		vecResults, dimensions, err = s.vectorSearch(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	monitor.AfterLexicalSearch(lexResults)
	monitor.AfterQueryEmbedding(dimensions)
	monitor.AfterVectorSearch(vecResults)

	results := Merge(lexResults, vecResults, s.dedup, monitor.DuplicateDropped)
	s.logger.Debug("hybrid search",
		"query", query,
		"lexical", len(lexResults),
		"vector", len(vecResults),
		"merged", len(results))

	monitor.Finish(results)
	return results, nil
}

func (s *Searcher) textSearch(query string) ([]*core.SearchResult, error) {
	hits, err := s.lexical.Search(query, s.topK, s.filters)
	if err != nil {
		s.logger.Error("lexical search failed", "query", query, "err", err)
		return nil, err
	}

	results := make([]*core.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = &core.SearchResult{Chunk: h.Record, Score: h.Score, Source: core.SourceLexical}
	}
	return results, nil
}

func (s *Searcher) vectorSearch(ctx context.Context, query string) ([]*core.SearchResult, int, error) {
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, 0, fmt.Errorf("%w: %w", core.ErrEmbeddingUnavailable, err)
	}

	hits, err := s.vector.Search(embedding, s.topK)
	if err != nil {
		s.logger.Error("vector search failed", "query", query, "err", err)
		return nil, len(embedding), err
	}

	results := make([]*core.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = &core.SearchResult{Chunk: h.Record, Score: h.Score, Source: core.SourceVector}
	}
	return results, len(embedding), nil
}

func isBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}
