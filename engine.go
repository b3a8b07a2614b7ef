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


package blogdex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/blogdex/ai"
	"github.com/poiesic/blogdex/ai/openai"
	"github.com/poiesic/blogdex/chunking"
	"github.com/poiesic/blogdex/config"
	"github.com/poiesic/blogdex/core"
	"github.com/poiesic/blogdex/ingestion"
	"github.com/poiesic/blogdex/search"
	"github.com/poiesic/blogdex/storage"
	"github.com/poiesic/blogdex/storage/badger"
)

// Engine ties the persisted store, the AI provider, both indices and the
// searcher together. Queries may run concurrently with each other; an Index
// call swaps in the new indices once the build has finished.
type Engine struct {
	cfg        *config.Config
	backend    *badger.Backend
	chunkRepo  storage.ChunkRepository
	manifests  storage.ManifestRepository
	provider   ai.AIProvider
	searchOpts []search.Option
	keywords   []string
	logger     *slog.Logger

	mu       sync.RWMutex
	indexes  *ingestion.Indexes
	searcher *search.Searcher
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	provider   ai.AIProvider
	inMemory   bool
	searchOpts []search.Option
	keywords   []string
	recovery   bool
	logger     *slog.Logger
}

// WithProvider supplies the AI provider instead of connecting to the
// configured hosts.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) { o.provider = provider }
}

// WithInMemory keeps the store in memory and ignores the configured DBPath.
func WithInMemory() EngineOption {
	return func(o *engineOptions) { o.inMemory = true }
}

// WithSearchOptions passes extra options to every searcher the engine builds.
func WithSearchOptions(opts ...search.Option) EngineOption {
	return func(o *engineOptions) { o.searchOpts = append(o.searchOpts, opts...) }
}

// WithKeywordFields declares record fields that search filters may match on.
func WithKeywordFields(fields ...string) EngineOption {
	return func(o *engineOptions) { o.keywords = append(o.keywords, fields...) }
}

// WithRecovery lets Open start from empty indices when the store holds an
// interrupted or inconsistent build, so the next Index can replace it.
// Without it Open fails on such a store.
func WithRecovery() EngineOption {
	return func(o *engineOptions) { o.recovery = true }
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) { o.logger = logger }
}

// Open opens the store at cfg.DBPath and rebuilds the indices from whatever
// it holds. An empty store yields empty indices.
func Open(ctx context.Context, cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	backend, err := badger.OpenBackend(cfg.DBPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(cfg.AIConfig())
		if err != nil {
			chunkRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	e := &Engine{
		cfg:        cfg,
		backend:    backend,
		chunkRepo:  chunkRepo,
		manifests:  badger.NewManifestRepository(backend),
		provider:   provider,
		searchOpts: append([]search.Option{search.WithTopK(cfg.TopK)}, options.searchOpts...),
		keywords:   options.keywords,
		logger:     options.logger.With("component", "engine"),
	}

	indexes, err := ingestion.Restore(ctx, e.chunkRepo, e.manifests,
		ingestion.WithModelName(cfg.ModelName),
		ingestion.WithKeywordFields(e.keywords...),
		ingestion.WithLogger(options.logger))
	if err != nil && options.recovery && ingestion.Recoverable(err) {
		e.logger.Warn("stored index is unusable, starting empty", "db", cfg.DBPath, "err", err)
		indexes, err = ingestion.EmptyIndexes(
			ingestion.WithKeywordFields(e.keywords...),
			ingestion.WithLogger(options.logger))
	}
	if err != nil {
		e.Close()
		return nil, err
	}
	if err := e.install(indexes); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Close releases the provider and the store.
func (e *Engine) Close() error {
	var errs []error
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
		errs = append(errs, err)
	}
	if err := e.chunkRepo.Close(); err != nil {
		e.logger.Error("error closing chunk repository", "err", err)
		errs = append(errs, err)
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ChunkRepository returns the persisted chunk store.
func (e *Engine) ChunkRepository() storage.ChunkRepository {
	return e.chunkRepo
}

// ManifestRepository returns the persisted manifest store.
func (e *Engine) ManifestRepository() storage.ManifestRepository {
	return e.manifests
}

// Provider returns the AI provider.
func (e *Engine) Provider() ai.AIProvider {
	return e.provider
}

// Manifest describes the indices currently served, or nil before the first build.
func (e *Engine) Manifest() *core.Manifest {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.indexes.Manifest
}

// Searcher returns the searcher over the indices currently served.
func (e *Engine) Searcher() *search.Searcher {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.searcher
}

// NewChunker returns a chunker with the configured window geometry.
func (e *Engine) NewChunker() (*chunking.Chunker, error) {
	return chunking.New(e.cfg.WindowSize, e.cfg.Overlap, chunking.WithLogger(e.logger))
}

// Tag assigns candidate tags to each article and returns tagged copies.
func (e *Engine) Tag(ctx context.Context, articles []core.Article, candidates []string) ([]core.Article, error) {
	tagger, err := ingestion.NewTagger(e.provider.Tagger(), e.ingestionOptions()...)
	if err != nil {
		return nil, err
	}
	defer tagger.Release()
	return tagger.TagArticles(ctx, articles, candidates)
}

// Index chunks, encodes and stores the articles, replacing the previous
// index. The new indices are served once the build succeeds.
func (e *Engine) Index(ctx context.Context, articles []core.Article) (*core.Manifest, error) {
	return e.build(ctx, func(p *ingestion.Pipeline) (*ingestion.Indexes, error) {
		return p.IndexArticles(ctx, articles)
	})
}

// IndexChunks encodes and stores pre-chunked records, replacing the previous index.
func (e *Engine) IndexChunks(ctx context.Context, chunks []core.Chunk) (*core.Manifest, error) {
	return e.build(ctx, func(p *ingestion.Pipeline) (*ingestion.Indexes, error) {
		return p.IndexChunks(ctx, chunks)
	})
}

func (e *Engine) build(ctx context.Context, run func(*ingestion.Pipeline) (*ingestion.Indexes, error)) (*core.Manifest, error) {
	chunker, err := e.NewChunker()
	if err != nil {
		return nil, err
	}
	opts := append(e.ingestionOptions(),
		ingestion.WithModelName(e.cfg.ModelName),
		ingestion.WithStorage(e.chunkRepo, e.manifests))
	pipeline, err := ingestion.NewPipeline(chunker, e.provider.Embedder(), opts...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	indexes, err := run(pipeline)
	if err != nil {
		return nil, err
	}
	if err := e.install(indexes); err != nil {
		return nil, err
	}
	return indexes.Manifest, nil
}

// TextSearch runs a lexical-only query.
func (e *Engine) TextSearch(ctx context.Context, query string) ([]*core.SearchResult, error) {
	return e.Searcher().TextSearch(ctx, query)
}

// VectorSearch runs an embedding-only query.
func (e *Engine) VectorSearch(ctx context.Context, query string) ([]*core.SearchResult, error) {
	return e.Searcher().VectorSearch(ctx, query)
}

// HybridSearch runs both lookups and merges them.
func (e *Engine) HybridSearch(ctx context.Context, query string) ([]*core.SearchResult, error) {
	return e.Searcher().HybridSearch(ctx, query)
}

func (e *Engine) install(indexes *ingestion.Indexes) error {
	searcher, err := search.NewSearcher(indexes.Lexical, indexes.Vector, e.provider.Embedder(),
		append([]search.Option{search.WithLogger(e.logger)}, e.searchOpts...)...)
	if err != nil {
		return fmt.Errorf("creating searcher: %w", err)
	}

	e.mu.Lock()
	e.indexes = indexes
	e.searcher = searcher
	e.mu.Unlock()
	return nil
}

func (e *Engine) ingestionOptions() []ingestion.Option {
	opts := []ingestion.Option{
		ingestion.WithLogger(e.logger),
		ingestion.WithBatchSize(e.cfg.BatchSize),
		ingestion.WithKeywordFields(e.keywords...),
	}
	if e.cfg.PoolSize > 0 {
		opts = append(opts, ingestion.WithPoolSize(e.cfg.PoolSize))
	}
	return opts
}
