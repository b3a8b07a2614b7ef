package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/blogdex/ai"
	"github.com/poiesic/blogdex/chunking"
	"github.com/poiesic/blogdex/core"
	"github.com/poiesic/blogdex/lexical"
	"github.com/poiesic/blogdex/storage"
	"github.com/poiesic/blogdex/vector"
)

// Indexes is the result of a build: both read-only indices over the same
// chunk sequence and the manifest describing them.
type Indexes struct {
	Lexical  *lexical.Index
	Vector   *vector.Index
	Manifest *core.Manifest
}

// Pipeline orchestrates the index build.
// Phases run sequentially; encoding runs concurrently within its phase.
type Pipeline struct {
	chunker       *chunking.Chunker
	encoder       *Encoder
	chunks        storage.ChunkRepository
	manifests     storage.ManifestRepository
	modelName     string
	keywordFields []string
	logger        *slog.Logger
}

// NewPipeline creates a new build pipeline.
// Without WithStorage the pipeline builds in memory only.
func NewPipeline(chunker *chunking.Chunker, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := applyOptions(opts)
	if (s.chunks == nil) != (s.manifests == nil) {
		return nil, ErrStorageRequired
	}

	encoder, err := NewEncoder(embedder, opts...)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		chunker:       chunker,
		encoder:       encoder,
		chunks:        s.chunks,
		manifests:     s.manifests,
		modelName:     s.modelName,
		keywordFields: s.keywordFields,
		logger:        s.logger.With("component", "pipeline"),
	}, nil
}

// IndexArticles validates and chunks the articles, then indexes the chunks.
func (p *Pipeline) IndexArticles(ctx context.Context, articles []core.Article) (*Indexes, error) {
	if err := core.ValidateArticles(articles); err != nil {
		return nil, err
	}

	chunks, err := p.chunker.ChunkArticles(articles)
	if err != nil {
		return nil, err
	}
	return p.IndexChunks(ctx, chunks)
}

// IndexChunks encodes the chunks, builds both indices and, when storage is
// configured, replaces the persisted index with the new one.
func (p *Pipeline) IndexChunks(ctx context.Context, chunks []core.Chunk) (*Indexes, error) {
	if err := core.ValidateChunks(chunks); err != nil {
		return nil, err
	}

	started := time.Now()
	p.logger.Info("building index", "chunks", len(chunks))

	vectors, err := p.encoder.EncodeChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	indexes, err := buildIndexes(chunks, vectors, p.keywordFields, p.logger)
	if err != nil {
		return nil, err
	}

	indexes.Manifest = &core.Manifest{
		BuildID:    uuid.NewString(),
		ModelName:  p.modelName,
		Dimensions: indexes.Vector.Dimensions(),
		ChunkCount: len(chunks),
		WindowSize: p.chunker.WindowSize(),
		Overlap:    p.chunker.Overlap(),
		BuiltAt:    time.Now().UTC(),
	}

	if p.chunks != nil {
		if err := p.persist(ctx, chunks, vectors, indexes.Manifest); err != nil {
			return nil, err
		}
	}

	p.logger.Info("built index",
		"chunks", len(chunks),
		"dimensions", indexes.Manifest.Dimensions,
		"build_id", indexes.Manifest.BuildID,
		"elapsed", time.Since(started))
	return indexes, nil
}

// persist replaces the stored chunks and manifest. The old manifest goes
// first and the new one is written last, so a store interrupted in between
// has chunks but no manifest and Restore refuses it.
func (p *Pipeline) persist(ctx context.Context, chunks []core.Chunk, vectors [][]float32, manifest *core.Manifest) error {
	if err := p.manifests.DeleteManifest(ctx); err != nil {
		return fmt.Errorf("removing manifest: %w", err)
	}
	if err := p.chunks.Clear(ctx); err != nil {
		return fmt.Errorf("clearing stored chunks: %w", err)
	}

	stored := make([]*core.StoredChunk, len(chunks))
	for i := range chunks {
		stored[i] = &core.StoredChunk{Chunk: chunks[i], Vector: vectors[i]}
	}
	if _, err := p.chunks.AddChunks(ctx, stored...); err != nil {
		return fmt.Errorf("storing chunks: %w", err)
	}

	if err := p.manifests.SaveManifest(ctx, manifest); err != nil {
		return fmt.Errorf("storing manifest: %w", err)
	}
	return nil
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.encoder.Release()
}

// Restore rebuilds both indices from persisted chunks in their stored order.
// When WithModelName is given and the stored manifest names a different
// model, Restore fails with ErrModelMismatch. Chunks without a manifest fail
// with ErrIncompleteIndex; a chunk count or dimensionality that disagrees
// with the manifest fails with ErrManifestMismatch.
func Restore(ctx context.Context, chunks storage.ChunkRepository, manifests storage.ManifestRepository, opts ...Option) (*Indexes, error) {
	if chunks == nil || manifests == nil {
		return nil, ErrStorageRequired
	}
	s := applyOptions(opts)
	logger := s.logger.With("component", "restore")

	manifest, err := manifests.LoadManifest(ctx)
	if err != nil {
		return nil, err
	}
	if manifest != nil && s.modelName != "" && manifest.ModelName != "" && manifest.ModelName != s.modelName {
		return nil, fmt.Errorf("%w: index built with %q, configured %q",
			ErrModelMismatch, manifest.ModelName, s.modelName)
	}

	stored, err := chunks.AllChunks(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]core.Chunk, len(stored))
	vectors := make([][]float32, len(stored))
	for i, sc := range stored {
		records[i] = sc.Chunk
		vectors[i] = sc.Vector
	}

	if manifest == nil && len(stored) > 0 {
		return nil, fmt.Errorf("%w: %d chunks stored without a manifest", ErrIncompleteIndex, len(stored))
	}
	if manifest != nil && manifest.ChunkCount != len(stored) {
		return nil, fmt.Errorf("%w: manifest lists %d chunks, store holds %d",
			ErrManifestMismatch, manifest.ChunkCount, len(stored))
	}

	indexes, err := buildIndexes(records, vectors, s.keywordFields, logger)
	if err != nil {
		return nil, err
	}
	if manifest != nil && len(stored) > 0 && manifest.Dimensions != indexes.Vector.Dimensions() {
		return nil, fmt.Errorf("%w: manifest dimensions %d, stored vectors %d",
			ErrManifestMismatch, manifest.Dimensions, indexes.Vector.Dimensions())
	}
	indexes.Manifest = manifest

	logger.Info("restored index", "chunks", len(records), "dimensions", indexes.Vector.Dimensions())
	return indexes, nil
}

// EmptyIndexes returns indices over no chunks, honoring WithKeywordFields
// and WithLogger.
func EmptyIndexes(opts ...Option) (*Indexes, error) {
	s := applyOptions(opts)
	return buildIndexes(nil, nil, s.keywordFields, s.logger)
}

// Recoverable reports whether err from Restore describes a damaged store that
// a fresh build replaces, as opposed to a configuration or I/O failure.
func Recoverable(err error) bool {
	return errors.Is(err, ErrIncompleteIndex) ||
		errors.Is(err, ErrManifestMismatch) ||
		errors.Is(err, core.ErrDimensionMismatch)
}

func buildIndexes(chunks []core.Chunk, vectors [][]float32, keywordFields []string, logger *slog.Logger) (*Indexes, error) {
	lex, err := lexical.Build(chunks, lexical.DefaultTextFields, keywordFields, lexical.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("building lexical index: %w", err)
	}

	vec, err := vector.Build(vectors, chunks, vector.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("building vector index: %w", err)
	}

	return &Indexes{Lexical: lex, Vector: vec}, nil
}
