package reembed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/blogdex/ai"
	"github.com/poiesic/blogdex/core"
	"github.com/poiesic/blogdex/storage"
	"github.com/poiesic/blogdex/vector"
)

// BatchProcessor re-encodes batches of stored chunks.
type BatchProcessor struct {
	repo       storage.ChunkRepository
	embedder   ai.Embedder
	retry      RetryPolicy
	logger     *slog.Logger
	dimensions int
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(repo storage.ChunkRepository, embedder ai.Embedder, retry RetryPolicy, logger *slog.Logger) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		repo:     repo,
		embedder: embedder,
		retry:    retry,
		logger:   logger,
	}
}

// Dimensions returns the vector length produced so far, or 0 before the
// first batch.
func (bp *BatchProcessor) Dimensions() int {
	return bp.dimensions
}

// Process embeds the chunks' text, normalizes the vectors and writes them back.
// Every vector must have the same length as those of earlier batches.
func (bp *BatchProcessor) Process(ctx context.Context, chunks []*core.StoredChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, sc := range chunks {
		texts[i] = sc.Chunk.EmbeddingText()
	}

	var embeddings [][]float32
	err := bp.retry.Do(ctx, bp.logger, func(ctx context.Context) error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrEmbeddingUnavailable, err)
	}

	if len(embeddings) != len(chunks) {
		return fmt.Errorf("%w: expected %d embeddings, got %d",
			core.ErrEmbeddingUnavailable, len(chunks), len(embeddings))
	}

	for i, sc := range chunks {
		v := embeddings[i]
		if bp.dimensions == 0 {
			bp.dimensions = len(v)
		}
		if len(v) == 0 || len(v) != bp.dimensions {
			return fmt.Errorf("%w: chunk %s has %d dimensions, expected %d",
				core.ErrDimensionMismatch, sc.Chunk.Key(), len(v), bp.dimensions)
		}
		sc.Vector = vector.Normalize(v)
	}

	if err := bp.repo.UpdateChunks(ctx, chunks...); err != nil {
		return fmt.Errorf("failed to update chunks: %w", err)
	}

	return nil
}
