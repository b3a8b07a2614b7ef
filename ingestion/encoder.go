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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/blogdex/ai"
	"github.com/poiesic/blogdex/core"
)

// Encoder embeds texts in batches on a worker pool.
// Output order always equals input order.
type Encoder struct {
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// NewEncoder creates an encoder around an embedder.
// Call Release when done to free the worker pool.
func NewEncoder(embedder ai.Embedder, opts ...Option) (*Encoder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	s := applyOptions(opts)

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		embedder:  embedder,
		pool:      pool,
		batchSize: s.batchSize,
		logger:    s.logger.With("component", "encoder"),
	}, nil
}

// Encode returns one vector per text, aligned by position.
// Any failed batch, or a batch answered with the wrong number of vectors,
// fails the whole call with core.ErrEmbeddingUnavailable. Nothing is retried.
func (e *Encoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	if len(texts) == 0 {
		return vectors, nil
	}

	batches := (len(texts) + e.batchSize - 1) / e.batchSize
	e.logger.Info("encoding texts", "texts", len(texts), "batches", batches)

	err := runOrdered(ctx, e.pool, batches, func(ctx context.Context, b int) error {
		start := b * e.batchSize
		end := min(start+e.batchSize, len(texts))

		batch, err := e.embedder.EmbedTexts(ctx, texts[start:end])
		if err != nil {
			return fmt.Errorf("%w: batch [%d,%d): %w", core.ErrEmbeddingUnavailable, start, end, err)
		}
		if len(batch) != end-start {
			return fmt.Errorf("%w: batch [%d,%d): expected %d vectors, received %d",
				core.ErrEmbeddingUnavailable, start, end, end-start, len(batch))
		}
		copy(vectors[start:end], batch)
		e.logger.Debug("encoded batch", "start", start, "end", end)
		return nil
	})
	if err != nil {
		e.logger.Error("encoding failed", "err", err)
		return nil, err
	}
	return vectors, nil
}

// EncodeChunks embeds the embedding text of every chunk.
func (e *Encoder) EncodeChunks(ctx context.Context, chunks []core.Chunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].EmbeddingText()
	}
	return e.Encode(ctx, texts)
}

// Release frees the worker pool. The encoder should not be used afterwards.
func (e *Encoder) Release() {
	e.pool.Release()
}
