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


package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/blogdex/ai"
	"github.com/poiesic/blogdex/core"
	"github.com/poiesic/blogdex/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// ModelName is recorded in the manifest once every chunk is re-encoded
	ModelName string

	// BatchSize is the number of chunks to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// Retry controls attempts per batch
	Retry RetryPolicy

	// Logger receives debug and summary output
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(modelName string) *Config {
	return &Config{
		ModelName:      modelName,
		BatchSize:      DefaultBatchSize,
		ReportInterval: DefaultBatchSize,
		Retry:          NoRetry,
	}
}

// Reembedder orchestrates the reembedding of every stored chunk.
type Reembedder struct {
	chunks    storage.ChunkRepository
	manifests storage.ManifestRepository
	config    *Config
	progress  io.Writer
	logger    *slog.Logger
	processor *BatchProcessor
	iterator  *ChunkIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(chunks storage.ChunkRepository, manifests storage.ManifestRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if config == nil {
		return nil, ErrModelRequired
	}
	if config.ModelName == "" {
		return nil, ErrModelRequired
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = NoRetry
	}
	if config.Retry.MaxAttempts < 0 {
		return nil, ErrInvalidMaxAttempts
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "reembed")
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		chunks:    chunks,
		manifests: manifests,
		config:    config,
		progress:  progress,
		logger:    logger,
		processor: NewBatchProcessor(chunks, embedder, config.Retry, logger),
		iterator:  NewChunkIterator(chunks, config.BatchSize),
	}, nil
}

// Run re-encodes every stored chunk and then records the new model in the
// manifest. The manifest is left untouched if any batch fails.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.chunks.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No chunks found in database (0 chunks)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d chunks with %s (batch size: %d)\n",
		total, r.config.ModelName, r.iterator.batchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	err = r.iterator.ForEach(ctx, func(chunks []*core.StoredChunk) error {
		if err := r.processor.Process(ctx, chunks); err != nil {
			return fmt.Errorf("failed to process batch after %d chunks: %w", tracker.Current(), err)
		}
		tracker.Add(len(chunks))
		return nil
	})
	if err != nil {
		return err
	}

	summary := tracker.Finish()

	if err := r.updateManifest(ctx, total); err != nil {
		return err
	}

	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d chunks in %d batches, %v (%.1f chunks/sec)\n",
		summary.Done, summary.Batches, summary.Elapsed.Round(time.Second), summary.Rate())
	r.logger.Info("reembedding complete",
		"chunks", summary.Done,
		"batches", summary.Batches,
		"model", r.config.ModelName,
		"dimensions", r.processor.Dimensions(),
		"elapsed", summary.Elapsed)

	return nil
}

func (r *Reembedder) updateManifest(ctx context.Context, total int) error {
	manifest, err := r.manifests.LoadManifest(ctx)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	if manifest == nil {
		manifest = &core.Manifest{}
	}
	manifest.BuildID = uuid.NewString()
	manifest.ModelName = r.config.ModelName
	manifest.Dimensions = r.processor.Dimensions()
	manifest.ChunkCount = total
	manifest.BuiltAt = time.Now().UTC()

	if err := r.manifests.SaveManifest(ctx, manifest); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}
	return nil
}
