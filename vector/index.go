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


package vector

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/blogdex/core"
)

// Index is a cosine-similarity index over position-aligned vectors and chunks.
type Index struct {
	vectors    [][]float32
	records    []core.Chunk
	dimensions int
	logger     *slog.Logger
}

// Hit is a single nearest-neighbour match.
type Hit struct {
	Record *core.Chunk
	Score  float64
}

// Option configures Build.
type Option func(*Index)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
	}
}

// Build creates an index from aligned vectors and records.
// Every vector must have the same dimensionality. Vectors are copied and
// normalized; the caller's slices are not retained.
func Build(vectors [][]float32, records []core.Chunk, opts ...Option) (*Index, error) {
	if len(vectors) != len(records) {
		return nil, fmt.Errorf("%w: %d vectors, %d records", ErrMisaligned, len(vectors), len(records))
	}

	idx := &Index{
		vectors: make([][]float32, len(vectors)),
		records: slices.Clone(records),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.logger = idx.logger.With("component", "vector-index")

	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: vector %d is empty", core.ErrDimensionMismatch, i)
		}
		if i == 0 {
			idx.dimensions = len(v)
		} else if len(v) != idx.dimensions {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, expected %d",
				core.ErrDimensionMismatch, i, len(v), idx.dimensions)
		}
		idx.vectors[i] = Normalize(v)
	}

	idx.logger.Debug("built vector index", "records", len(records), "dimensions", idx.dimensions)
	return idx, nil
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Dimensions returns the vector dimensionality, or 0 for an empty index.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// Search returns up to topK records most similar to query, best first.
// Records with equal similarity keep their insertion order.
func (idx *Index) Search(query []float32, topK int) ([]Hit, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", core.ErrInvalidParameter, topK)
	}
	if len(idx.records) == 0 {
		return []Hit{}, nil
	}
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			core.ErrDimensionMismatch, len(query), idx.dimensions)
	}

	q := Normalize(query)
	hits := make([]Hit, len(idx.records))
	for i, v := range idx.vectors {
		hits[i] = Hit{Record: &idx.records[i], Score: dot(q, v)}
	}

	// SortStableFunc keeps insertion order among equal scores.
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}
