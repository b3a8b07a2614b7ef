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

	"github.com/poiesic/blogdex/core"
	"github.com/poiesic/blogdex/storage"
)

const (
	// DefaultBatchSize is the default number of chunks to fetch in each batch
	DefaultBatchSize = 64
)

// ChunkIterator pages through stored chunks in insertion order.
type ChunkIterator struct {
	repo      storage.ChunkRepository
	batchSize int
}

// NewChunkIterator creates a new chunk iterator.
// batchSize: number of chunks to fetch per page (DefaultBatchSize if <= 0)
func NewChunkIterator(repo storage.ChunkRepository, batchSize int) *ChunkIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ChunkIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn with each page of chunks until storage is exhausted.
// Iteration stops on the first error from fn. Context cancellation is checked
// between pages.
func (it *ChunkIterator) ForEach(ctx context.Context, fn func([]*core.StoredChunk) error) error {
	var after uint64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := it.repo.ChunksAfter(ctx, after, it.batchSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		if err := fn(page); err != nil {
			return err
		}

		after = page[len(page)-1].Seq
		if len(page) < it.batchSize {
			return nil
		}
	}
}
