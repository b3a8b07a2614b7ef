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


package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/blogdex/core"
	"github.com/poiesic/blogdex/storage"
)

// writeBatchSize bounds how many chunks are written per transaction so a
// large corpus stays under badger's transaction size limit.
const writeBatchSize = 128

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// newChunkRepository is an internal constructor that returns the concrete type.
func newChunkRepository(backend *Backend) (*ChunkRepository, error) {
	seq, err := backend.GetSequence(chunkSeqName)
	if err != nil {
		return nil, err
	}
	return &ChunkRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// NewChunkRepository creates a new chunk repository on the backend.
func NewChunkRepository(backend *Backend) (storage.ChunkRepository, error) {
	return newChunkRepository(backend)
}

// Close releases the sequence lease.
func (r *ChunkRepository) Close() error {
	return r.seq.Release()
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks appends chunks in the order given, assigning sequence numbers.
// Writes are committed in groups of writeBatchSize; groups committed before
// a failure stay stored.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.StoredChunk) ([]*core.StoredChunk, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	for start := 0; start < len(chunks); start += writeBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+writeBatchSize, len(chunks))
		if err := r.addBatch(chunks[start:end]); err != nil {
			return nil, err
		}
	}
	return chunks, nil
}

func (r *ChunkRepository) addBatch(chunks []*core.StoredChunk) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			id := chunk.Chunk.ContentID()
			key := makeChunkKey(id)

			existing, err := readChunk(tx, key)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: chunk %s", storage.ErrDuplicateKey, chunk.Chunk.Key())
			}

			seq, err := r.seq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if seq == 0 {
				if seq, err = r.seq.Next(); err != nil {
					return err
				}
			}
			chunk.Seq = seq

			if err := tx.Set(key, storage.MarshalStoredChunk(chunk)); err != nil {
				return err
			}
			if err := tx.Set(makeChunkOrderKey(seq), storage.MarshalID(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// UpdateChunks replaces the stored vectors of existing chunks.
// The stored sequence number and chunk fields are kept.
func (r *ChunkRepository) UpdateChunks(ctx context.Context, chunks ...*core.StoredChunk) error {
	for start := 0; start < len(chunks); start += writeBatchSize {
		end := min(start+writeBatchSize, len(chunks))
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, chunk := range chunks[start:end] {
				key := makeChunkKey(chunk.Chunk.ContentID())
				old, err := readChunk(tx, key)
				if err != nil {
					return err
				}
				if old == nil {
					return fmt.Errorf("%w: chunk %s", storage.ErrNotFound, chunk.Chunk.Key())
				}
				old.Vector = chunk.Vector
				if err := tx.Set(key, storage.MarshalStoredChunk(old)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetChunk retrieves a single chunk by content ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.StoredChunk, error) {
	var result *core.StoredChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ChunksAfter returns up to limit chunks with Seq > afterSeq in insertion order.
func (r *ChunkRepository) ChunksAfter(ctx context.Context, afterSeq uint64, limit int) ([]*core.StoredChunk, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	return r.scan(ctx, afterSeq, limit)
}

// AllChunks returns every stored chunk in insertion order.
func (r *ChunkRepository) AllChunks(ctx context.Context) ([]*core.StoredChunk, error) {
	return r.scan(ctx, 0, -1)
}

// scan walks the order index from afterSeq. A negative limit means no limit.
func (r *ChunkRepository) scan(ctx context.Context, afterSeq uint64, limit int) ([]*core.StoredChunk, error) {
	results := make([]*core.StoredChunk, 0)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = chunkOrderPrefixKey()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makeChunkOrderKey(afterSeq + 1)); iter.Valid(); iter.Next() {
			if limit >= 0 && len(results) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			chunk, err := readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	return results, err
}

// Count returns the number of stored chunks.
func (r *ChunkRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = chunkOrderPrefixKey()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Clear removes every stored chunk and its order index entry.
func (r *ChunkRepository) Clear(ctx context.Context) error {
	return r.backend.DropPrefix(chunkPrefix(), chunkOrderPrefixKey())
}

// readChunk reads a chunk from the transaction. Returns nil, nil when absent.
func readChunk(tx *badger.Txn, key []byte) (*core.StoredChunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.StoredChunk
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalStoredChunk(val)
		return unmarshalErr
	})
	return chunk, err
}
