package storage

import (
	"context"

	"github.com/poiesic/blogdex/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// ChunkRepository stores indexed chunks together with their embeddings.
// Chunks are keyed by core.Chunk.ContentID and remember their insertion order.
type ChunkRepository interface {
	Repository

	// AddChunks appends chunks to storage in the order given.
	// Each chunk is assigned the next insertion sequence number.
	// Returns ErrDuplicateKey if a chunk with the same key is already stored.
	AddChunks(ctx context.Context, chunks ...*core.StoredChunk) ([]*core.StoredChunk, error)

	// UpdateChunks replaces the vectors of existing chunks.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.StoredChunk) error

	// GetChunk retrieves a single chunk by content ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.StoredChunk, error)

	// ChunksAfter returns up to limit chunks whose sequence number is
	// greater than afterSeq, in insertion order.
	ChunksAfter(ctx context.Context, afterSeq uint64, limit int) ([]*core.StoredChunk, error)

	// AllChunks returns every stored chunk in insertion order.
	AllChunks(ctx context.Context) ([]*core.StoredChunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Clear removes every stored chunk.
	Clear(ctx context.Context) error
}

// ManifestRepository stores the description of the persisted index.
type ManifestRepository interface {
	// SaveManifest replaces the stored manifest.
	SaveManifest(ctx context.Context, manifest *core.Manifest) error

	// LoadManifest returns the stored manifest, or nil if none exists.
	LoadManifest(ctx context.Context) (*core.Manifest, error)

	// DeleteManifest removes the stored manifest. Deleting a missing
	// manifest is not an error.
	DeleteManifest(ctx context.Context) error
}
