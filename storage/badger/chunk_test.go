package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/blogdex/core"
	"github.com/poiesic/blogdex/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChunkRepo(t *testing.T) storage.ChunkRepository {
	t.Helper()
	chunks, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunks.Close()
		backend.Close()
	})
	return chunks
}

func storedChunks(n int) []*core.StoredChunk {
	out := make([]*core.StoredChunk, n)
	for i := range out {
		out[i] = &core.StoredChunk{
			Chunk: core.Chunk{
				Id:    fmt.Sprintf("post-%d", i/2),
				Start: (i % 2) * 1000,
				Title: fmt.Sprintf("Post %d", i/2),
				Text:  fmt.Sprintf("chunk text %d", i),
			},
			Vector: []float32{float32(i), 1},
		}
	}
	return out
}

func TestChunkRepository_AddAndReadInOrder(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	added, err := repo.AddChunks(ctx, storedChunks(5)...)
	require.NoError(t, err)
	require.Len(t, added, 5)
	for i := 1; i < len(added); i++ {
		assert.Greater(t, added[i].Seq, added[i-1].Seq)
	}

	all, err := repo.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, c := range all {
		assert.Equal(t, fmt.Sprintf("chunk text %d", i), c.Chunk.Text)
		assert.Equal(t, []float32{float32(i), 1}, c.Vector)
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestChunkRepository_LargeCorpusSpansBatches(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	_, err := repo.AddChunks(ctx, storedChunks(writeBatchSize*2+3)...)
	require.NoError(t, err)

	all, err := repo.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, all, writeBatchSize*2+3)
	assert.Equal(t, "chunk text 0", all[0].Chunk.Text)
	assert.Equal(t, fmt.Sprintf("chunk text %d", writeBatchSize*2+2), all[len(all)-1].Chunk.Text)
}

func TestChunkRepository_DuplicateKey(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	chunks := storedChunks(1)
	_, err := repo.AddChunks(ctx, chunks...)
	require.NoError(t, err)

	_, err = repo.AddChunks(ctx, &core.StoredChunk{Chunk: chunks[0].Chunk})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestChunkRepository_GetChunk(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	chunks := storedChunks(2)
	_, err := repo.AddChunks(ctx, chunks...)
	require.NoError(t, err)

	got, err := repo.GetChunk(ctx, chunks[1].Chunk.ContentID())
	require.NoError(t, err)
	assert.Equal(t, chunks[1].Chunk.Key(), got.Chunk.Key())

	_, err = repo.GetChunk(ctx, core.IDFromContent("missing#0"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChunkRepository_ChunksAfter(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	_, err := repo.AddChunks(ctx, storedChunks(5)...)
	require.NoError(t, err)

	first, err := repo.ChunksAfter(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)

	rest, err := repo.ChunksAfter(ctx, first[1].Seq, 10)
	require.NoError(t, err)
	require.Len(t, rest, 3)
	assert.Equal(t, "chunk text 2", rest[0].Chunk.Text)

	_, err = repo.ChunksAfter(ctx, 0, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestChunkRepository_UpdateChunks(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	chunks := storedChunks(2)
	_, err := repo.AddChunks(ctx, chunks...)
	require.NoError(t, err)

	err = repo.UpdateChunks(ctx, &core.StoredChunk{Chunk: chunks[0].Chunk, Vector: []float32{9, 9, 9}})
	require.NoError(t, err)

	got, err := repo.GetChunk(ctx, chunks[0].Chunk.ContentID())
	require.NoError(t, err)
	assert.Equal(t, []float32{9, 9, 9}, got.Vector)
	assert.Equal(t, chunks[0].Seq, got.Seq)

	err = repo.UpdateChunks(ctx, &core.StoredChunk{Chunk: core.Chunk{Id: "missing"}})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChunkRepository_Clear(t *testing.T) {
	repo := newTestChunkRepo(t)
	ctx := context.Background()

	_, err := repo.AddChunks(ctx, storedChunks(3)...)
	require.NoError(t, err)
	require.NoError(t, repo.Clear(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = repo.AddChunks(ctx, storedChunks(1)...)
	require.NoError(t, err)
}
