package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/blogdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestRepository(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	repo := NewManifestRepository(backend)
	ctx := context.Background()

	loaded, err := repo.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	manifest := &core.Manifest{
		BuildID:    "build-1",
		ModelName:  "all-minilm",
		Dimensions: 384,
		ChunkCount: 10,
		WindowSize: 2000,
		Overlap:    1000,
		BuiltAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.SaveManifest(ctx, manifest))

	loaded, err = repo.LoadManifest(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "all-minilm", loaded.ModelName)
	assert.Equal(t, 384, loaded.Dimensions)

	manifest.ModelName = "nomic-embed-text"
	require.NoError(t, repo.SaveManifest(ctx, manifest))
	loaded, err = repo.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", loaded.ModelName)
}

func TestManifestRepository_Delete(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	repo := NewManifestRepository(backend)
	ctx := context.Background()

	require.NoError(t, repo.DeleteManifest(ctx), "deleting a missing manifest is not an error")

	require.NoError(t, repo.SaveManifest(ctx, &core.Manifest{BuildID: "build-1", ModelName: "all-minilm"}))
	require.NoError(t, repo.DeleteManifest(ctx))

	loaded, err := repo.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
