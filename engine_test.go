package blogdex

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/poiesic/blogdex/ai/mock"
	"github.com/poiesic/blogdex/config"
	"github.com/poiesic/blogdex/core"
	"github.com/poiesic/blogdex/ingestion"
	"github.com/poiesic/blogdex/search"
	"github.com/poiesic/blogdex/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testArticles = []core.Article{
	{Id: "social-magic", Title: "Social Magic", Author: "Andy", Date: "2020-03-14",
		Text: "Social magic is performed for friends in everyday settings, not on a stage."},
	{Id: "card-tricks", Title: "Card Tricks", Author: "Andy", Date: "2019-05-01",
		Text: "A good card trick needs a strong premise and a clean reveal."},
	{Id: "coins", Title: "Coin Work", Author: "Andy",
		Text: "Coin vanishes rely on misdirection and natural handling."},
}

func testConfig(dbPath string) *config.Config {
	return config.New(
		config.WithDBPath(dbPath),
		config.WithWindowSize(40),
		config.WithOverlap(20),
		config.WithTopK(3),
		config.WithPoolSize(2),
	)
}

func openMemoryEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(context.Background(), testConfig(""),
		WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestOpen_EmptyStore(t *testing.T) {
	e := openMemoryEngine(t)

	assert.Nil(t, e.Manifest())
	assert.NotNil(t, e.ChunkRepository())
	assert.NotNil(t, e.ManifestRepository())
	assert.NotNil(t, e.Provider())

	results, err := e.HybridSearch(context.Background(), "magic")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := testConfig("")
	cfg.Overlap = cfg.WindowSize
	_, err := Open(context.Background(), cfg, WithInMemory(), WithProvider(mock.NewMockProvider()))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestOpen_InvalidPath(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

	e, err := Open(context.Background(), testConfig(tmpFile), WithProvider(mock.NewMockProvider()))
	assert.Error(t, err)
	assert.Nil(t, e)
}

func TestEngine_IndexAndSearch(t *testing.T) {
	e := openMemoryEngine(t)
	ctx := context.Background()

	manifest, err := e.Index(ctx, testArticles)
	require.NoError(t, err)
	require.NotNil(t, manifest)
	assert.Equal(t, "all-minilm", manifest.ModelName)
	assert.Equal(t, mock.DefaultDimensions, manifest.Dimensions)
	assert.Equal(t, 40, manifest.WindowSize)
	assert.Equal(t, 20, manifest.Overlap)
	assert.Same(t, manifest, e.Manifest())

	count, err := e.ChunkRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, manifest.ChunkCount, count)

	text, err := e.TextSearch(ctx, "card trick premise")
	require.NoError(t, err)
	require.NotEmpty(t, text)
	assert.Equal(t, "card-tricks", text[0].Chunk.Id)
	assert.Equal(t, core.SourceLexical, text[0].Source)

	vec, err := e.VectorSearch(ctx, "anything at all")
	require.NoError(t, err)
	assert.Len(t, vec, 3)

	hybrid, err := e.HybridSearch(ctx, "card trick premise")
	require.NoError(t, err)
	require.NotEmpty(t, hybrid)
	assert.Equal(t, "card-tricks", hybrid[0].Chunk.Id)
	seen := map[string]bool{}
	for _, r := range hybrid {
		assert.False(t, seen[r.Chunk.Id], "article %s returned twice", r.Chunk.Id)
		seen[r.Chunk.Id] = true
	}
}

func TestEngine_IndexRejectsInvalidArticles(t *testing.T) {
	e := openMemoryEngine(t)

	_, err := e.Index(context.Background(), []core.Article{{Id: "a"}, {Id: "a"}})
	assert.ErrorIs(t, err, core.ErrDuplicateID)
	assert.Nil(t, e.Manifest(), "failed build leaves the served index unchanged")
}

func TestEngine_Reopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	e, err := Open(ctx, testConfig(dir), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	built, err := e.Index(ctx, testArticles)
	require.NoError(t, err)
	before, err := e.HybridSearch(ctx, "coin misdirection")
	require.NoError(t, err)
	require.NoError(t, e.Close())

	reopened, err := Open(ctx, testConfig(dir), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer reopened.Close()

	require.NotNil(t, reopened.Manifest())
	assert.Equal(t, built.BuildID, reopened.Manifest().BuildID)

	after, err := reopened.HybridSearch(ctx, "coin misdirection")
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Chunk.Key(), after[i].Chunk.Key())
		assert.InDelta(t, before[i].Score, after[i].Score, 1e-6)
	}
}

func TestEngine_ReopenWithDifferentModel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	e, err := Open(ctx, testConfig(dir), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	_, err = e.Index(ctx, testArticles)
	require.NoError(t, err)
	require.NoError(t, e.Close())

	cfg := testConfig(dir)
	cfg.ModelName = "nomic-embed-text"
	_, err = Open(ctx, cfg, WithProvider(mock.NewMockProvider()))
	assert.ErrorIs(t, err, ingestion.ErrModelMismatch)
}

func TestEngine_Tag(t *testing.T) {
	e := openMemoryEngine(t)

	tagged, err := e.Tag(context.Background(), testArticles, []string{"magic", "card", "stage"})
	require.NoError(t, err)
	require.Len(t, tagged, len(testArticles))
	assert.Equal(t, []string{"magic", "stage"}, tagged[0].Tags)
	assert.Equal(t, []string{"card"}, tagged[1].Tags)
	assert.Empty(t, tagged[2].Tags)
	assert.Empty(t, testArticles[0].Tags, "input articles are not modified")
}

func TestEngine_IndexChunks(t *testing.T) {
	e := openMemoryEngine(t)

	chunker, err := e.NewChunker()
	require.NoError(t, err)
	chunks, err := chunker.ChunkArticles(testArticles)
	require.NoError(t, err)

	manifest, err := e.IndexChunks(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, len(chunks), manifest.ChunkCount)
}

func TestClose_ClosesProvider(t *testing.T) {
	provider := mock.NewMockProvider()
	e, err := Open(context.Background(), testConfig(""), WithInMemory(), WithProvider(provider))
	require.NoError(t, err)

	require.NoError(t, e.Close())
	assert.True(t, provider.Closed())
}

func TestTextSearch_KeywordFilter(t *testing.T) {
	ctx := context.Background()
	e, err := Open(ctx, testConfig(""), WithInMemory(), WithProvider(mock.NewMockProvider()),
		WithKeywordFields(core.FieldId),
		WithSearchOptions(search.WithFilters(map[string]string{core.FieldId: "card-tricks"})))
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Index(ctx, testArticles)
	require.NoError(t, err)

	results, err := e.TextSearch(ctx, "social card magic")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "card-tricks", r.Chunk.Id)
	}
}

func TestTextSearch_TagFilterAfterRestore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	articles := slices.Clone(testArticles)
	articles[0].Tags = []string{"theory", "social"}
	articles[2].Tags = []string{"sleight"}

	e, err := Open(ctx, testConfig(dir), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	_, err = e.Index(ctx, articles)
	require.NoError(t, err)
	require.NoError(t, e.Close())

	e, err = Open(ctx, testConfig(dir), WithProvider(mock.NewMockProvider()),
		WithKeywordFields(core.FieldTags),
		WithSearchOptions(search.WithFilters(map[string]string{core.FieldTags: "social"})))
	require.NoError(t, err)
	defer e.Close()

	results, err := e.TextSearch(ctx, "social card coin magic")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "social-magic", r.Chunk.Id)
	}
}

func TestOpen_UnknownKeywordField(t *testing.T) {
	_, err := Open(context.Background(), testConfig(""), WithInMemory(),
		WithProvider(mock.NewMockProvider()), WithKeywordFields("colour"))
	assert.Error(t, err)
}

func TestEngine_OpenInterruptedBuild(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	e, err := Open(ctx, testConfig(dir), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	_, err = e.Index(ctx, testArticles)
	require.NoError(t, err)
	require.NoError(t, e.Close())

	// Chunks without a manifest are what an interrupted rebuild leaves.
	backend, err := badger.OpenBackend(dir, false)
	require.NoError(t, err)
	require.NoError(t, badger.NewManifestRepository(backend).DeleteManifest(ctx))
	require.NoError(t, backend.Close())

	_, err = Open(ctx, testConfig(dir), WithProvider(mock.NewMockProvider()))
	assert.ErrorIs(t, err, ingestion.ErrIncompleteIndex)

	recovered, err := Open(ctx, testConfig(dir), WithProvider(mock.NewMockProvider()), WithRecovery())
	require.NoError(t, err)
	assert.Nil(t, recovered.Manifest())
	results, err := recovered.HybridSearch(ctx, "coin misdirection")
	require.NoError(t, err)
	assert.Empty(t, results, "a damaged store is never served")

	_, err = recovered.Index(ctx, testArticles)
	require.NoError(t, err)
	require.NoError(t, recovered.Close())

	reopened, err := Open(ctx, testConfig(dir), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer reopened.Close()
	assert.NotNil(t, reopened.Manifest())
}
