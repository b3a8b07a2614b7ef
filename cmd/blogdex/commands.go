package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/blogdex"
	"github.com/poiesic/blogdex/ai/openai"
	"github.com/poiesic/blogdex/api"
	"github.com/poiesic/blogdex/chunking"
	"github.com/poiesic/blogdex/config"
	"github.com/poiesic/blogdex/core"
	"github.com/poiesic/blogdex/corpus"
	"github.com/poiesic/blogdex/ingestion"
	"github.com/poiesic/blogdex/preprocess"
	"github.com/poiesic/blogdex/reembed"
	"github.com/poiesic/blogdex/search"
	"github.com/poiesic/blogdex/storage/badger"
	"github.com/urfave/cli/v2"
)

// loadConfig reads the environment and then applies any flags given on the
// command line.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.FromEnv(c.StringSlice("env-file")...)
	if err != nil {
		return nil, err
	}

	strs := map[string]*string{
		"db":             &cfg.DBPath,
		"embedding-host": &cfg.EmbeddingHost,
		"model":          &cfg.ModelName,
		"tagger-host":    &cfg.TaggerHost,
		"tagger-model":   &cfg.TaggerModel,
		"tags":           &cfg.TagsPath,
		"base-url":       &cfg.BaseURL,
		"listen":         &cfg.ListenAddr,
	}
	for name, dst := range strs {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}

	ints := map[string]*int{
		"window-size": &cfg.WindowSize,
		"overlap":     &cfg.Overlap,
		"top-k":       &cfg.TopK,
		"batch-size":  &cfg.BatchSize,
		"pool-size":   &cfg.PoolSize,
	}
	for name, dst := range ints {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func preprocessCommand(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("pages directory is required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	output := cfg.InputPath
	if c.IsSet("output") {
		output = c.String("output")
	}

	p := preprocess.New(preprocess.WithBaseURL(cfg.BaseURL))
	articles, err := p.ProcessDir(c.Context, dir)
	if err != nil {
		return err
	}
	if err := corpus.WriteArticles(output, articles); err != nil {
		return fmt.Errorf("failed to write articles: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Wrote %d articles to %s\n", len(articles), output)
	return nil
}

func tagCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	input := stringFlagOr(c, "input", cfg.InputPath)
	output := stringFlagOr(c, "output", input)
	if cfg.TagsPath == "" {
		return fmt.Errorf("a candidate tag file is required (--tags or BLOGDEX_TAGS_PATH)")
	}

	articles, err := corpus.LoadArticles(input)
	if err != nil {
		return err
	}
	candidates, err := corpus.LoadTags(cfg.TagsPath)
	if err != nil {
		return err
	}

	provider, err := openai.NewProvider(cfg.AIConfig())
	if err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}
	defer provider.Close()

	opts := []ingestion.Option{ingestion.WithLogger(slog.Default())}
	if cfg.PoolSize > 0 {
		opts = append(opts, ingestion.WithPoolSize(cfg.PoolSize))
	}
	tagger, err := ingestion.NewTagger(provider.Tagger(), opts...)
	if err != nil {
		return err
	}
	defer tagger.Release()

	fmt.Fprintf(c.App.ErrWriter, "Tagging %d articles with %s (%d candidate tags)\n",
		len(articles), cfg.TaggerModel, len(candidates))
	tagged, err := tagger.TagArticles(c.Context, articles, candidates)
	if err != nil {
		return fmt.Errorf("tagging failed: %w", err)
	}
	if err := corpus.WriteArticles(output, tagged); err != nil {
		return fmt.Errorf("failed to write articles: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Wrote %d tagged articles to %s\n", len(tagged), output)
	return nil
}

func chunkCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	input := stringFlagOr(c, "input", cfg.InputPath)
	output := stringFlagOr(c, "output", cfg.OutputPath)

	articles, err := corpus.LoadArticles(input)
	if err != nil {
		return err
	}
	chunker, err := chunking.New(cfg.WindowSize, cfg.Overlap)
	if err != nil {
		return err
	}
	chunks, err := chunker.ChunkArticles(articles)
	if err != nil {
		return err
	}
	if err := corpus.WriteChunks(output, chunks); err != nil {
		return fmt.Errorf("failed to write chunks: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Wrote %d chunks from %d articles to %s\n", len(chunks), len(articles), output)
	return nil
}

func indexCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := blogdex.Open(c.Context, cfg, blogdex.WithRecovery())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	var manifest *core.Manifest
	if c.IsSet("chunks") {
		chunks, err := corpus.LoadChunks(c.String("chunks"))
		if err != nil {
			return err
		}
		manifest, err = engine.IndexChunks(c.Context, chunks)
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
	} else {
		articles, err := corpus.LoadArticles(stringFlagOr(c, "input", cfg.InputPath))
		if err != nil {
			return err
		}
		manifest, err = engine.Index(c.Context, articles)
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
	}

	fmt.Fprintf(c.App.Writer, "Indexed %d chunks with %s (%d dimensions) into %s, build %s\n",
		manifest.ChunkCount, manifest.ModelName, manifest.Dimensions, cfg.DBPath, manifest.BuildID)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	dedup, err := search.ParseDedupMode(c.String("dedup"))
	if err != nil {
		return err
	}
	filters, err := parseFilters(c.StringSlice("filter"))
	if err != nil {
		return err
	}
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}

	engine, err := blogdex.Open(c.Context, cfg,
		blogdex.WithKeywordFields(fields...),
		blogdex.WithSearchOptions(search.WithDedup(dedup), search.WithFilters(filters)))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	var results []*core.SearchResult
	mode := strings.ToLower(c.String("mode"))
	switch mode {
	case api.ModeHybrid:
		results, err = engine.HybridSearch(c.Context, query)
	case api.ModeText:
		results, err = engine.TextSearch(c.Context, query)
	case api.ModeVector:
		results, err = engine.VectorSearch(c.Context, query)
	default:
		return fmt.Errorf("invalid mode %q: must be one of hybrid, text, vector", mode)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if c.Bool("json") {
		if results == nil {
			results = []*core.SearchResult{}
		}
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	printResults(c, results)
	return nil
}

func printResults(c *cli.Context, results []*core.SearchResult) {
	w := c.App.Writer
	fmt.Fprintf(w, "Found %d results\n", len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%d. [%s %.3f] %s (%s)\n", i+1, r.Source, r.Score, r.Chunk.Title, r.Chunk.Key())
		if r.Chunk.SourceURL != "" {
			fmt.Fprintf(w, "   %s\n", r.Chunk.SourceURL)
		}
		fmt.Fprintf(w, "   %s\n", snippet(r.Chunk.Text, 160))
	}
}

func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func parseFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid filter %q: expected field=value", pair)
		}
		filters[field] = value
	}
	return filters, nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := blogdex.Open(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewServer(engine, slog.Default()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.ListenAddr, "model", cfg.ModelName)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func reembedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg.ModelName = c.String("embedding-model")

	backend, err := badger.OpenBackend(cfg.DBPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer chunkRepo.Close()

	aiConfig := cfg.AIConfig()
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if c.Int("max-attempts") <= 0 {
		return fmt.Errorf("max-attempts must be greater than 0")
	}

	reembedConfig := &reembed.Config{
		ModelName:      cfg.ModelName,
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		Retry: reembed.RetryPolicy{
			MaxAttempts: c.Int("max-attempts"),
			BaseDelay:   c.Duration("retry-delay"),
		},
		Logger: slog.Default(),
	}

	reembedder, err := reembed.NewReembedder(chunkRepo, badger.NewManifestRepository(backend), embedder, reembedConfig, c.App.ErrWriter)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.DBPath)
	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", aiConfig.EmbeddingHost)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", cfg.ModelName)
	fmt.Fprintln(c.App.ErrWriter)

	if err := reembedder.Run(c.Context); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func stringFlagOr(c *cli.Context, name, fallback string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	return fallback
}
