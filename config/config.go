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


package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/blogdex/ai"
	"github.com/poiesic/blogdex/chunking"
	"github.com/poiesic/blogdex/preprocess"
	"github.com/poiesic/blogdex/search"
)

const (
	// DefaultInputPath is the article file read by the index step.
	DefaultInputPath = "articles.json"
	// DefaultOutputPath is the chunk file written by the chunk step.
	DefaultOutputPath = "chunks.json"
	// DefaultDBPath is the directory of the persisted index.
	DefaultDBPath = "blogdex.db"
	// DefaultListenAddr is the address of the query server.
	DefaultListenAddr = ":8080"
	// DefaultBatchSize is the number of texts per embedding request.
	DefaultBatchSize = 32

	envPrefix = "BLOGDEX_"
)

// Config holds the settings of a blogdex run.
type Config struct {
	WindowSize int
	Overlap    int
	TopK       int
	ModelName  string
	InputPath  string
	OutputPath string

	DBPath        string
	EmbeddingHost string
	TaggerHost    string
	TaggerModel   string
	TagsPath      string
	BaseURL       string
	BatchSize     int
	PoolSize      int
	ListenAddr    string
}

// Option configures a Config.
type Option func(*Config)

// WithWindowSize sets the chunk window length in characters.
func WithWindowSize(n int) Option {
	return func(c *Config) { c.WindowSize = n }
}

// WithOverlap sets the characters shared by consecutive chunks.
func WithOverlap(n int) Option {
	return func(c *Config) { c.Overlap = n }
}

// WithTopK sets the per-index result count.
func WithTopK(n int) Option {
	return func(c *Config) { c.TopK = n }
}

// WithModelName sets the embedding model.
func WithModelName(name string) Option {
	return func(c *Config) { c.ModelName = name }
}

// WithInputPath sets the article file.
func WithInputPath(path string) Option {
	return func(c *Config) { c.InputPath = path }
}

// WithOutputPath sets the chunk file.
func WithOutputPath(path string) Option {
	return func(c *Config) { c.OutputPath = path }
}

// WithDBPath sets the database directory.
func WithDBPath(path string) Option {
	return func(c *Config) { c.DBPath = path }
}

// WithEmbeddingHost sets the embedding service URL.
func WithEmbeddingHost(host string) Option {
	return func(c *Config) { c.EmbeddingHost = host }
}

// WithTaggerHost sets the tagging service URL.
func WithTaggerHost(host string) Option {
	return func(c *Config) { c.TaggerHost = host }
}

// WithTaggerModel sets the tagging model.
func WithTaggerModel(name string) Option {
	return func(c *Config) { c.TaggerModel = name }
}

// WithTagsPath sets the candidate tag file.
func WithTagsPath(path string) Option {
	return func(c *Config) { c.TagsPath = path }
}

// WithBaseURL sets the prefix for relative article URLs.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithBatchSize sets the number of texts per embedding request.
func WithBatchSize(n int) Option {
	return func(c *Config) { c.BatchSize = n }
}

// WithPoolSize sets the worker pool size. Zero picks a size from the CPU count.
func WithPoolSize(n int) Option {
	return func(c *Config) { c.PoolSize = n }
}

// WithListenAddr sets the query server address.
func WithListenAddr(addr string) Option {
	return func(c *Config) { c.ListenAddr = addr }
}

// DefaultConfig returns the stock settings.
func DefaultConfig() *Config {
	return &Config{
		WindowSize:    chunking.DefaultWindowSize,
		Overlap:       chunking.DefaultOverlap,
		TopK:          search.DefaultTopK,
		ModelName:     ai.DefaultEmbeddingModel,
		InputPath:     DefaultInputPath,
		OutputPath:    DefaultOutputPath,
		DBPath:        DefaultDBPath,
		EmbeddingHost: ai.DefaultHost,
		TaggerHost:    ai.DefaultHost,
		TaggerModel:   ai.DefaultTaggerModel,
		BaseURL:       preprocess.DefaultBaseURL,
		BatchSize:     DefaultBatchSize,
		ListenAddr:    DefaultListenAddr,
	}
}

// New returns DefaultConfig with opts applied.
func New(opts ...Option) *Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate checks that the settings can drive a build and a query.
func (c *Config) Validate() error {
	var errs []error
	if c.WindowSize <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %d", c.WindowSize))
	}
	if c.Overlap < 0 || c.Overlap >= c.WindowSize {
		errs = append(errs, fmt.Errorf("overlap must be in [0, window size), got %d", c.Overlap))
	}
	if c.TopK <= 0 {
		errs = append(errs, fmt.Errorf("top_k must be positive, got %d", c.TopK))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d", c.BatchSize))
	}
	if c.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("pool size cannot be negative, got %d", c.PoolSize))
	}
	if strings.TrimSpace(c.ModelName) == "" {
		errs = append(errs, errors.New("model name is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// AIConfig returns the provider settings derived from c.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.EmbeddingHost),
		ai.WithEmbeddingModel(c.ModelName),
		ai.WithTaggerHost(c.TaggerHost),
		ai.WithTaggerModel(c.TaggerModel),
	)
}

// FromEnv loads envFiles (".env" when none are named; missing files are
// ignored) and then applies every BLOGDEX_* variable on top of DefaultConfig.
func FromEnv(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	c := DefaultConfig()
	strs := map[string]*string{
		"MODEL_NAME":     &c.ModelName,
		"INPUT_PATH":     &c.InputPath,
		"OUTPUT_PATH":    &c.OutputPath,
		"DB_PATH":        &c.DBPath,
		"EMBEDDING_HOST": &c.EmbeddingHost,
		"TAGGER_HOST":    &c.TaggerHost,
		"TAGGER_MODEL":   &c.TaggerModel,
		"TAGS_PATH":      &c.TagsPath,
		"BASE_URL":       &c.BaseURL,
		"LISTEN_ADDR":    &c.ListenAddr,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"WINDOW_SIZE": &c.WindowSize,
		"OVERLAP":     &c.Overlap,
		"TOP_K":       &c.TopK,
		"BATCH_SIZE":  &c.BatchSize,
		"POOL_SIZE":   &c.PoolSize,
	}
	for name, dst := range ints {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalidConfig, envPrefix, name, v)
		}
		*dst = n
	}
	return c, nil
}
