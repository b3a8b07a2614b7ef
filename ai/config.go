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


package ai

import (
	"errors"
	"strings"
)

const (
	// DefaultHost is the OpenAI-compatible endpoint of a local Ollama server.
	DefaultHost = "http://localhost:11434/v1"
	// DefaultEmbeddingModel is the sentence embedding model used for chunks and queries.
	DefaultEmbeddingModel = "all-minilm"
	// DefaultTaggerModel is the chat model used to tag articles.
	DefaultTaggerModel = "gemma3:12b"
	// DefaultTagSampleSize is how many characters of an article the tagger reads.
	DefaultTagSampleSize = 1200
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// TaggerHost is the base URL for the chat service used for tagging.
	TaggerHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Indexing and querying must use the same model.
	EmbeddingModel string

	// TaggerModel is the model identifier to use for article tagging.
	// Example: "gemma3:12b", "gpt-4o-mini"
	TaggerModel string

	// TagSampleSize is the number of leading characters of an article's
	// text included in the tagging prompt.
	// Default: 1200
	TagSampleSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithTaggerHost sets the tagging service host URL.
func WithTaggerHost(host string) ConfigOption {
	return func(c *Config) {
		c.TaggerHost = host
	}
}

// WithHost sets both embedding and tagger hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.TaggerHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithTaggerModel sets the tagging model identifier.
func WithTaggerModel(model string) ConfigOption {
	return func(c *Config) {
		c.TaggerModel = model
	}
}

// WithTagSampleSize sets how many characters of article text the tagger sees.
func WithTagSampleSize(n int) ConfigOption {
	return func(c *Config) {
		c.TagSampleSize = n
	}
}

// DefaultConfig returns a Config with sensible defaults for a local Ollama server.
// By default, both embedding and tagger use the same host.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  DefaultHost,
		TaggerHost:     DefaultHost,
		EmbeddingModel: DefaultEmbeddingModel,
		TaggerModel:    DefaultTaggerModel,
		TagSampleSize:  DefaultTagSampleSize,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithEmbeddingModel("nomic-embed-text"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.TaggerHost = normalizeHost(c.TaggerHost)
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.TaggerHost == "" {
		return errors.New("ai config: TaggerHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.TaggerModel == "" {
		return errors.New("ai config: TaggerModel is required")
	}
	if c.TagSampleSize < 1 {
		return errors.New("ai config: TagSampleSize must be positive")
	}
	return nil
}
