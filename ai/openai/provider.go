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


package openai

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/blogdex/ai"
)

// Provider bundles the langchaingo-backed embedder and tagger.
type Provider struct {
	embedder *Embedder
	tagger   *Tagger
	closed   atomic.Bool
	logger   *slog.Logger
}

// NewProvider validates and normalizes config, then builds both services.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	tagger, err := newTagger(config)
	if err != nil {
		return nil, fmt.Errorf("creating tagger: %w", err)
	}

	logger := slog.Default().With("component", "openai-provider")
	logger.Debug("provider ready",
		"embedding_host", config.EmbeddingHost,
		"embedding_model", config.EmbeddingModel,
		"tagger_host", config.TaggerHost,
		"tagger_model", config.TaggerModel)

	return &Provider{
		embedder: embedder,
		tagger:   tagger,
		logger:   logger,
	}, nil
}

// Embedder returns the chunk and query encoder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Tagger returns the article tagger.
func (p *Provider) Tagger() ai.Tagger {
	return p.tagger
}

// Close is idempotent. The HTTP clients hold no resources that need releasing.
func (p *Provider) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	p.logger.Debug("provider closed")
	return nil
}
