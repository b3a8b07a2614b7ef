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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/blogdex/ai"
	"github.com/poiesic/blogdex/core"
)

// Tagger assigns tags to articles concurrently on a worker pool.
type Tagger struct {
	tagger ai.Tagger
	pool   *ants.Pool
	logger *slog.Logger
}

// NewTagger creates a tagging stage around an ai.Tagger.
// Call Release when done to free the worker pool.
func NewTagger(tagger ai.Tagger, opts ...Option) (*Tagger, error) {
	if tagger == nil {
		return nil, ErrTaggerRequired
	}
	s := applyOptions(opts)

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, err
	}

	return &Tagger{
		tagger: tagger,
		pool:   pool,
		logger: s.logger.With("component", "tagger"),
	}, nil
}

// TagArticles returns copies of the articles with Tags set from candidates.
// Input order is preserved. A failure on any article fails the run.
func (t *Tagger) TagArticles(ctx context.Context, articles []core.Article, candidates []string) ([]core.Article, error) {
	tagged := slices.Clone(articles)
	t.logger.Info("tagging articles", "articles", len(articles), "candidates", len(candidates))

	err := runOrdered(ctx, t.pool, len(tagged), func(ctx context.Context, i int) error {
		tags, err := t.tagger.Tag(ctx, tagged[i].Title, tagged[i].Text, candidates)
		if err != nil {
			return fmt.Errorf("tagging article %q: %w", tagged[i].Id, err)
		}
		tagged[i].Tags = tags
		return nil
	})
	if err != nil {
		t.logger.Error("tagging failed", "err", err)
		return nil, err
	}
	return tagged, nil
}

// Release frees the worker pool.
func (t *Tagger) Release() {
	t.pool.Release()
}
