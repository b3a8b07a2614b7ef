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


package chunking

import (
	"fmt"
	"log/slog"

	"github.com/poiesic/blogdex/core"
)

const (
	// DefaultWindowSize is the window length in code points.
	DefaultWindowSize = 2000
	// DefaultOverlap is the number of code points shared by consecutive windows.
	DefaultOverlap = 1000
)

// Chunker turns articles into chunk records.
type Chunker struct {
	windowSize int
	overlap    int
	logger     *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// New creates a chunker with the given window size and overlap.
// The step between windows is windowSize - overlap, so overlap must be
// non-negative and smaller than windowSize.
func New(windowSize, overlap int, opts ...Option) (*Chunker, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size must be positive, got %d", core.ErrInvalidParameter, windowSize)
	}
	if overlap < 0 || overlap >= windowSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", core.ErrInvalidParameter, windowSize, overlap)
	}
	c := &Chunker{
		windowSize: windowSize,
		overlap:    overlap,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WindowSize returns the configured window size.
func (c *Chunker) WindowSize() int { return c.windowSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Step returns the distance between consecutive window starts.
func (c *Chunker) Step() int { return c.windowSize - c.overlap }

// ChunkArticle splits one article into chunks. Every chunk carries the
// article's metadata; the article text itself is not copied.
func (c *Chunker) ChunkArticle(article *core.Article) ([]core.Chunk, error) {
	windows, err := Split(article.Text, c.windowSize, c.Step())
	if err != nil {
		return nil, err
	}

	chunks := make([]core.Chunk, len(windows))
	for i, w := range windows {
		chunks[i] = core.Chunk{
			Start:     w.Start,
			Text:      w.Text,
			Id:        article.Id,
			Title:     article.Title,
			Author:    article.Author,
			Date:      article.Date,
			SourceURL: article.SourceURL,
			Tags:      cloneTags(article.Tags),
		}
	}
	return chunks, nil
}

// ChunkArticles splits every article in order and concatenates the results.
// The first error aborts the whole run.
func (c *Chunker) ChunkArticles(articles []core.Article) ([]core.Chunk, error) {
	var chunks []core.Chunk
	for i := range articles {
		articleChunks, err := c.ChunkArticle(&articles[i])
		if err != nil {
			return nil, fmt.Errorf("chunking article %q: %w", articles[i].Id, err)
		}
		chunks = append(chunks, articleChunks...)
	}
	c.logger.Info("chunked articles",
		"articles", len(articles),
		"chunks", len(chunks),
		"window", c.windowSize,
		"overlap", c.overlap)
	return chunks, nil
}

func cloneTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
