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
	"log/slog"
	"testing"

	"github.com/poiesic/blogdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		c, err := New(2000, 1000)
		require.NoError(t, err)
		assert.Equal(t, 1000, c.Step())
	})

	t.Run("zero overlap", func(t *testing.T) {
		c, err := New(10, 0)
		require.NoError(t, err)
		assert.Equal(t, 10, c.Step())
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		c, err := New(10, 5, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, c.logger)
	})

	tests := []struct {
		name            string
		window, overlap int
	}{
		{"zero window", 0, 0},
		{"negative overlap", 10, -1},
		{"overlap equals window", 10, 10},
		{"overlap exceeds window", 10, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.window, tt.overlap)
			assert.ErrorIs(t, err, core.ErrInvalidParameter)
		})
	}
}

func TestChunkArticle_CopiesMetadata(t *testing.T) {
	c, err := New(4, 2, WithLogger(slog.Default()))
	require.NoError(t, err)

	article := &core.Article{
		Id:        "post-1",
		Title:     "Letters",
		Author:    "Andy",
		Date:      "2015-10-02",
		SourceURL: "https://example.com/post-1",
		Text:      "abcdefghij",
		Tags:      []string{"alphabet"},
	}

	chunks, err := c.ChunkArticle(article)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	for _, ch := range chunks {
		assert.Equal(t, "post-1", ch.Id)
		assert.Equal(t, "Letters", ch.Title)
		assert.Equal(t, "Andy", ch.Author)
		assert.Equal(t, "2015-10-02", ch.Date)
		assert.Equal(t, "https://example.com/post-1", ch.SourceURL)
		assert.Equal(t, []string{"alphabet"}, ch.Tags)
	}
	assert.Equal(t, "ghij", chunks[3].Text)
	assert.Equal(t, 6, chunks[3].Start)

	// Chunks do not alias the article's tag slice.
	chunks[0].Tags[0] = "changed"
	assert.Equal(t, "alphabet", article.Tags[0])
	assert.Equal(t, "alphabet", chunks[1].Tags[0])
}

func TestChunkArticles_PreservesOrder(t *testing.T) {
	c, err := New(4, 2)
	require.NoError(t, err)

	articles := []core.Article{
		{Id: "a", Title: "A", Text: "abcdef"},
		{Id: "b", Title: "B", Text: ""},
		{Id: "c", Title: "C", Text: "xyz"},
	}

	chunks, err := c.ChunkArticles(articles)
	require.NoError(t, err)

	ids := make([]string, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.Id
	}
	assert.Equal(t, []string{"a", "a", "b", "c"}, ids)
	assert.Equal(t, "", chunks[2].Text)
	assert.Equal(t, 0, chunks[2].Start)
}
