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
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/blogdex/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const maxTagAttempts = 3

// Tagger implements ai.Tagger using OpenAI-compatible chat APIs.
type Tagger struct {
	client     llms.Model
	sampleSize int
	logger     *slog.Logger
}

// newTagger is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTagger(config *ai.Config) (*Tagger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.TaggerHost),
		openai.WithToken("none"),
		openai.WithModel(config.TaggerModel),
	)
	if err != nil {
		return nil, err
	}

	return &Tagger{
		client:     client,
		sampleSize: config.TagSampleSize,
		logger:     slog.Default().With("component", "openai-tagger", "model", config.TaggerModel),
	}, nil
}

// NewTagger creates a new tagger using the provided configuration.
//
// Returns ai.Tagger interface to enforce abstraction.
func NewTagger(config *ai.Config) (ai.Tagger, error) {
	return newTagger(config)
}

// Tag asks the model which candidate tags fit the article.
// The prompt carries the title and the leading sample of the text.
func (t *Tagger) Tag(ctx context.Context, title, text string, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return []string{}, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(taggingSystemPrompt)},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildTaggingPrompt(title, excerpt(text, t.sampleSize), candidates)),
			},
		},
	}

	// Retry blank replies; a non-blank reply naming no candidate is a valid answer.
	var reply string
	for attempt := 0; attempt < maxTagAttempts; attempt++ {
		response, err := t.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
		if err != nil {
			t.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) > 0 {
			reply = strings.TrimSpace(response.Choices[0].Content)
		}
		if reply != "" {
			break
		}
		t.logger.Warn("blank tagging response", "attempt", attempt+1, "title", title)
	}

	tags := extractTags(reply, candidates)
	t.logger.Debug("tagged article", "title", title, "tags", len(tags))
	return tags, nil
}
