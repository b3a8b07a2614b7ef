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


package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateArticle validates an Article according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Date must be empty or an ISO-8601 calendar date
//
// NOT validated:
//   - Text (an empty article still yields one empty chunk)
//   - Tags (optional, populated by the tagger)
func ValidateArticle(article *Article) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidArticle)
	}

	if article.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyID)
	}

	if !IsValidDate(article.Date) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidArticle, ErrInvalidDate, article.Date)
	}

	return nil
}

// ValidateArticles validates every article and checks id uniqueness across the corpus.
func ValidateArticles(articles []Article) error {
	seen := make(map[string]struct{}, len(articles))
	for i := range articles {
		if err := ValidateArticle(&articles[i]); err != nil {
			return fmt.Errorf("article %d: %w", i, err)
		}
		if _, ok := seen[articles[i].Id]; ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidArticle, ErrDuplicateID, articles[i].Id)
		}
		seen[articles[i].Id] = struct{}{}
	}
	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Start must not be negative
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyID)
	}

	if chunk.Start < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeStart)
	}

	return nil
}

// ValidateChunks validates every chunk and checks that no two share a Key.
func ValidateChunks(chunks []Chunk) error {
	seen := make(map[string]struct{}, len(chunks))
	for i := range chunks {
		if err := ValidateChunk(&chunks[i]); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		key := chunks[i].Key()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidChunk, ErrDuplicateChunk, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// isoDateLayouts are the ISO-8601 forms NormalizeDate accepts.
var isoDateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeDate reduces an ISO-8601 date or datetime to YYYY-MM-DD, keeping
// the calendar day in the timestamp's own offset. Empty stays empty.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), true
		}
	}
	return s, false
}

// IsValidDate reports whether s is empty or parses as YYYY-MM-DD. Stored
// records only carry the date form; NormalizeDate converts datetimes.
func IsValidDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}
