package mock

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MockTagger is a test double for ai.Tagger.
// It allows custom behavior injection via function fields.
type MockTagger struct {
	// TagFunc is called by Tag if set.
	// If nil, returns every candidate mentioned in the title or text.
	TagFunc func(ctx context.Context, title, text string, candidates []string) ([]string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockTagger creates a mock tagger with default behavior.
func NewMockTagger() *MockTagger {
	return &MockTagger{}
}

// Tag returns the candidates that occur in the article, ignoring case.
func (m *MockTagger) Tag(ctx context.Context, title, text string, candidates []string) ([]string, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.TagFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, title, text, candidates)
	}

	haystack := strings.ToLower(title + " " + text)
	tags := make([]string, 0)
	for _, c := range candidates {
		if c != "" && strings.Contains(haystack, strings.ToLower(c)) {
			tags = append(tags, c)
		}
	}
	slices.Sort(tags)
	return slices.Compact(tags), nil
}

// CallCount returns the number of times Tag was called.
func (m *MockTagger) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockTagger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.TagFunc = nil
}
