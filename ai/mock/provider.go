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


package mock

import (
	"sync/atomic"

	"github.com/poiesic/blogdex/ai"
)

var _ ai.AIProvider = (*MockProvider)(nil)

// MockProvider hands out a MockEmbedder and a MockTagger and records Close.
type MockProvider struct {
	embedder *MockEmbedder
	tagger   *MockTagger
	closes   atomic.Int32
}

// NewMockProvider creates a provider with default mock services.
func NewMockProvider() *MockProvider {
	return NewMockProviderWithServices(NewMockEmbedder(), NewMockTagger())
}

// NewMockProviderWithServices creates a provider around the given doubles.
func NewMockProviderWithServices(embedder *MockEmbedder, tagger *MockTagger) *MockProvider {
	return &MockProvider{
		embedder: embedder,
		tagger:   tagger,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Tagger returns the mock tagger.
func (p *MockProvider) Tagger() ai.Tagger {
	return p.tagger
}

// Close counts the call and never fails.
func (p *MockProvider) Close() error {
	p.closes.Add(1)
	return nil
}

// Closed reports whether Close has been called at least once.
func (p *MockProvider) Closed() bool {
	return p.closes.Load() > 0
}

// GetMockEmbedder returns the embedder for assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockTagger returns the tagger for assertions.
func (p *MockProvider) GetMockTagger() *MockTagger {
	return p.tagger
}
