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


// Package ai declares the model-backed capabilities blogdex depends on.
//
// Embedder turns chunk text and queries into vectors for the vector index.
// Tagger picks topic tags for an article from the blog's tag vocabulary.
// AIProvider builds both from a single Config and owns their lifetime.
//
// ai/openai implements them against OpenAI-compatible servers; ai/mock
// provides deterministic doubles for tests. Production constructors return
// the interfaces, mock constructors return concrete types so tests can
// inspect calls:
//
//	provider, err := openai.NewProvider(ai.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "social magic")
//
//	embedder := mock.NewMockEmbedder()
//	_, _ = embedder.EmbedText(ctx, "q")
//	calls := embedder.CallCount()
package ai
