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
	"log/slog"
	"runtime"

	"github.com/poiesic/blogdex/storage"
)

// DefaultBatchSize is the number of texts sent to the embedder per request.
const DefaultBatchSize = 32

type settings struct {
	poolSize      int
	batchSize     int
	modelName     string
	keywordFields []string
	chunks        storage.ChunkRepository
	manifests     storage.ManifestRepository
	logger        *slog.Logger
}

func defaultSettings() *settings {
	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	return &settings{
		poolSize:  poolSize,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}
}

func applyOptions(opts []Option) *settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures an Encoder, Tagger or Pipeline.
type Option func(*settings)

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *settings) {
		if size < 1 {
			size = 1
		}
		s.poolSize = size
	}
}

// WithBatchSize sets how many texts are embedded per request.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(s *settings) {
		if size < 1 {
			size = 1
		}
		s.batchSize = size
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// WithModelName records the embedding model name in the manifest and checks
// it against the stored manifest on restore.
func WithModelName(name string) Option {
	return func(s *settings) {
		s.modelName = name
	}
}

// WithKeywordFields declares the chunk fields usable as exact-match filters
// in the lexical index.
func WithKeywordFields(fields ...string) Option {
	return func(s *settings) {
		s.keywordFields = fields
	}
}

// WithStorage persists built indices to the given repositories.
func WithStorage(chunks storage.ChunkRepository, manifests storage.ManifestRepository) Option {
	return func(s *settings) {
		s.chunks = chunks
		s.manifests = manifests
	}
}
