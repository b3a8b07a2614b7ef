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


// Package storage declares the persisted form of a built index.
//
// A ChunkRepository holds every indexed chunk with its embedding, keyed by
// the chunk's content ID and ordered by an insertion sequence so the
// in-memory indices can be rebuilt in the original corpus order. A
// ManifestRepository holds the single Manifest that names the embedding model,
// its dimensionality and the chunking parameters of the stored build.
//
// storage/badger is the only backend. Its constructors return these
// interfaces:
//
//	backend, err := badger.OpenBackend("blogdex.db", false)
//	chunks, err := badger.NewChunkRepository(backend)
//	manifests := badger.NewManifestRepository(backend)
//
// Tests use badger.NewMemoryRepositories.
package storage
