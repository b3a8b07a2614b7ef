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


package storage

import (
	"fmt"

	"github.com/poiesic/blogdex/core"
)

// MarshalID encodes a chunk content ID for the insertion-order index.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID decodes a content ID written by MarshalID.
func UnmarshalID(data []byte) (core.ID, error) {
	id, n, err := core.IDMUS.Unmarshal(data)
	if err := checkDecoded("id", n, len(data), err); err != nil {
		return 0, err
	}
	return id, nil
}

// MarshalStoredChunk encodes a chunk with its sequence number and vector.
func MarshalStoredChunk(chunk *core.StoredChunk) []byte {
	buf := make([]byte, core.StoredChunkMUS.Size(*chunk))
	core.StoredChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalStoredChunk decodes a value written by MarshalStoredChunk.
func UnmarshalStoredChunk(data []byte) (*core.StoredChunk, error) {
	chunk, n, err := core.StoredChunkMUS.Unmarshal(data)
	if err := checkDecoded("chunk", n, len(data), err); err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalManifest encodes the index manifest.
func MarshalManifest(manifest *core.Manifest) []byte {
	buf := make([]byte, core.ManifestMUS.Size(*manifest))
	core.ManifestMUS.Marshal(*manifest, buf)
	return buf
}

// UnmarshalManifest decodes a value written by MarshalManifest.
func UnmarshalManifest(data []byte) (*core.Manifest, error) {
	manifest, n, err := core.ManifestMUS.Unmarshal(data)
	if err := checkDecoded("manifest", n, len(data), err); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// checkDecoded rejects decode errors and values followed by stray bytes.
func checkDecoded(what string, n, size int, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptRecord, what, err)
	}
	if n != size {
		return fmt.Errorf("%w: %s: %d trailing bytes", ErrCorruptRecord, what, size-n)
	}
	return nil
}
