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


package search

import (
	"fmt"
	"strings"

	"github.com/poiesic/blogdex/core"
)

// DedupMode selects the identity used to drop duplicate results.
type DedupMode int

const (
	// DedupArticle keeps at most one result per article id.
	DedupArticle DedupMode = iota
	// DedupChunk keeps at most one result per chunk (article id and start offset).
	DedupChunk
)

func (m DedupMode) String() string {
	switch m {
	case DedupArticle:
		return "article"
	case DedupChunk:
		return "chunk"
	}
	return "unknown"
}

// ParseDedupMode maps "article" or "chunk" to a DedupMode.
func ParseDedupMode(s string) (DedupMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "article", "":
		return DedupArticle, nil
	case "chunk":
		return DedupChunk, nil
	}
	return DedupArticle, fmt.Errorf("%w: unknown dedup mode %q", core.ErrInvalidParameter, s)
}

func (m DedupMode) key(r *core.SearchResult) string {
	if m == DedupChunk {
		return r.Chunk.Key()
	}
	return r.Chunk.Id
}

// Merge concatenates lexical then vector results and drops every result whose
// dedup key was already seen. The first occurrence wins and first-seen order is
// kept. dropped, if non-nil, is called for each discarded result.
func Merge(lexical, vector []*core.SearchResult, mode DedupMode, dropped func(*core.SearchResult)) []*core.SearchResult {
	merged := make([]*core.SearchResult, 0, len(lexical)+len(vector))
	seen := make(map[string]struct{}, len(lexical)+len(vector))

	for _, list := range [][]*core.SearchResult{lexical, vector} {
		for _, r := range list {
			k := mode.key(r)
			if _, ok := seen[k]; ok {
				if dropped != nil {
					dropped(r)
				}
				continue
			}
			seen[k] = struct{}{}
			merged = append(merged, r)
		}
	}
	return merged
}
