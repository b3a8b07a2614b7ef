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


// Package search answers natural-language queries over the built indices.
//
// The Searcher runs a lexical (BM25) lookup and a semantic (embedding) lookup
// for the same query, each bounded by top_k, and merges them by a fixed
// priority rule:
//   - lexical results come first in their own rank order
//   - vector results follow in their own rank order
//   - a result whose article was already seen is dropped
//
// Scores from the two indices are not comparable and are never blended, so the
// merged list holds between 0 and 2*top_k results.
package search
