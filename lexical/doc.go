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


// Package lexical provides a keyword index over chunk records.
//
// The index is an inverted index built once over a fixed set of text fields and
// ranked with Okapi BM25. Scores from each text field are summed, optionally
// weighted by a per-field boost. Keyword fields are not tokenized; they support
// exact-match filtering at query time.
//
// An Index is immutable after Build and safe for concurrent readers. Adding
// records requires building a new index from the full record set.
package lexical
