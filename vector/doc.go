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


// Package vector implements a brute-force cosine nearest-neighbour index over
// chunk embeddings.
//
// Vectors are stored L2-normalized so similarity reduces to a dot product.
// The vector array and the record array stay position-aligned: the vector at
// index i is the embedding of record i. An Index is immutable after Build and
// safe for concurrent readers.
package vector
