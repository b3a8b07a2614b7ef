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


// Package chunking splits article text into overlapping fixed-size windows.
//
// Offsets and sizes are counted in Unicode code points, not bytes. For a text of
// length n, window size W and step S, windows start at 0, S, 2S, ... and the
// window whose end reaches or passes n is the last one emitted. Each window is
// paired with a copy of the article's metadata to form a core.Chunk.
package chunking
