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


// Package corpus reads and writes the JSON files that hand records between
// build steps: an array of articles, an array of chunks, and a plain-text list
// of candidate tags.
//
// Malformed or missing files fail immediately with the underlying error.
// Writes go to a temporary file that is renamed into place, so a failed write
// never leaves a truncated output behind.
package corpus
