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


// Package preprocess turns saved blog pages into Article records.
//
// Markdown files may open with YAML front matter or a bare "key: value" header
// block. Missing metadata is recovered from the page itself: the first H1
// gives the title, and the blog's "[Month D, YYYY](url) / [Author](...)" line
// gives the date, source path and author. Dates are normalized to YYYY-MM-DD
// and relative source paths are joined to a configurable base URL.
//
// The body is reduced to plain prose: images are dropped, markdown is
// rendered with goldmark and flattened through an HTML text walk, hyphenated
// line breaks are joined, single newlines collapse to spaces, the trailing
// footer between the last two "__" markers is cut and the byline ending at the
// first author mention is removed.
//
// A file that cannot be parsed still yields a stub article whose id and title
// are the file stem, so one bad page never aborts a corpus run.
package preprocess
