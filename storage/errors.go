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

import "errors"

var (
	// ErrNotFound indicates that no chunk is stored under the requested key.
	ErrNotFound = errors.New("chunk not found")

	// ErrDuplicateKey indicates that a chunk with the same article id and
	// start offset is already stored.
	ErrDuplicateKey = errors.New("chunk already stored")

	// ErrStorageClosed indicates that the index store has been closed.
	ErrStorageClosed = errors.New("index store is closed")

	// ErrInvalidQuery indicates a page request with a non-positive limit.
	ErrInvalidQuery = errors.New("invalid page request")

	// ErrCorruptRecord indicates a stored value that cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt stored record")
)
