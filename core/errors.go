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


package core

import "errors"

// Domain errors
var (
	// ErrInvalidParameter indicates a non-positive window size or step, or an
	// otherwise unusable build parameter.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDimensionMismatch indicates vectors of differing dimensionality were mixed.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding capability failed or could not be reached.
	ErrEmbeddingUnavailable = errors.New("embedding capability unavailable")

	// ErrInvalidArticle indicates an Article failed validation.
	ErrInvalidArticle = errors.New("invalid article")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyID indicates the Id field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrNegativeStart indicates a chunk start offset below zero.
	ErrNegativeStart = errors.New("start offset cannot be negative")

	// ErrDuplicateID indicates two articles share an id.
	ErrDuplicateID = errors.New("duplicate article id")

	// ErrDuplicateChunk indicates two chunks share an id and start offset.
	ErrDuplicateChunk = errors.New("duplicate chunk key")

	// ErrInvalidDate indicates a date that is neither empty nor ISO-8601.
	ErrInvalidDate = errors.New("date must be empty or YYYY-MM-DD")
)
