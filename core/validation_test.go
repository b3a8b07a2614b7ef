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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateArticle(t *testing.T) {
	tests := []struct {
		name    string
		article *Article
		wantErr error
	}{
		{
			name:    "valid article",
			article: &Article{Id: "a", Title: "T", Date: "2015-10-02", Text: "hello"},
		},
		{
			name:    "empty date is valid",
			article: &Article{Id: "a"},
		},
		{
			name:    "empty text is valid",
			article: &Article{Id: "a", Title: "T"},
		},
		{
			name:    "nil article",
			article: nil,
			wantErr: ErrInvalidArticle,
		},
		{
			name:    "empty id",
			article: &Article{Title: "T"},
			wantErr: ErrEmptyID,
		},
		{
			name:    "non ISO date",
			article: &Article{Id: "a", Date: "October 2, 2015"},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArticle(tt.article)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidArticle)
		})
	}
}

func TestValidateArticles_DuplicateID(t *testing.T) {
	err := ValidateArticles([]Article{{Id: "a"}, {Id: "b"}, {Id: "a"}})
	assert.ErrorIs(t, err, ErrDuplicateID)

	assert.NoError(t, ValidateArticles([]Article{{Id: "a"}, {Id: "b"}}))
	assert.NoError(t, ValidateArticles(nil))
}

func TestValidateChunk(t *testing.T) {
	assert.NoError(t, ValidateChunk(&Chunk{Id: "a", Start: 0}))
	assert.ErrorIs(t, ValidateChunk(nil), ErrInvalidChunk)
	assert.ErrorIs(t, ValidateChunk(&Chunk{Start: 1}), ErrEmptyID)
	assert.ErrorIs(t, ValidateChunk(&Chunk{Id: "a", Start: -1}), ErrNegativeStart)
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", "", true},
		{"2020-03-14", "2020-03-14", true},
		{" 2020-03-14 ", "2020-03-14", true},
		{"2020-03-14T00:00:00Z", "2020-03-14", true},
		{"2020-03-14T23:30:00-05:00", "2020-03-14", true},
		{"2020-03-14 08:15:00", "2020-03-14", true},
		{"March 14, 2020", "March 14, 2020", false},
		{"2021-02-29T00:00:00Z", "2021-02-29T00:00:00Z", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateChunks_DuplicateKey(t *testing.T) {
	chunks := []Chunk{{Id: "a", Start: 0}, {Id: "a", Start: 2}, {Id: "a", Start: 0}}
	err := ValidateChunks(chunks)
	assert.ErrorIs(t, err, ErrInvalidChunk)
	assert.ErrorIs(t, err, ErrDuplicateChunk)

	assert.NoError(t, ValidateChunks(chunks[:2]))
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate(""))
	assert.True(t, IsValidDate("2020-02-29"))
	assert.False(t, IsValidDate("2021-02-29"))
	assert.False(t, IsValidDate("2015/10/02"))
}
