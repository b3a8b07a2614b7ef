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


package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/blogdex/core"
)

// ReadArticles decodes a JSON array of articles and validates them.
// ISO-8601 datetimes are reduced to their date.
func ReadArticles(r io.Reader) ([]core.Article, error) {
	var articles []core.Article
	if err := decodeArray(r, &articles); err != nil {
		return nil, err
	}
	for i := range articles {
		if d, ok := core.NormalizeDate(articles[i].Date); ok {
			articles[i].Date = d
		}
	}
	if err := core.ValidateArticles(articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// LoadArticles reads an article file.
func LoadArticles(path string) ([]core.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	articles, err := ReadArticles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return articles, nil
}

// ReadChunks decodes a JSON array of chunks and validates them, including
// uniqueness of each id and start pair.
func ReadChunks(r io.Reader) ([]core.Chunk, error) {
	var chunks []core.Chunk
	if err := decodeArray(r, &chunks); err != nil {
		return nil, err
	}
	for i := range chunks {
		if d, ok := core.NormalizeDate(chunks[i].Date); ok {
			chunks[i].Date = d
		}
	}
	if err := core.ValidateChunks(chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}

// LoadChunks reads a chunk file.
func LoadChunks(path string) ([]core.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	chunks, err := ReadChunks(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return chunks, nil
}

// WriteArticles writes articles as an indented JSON array.
func WriteArticles(path string, articles []core.Article) error {
	if articles == nil {
		articles = []core.Article{}
	}
	return writeJSONAtomic(path, articles)
}

// WriteChunks writes chunks as an indented JSON array.
func WriteChunks(path string, chunks []core.Chunk) error {
	if chunks == nil {
		chunks = []core.Chunk{}
	}
	return writeJSONAtomic(path, chunks)
}

// ReadTags reads candidate tags, one per line. Blank lines are skipped and
// surrounding whitespace is trimmed.
func ReadTags(r io.Reader) ([]string, error) {
	var tags []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if tag := strings.TrimSpace(scanner.Text()); tag != "" {
			tags = append(tags, tag)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// LoadTags reads a candidate tag file.
func LoadTags(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTags(f)
}

func decodeArray(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedFile, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after array", ErrMalformedFile)
	}
	return nil
}

func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp json: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("encode json: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp json: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename temp json: %w", err)
	}
	return nil
}
