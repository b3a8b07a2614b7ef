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


package lexical

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/poiesic/blogdex/core"
)

const (
	// DefaultK1 controls term-frequency saturation.
	DefaultK1 = 1.2
	// DefaultB controls document-length normalization.
	DefaultB = 0.75
)

// DefaultTextFields are the fields searched when no others are configured.
var DefaultTextFields = []string{core.FieldChunk, core.FieldTitle}

// posting records how often a term occurs in one record's field.
type posting struct {
	doc int
	tf  int
}

// fieldIndex is the inverted index of a single text field.
type fieldIndex struct {
	name     string
	boost    float64
	postings map[string][]posting
	lengths  []int
	avgLen   float64
}

// Index is a BM25 keyword index over chunk records.
type Index struct {
	records       []core.Chunk
	fields        []*fieldIndex
	keywordFields []string
	keywords      []map[string]string
	k1, b         float64
	logger        *slog.Logger
}

// Hit is a single lexical match.
type Hit struct {
	Record *core.Chunk
	Score  float64
}

type buildOptions struct {
	boosts map[string]float64
	k1, b  float64
	logger *slog.Logger
}

// Option configures Build.
type Option func(*buildOptions)

// WithBoosts multiplies each named text field's score by its boost.
// Fields without an entry keep a boost of 1.
func WithBoosts(boosts map[string]float64) Option {
	return func(o *buildOptions) {
		o.boosts = boosts
	}
}

// WithBM25 overrides the k1 and b ranking parameters.
func WithBM25(k1, b float64) Option {
	return func(o *buildOptions) {
		o.k1 = k1
		o.b = b
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *buildOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// Build indexes records over textFields. keywordFields are kept verbatim for
// exact-match filtering. Records are copied; later changes to the input slice do
// not affect the index.
func Build(records []core.Chunk, textFields, keywordFields []string, opts ...Option) (*Index, error) {
	if len(textFields) == 0 {
		return nil, ErrNoTextFields
	}
	var zero core.Chunk
	for _, name := range slices.Concat(textFields, keywordFields) {
		if _, ok := zero.Field(name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}

	o := &buildOptions{k1: DefaultK1, b: DefaultB, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.k1 < 0 || o.b < 0 || o.b > 1 {
		return nil, fmt.Errorf("%w: BM25 parameters k1=%g b=%g", core.ErrInvalidParameter, o.k1, o.b)
	}

	idx := &Index{
		records:       slices.Clone(records),
		keywordFields: slices.Clone(keywordFields),
		keywords:      make([]map[string]string, len(records)),
		k1:            o.k1,
		b:             o.b,
		logger:        o.logger.With("component", "lexical-index"),
	}

	for _, name := range textFields {
		boost := 1.0
		if v, ok := o.boosts[name]; ok {
			boost = v
		}
		idx.fields = append(idx.fields, &fieldIndex{
			name:     name,
			boost:    boost,
			postings: make(map[string][]posting),
			lengths:  make([]int, len(records)),
		})
	}

	for doc := range idx.records {
		record := &idx.records[doc]
		for _, f := range idx.fields {
			value, _ := record.Field(f.name)
			tokens := Tokenize(value)
			f.lengths[doc] = len(tokens)

			counts := make(map[string]int, len(tokens))
			for _, tok := range tokens {
				counts[tok]++
			}
			// Iterate tokens rather than the map so posting order is deterministic.
			for _, tok := range tokens {
				if tf, ok := counts[tok]; ok {
					f.postings[tok] = append(f.postings[tok], posting{doc: doc, tf: tf})
					delete(counts, tok)
				}
			}
		}
		if len(idx.keywordFields) > 0 {
			kw := make(map[string]string, len(idx.keywordFields))
			for _, name := range idx.keywordFields {
				kw[name], _ = record.Field(name)
			}
			idx.keywords[doc] = kw
		}
	}

	for _, f := range idx.fields {
		total := 0
		for _, l := range f.lengths {
			total += l
		}
		if len(f.lengths) > 0 {
			f.avgLen = float64(total) / float64(len(f.lengths))
		}
	}

	idx.logger.Debug("built lexical index",
		"records", len(idx.records),
		"textFields", textFields,
		"keywordFields", keywordFields)
	return idx, nil
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Search ranks records against query and returns at most topK of them, best
// first. Only records sharing at least one term with the query are returned.
// Equal scores keep insertion order. filters restricts results to records whose
// keyword fields equal the given values, or whose tags include the value for
// the tags field.
func (idx *Index) Search(query string, topK int, filters map[string]string) ([]Hit, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", core.ErrInvalidParameter, topK)
	}
	for name := range filters {
		if !slices.Contains(idx.keywordFields, name) {
			return nil, fmt.Errorf("%w: %q is not a keyword field", ErrUnknownField, name)
		}
	}

	terms := uniqueTerms(query)
	if len(terms) == 0 || len(idx.records) == 0 {
		return []Hit{}, nil
	}

	n := float64(len(idx.records))
	scores := make([]float64, len(idx.records))
	for _, f := range idx.fields {
		for _, term := range terms {
			postings := f.postings[term]
			if len(postings) == 0 {
				continue
			}
			df := float64(len(postings))
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			for _, p := range postings {
				tf := float64(p.tf)
				norm := 1 - idx.b
				if f.avgLen > 0 {
					norm += idx.b * float64(f.lengths[p.doc]) / f.avgLen
				}
				scores[p.doc] += f.boost * idf * tf * (idx.k1 + 1) / (tf + idx.k1*norm)
			}
		}
	}

	candidates := make([]int, 0)
	for doc, score := range scores {
		if score > 0 && idx.matches(doc, filters) {
			candidates = append(candidates, doc)
		}
	}
	slices.SortStableFunc(candidates, func(a, b int) int {
		switch {
		case scores[a] > scores[b]:
			return -1
		case scores[a] < scores[b]:
			return 1
		}
		return 0
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	hits := make([]Hit, len(candidates))
	for i, doc := range candidates {
		hits[i] = Hit{Record: &idx.records[doc], Score: scores[doc]}
	}
	return hits, nil
}

// matches requires equality for every filter except tags, which match when
// the wanted value is one of the record's tags.
func (idx *Index) matches(doc int, filters map[string]string) bool {
	for name, want := range filters {
		got := idx.keywords[doc][name]
		if name == core.FieldTags {
			if !core.HasTag(got, want) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}
