package core

import (
	"encoding/binary"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a deterministic 64-bit identifier derived from content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Article is a normalized blog post as produced by preprocessing.
// Id is unique across the corpus and Text is plain prose.
type Article struct {
	Id        string   `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Date      string   `json:"date"` // ISO-8601 date or empty
	SourceURL string   `json:"source_url"`
	Text      string   `json:"text"`
	Tags      []string `json:"tags,omitempty"`
}

// Chunk is a window of an article's text plus a copy of the article's metadata.
// Id is the parent article's id, so several chunks share it.
type Chunk struct {
	Start     int      `json:"start"` // offset in code points into the article text
	Text      string   `json:"chunk"`
	Id        string   `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Date      string   `json:"date"`
	SourceURL string   `json:"source_url"`
	Tags      []string `json:"tags,omitempty"`
}

// Field names understood by Chunk.Field.
const (
	FieldChunk     = "chunk"
	FieldId        = "id"
	FieldTitle     = "title"
	FieldAuthor    = "author"
	FieldDate      = "date"
	FieldSourceURL = "source_url"
	FieldStart     = "start"
	FieldTags      = "tags"
)

// TagSeparator joins tags in the value Field returns for FieldTags.
const TagSeparator = "\n"

// HasTag reports whether tag is one of the tags in a FieldTags value.
func HasTag(joined, tag string) bool {
	if joined == "" {
		return false
	}
	return slices.Contains(strings.Split(joined, TagSeparator), tag)
}

// Field returns the string value of a named record field and whether the name is known.
func (c *Chunk) Field(name string) (string, bool) {
	switch name {
	case FieldChunk:
		return c.Text, true
	case FieldId:
		return c.Id, true
	case FieldTitle:
		return c.Title, true
	case FieldAuthor:
		return c.Author, true
	case FieldDate:
		return c.Date, true
	case FieldSourceURL:
		return c.SourceURL, true
	case FieldStart:
		return strconv.Itoa(c.Start), true
	case FieldTags:
		return strings.Join(c.Tags, TagSeparator), true
	}
	return "", false
}

// Key returns the composite identity of the chunk: article id plus start offset.
func (c *Chunk) Key() string {
	return c.Id + "#" + strconv.Itoa(c.Start)
}

// ContentID hashes Key into a storage identifier.
func (c *Chunk) ContentID() ID {
	return IDFromContent(c.Key())
}

// EmbeddingText is the text handed to the embedding model for this chunk.
func (c *Chunk) EmbeddingText() string {
	return c.Title + " " + c.Text
}

// StoredChunk is a chunk persisted together with its embedding.
// Seq records the chunk's position in the indexed corpus.
type StoredChunk struct {
	Seq    uint64
	Chunk  Chunk
	Vector []float32
}

// Manifest describes the persisted index so it can be reopened consistently.
type Manifest struct {
	BuildID    string
	ModelName  string
	Dimensions int
	ChunkCount int
	WindowSize int
	Overlap    int
	BuiltAt    time.Time
}

// ResultSource identifies which index produced a search result.
type ResultSource int

const (
	// SourceLexical marks a result from the keyword index.
	SourceLexical ResultSource = iota + 1
	// SourceVector marks a result from the embedding index.
	SourceVector
)

func (s ResultSource) String() string {
	switch s {
	case SourceLexical:
		return "lexical"
	case SourceVector:
		return "vector"
	}
	return "unknown"
}

// MarshalText renders the source as its name in JSON output.
func (s ResultSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SearchResult represents a search result with the matched chunk and the score
// assigned by the index that produced it.
type SearchResult struct {
	Chunk  *Chunk       `json:"record"`
	Score  float64      `json:"score"`
	Source ResultSource `json:"source"`
}
