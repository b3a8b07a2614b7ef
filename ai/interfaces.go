package ai

import "context"

// Embedder maps chunk and query text to dense vectors. Queries must be
// encoded by the same model that encoded the corpus or the scores are
// meaningless. Safe for concurrent use.
type Embedder interface {
	// EmbedText encodes one text, usually a query.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts encodes a batch. Output position i belongs to texts[i];
	// a partial or reordered answer is an error, never a result.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Tagger picks topic tags for an article from a fixed vocabulary.
// Safe for concurrent use.
type Tagger interface {
	// Tag returns the members of candidates that fit the article, de-duplicated
	// and sorted. An article that fits none gets an empty slice.
	Tag(ctx context.Context, title, text string, candidates []string) ([]string, error)
}

// AIProvider hands out the embedding and tagging services built from one Config.
type AIProvider interface {
	Embedder() Embedder
	Tagger() Tagger

	// Close releases the services. Neither may be used afterwards.
	Close() error
}
