package ingestion

import "errors"

var (
	// ErrChunkerRequired is returned when a chunker is not provided.
	ErrChunkerRequired = errors.New("chunker required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrTaggerRequired is returned when a tagger is not provided.
	ErrTaggerRequired = errors.New("tagger required")

	// ErrStorageRequired is returned when only one of the chunk and manifest
	// repositories is provided, or none when one is needed.
	ErrStorageRequired = errors.New("chunk and manifest repositories required")

	// ErrModelMismatch is returned when stored vectors were produced by a
	// different embedding model than the one configured.
	ErrModelMismatch = errors.New("embedding model does not match stored index")

	// ErrIncompleteIndex is returned when chunks are stored without a
	// manifest, which is what an interrupted rebuild leaves behind.
	ErrIncompleteIndex = errors.New("stored index is incomplete")

	// ErrManifestMismatch is returned when the stored chunks disagree with the
	// manifest's chunk count or dimensionality.
	ErrManifestMismatch = errors.New("stored chunks do not match manifest")
)
