// Package reembed re-encodes every stored chunk with a new embedding model.
//
// Chunks are read from storage in insertion order, a page at a time, encoded
// in batches, normalized and written back. When every chunk has been updated
// the manifest is rewritten with the new model name and dimensionality so that
// later opens query with the matching model. Progress is reported to a writer.
//
// Retries are opt-in: the default policy makes one attempt per batch and a
// failed batch aborts the run.
package reembed
