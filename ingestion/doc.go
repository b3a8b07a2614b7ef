// Package ingestion builds the searchable indices from a corpus.
//
// The Pipeline runs the build phases in sequence:
//   - Chunking articles into overlapping windows
//   - Encoding every chunk with the embedding model
//   - Building the lexical and vector indices
//   - Persisting chunks, vectors and the manifest
//
// Encoding and tagging fan out over ants worker pools. Results are written back
// into their input positions, so output order always equals input order. Any
// failed unit of work fails the whole run.
package ingestion
