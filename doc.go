// Package blogdex indexes a blog's articles for hybrid retrieval.
//
// Articles are split into overlapping character windows, each window is
// embedded, and two indices are built over the same chunk sequence: a BM25
// keyword index and a cosine vector index. A hybrid query asks both and
// returns the keyword hits followed by the vector hits, dropping any later
// result for an article already seen.
//
// Engine is the entry point. It persists chunks and vectors in badger so a
// later Open can serve queries without re-encoding:
//
//	cfg := config.New(config.WithDBPath("blog.db"))
//	engine, err := blogdex.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer engine.Close()
//
//	if _, err := engine.Index(ctx, articles); err != nil {
//		return err
//	}
//	results, err := engine.HybridSearch(ctx, "how do I perform social magic?")
package blogdex
