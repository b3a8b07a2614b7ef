// Package api serves search queries over HTTP.
//
//	GET /health                               liveness check
//	GET /api/search?q=...&mode=hybrid|text|vector   ranked results as JSON
//
// The default mode is hybrid.
package api
