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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/blogdex/search"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "blogdex",
		Usage: "Hybrid keyword and semantic search over a blog archive",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Environment files to load before reading BLOGDEX_* variables",
				Value: cli.NewStringSlice(".env"),
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "Embedding model name",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "preprocess",
				Usage:     "Convert saved markdown and HTML pages into an article file",
				ArgsUsage: "<pages-dir>",
				Action:    preprocessCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Article file to write",
					},
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "Prefix for relative article URLs",
					},
				},
			},
			{
				Name:   "tag",
				Usage:  "Assign candidate tags to every article",
				Action: tagCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Article file to read",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Tagged article file to write (defaults to the input file)",
					},
					&cli.StringFlag{
						Name:  "tags",
						Usage: "Candidate tag file, one tag per line",
					},
					&cli.StringFlag{
						Name:  "tagger-host",
						Usage: "Tagging service host URL",
					},
					&cli.StringFlag{
						Name:  "tagger-model",
						Usage: "Tagging model name",
					},
				},
			},
			{
				Name:   "chunk",
				Usage:  "Split articles into overlapping chunks",
				Action: chunkCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Article file to read",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Chunk file to write",
					},
					&cli.IntFlag{
						Name:  "window-size",
						Usage: "Chunk length in characters",
					},
					&cli.IntFlag{
						Name:  "overlap",
						Usage: "Characters shared by consecutive chunks",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Embed articles or chunks and store the search index",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Article file to chunk and index",
					},
					&cli.StringFlag{
						Name:  "chunks",
						Usage: "Chunk file to index as is (instead of --input)",
					},
					&cli.IntFlag{
						Name:  "window-size",
						Usage: "Chunk length in characters",
					},
					&cli.IntFlag{
						Name:  "overlap",
						Usage: "Characters shared by consecutive chunks",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of texts per embedding request",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding requests",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Query the stored index",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode (hybrid, text, vector)",
						Value: "hybrid",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Results per index",
					},
					&cli.StringFlag{
						Name:  "dedup",
						Usage: "Hybrid duplicate rule (article, chunk)",
						Value: search.DedupArticle.String(),
					},
					&cli.StringSliceFlag{
						Name:  "filter",
						Usage: "Keyword filter field=value; tags=value matches any tag (lexical results only)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve queries over HTTP",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Address to listen on",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Results per index",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Re-encode every stored chunk with a new embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "New embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 64,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 64,
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Attempts per batch, including the first",
						Value: 1,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: time.Second,
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}
