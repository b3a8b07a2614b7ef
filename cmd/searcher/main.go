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
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/blogdex"
	"github.com/poiesic/blogdex/config"
)

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	engine, err := blogdex.Open(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	query := "card forcing"
	if len(os.Args) > 1 {
		query = strings.Join(os.Args[1:], " ")
	}
	results, err := engine.HybridSearch(ctx, query)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: '%s' (%s)[%s %0.3f]\n", i, hit.Chunk.Title, hit.Chunk.Key(), hit.Source, hit.Score)
	}
}
