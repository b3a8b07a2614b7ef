package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/blogdex"
	"github.com/poiesic/blogdex/config"
	"github.com/poiesic/blogdex/core"
)

var posts = []string{
	"The Gypsy Thread. A torn and restored thread that plays better for a small group than for a stage.",
	"Forcing a Card Without Touching the Deck. Let the spectator handle the cards and still know the outcome.",
	"The Amateur Magician's Mindset. Performing for friends is a different art than performing for strangers.",
	"Invisible Deck Variations. Three presentations that make the classic feel like a personal story.",
	"Sleight of Hand at the Dinner Table. Small effects that fit between courses without a close-up pad.",
	"Building a Reputation. Why one strong trick a year beats a new trick every week.",
	"Coin Vanishes in Street Clothes. Routines that need nothing but a pocket and a little misdirection.",
	"The Ambitious Card Reconsidered. Fewer phases and a stronger ending make the routine land.",
	"Mentalism for Two. Effects built for a single participant and an intimate setting.",
	"Stooges and Instant Stooges. Enlisting a spectator quietly changes what is possible.",
	"Magic by Mail. Tricks that unfold over days through letters and packages.",
	"Rehearsal Versus Practice. Knowing the moves is not the same as knowing the performance.",
}

var seedFileName = flag.String("src", "", "file of seed posts, one per line")

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// articlesFrom turns each non-blank line into an article. Text up to the
// first period is the title.
func articlesFrom(source iter.Seq[string]) []core.Article {
	var articles []core.Article
	for line := range source {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		title, text, found := strings.Cut(line, ". ")
		if !found {
			title, text = line, line
		}
		articles = append(articles, core.Article{
			Id:     fmt.Sprintf("seed-%03d", len(articles)+1),
			Title:  title,
			Author: "Seeder",
			Text:   text,
		})
	}
	return articles
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

	var source iter.Seq[string]
	if seedFileName != nil && *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(posts)
	}

	manifest, err := engine.Index(ctx, articlesFrom(source))
	if err != nil {
		panic(err)
	}
	slog.Info("seeded", "db", cfg.DBPath, "chunks", manifest.ChunkCount, "model", manifest.ModelName)
}
