package preprocess

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/poiesic/blogdex/core"
)

// DefaultBaseURL is joined to relative source paths found in pages.
const DefaultBaseURL = "https://www.thejerx.com"

// Preprocessor converts saved pages into articles.
type Preprocessor struct {
	baseURL string
	logger  *slog.Logger
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithBaseURL sets the prefix for relative source paths.
func WithBaseURL(baseURL string) Option {
	return func(p *Preprocessor) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Preprocessor) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// New creates a Preprocessor.
func New(opts ...Option) *Preprocessor {
	p := &Preprocessor{
		baseURL: DefaultBaseURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "preprocess")
	return p
}

// ParseMarkdown builds an article from a markdown page. stem is the file name
// without its extension and becomes the article id.
func (p *Preprocessor) ParseMarkdown(stem string, src []byte) (core.Article, error) {
	doc := strings.ToValidUTF8(string(src), "\uFFFD")
	doc = strings.ReplaceAll(doc, "\r\n", "\n")

	meta, body, ok := splitFrontMatter(doc)
	if !ok {
		meta, body = splitHeaderBlock(doc)
	}

	title := meta["title"]
	if title == "" {
		title = extractTitle(body, stem)
	}
	title = CleanTitle(title)

	date := strings.TrimSpace(meta["date"])
	sourceURL := strings.TrimSpace(meta["source_url"])
	author := strings.TrimSpace(meta["author"])

	d, u, a := extractDateURLAuthor(body)
	if date == "" {
		date = d
	}
	if sourceURL == "" {
		sourceURL = u
	}
	if author == "" {
		author = a
	}
	author = strings.ReplaceAll(author, "\n", " ")

	text, err := bodyText(body, author)
	if err != nil {
		return core.Article{}, err
	}

	return core.Article{
		Id:        stem,
		Title:     title,
		Author:    author,
		Date:      p.isoDate(stem, date),
		SourceURL: p.absoluteURL(sourceURL),
		Text:      text,
	}, nil
}

// ParseHTML builds an article from an HTML page. Only the title and the
// body text are recovered.
func (p *Preprocessor) ParseHTML(stem string, src []byte) (core.Article, error) {
	title, text, err := htmlBodyText(bytes.NewReader(src))
	if err != nil {
		return core.Article{}, err
	}
	if title == "" {
		title = stem
	}
	return core.Article{
		Id:    stem,
		Title: CleanTitle(title),
		Text:  text,
	}, nil
}

// ParseFile reads and parses one page. The format follows the extension.
func (p *Preprocessor) ParseFile(path string) (core.Article, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return core.Article{}, err
	}
	stem := fileStem(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return p.ParseMarkdown(stem, src)
	case ".html", ".htm":
		return p.ParseHTML(stem, src)
	}
	return core.Article{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
}

// ProcessDir parses every page under dir in path order. A page that fails to
// parse becomes a stub article. Pages whose stem repeats an earlier id are
// skipped.
func (p *Preprocessor) ProcessDir(ctx context.Context, dir string) ([]core.Article, error) {
	paths, err := FindPages(dir)
	if err != nil {
		return nil, err
	}

	articles := make([]core.Article, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	stubs := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		article, err := p.ParseFile(path)
		if err != nil {
			p.logger.Warn("failed to parse page, using stub", "path", path, "error", err)
			article = stubArticle(fileStem(path))
			stubs++
		}
		if _, dup := seen[article.Id]; dup {
			p.logger.Warn("skipping page with duplicate id", "path", path, "id", article.Id)
			continue
		}
		seen[article.Id] = struct{}{}
		articles = append(articles, article)
	}

	p.logger.Info("preprocessed pages", "dir", dir, "articles", len(articles), "stubs", stubs)
	return articles, nil
}

// FindPages lists the markdown and HTML files under dir, sorted by path.
func FindPages(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown", ".html", ".htm":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	slices.Sort(paths)
	return paths, nil
}

func (p *Preprocessor) isoDate(stem, date string) string {
	if date == "" {
		return ""
	}
	iso, ok := ToISODate(date)
	if !ok {
		p.logger.Warn("dropping unparseable date", "article", stem, "date", date)
		return ""
	}
	return iso
}

func (p *Preprocessor) absoluteURL(u string) string {
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return p.baseURL + u
}

func stubArticle(stem string) core.Article {
	return core.Article{Id: stem, Title: stem}
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
