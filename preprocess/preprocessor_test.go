package preprocess

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jerxPage = `# [Social Magic](/blog/2020/3/14/social-magic)

[March 14, 2020](/blog/2020/3/14/social-magic) / [Andy](/?author=123)

This is the first para-
graph of the post.
It continues here.

![pic](/img.png)

Second paragraph.

__

Share this post

__

Footer links
`

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}

func TestParseMarkdown_Dateline(t *testing.T) {
	p := New()
	article, err := p.ParseMarkdown("social-magic", []byte(jerxPage))
	require.NoError(t, err)

	assert.Equal(t, "social-magic", article.Id)
	assert.Equal(t, "Social Magic", article.Title)
	assert.Equal(t, "Andy", article.Author)
	assert.Equal(t, "2020-03-14", article.Date)
	assert.Equal(t, "https://www.thejerx.com/blog/2020/3/14/social-magic", article.SourceURL)
	assert.Equal(t, "This is the first paragraph of the post. It continues here.\n\nSecond paragraph.", article.Text)
}

func TestParseMarkdown_FrontMatter(t *testing.T) {
	page := "---\ntitle: \"2019-05-01 - Card Tricks\"\ndate: May 1st, 2019\nauthor: Jerx\nsource_url: https://example.com/card-tricks\n---\nSome text here.\n"
	article, err := New(WithBaseURL("https://blog.example/")).ParseMarkdown("card-tricks", []byte(page))
	require.NoError(t, err)

	assert.Equal(t, "Card Tricks", article.Title)
	assert.Equal(t, "2019-05-01", article.Date)
	assert.Equal(t, "Jerx", article.Author)
	assert.Equal(t, "https://example.com/card-tricks", article.SourceURL)
	assert.Equal(t, "Some text here.", article.Text)
}

func TestParseMarkdown_HeaderBlock(t *testing.T) {
	page := "Title: Plain Post\nSource_URL: posts/plain\n\n# Heading\nBody line one\ncontinues.\n"
	article, err := New(WithBaseURL("https://blog.example/")).ParseMarkdown("plain", []byte(page))
	require.NoError(t, err)

	assert.Equal(t, "Plain Post", article.Title)
	assert.Equal(t, "https://blog.example/posts/plain", article.SourceURL)
	assert.Equal(t, "Heading\n\nBody line one continues.", article.Text)
}

func TestParseMarkdown_UnparseableDate(t *testing.T) {
	page := "---\ntitle: Undated\ndate: the other day\n---\ntext\n"
	article, err := New().ParseMarkdown("undated", []byte(page))
	require.NoError(t, err)
	assert.Empty(t, article.Date)
}

func TestParseMarkdown_NoMetadata(t *testing.T) {
	article, err := New().ParseMarkdown("bare", []byte("just some words\n"))
	require.NoError(t, err)
	assert.Equal(t, "bare", article.Id)
	assert.Equal(t, "bare", article.Title)
	assert.Empty(t, article.Author)
	assert.Empty(t, article.SourceURL)
	assert.Equal(t, "just some words", article.Text)
}

func TestParseHTML(t *testing.T) {
	article, err := New().ParseHTML("page", []byte("<html><body><h1>Only Heading</h1><p>Text.</p></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, "page", article.Id)
	assert.Equal(t, "Only Heading", article.Title)
	assert.Equal(t, "Only Heading Text.", article.Text)
}

func writePage(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestProcessDir(t *testing.T) {
	dir := t.TempDir()
	writePage(t, filepath.Join(dir, "b-post.md"), jerxPage)
	writePage(t, filepath.Join(dir, "a-post.md"), "# First\n\nHello.\n")
	writePage(t, filepath.Join(dir, "nested", "c-page.html"), "<p>From html</p>")
	writePage(t, filepath.Join(dir, "nested", "a-post.md"), "# Duplicate\n")
	writePage(t, filepath.Join(dir, "notes.txt"), "ignored")
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing-target"), filepath.Join(dir, "broken.md")))

	articles, err := New().ProcessDir(context.Background(), dir)
	require.NoError(t, err)

	ids := make([]string, len(articles))
	for i, a := range articles {
		ids[i] = a.Id
	}
	assert.Equal(t, []string{"a-post", "b-post", "broken", "c-page"}, ids)

	assert.Equal(t, "First", articles[0].Title)
	assert.Equal(t, "broken", articles[2].Title)
	assert.Empty(t, articles[2].Text)
	assert.Equal(t, "From html", articles[3].Text)
}

func TestProcessDir_MissingDir(t *testing.T) {
	_, err := New().ProcessDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestProcessDir_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writePage(t, filepath.Join(dir, "a.md"), "text")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ProcessDir(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}
