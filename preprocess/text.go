package preprocess

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

var (
	markdownImageRe = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	htmlImageRe     = regexp.MustCompile(`(?i)<img[^>]*>`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
)

// markdown passes raw HTML through so inline tags reach the text walk.
var markdown = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))

// stripImages removes markdown and HTML images.
func stripImages(s string) string {
	s = markdownImageRe.ReplaceAllString(s, "")
	return htmlImageRe.ReplaceAllString(s, "")
}

// markdownToText renders markdown to HTML and flattens it to text.
func markdownToText(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		return "", fmt.Errorf("parse rendered html: %w", err)
	}
	return htmlText(doc), nil
}

// htmlText joins every text node under n with a newline. Script and style
// contents are skipped.
func htmlText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, "\n")
}

// htmlTitle returns the document's <title>, or its first <h1>.
func htmlTitle(doc *html.Node) string {
	if t := findElementText(doc, "title"); t != "" {
		return t
	}
	return findElementText(doc, "h1")
}

func findElementText(n *html.Node, tag string) string {
	if n.Type == html.ElementNode && n.Data == tag {
		return strings.TrimSpace(strings.Join(strings.Fields(htmlText(n)), " "))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findElementText(c, tag); t != "" {
			return t
		}
	}
	return ""
}

// normalizeText joins hyphenated line breaks, turns single newlines into
// spaces and keeps at most one blank line between paragraphs.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "-\n", "")
	s = collapseSingleNewlines(s)
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func collapseSingleNewlines(s string) string {
	b := []byte(s)
	out := make([]byte, len(b))
	for i, c := range b {
		if c == '\n' && (i == 0 || b[i-1] != '\n') && (i == len(b)-1 || b[i+1] != '\n') {
			c = ' '
		}
		out[i] = c
	}
	return string(out)
}

// cutFooter drops everything from just before the second-to-last "__"
// marker, which is where the blog's sign-off begins.
func cutFooter(s string) string {
	var marks []int
	for i := 0; ; {
		j := strings.Index(s[i:], "__")
		if j < 0 {
			break
		}
		marks = append(marks, i+j)
		i += j + 2
	}
	if len(marks) < 2 {
		return s
	}
	cut := max(marks[len(marks)-2]-1, 0)
	return strings.TrimRightFunc(s[:cut], isSpace)
}

// cutByline drops the text up to and including the first mention of author.
func cutByline(s, author string) string {
	if author == "" {
		return s
	}
	i := strings.Index(s, author)
	if i < 0 {
		return s
	}
	return strings.TrimLeftFunc(s[i+len(author):], isSpace)
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// bodyText reduces a markdown body to plain prose.
func bodyText(body, author string) (string, error) {
	text, err := markdownToText(stripImages(body))
	if err != nil {
		return "", err
	}
	text = normalizeText(text)
	text = cutFooter(text)
	text = cutByline(text, author)
	return strings.TrimSpace(text), nil
}

// htmlBodyText reduces an HTML page to plain prose.
func htmlBodyText(r io.Reader) (title, text string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}
	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}
	return htmlTitle(doc), normalizeText(htmlText(body)), nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
