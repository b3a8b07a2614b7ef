package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToISODate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"March 14, 2020", "2020-03-14", true},
		{"Oct 2, 2015", "2015-10-02", true},
		{"October 2,2015", "2015-10-02", true},
		{"2015-10-02", "2015-10-02", true},
		{"2015/10/02", "2015-10-02", true},
		{"2015 10 02", "2015-10-02", true},
		{"October 2nd, 2015", "2015-10-02", true},
		{"Aug 21st, 2017", "2017-08-21", true},
		{"Sept 5, 2016", "2016-09-05", true},
		{"  May 3, 2020  ", "2020-05-03", true},
		{"sometime last year", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ToISODate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Card Tricks", "Card Tricks"},
		{"2019-05-01 - Card Tricks", "Card Tricks"},
		{"March 3, 2020: Social Magic", "Social Magic"},
		{"Too   many   spaces", "Too many spaces"},
		{"2019-05-01", "2019-05-01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.in))
		})
	}
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Linked", extractTitle("intro\n# [Linked](/blog/linked)\n", "stem"))
	assert.Equal(t, "Plain Heading", extractTitle("# Plain Heading\n# Second", "stem"))
	assert.Equal(t, "stem", extractTitle("## Not an H1\nbody", "stem"))
}

func TestExtractDateURLAuthor(t *testing.T) {
	t.Run("combined line", func(t *testing.T) {
		date, url, author := extractDateURLAuthor("[March 14, 2020](/blog/a) / [Andy](/?author=1)")
		assert.Equal(t, "March 14, 2020", date)
		assert.Equal(t, "/blog/a", url)
		assert.Equal(t, "Andy", author)
	})

	t.Run("separate author heading", func(t *testing.T) {
		body := "[Jan 5, 2019](/blog/b)\n\n### [Jerx](/?author=abc)\n"
		date, url, author := extractDateURLAuthor(body)
		assert.Equal(t, "Jan 5, 2019", date)
		assert.Equal(t, "/blog/b", url)
		assert.Equal(t, "Jerx", author)
	})

	t.Run("slash author", func(t *testing.T) {
		_, _, author := extractDateURLAuthor("posted / [Someone](/people/someone)")
		assert.Equal(t, "Someone", author)
	})

	t.Run("nothing", func(t *testing.T) {
		date, url, author := extractDateURLAuthor("just text")
		assert.Empty(t, date)
		assert.Empty(t, url)
		assert.Empty(t, author)
	})
}

func TestSplitFrontMatter(t *testing.T) {
	doc := "---\ntitle: \"Quoted\"\ndate: 2019-05-01\ncount: 3\n---\nbody text\n"
	meta, body, ok := splitFrontMatter(doc)
	assert.True(t, ok)
	assert.Equal(t, "Quoted", meta["title"])
	assert.Equal(t, "2019-05-01", meta["date"])
	assert.Equal(t, "3", meta["count"])
	assert.Equal(t, "body text\n", body)

	_, body, ok = splitFrontMatter("no front matter")
	assert.False(t, ok)
	assert.Equal(t, "no front matter", body)
}

func TestSplitFrontMatter_InvalidYAMLFallsBackToLines(t *testing.T) {
	meta, _, ok := splitFrontMatter("---\ntitle: a: b: c\n[broken\n---\nbody")
	assert.True(t, ok)
	assert.Equal(t, "a: b: c", meta["title"])
}

func TestSplitHeaderBlock(t *testing.T) {
	meta, body := splitHeaderBlock("Title: Plain Post\nAuthor: 'Someone'\n\n# Heading\nbody")
	assert.Equal(t, metadata{"title": "Plain Post", "author": "Someone"}, meta)
	assert.Equal(t, "# Heading\nbody", body)

	meta, body = splitHeaderBlock("# [Title](https://example.com/x)\nbody")
	assert.Nil(t, meta)
	assert.Equal(t, "# [Title](https://example.com/x)\nbody", body)
}
