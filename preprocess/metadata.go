package preprocess

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const monthNames = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec|January|February|March|April|May|June|July|August|September|October|November|December)`

var (
	frontMatterRe    = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*(.*)$`)
	headerKeyRe      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_ -]*$`)
	dateLinkRe       = regexp.MustCompile(`(?i)\[(?P<date>` + monthNames + `\s+\d{1,2},\s+\d{4})\]\((?P<url>[^)]+)\)`)
	dateAuthorLineRe = regexp.MustCompile(`(?i)\[(?P<date>` + monthNames + `\s+\d{1,2},\s+\d{4})\]\((?P<url>[^)]+)\)\s*/\s*\[(?P<author>[^\]]+)\]`)
	h1TitleRe        = regexp.MustCompile(`^#\s+(?:\[(?P<link>[^\]]+)\]\([^)]+\)|(?P<plain>.+))$`)
	authorHeaderRe   = regexp.MustCompile(`(?im)^\s*#{1,6}\s*\[(?P<author>[^\]]+)\]\([^)]+author[^)]*\)\s*$`)
	slashAuthorRe    = regexp.MustCompile(`/\s*\[(?P<author>[^\]]+)\]\([^)]+\)`)
	leadingDateRe    = regexp.MustCompile(`(?i)^\s*(?:\d{4}[-/ ]\d{1,2}[-/ ]\d{1,2}|` + monthNames + `\s+\d{1,2},\s*\d{4})\s*[-–—:]*\s*`)
	ordinalDateRe    = regexp.MustCompile(`(?i)^(\w+)\s+(\d{1,2})(?:st|nd|rd|th),\s*(\d{4})$`)
	repeatedSpaceRe  = regexp.MustCompile(`\s{2,}`)
)

var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2,2006",
	"Jan 2,2006",
	"2006-1-2",
	"2006/1/2",
	"2006 1 2",
}

// metadata holds header values keyed by lowercased name.
type metadata map[string]string

// splitFrontMatter separates a leading "---" delimited block from the body.
// The block is decoded as YAML; when that fails each "key: value" line is
// taken literally. ok is false when the document has no front matter.
func splitFrontMatter(doc string) (meta metadata, body string, ok bool) {
	doc = strings.TrimPrefix(doc, "\ufeff")
	m := frontMatterRe.FindStringSubmatch(doc)
	if m == nil {
		return nil, doc, false
	}
	meta, err := decodeYAMLHeader(m[1])
	if err != nil {
		meta = decodeHeaderLines(strings.Split(m[1], "\n"))
	}
	return meta, m[2], true
}

func decodeYAMLHeader(block string) (metadata, error) {
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		return nil, err
	}
	meta := make(metadata, len(raw))
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		switch val := v.(type) {
		case nil:
			meta[key] = ""
		case string:
			meta[key] = strings.TrimSpace(val)
		case time.Time:
			meta[key] = val.Format(time.DateOnly)
		default:
			meta[key] = fmt.Sprint(val)
		}
	}
	return meta, nil
}

func decodeHeaderLines(lines []string) metadata {
	meta := metadata{}
	for _, line := range lines {
		k, v, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		meta[strings.ToLower(strings.TrimSpace(k))] = unquote(strings.TrimSpace(v))
	}
	return meta
}

// splitHeaderBlock reads a bare "key: value" block that ends at the first
// blank line. Anything that is not such a line ends the block without
// consuming it.
func splitHeaderBlock(doc string) (metadata, string) {
	lines := strings.Split(doc, "\n")
	meta := metadata{}
	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			i++
			break
		}
		k, v, found := strings.Cut(line, ":")
		if !found || !headerKeyRe.MatchString(strings.TrimSpace(k)) {
			break
		}
		meta[strings.ToLower(strings.TrimSpace(k))] = unquote(strings.TrimSpace(v))
	}
	if len(meta) == 0 {
		return nil, doc
	}
	return meta, strings.Join(lines[i:], "\n")
}

func unquote(s string) string {
	return strings.Trim(s, `"'`)
}

// extractTitle returns the text of the first H1, plain or link form.
func extractTitle(body, fallback string) string {
	for _, line := range strings.Split(body, "\n") {
		m := h1TitleRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		title := m[h1TitleRe.SubexpIndex("link")]
		if title == "" {
			title = m[h1TitleRe.SubexpIndex("plain")]
		}
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
		return fallback
	}
	return fallback
}

// extractDateURLAuthor reads the blog's dateline. The combined
// "[date](url) / [author]" form wins; otherwise the first date link and the
// first author heading or "/ [author](...)" link are used.
func extractDateURLAuthor(body string) (date, url, author string) {
	if m := dateAuthorLineRe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), strings.TrimSpace(m[3])
	}
	if m := dateLinkRe.FindStringSubmatch(body); m != nil {
		date, url = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if m := authorHeaderRe.FindStringSubmatch(body); m != nil {
		author = strings.TrimSpace(m[1])
	}
	if author == "" {
		if m := slashAuthorRe.FindStringSubmatch(body); m != nil {
			author = strings.TrimSpace(m[1])
		}
	}
	return date, url, author
}

// ToISODate normalizes a date such as "October 2nd, 2015", "Oct 2, 2015" or
// "2015/10/02" to "2015-10-02". ok is false when the value cannot be parsed.
func ToISODate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	s = fixSeptember(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), true
		}
	}
	if m := ordinalDateRe.FindStringSubmatch(s); m != nil {
		plain := m[1] + " " + m[2] + ", " + m[3]
		for _, layout := range dateLayouts[:2] {
			if t, err := time.Parse(layout, plain); err == nil {
				return t.Format(time.DateOnly), true
			}
		}
	}
	return "", false
}

// fixSeptember rewrites the four-letter "Sept" abbreviation, which time.Parse
// does not know.
func fixSeptember(s string) string {
	if len(s) > 5 && strings.EqualFold(s[:5], "sept ") {
		return "Sep " + s[5:]
	}
	return s
}

// CleanTitle removes a leading date and stray separators from a title.
// The original title is kept if nothing else is left.
func CleanTitle(title string) string {
	cleaned := strings.TrimSpace(leadingDateRe.ReplaceAllString(title, ""))
	cleaned = repeatedSpaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(cleaned, " -–—:")
	if cleaned == "" {
		return title
	}
	return cleaned
}
