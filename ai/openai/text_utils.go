package openai

import (
	"slices"
	"strings"
)

// excerpt returns at most n leading characters of s.
func excerpt(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// extractTags picks the candidates named in a model reply.
// A candidate matches when it appears anywhere in the reply, ignoring case,
// so list, sentence and bulleted replies all parse.
func extractTags(reply string, candidates []string) []string {
	lower := strings.ToLower(reply)
	chosen := make([]string, 0)
	for _, tag := range candidates {
		if tag != "" && strings.Contains(lower, strings.ToLower(tag)) {
			chosen = append(chosen, tag)
		}
	}
	slices.Sort(chosen)
	return slices.Compact(chosen)
}
