package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	candidates := []string{"Card Magic", "Social Magic", "Mentalism", "Theory"}

	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{"comma separated", "Social Magic, Theory", []string{"Social Magic", "Theory"}},
		{"case insensitive", "social magic and mentalism", []string{"Mentalism", "Social Magic"}},
		{"duplicates collapse", "Theory, theory, THEORY", []string{"Theory"}},
		{"non candidates dropped", "Cooking, Gardening", []string{}},
		{"empty reply", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTags(tt.reply, candidates))
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "abc", excerpt("abcdef", 3))
	assert.Equal(t, "abcdef", excerpt("abcdef", 10))
	assert.Equal(t, "héé", excerpt("héééé", 3))
	assert.Equal(t, "", excerpt("abc", 0))
}

func TestBuildTaggingPrompt(t *testing.T) {
	prompt := buildTaggingPrompt("Social magic", "An excerpt.", []string{"A", "B"})
	assert.Contains(t, prompt, "Available tags:\nA, B")
	assert.Contains(t, prompt, "Title: Social magic")
	assert.Contains(t, prompt, "Excerpt:\nAn excerpt.")
}
