package openai

import (
	"fmt"
	"strings"
)

const taggingSystemPrompt = `You are a blog content tagging assistant.
Given a list of tags, choose all tags that are relevant to the blog post you are shown.
Only include tags from the provided list.
Respond ONLY with a comma-separated list of tags. Do not include any preamble, explanation,
greeting, or acknowledgment.`

const taggingPromptTemplate = `Available tags:
%s

Blog post:
Title: %s
Excerpt:
%s

Respond ONLY with a comma-separated list of tags from the list above.`

// buildTaggingPrompt creates the user prompt for one article.
func buildTaggingPrompt(title, excerpt string, candidates []string) string {
	return fmt.Sprintf(taggingPromptTemplate, strings.Join(candidates, ", "), title, excerpt)
}
