package ai

import (
	"strings"

	_ "embed"
)

//go:embed prompt.md
var promptTemplate string

// maxReadmeRunes caps how much README text goes into the prompt. Long
// READMEs add token cost without improving the score.
const maxReadmeRunes = 2000

func buildPrompt(readme, jobDescription string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job description:\n{{JOB_DESCRIPTION}}\n\nREADME:\n{{README}}\n\nSCORE: / RELEVANCE: / REASONING:"
	}

	readme = truncateRunes(strings.TrimSpace(readme), maxReadmeRunes)

	prompt := strings.ReplaceAll(template, "{{JOB_DESCRIPTION}}", strings.TrimSpace(jobDescription))
	prompt = strings.ReplaceAll(prompt, "{{README}}", readme)
	return prompt
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
