package ai

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/repofit/repofit/internal/apperr"
)

// parseAssessment extracts the numeric score and the reasoning text from
// free-form model output. It tolerates markdown decoration around the
// labels ("**SCORE:** 8", code fences, "8/10") but reports apperr.ErrParse
// when no integer in the 0-10 range can be found.
func parseAssessment(raw string) (*Assessment, error) {
	cleaned := stripFences(raw)

	score := -1
	scoreSeen := false
	reasoning := ""
	inReasoning := false

	for _, line := range strings.Split(cleaned, "\n") {
		norm := stripMarkdown(line)
		upper := strings.ToUpper(norm)

		switch {
		case strings.HasPrefix(upper, "SCORE"):
			scoreSeen = true
			inReasoning = false
			score = firstInt(afterColon(norm))
		case strings.HasPrefix(upper, "RELEVANCE"):
			// The model's own tier label is ignored; tiers are derived
			// from the score.
			inReasoning = false
		case strings.HasPrefix(upper, "REASONING"):
			inReasoning = true
			reasoning = afterColon(norm)
		case inReasoning && norm != "":
			reasoning += " " + norm
		}
	}

	if !scoreSeen || score < 0 {
		return nil, apperr.Wrap(apperr.ErrParse, fmt.Errorf("no score found in model output"))
	}
	if score > 10 {
		return nil, apperr.Wrap(apperr.ErrParse, fmt.Errorf("score %d out of range", score))
	}

	return &Assessment{
		Score:     score,
		Rationale: strings.TrimSpace(reasoning),
	}, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```text")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}

// stripMarkdown drops emphasis and heading characters so label detection
// works on decorated lines.
func stripMarkdown(line string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '*', '_', '`', '#':
			return -1
		}
		return r
	}, line)
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cleaned), "- "))
}

func afterColon(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}

// firstInt returns the first run of digits in s as an integer, or -1 when
// there is none. "8/10" therefore yields 8.
func firstInt(s string) int {
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			break
		}
	}
	if start == -1 {
		return -1
	}

	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return -1
	}
	return n
}
