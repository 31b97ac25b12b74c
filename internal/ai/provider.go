package ai

import (
	"errors"
	"strings"

	"github.com/repofit/repofit/internal/apperr"
)

// Provider identifies one of the supported LLM backends. Exactly one is
// active per analyzer run.
type Provider string

const (
	ProviderGroq   Provider = "groq"
	ProviderGemini Provider = "gemini"
)

// Keys holds whichever provider API keys are configured.
type Keys struct {
	Groq   string
	Gemini string
}

// Select picks the backend by fixed preference order: Groq first (fast,
// generous rate limits), Gemini as the fallback. Pure function over the
// available credentials.
func Select(keys Keys) (Provider, error) {
	if strings.TrimSpace(keys.Groq) != "" {
		return ProviderGroq, nil
	}
	if strings.TrimSpace(keys.Gemini) != "" {
		return ProviderGemini, nil
	}
	return "", apperr.Wrap(apperr.ErrConfig, errors.New("no LLM provider API key configured, set GROQ_API_KEY or GEMINI_API_KEY"))
}
