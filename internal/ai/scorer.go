package ai

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/repofit/repofit/internal/logger"

	"go.uber.org/zap"
)

// contentGenerator is the narrow provider capability the scorer needs:
// one prompt in, one text completion out.
type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

const defaultMaxLogLength = 200

// Scorer turns a README plus job description into an Assessment through
// the configured generator.
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewScorer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Scorer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Evaluate builds the prompt, calls the provider and parses the response.
// Provider errors and parse failures are returned to the caller, which
// decides whether to retry or degrade the repository to a zero score.
func (s *Scorer) Evaluate(ctx context.Context, readme, jobDescription string) (*Assessment, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("scorer generator is not initialized")
	}

	prompt := buildPrompt(readme, jobDescription)

	s.logger.Debug("generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	assessment, err := parseAssessment(raw)
	if err != nil {
		return nil, err
	}

	assessment.Relevance = TierFor(assessment.Score)
	assessment.Raw = raw
	return assessment, nil
}

// Model reports the active model identifier for logs and the report header.
func (s *Scorer) Model() string {
	if s.generator == nil {
		return ""
	}
	return s.generator.Model()
}
