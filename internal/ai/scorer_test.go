package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/repofit/repofit/internal/apperr"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestScorerEvaluate(t *testing.T) {
	stub := &stubGenerator{response: "SCORE: 8\nRELEVANCE: High\nREASONING: Strong RAG experience."}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	assessment, err := scorer.Evaluate(context.Background(), "# my-rag\nRAG demo", "Build RAG pipelines")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 8 {
		t.Fatalf("expected score 8, got %d", assessment.Score)
	}
	if assessment.Relevance != TierHigh {
		t.Fatalf("expected derived tier High, got %s", assessment.Relevance)
	}
	if assessment.Rationale != "Strong RAG experience." {
		t.Fatalf("unexpected rationale: %q", assessment.Rationale)
	}
	if assessment.Raw == "" {
		t.Fatal("raw response must be preserved")
	}

	if !strings.Contains(stub.lastPrompt, "Build RAG pipelines") {
		t.Fatal("job description missing from prompt")
	}
	if !strings.Contains(stub.lastPrompt, "RAG demo") {
		t.Fatal("README missing from prompt")
	}
}

func TestScorerDerivesTierIgnoringModelLabel(t *testing.T) {
	// The model calls it High; score 2 says Low. Score wins.
	stub := &stubGenerator{response: "SCORE: 2\nRELEVANCE: High\nREASONING: Not much overlap."}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	assessment, err := scorer.Evaluate(context.Background(), "readme", "jd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assessment.Relevance != TierLow {
		t.Fatalf("expected Low, got %s", assessment.Relevance)
	}
}

func TestScorerPropagatesGeneratorError(t *testing.T) {
	limited := apperr.Wrap(apperr.ErrRateLimit, errors.New("429"))
	stub := &stubGenerator{err: limited}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	_, err := scorer.Evaluate(context.Background(), "readme", "jd")
	if !apperr.IsRateLimit(err) {
		t.Fatalf("expected rate limit error to pass through, got %v", err)
	}
}

func TestScorerParseFailure(t *testing.T) {
	stub := &stubGenerator{response: "I cannot rate this project."}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	_, err := scorer.Evaluate(context.Background(), "readme", "jd")
	if !errors.Is(err, apperr.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestScorerTruncatesLongReadme(t *testing.T) {
	stub := &stubGenerator{response: "SCORE: 5\nREASONING: ok."}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	long := strings.Repeat("x", maxReadmeRunes+500)
	if _, err := scorer.Evaluate(context.Background(), long, "jd"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Count(stub.lastPrompt, "x") > maxReadmeRunes {
		t.Fatalf("README was not truncated: %d x runes", strings.Count(stub.lastPrompt, "x"))
	}
}
