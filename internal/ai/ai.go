// Package ai scores a repository README against a job description using a
// single LLM provider selected at start-up.
package ai

// Relevance tiers derived from the numeric score. The tier is always
// computed here, never trusted from the model output.
const (
	TierHigh   = "High"
	TierMedium = "Medium"
	TierLow    = "Low"
)

// Assessment is the structured result of scoring one README.
type Assessment struct {
	Score     int    `json:"score"`
	Relevance string `json:"relevance"`
	Rationale string `json:"rationale"`
	Raw       string `json:"-"`
}

// TierFor buckets a 0-10 score into a relevance tier.
func TierFor(score int) string {
	switch {
	case score >= 7:
		return TierHigh
	case score >= 4:
		return TierMedium
	default:
		return TierLow
	}
}
