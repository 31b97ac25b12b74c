package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/repofit/repofit/internal/ai"
)

// Result is one ranked repository entry in the report.
type Result struct {
	Repository string `json:"repository"`
	URL        string `json:"url,omitempty"`
	Language   string `json:"language,omitempty"`
	Stars      int    `json:"stars"`
	Score      int    `json:"score"`
	Relevance  string `json:"relevance"`
	Rationale  string `json:"rationale"`
}

// degrade zeroes the entry with a fixed rationale and returns it.
func (r *Result) degrade(rationale string) *Result {
	r.Score = 0
	r.Relevance = ai.TierFor(0)
	r.Rationale = rationale
	return r
}

// Report is the analyzer's output artifact. JobDescription echoes the
// text the scores were produced against, so a report is interpretable
// on its own.
type Report struct {
	GeneratedAt    time.Time `json:"generatedAt"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model,omitempty"`
	JobDescription string    `json:"jobDescription"`
	Results        []*Result `json:"results"`
}

// Sort orders results by descending score. The sort is stable, so
// equally scored repositories keep their selection order.
func (r *Report) Sort() {
	sort.SliceStable(r.Results, func(i, j int) bool {
		return r.Results[i].Score > r.Results[j].Score
	})
}

// Top returns up to n leading results.
func (r *Report) Top(n int) []*Result {
	if n >= len(r.Results) {
		return r.Results
	}
	return r.Results[:n]
}

// ToFile writes the report as indented JSON. The write goes through a
// temp file in the target directory and a rename, so a failed run never
// leaves a truncated report behind.
func (r *Report) ToFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding report: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp report file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}

// ReportFromFile reads a previously written report back.
func ReportFromFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}

	report := &Report{}
	if err := json.Unmarshal(data, report); err != nil {
		return nil, fmt.Errorf("decoding report file: %w", err)
	}

	return report, nil
}
