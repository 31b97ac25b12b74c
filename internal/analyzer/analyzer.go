// Package analyzer turns an extracted snapshot into a ranked relevance
// report: it selects candidate repositories, fetches their READMEs and
// scores each one against the job description through the configured LLM
// provider. Failures degrade single repositories to zero-score entries;
// the run itself always completes once it has started.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/repofit/repofit/internal/ai"
	"github.com/repofit/repofit/internal/apperr"
	"github.com/repofit/repofit/internal/github"
	"github.com/repofit/repofit/internal/retry"

	"go.uber.org/zap"
)

// Fixed degradation rationales. These are policy, not model output.
const (
	RationaleNoReadme    = "no README found"
	RationaleShortReadme = "README is too short or empty"
	RationaleRateLimited = "rate-limited"
	RationaleUnparseable = "unparseable response"
)

// minReadmeRunes is the smallest README worth sending to a model.
const minReadmeRunes = 50

const (
	defaultLimit      = 10
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
)

// ReadmeFetcher is the slice of the GitHub client the analyzer needs.
type ReadmeFetcher interface {
	FetchReadme(ctx context.Context, fullName string) (string, error)
}

// Scorer evaluates one README against the job description.
type Scorer interface {
	Evaluate(ctx context.Context, readme, jobDescription string) (*ai.Assessment, error)
	Model() string
}

// Config carries the analysis parameters. JobDescription and Limit are
// explicit fields here rather than package constants so tests can run
// against fixture job descriptions.
type Config struct {
	JobDescription string
	Limit          int
	Provider       ai.Provider

	// Backoff tuning for rate-limited provider calls.
	MaxRetries int
	RetryDelay time.Duration
}

type Analyzer struct {
	cfg     *Config
	readmes ReadmeFetcher
	scorer  Scorer
	logger  *zap.Logger
}

func New(cfg *Config, readmes ReadmeFetcher, scorer Scorer, logger *zap.Logger) *Analyzer {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	return &Analyzer{
		cfg:     cfg,
		readmes: readmes,
		scorer:  scorer,
		logger:  logger,
	}
}

// SelectCandidates picks the most-recently-updated limit non-fork
// repositories. Deterministic for identical input ordering.
func SelectCandidates(repos *github.Repositories, limit int) *github.Repositories {
	candidates := repos.NonForks()
	candidates.SortByUpdated()
	return candidates.Limit(limit)
}

// Run analyzes the snapshot and returns the ranked report. The report
// always holds exactly one result per selected candidate.
func (a *Analyzer) Run(ctx context.Context, snapshot *github.Snapshot) (*Report, error) {
	if snapshot == nil || snapshot.Profile == nil {
		return nil, fmt.Errorf("snapshot with profile is required")
	}

	candidates := SelectCandidates(&github.Repositories{Items: snapshot.Repositories}, a.cfg.Limit)

	a.logger.Info("selected candidates",
		zap.String("username", snapshot.Profile.Username),
		zap.Int("candidates", candidates.Len()),
		zap.Int("limit", a.cfg.Limit),
	)

	results := make([]*Result, 0, candidates.Len())
	for i, repo := range candidates.Items {
		a.logger.Info("analyzing repository",
			zap.String("repository", repo.FullName),
			zap.Int("index", i+1),
			zap.Int("total", candidates.Len()),
		)

		result := a.analyzeOne(ctx, repo)
		results = append(results, result)

		a.logger.Info("repository scored",
			zap.String("repository", repo.FullName),
			zap.Int("score", result.Score),
			zap.String("relevance", result.Relevance),
		)
	}

	report := &Report{
		GeneratedAt:    time.Now().UTC(),
		Provider:       string(a.cfg.Provider),
		Model:          a.scorer.Model(),
		JobDescription: a.cfg.JobDescription,
		Results:        results,
	}
	report.Sort()

	return report, nil
}

// analyzeOne scores a single repository, degrading to a zero-score entry
// on anything that must not abort the run.
func (a *Analyzer) analyzeOne(ctx context.Context, repo *github.Repository) *Result {
	result := &Result{
		Repository: repo.Name,
		URL:        repo.URL,
		Language:   repo.Language,
		Stars:      repo.Stars,
	}

	readme, err := a.readmes.FetchReadme(ctx, repo.FullName)
	switch {
	case errors.Is(err, apperr.ErrNoReadme):
		return result.degrade(RationaleNoReadme)
	case err != nil:
		a.logger.Warn("README fetch failed",
			zap.String("repository", repo.FullName),
			zap.Error(err),
		)
		return result.degrade(fmt.Sprintf("README fetch failed: %v", err))
	}

	repo.Readme = readme

	if utf8.RuneCountInString(readme) < minReadmeRunes {
		return result.degrade(RationaleShortReadme)
	}

	var assessment *ai.Assessment
	err = retry.Do(ctx, func() error {
		var evalErr error
		assessment, evalErr = a.scorer.Evaluate(ctx, readme, a.cfg.JobDescription)
		return evalErr
	},
		retry.WithMaxRetries(a.cfg.MaxRetries),
		retry.WithInitialDelay(a.cfg.RetryDelay),
		retry.WithRetryIf(apperr.IsRateLimit),
	)

	switch {
	case err == nil:
		result.Score = assessment.Score
		result.Relevance = assessment.Relevance
		result.Rationale = assessment.Rationale
		return result
	case apperr.IsRateLimit(err):
		a.logger.Warn("provider rate limit exhausted",
			zap.String("repository", repo.FullName),
			zap.Error(err),
		)
		return result.degrade(RationaleRateLimited)
	case errors.Is(err, apperr.ErrParse):
		a.logger.Warn("model output could not be parsed",
			zap.String("repository", repo.FullName),
			zap.Error(err),
		)
		return result.degrade(RationaleUnparseable)
	default:
		a.logger.Warn("scoring failed",
			zap.String("repository", repo.FullName),
			zap.Error(err),
		)
		return result.degrade(fmt.Sprintf("scoring failed: %v", err))
	}
}
