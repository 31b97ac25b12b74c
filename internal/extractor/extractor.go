// Package extractor builds a complete profile snapshot for one GitHub
// user: profile, repository list with forks filtered out, and a language
// aggregate. Any API failure aborts the whole extraction so the analyzer
// never sees partial data.
package extractor

import (
	"context"
	"fmt"

	"github.com/repofit/repofit/internal/github"

	"go.uber.org/zap"
)

// API is the slice of the GitHub client the extractor needs.
type API interface {
	FetchProfile(ctx context.Context, username string) (*github.Profile, error)
	FetchRepositories(ctx context.Context, username string) (*github.Repositories, error)
}

type Extractor struct {
	api    API
	logger *zap.Logger
}

func New(api API, logger *zap.Logger) *Extractor {
	return &Extractor{
		api:    api,
		logger: logger,
	}
}

// Run fetches everything for the given username and assembles a snapshot.
// The caller persists it; nothing is written here, so a failed run leaves
// no artifact at all.
func (e *Extractor) Run(ctx context.Context, username string) (*github.Snapshot, error) {
	profile, err := e.api.FetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	e.logger.Info("fetched profile",
		zap.String("username", profile.Username),
		zap.String("name", profile.Name),
		zap.Int("public_repos", profile.PublicRepos),
		zap.Int("followers", profile.Followers),
	)

	repos, err := e.api.FetchRepositories(ctx, username)
	if err != nil {
		return nil, err
	}

	own := repos.NonForks()
	e.logger.Info("filtered forked repositories",
		zap.Int("initial", repos.Len()),
		zap.Int("dropped", repos.ForkCount()),
		zap.Int("left", own.Len()),
	)

	languages := github.AggregateLanguages(repos)

	snapshot := &github.Snapshot{
		Profile:      profile,
		Repositories: own.Items,
		Languages:    languages,
		Stats: &github.Stats{
			TotalRepos:  repos.Len(),
			TotalStars:  repos.TotalStars(),
			TotalForks:  repos.TotalForks(),
			ForkedRepos: repos.ForkCount(),
		},
	}

	e.logger.Info("extraction complete",
		zap.Int("repositories", own.Len()),
		zap.Int("total_stars", snapshot.Stats.TotalStars),
		zap.Int("languages", len(languages)),
	)

	return snapshot, nil
}

// Validate rejects snapshots that cannot drive an analysis.
func Validate(snapshot *github.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is required")
	}
	if snapshot.Profile == nil || snapshot.Profile.Username == "" {
		return fmt.Errorf("snapshot has no profile; re-run the extract step")
	}
	return nil
}
