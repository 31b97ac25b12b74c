// Package github wraps the GitHub REST API for profile extraction: user
// profile, repository listing and per-repository README content.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/repofit/repofit/internal/apperr"
	"github.com/repofit/repofit/internal/retry"

	gogithub "github.com/google/go-github/v53/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Max value for repository listing per page.
const perPage = 100

// Credentials holds GitHub API credentials. Token wins over the
// client id/secret pair; with neither set the client is anonymous and
// subject to the low unauthenticated rate limits.
type Credentials struct {
	Token        string
	ClientID     string
	ClientSecret string
}

type Client struct {
	api    *gogithub.Client
	logger *zap.Logger
}

func New(ctx context.Context, logger *zap.Logger, creds Credentials) *Client {
	var httpClient *http.Client

	switch {
	case creds.Token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	case creds.ClientID != "" && creds.ClientSecret != "":
		transport := &gogithub.BasicAuthTransport{
			Username: creds.ClientID,
			Password: creds.ClientSecret,
		}
		httpClient = transport.Client()
	default:
		logger.Warn("no GitHub credentials configured, using anonymous access",
			zap.String("hint", "set GITHUB_TOKEN or GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET"),
		)
	}

	return &Client{
		api:    gogithub.NewClient(httpClient),
		logger: logger,
	}
}

// FetchProfile returns the user's profile snapshot.
func (c *Client) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	var user *gogithub.User

	err := c.call(ctx, func() error {
		var apiErr error
		user, _, apiErr = c.api.Users.Get(ctx, username)
		return apiErr
	})
	if err != nil {
		return nil, fmt.Errorf("fetching profile for %q: %w", username, err)
	}

	return &Profile{
		Username:    user.GetLogin(),
		Name:        user.GetName(),
		Bio:         user.GetBio(),
		Location:    user.GetLocation(),
		Company:     user.GetCompany(),
		Blog:        user.GetBlog(),
		Email:       user.GetEmail(),
		AvatarURL:   user.GetAvatarURL(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		PublicRepos: user.GetPublicRepos(),
		CreatedAt:   user.GetCreatedAt().Time,
	}, nil
}

// FetchRepositories returns all of the user's repositories, walking every
// page of the listing. Forks are included; filtering is the caller's call.
func (c *Client) FetchRepositories(ctx context.Context, username string) (*Repositories, error) {
	opts := &gogithub.RepositoryListOptions{
		Sort: "updated",
		ListOptions: gogithub.ListOptions{
			PerPage: perPage,
		},
	}

	repos := &Repositories{}
	for {
		var (
			page []*gogithub.Repository
			resp *gogithub.Response
		)

		err := c.call(ctx, func() error {
			var apiErr error
			page, resp, apiErr = c.api.Repositories.List(ctx, username, opts)
			return apiErr
		})
		if err != nil {
			return nil, fmt.Errorf("listing repositories for %q: %w", username, err)
		}

		for _, item := range page {
			repos.Items = append(repos.Items, &Repository{
				Name:        item.GetName(),
				FullName:    item.GetFullName(),
				Description: item.GetDescription(),
				Language:    item.GetLanguage(),
				Stars:       item.GetStargazersCount(),
				Forks:       item.GetForksCount(),
				Fork:        item.GetFork(),
				URL:         item.GetHTMLURL(),
				CreatedAt:   item.GetCreatedAt().Time,
				UpdatedAt:   item.GetUpdatedAt().Time,
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}

		c.logger.Debug("additional request needed",
			zap.Int("next_page", resp.NextPage),
			zap.Int("fetched", repos.Len()),
		)
		opts.Page = resp.NextPage
	}

	return repos, nil
}

// FetchReadme returns the decoded README text for an owner/name repository.
// A repository without a README yields apperr.ErrNoReadme so the caller can
// apply the zero-score policy instead of failing the run.
func (c *Client) FetchReadme(ctx context.Context, fullName string) (string, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok {
		return "", fmt.Errorf("invalid repository full name %q", fullName)
	}

	var content *gogithub.RepositoryContent
	err := c.call(ctx, func() error {
		var apiErr error
		content, _, apiErr = c.api.Repositories.GetReadme(ctx, owner, name, nil)
		return apiErr
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.ErrNoReadme
		}
		return "", fmt.Errorf("fetching README for %q: %w", fullName, err)
	}

	text, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding README for %q: %w", fullName, err)
	}

	return text, nil
}

// call runs a single API operation, classifying errors into the taxonomy
// and retrying rate-limited calls with backoff.
func (c *Client) call(ctx context.Context, fn func() error) error {
	return retry.Do(ctx, func() error {
		return apperr.FromGitHub(fn())
	},
		retry.WithMaxRetries(3),
		retry.WithInitialDelay(2*time.Second),
		retry.WithRetryIf(apperr.IsRateLimit),
	)
}
