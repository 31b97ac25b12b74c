// Package apperr defines the error taxonomy shared by the extractor and the
// analyzer. Callers classify failures with errors.Is against the sentinels
// below and decide whether to abort the run or degrade a single item.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v53/github"
)

var (
	// ErrAuth means credentials are missing or rejected. Always fatal.
	ErrAuth = errors.New("authentication failed")
	// ErrNotFound means the requested user or resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRateLimit means the remote API throttled the call. Retryable.
	ErrRateLimit = errors.New("rate limited")
	// ErrParse means the model output contained no usable score.
	ErrParse = errors.New("unparseable response")
	// ErrConfig means no usable provider or credential is configured.
	ErrConfig = errors.New("configuration error")
	// ErrNoReadme marks a repository without a README. Not a failure:
	// such repositories are scored zero by fixed policy.
	ErrNoReadme = errors.New("no README found")
)

// Wrap attaches a sentinel to err so that both errors.Is(err, sentinel) and
// the original error chain keep working.
func Wrap(sentinel, err error) error {
	if err == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// FromGitHub maps a go-github error to the taxonomy. Errors outside the
// taxonomy are returned unchanged.
func FromGitHub(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return Wrap(ErrRateLimit, err)
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return Wrap(ErrRateLimit, err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return Wrap(ErrNotFound, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return Wrap(ErrAuth, err)
		case http.StatusTooManyRequests:
			return Wrap(ErrRateLimit, err)
		}
	}

	return err
}

// IsRateLimit reports whether err should be retried with backoff.
func IsRateLimit(err error) bool {
	return errors.Is(err, ErrRateLimit)
}
