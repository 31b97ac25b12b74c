package github

import (
	"sort"
	"time"
)

// Repository summarizes a single repository. Readme is filled lazily by the
// analyzer and stays empty in freshly extracted snapshots.
type Repository struct {
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Fork        bool      `json:"fork"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Readme      string    `json:"readme,omitempty"`
}

type Repositories struct {
	Items []*Repository
}

func (r *Repositories) Len() int {
	return len(r.Items)
}

// NonForks returns a new list holding only repositories the user owns
// outright. The input order is preserved.
func (r *Repositories) NonForks() *Repositories {
	result := &Repositories{}
	for _, repo := range r.Items {
		if !repo.Fork {
			result.Items = append(result.Items, repo)
		}
	}
	return result
}

func (r *Repositories) ForkCount() int {
	count := 0
	for _, repo := range r.Items {
		if repo.Fork {
			count++
		}
	}
	return count
}

// SortByUpdated orders repositories most-recently-updated first. The sort
// is stable so equal timestamps keep their API ordering.
func (r *Repositories) SortByUpdated() {
	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].UpdatedAt.After(r.Items[j].UpdatedAt)
	})
}

// Limit returns the first n repositories, or all of them when fewer exist.
func (r *Repositories) Limit(n int) *Repositories {
	if n < 0 || n >= len(r.Items) {
		return &Repositories{Items: r.Items}
	}
	return &Repositories{Items: r.Items[:n]}
}

func (r *Repositories) TotalStars() int {
	total := 0
	for _, repo := range r.Items {
		total += repo.Stars
	}
	return total
}

func (r *Repositories) TotalForks() int {
	total := 0
	for _, repo := range r.Items {
		total += repo.Forks
	}
	return total
}

// AggregateLanguages counts repositories by primary language. Pure function,
// no network calls; the result is used only for display.
func AggregateLanguages(repos *Repositories) map[string]int {
	languages := make(map[string]int)
	for _, repo := range repos.Items {
		if repo.Language == "" {
			continue
		}
		languages[repo.Language]++
	}
	return languages
}
