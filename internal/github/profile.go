package github

import "time"

// Profile is an immutable snapshot of a GitHub user, fetched once per run.
type Profile struct {
	Username    string    `json:"username"`
	Name        string    `json:"name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Location    string    `json:"location,omitempty"`
	Company     string    `json:"company,omitempty"`
	Blog        string    `json:"blog,omitempty"`
	Email       string    `json:"email,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"publicRepos"`
	CreatedAt   time.Time `json:"createdAt"`
}
