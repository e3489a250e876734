package ghfeed

import (
	"time"
)

// StarredRepo is the trimmed repo card the dashboard renders in the
// starred-repos view. It carries the same fields the radar module snapshots,
// so a card can be handed straight to the picker.
type StarredRepo struct {
	GithubID        int64     `json:"github_id"`
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	HtmlUrl         string    `json:"html_url"`
	StargazersCount int       `json:"stargazers_count"`
	Language        string    `json:"language"`
	StarredAt       time.Time `json:"starred_at"`
}

// Release is the trimmed release entry for the releases view.
type Release struct {
	ID          int64     `json:"id"`
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	HtmlUrl     string    `json:"html_url"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}
