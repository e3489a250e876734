package radar

import (
	"time"

	"github.com/reporadar/reporadar-backend/internal/radar/picker"
)

// Limits carries the per-user guardrails the service enforces. They are
// also exposed verbatim through the limits endpoint so the dashboard can
// explain a rejection before it happens.
type Limits struct {
	MaxRadarsPerUser int `json:"max_radars_per_user"`
	MaxReposPerRadar int `json:"max_repos_per_radar"`
}

// CreateRadarRequest is the payload for creating a radar.
type CreateRadarRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateRadarRequest is the payload for renaming a radar or editing its
// description.
type UpdateRadarRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// RepoSnapshot is the repository card the dashboard already holds when it
// asks us to track a repo. We persist it as metadata; GitHub remains the
// source of truth.
type RepoSnapshot struct {
	GithubID        int64  `json:"github_id" binding:"required"`
	FullName        string `json:"full_name" binding:"required"`
	Description     string `json:"description"`
	HtmlUrl         string `json:"html_url"`
	StargazersCount int32  `json:"stargazers_count"`
	Language        string `json:"language"`
}

// OpenPickerRequest opens a membership editing session for one repository.
type OpenPickerRequest struct {
	Repo RepoSnapshot `json:"repo" binding:"required"`
}

// TogglePickerRequest flips one radar's desired membership inside a session.
type TogglePickerRequest struct {
	RadarID string `json:"radar_id" binding:"required"`
}

// RadarResponseData is the wire shape of a single radar.
type RadarResponseData struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RadarListRow is a catalog row: one radar plus how many repos it tracks.
type RadarListRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RadarRepoRow is one tracked repository inside a radar.
type RadarRepoRow struct {
	GithubID        int64     `json:"github_id"`
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	HtmlUrl         string    `json:"html_url"`
	StargazersCount int32     `json:"stargazers_count"`
	Language        string    `json:"language"`
	AddedAt         time.Time `json:"added_at"`
}

// PickerSessionResponseData bundles the session state with the caller's
// radar catalog so the picker dialog renders in one round trip.
type PickerSessionResponseData struct {
	SessionID string         `json:"session_id"`
	State     picker.State   `json:"state"`
	Radars    []RadarListRow `json:"radars"`
}

// PickerToggleResponseData acknowledges a toggle with the new checked state,
// so the client never needs a follow-up query to learn what happened.
type PickerToggleResponseData struct {
	RadarID           string `json:"radar_id"`
	Checked           bool   `json:"checked"`
	HasUnsavedChanges bool   `json:"has_unsaved_changes"`
}

// PickerSaveResponseData reports the per-entry outcomes of a save pass plus
// the state left behind, which after a partial failure still holds the
// entries worth retrying.
type PickerSaveResponseData struct {
	Outcomes []picker.Outcome `json:"outcomes"`
	State    picker.State     `json:"state"`
}
