package picker

import "context"

// Mutator applies one membership change against the backing store.
// Each call succeeds or fails independently; no batch endpoint is assumed.
type Mutator interface {
	AddRepo(ctx context.Context, radarID string, repoID int64) error
	RemoveRepo(ctx context.Context, radarID string, repoID int64) error
}

// Mutation actions reported in save outcomes.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Outcome is the result of one mutation attempted during a save.
type Outcome struct {
	RadarID string `json:"radar_id"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// State is a point-in-time view of a session, safe to hand to the HTTP layer.
type State struct {
	RepoID            int64    `json:"repo_id"`
	Checked           []string `json:"checked"`
	PendingAdd        []string `json:"pending_add"`
	PendingRemove     []string `json:"pending_remove"`
	HasUnsavedChanges bool     `json:"has_unsaved_changes"`
	Saving            bool     `json:"saving"`
	SaveError         string   `json:"save_error,omitempty"`
}

// mutation is one unit of work scheduled by Save.
type mutation struct {
	radarID string
	action  string
}
