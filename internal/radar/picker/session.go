package picker

import (
	"context"
	"sort"
	"sync"

	apiErrors "github.com/reporadar/reporadar-backend/internal/errors"
)

// Session tracks uncommitted radar membership toggles for one repository.
// It holds the last confirmed membership (baseline) plus the user's pending
// add/remove toggles, and reconciles them against the Mutator on Save.
//
// A session belongs to one picker dialog; two sessions editing the same
// repository are not coordinated (last writer wins at the store). Within a
// session all state is mutex-guarded, since HTTP hosting means toggle,
// save and discard requests can arrive concurrently.
type Session struct {
	mu            sync.Mutex
	repoID        int64
	baseline      map[string]struct{}
	pendingAdd    map[string]struct{}
	pendingRemove map[string]struct{}
	saveErr       error
	saving        bool
	mutator       Mutator
}

// NewSession opens an editing session for repoID seeded with the radar IDs
// the store currently reports as containing it. Pending sets start empty.
func NewSession(repoID int64, baseline []string, mutator Mutator) *Session {
	base := make(map[string]struct{}, len(baseline))
	for _, id := range baseline {
		base[id] = struct{}{}
	}
	return &Session{
		repoID:        repoID,
		baseline:      base,
		pendingAdd:    make(map[string]struct{}),
		pendingRemove: make(map[string]struct{}),
		mutator:       mutator,
	}
}

// RepoID returns the repository this session edits.
func (s *Session) RepoID() int64 {
	return s.repoID
}

// Toggle flips the desired membership of radarID and returns the new checked
// state. Toggling an entry back to its baseline state removes it from the
// pending set it occupied, so an on-then-off (or off-then-on) pair leaves no
// residue. Returns ErrSaveInFlight while a save is running.
func (s *Session) Toggle(radarID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saving {
		return s.isCheckedLocked(radarID), apiErrors.ErrSaveInFlight
	}

	if _, inBaseline := s.baseline[radarID]; inBaseline {
		if _, ok := s.pendingRemove[radarID]; ok {
			delete(s.pendingRemove, radarID)
		} else {
			s.pendingRemove[radarID] = struct{}{}
		}
	} else {
		if _, ok := s.pendingAdd[radarID]; ok {
			delete(s.pendingAdd, radarID)
		} else {
			s.pendingAdd[radarID] = struct{}{}
		}
	}

	return s.isCheckedLocked(radarID), nil
}

// IsChecked reports whether radarID renders as checked: a baseline member not
// pending removal, or a pending addition.
func (s *Session) IsChecked(radarID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isCheckedLocked(radarID)
}

func (s *Session) isCheckedLocked(radarID string) bool {
	if _, ok := s.pendingAdd[radarID]; ok {
		return true
	}
	if _, ok := s.baseline[radarID]; ok {
		_, removing := s.pendingRemove[radarID]
		return !removing
	}
	return false
}

// HasUnsavedChanges reports whether any toggle is still uncommitted.
func (s *Session) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pendingAdd) > 0 || len(s.pendingRemove) > 0
}

// Saving reports whether a save is currently in flight.
func (s *Session) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// SaveError returns the first failure recorded by the most recent save, or
// nil after a clean save or reset.
func (s *Session) SaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// Save issues one mutation per pending entry, all concurrently, and waits for
// every outcome before reconciling: no failure cancels the independent
// mutations next to it. Entries whose mutation succeeded leave their pending
// set immediately and fold into the baseline, so a retry after partial
// failure re-attempts only what is still pending and never re-issues an
// already-applied change. On any failure the first error is retained and
// returned alongside the per-entry outcomes.
//
// A save with nothing pending is a no-op success.
func (s *Session) Save(ctx context.Context) ([]Outcome, error) {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return nil, apiErrors.ErrSaveInFlight
	}
	if len(s.pendingAdd) == 0 && len(s.pendingRemove) == 0 {
		s.mu.Unlock()
		return nil, nil
	}

	muts := make([]mutation, 0, len(s.pendingAdd)+len(s.pendingRemove))
	for _, id := range sortedKeys(s.pendingAdd) {
		muts = append(muts, mutation{radarID: id, action: ActionAdd})
	}
	for _, id := range sortedKeys(s.pendingRemove) {
		muts = append(muts, mutation{radarID: id, action: ActionRemove})
	}
	s.saving = true
	s.mu.Unlock()

	outcomes := make([]Outcome, len(muts))
	errs := make([]error, len(muts))
	var wg sync.WaitGroup
	for i, m := range muts {
		wg.Add(1)
		go func(i int, m mutation) {
			defer wg.Done()
			var err error
			if m.action == ActionAdd {
				err = s.mutator.AddRepo(ctx, m.radarID, s.repoID)
			} else {
				err = s.mutator.RemoveRepo(ctx, m.radarID, s.repoID)
			}
			errs[i] = err
			outcomes[i] = Outcome{RadarID: m.radarID, Action: m.action, Success: err == nil}
			if err != nil {
				outcomes[i].Error = err.Error()
			}
		}(i, m)
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for i, o := range outcomes {
		if o.Success {
			if o.Action == ActionAdd {
				delete(s.pendingAdd, o.RadarID)
				s.baseline[o.RadarID] = struct{}{}
			} else {
				delete(s.pendingRemove, o.RadarID)
				delete(s.baseline, o.RadarID)
			}
		} else if firstErr == nil {
			firstErr = errs[i]
		}
	}
	s.saving = false
	s.saveErr = firstErr

	return outcomes, firstErr
}

// Reset discards pending toggles and any retained save error without touching
// the store. The baseline is kept as-is. Returns ErrSaveInFlight while a save
// is running.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saving {
		return apiErrors.ErrSaveInFlight
	}
	s.pendingAdd = make(map[string]struct{})
	s.pendingRemove = make(map[string]struct{})
	s.saveErr = nil
	return nil
}

// Snapshot returns a serializable view of the session.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	checked := make([]string, 0, len(s.baseline)+len(s.pendingAdd))
	for id := range s.baseline {
		if _, removing := s.pendingRemove[id]; !removing {
			checked = append(checked, id)
		}
	}
	checked = append(checked, sortedKeys(s.pendingAdd)...)
	sort.Strings(checked)

	st := State{
		RepoID:            s.repoID,
		Checked:           checked,
		PendingAdd:        sortedKeys(s.pendingAdd),
		PendingRemove:     sortedKeys(s.pendingRemove),
		HasUnsavedChanges: len(s.pendingAdd) > 0 || len(s.pendingRemove) > 0,
		Saving:            s.saving,
	}
	if s.saveErr != nil {
		st.SaveError = s.saveErr.Error()
	}
	return st
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
