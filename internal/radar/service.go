package radar

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/reporadar/reporadar-backend/internal/cache"
	apiErrors "github.com/reporadar/reporadar-backend/internal/errors"
	radardb "github.com/reporadar/reporadar-backend/internal/radar/gen"
	"github.com/reporadar/reporadar-backend/internal/radar/picker"
	"github.com/reporadar/reporadar-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// maxRadarNameLength bounds radar names; longer names break the dashboard
// sidebar layout.
const maxRadarNameLength = 100

// NewRadarService creates a new RadarService instance with the provided dependencies.
// Sessions live in the cache under a per-user key and expire after sessionTTL
// of inactivity.
func NewRadarService(logger *logrus.Logger, radarRepo radardb.Querier, sessions cache.Cache, limits Limits, sessionTTL time.Duration) *RadarService {
	return &RadarService{
		logger:     logger,
		radarRepo:  radarRepo,
		sessions:   sessions,
		limits:     limits,
		sessionTTL: sessionTTL,
	}
}

// RadarService provides business logic for radar groups: CRUD, repo
// membership, and the hosting of picker editing sessions.
type RadarService struct {
	logger     *logrus.Logger
	radarRepo  radardb.Querier
	sessions   cache.Cache
	limits     Limits
	sessionTTL time.Duration
}

// Limits returns the configured per-user guardrails.
func (s *RadarService) Limits() Limits {
	return s.limits
}

// CreateRadar creates a radar for the calling user. Names are unique per
// user (case-insensitive); the per-user radar count is capped.
func (s *RadarService) CreateRadar(ctx context.Context, userID string, req CreateRadarRequest) (*radardb.Radar, error) {
	name := strings.TrimSpace(req.Name)

	s.logger.WithFields(logrus.Fields{
		"userID":    userID,
		"radarName": name,
	}).Info("Creating radar in database")

	if name == "" || utf8.RuneCountInString(name) > maxRadarNameLength {
		s.logger.WithFields(logrus.Fields{
			"userID":    userID,
			"radarName": name,
		}).Warn("Radar creation failed: name not allowed")
		return nil, apiErrors.ErrRadarNameNotAllowed
	}

	uid := uuid.MustParse(userID)
	count, err := s.radarRepo.CountRadarsByUser(ctx, uid)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID": userID,
			"error":  err.Error(),
		}).Error("Failed to count radars for user")
		return nil, err
	}
	if count >= int64(s.limits.MaxRadarsPerUser) {
		s.logger.WithFields(logrus.Fields{
			"userID": userID,
			"count":  count,
			"limit":  s.limits.MaxRadarsPerUser,
		}).Warn("Radar creation failed: per-user radar limit reached")
		return nil, apiErrors.ErrRadarLimitExceeded
	}

	params := radardb.CreateRadarParams{
		UserID:      uid,
		Name:        name,
		Description: utils.DerefString(req.Description),
	}
	radar, err := s.radarRepo.CreateRadar(ctx, params)
	if err != nil {
		if apiErrors.IsUniqueViolation(err) {
			s.logger.WithFields(logrus.Fields{
				"userID":    userID,
				"radarName": name,
			}).Warn("Radar creation failed: name already exists for user")
			return nil, apiErrors.ErrDuplicateRadar
		}
		s.logger.WithFields(logrus.Fields{
			"userID":    userID,
			"radarName": name,
			"error":     err.Error(),
		}).Error("Failed to create radar in database")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"userID":    userID,
		"radarID":   radar.ID.String(),
		"radarName": radar.Name,
	}).Info("Radar created successfully in database")

	return &radar, nil
}

// ListRadars returns the caller's radar catalog: every radar with its
// current member count.
func (s *RadarService) ListRadars(ctx context.Context, userID string) ([]radardb.ListRadarsByUserRow, error) {
	s.logger.WithFields(logrus.Fields{
		"userID": userID,
	}).Info("Fetching radars from database")

	radars, err := s.radarRepo.ListRadarsByUser(ctx, uuid.MustParse(userID))
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID": userID,
			"error":  err.Error(),
		}).Error("Failed to fetch radars from database")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"userID": userID,
		"count":  len(radars),
	}).Info("Radars fetched successfully from database")

	return radars, nil
}

// GetRadar fetches one radar owned by the caller. Malformed, unknown, and
// foreign IDs all come back as ErrRadarNotFound so existence is not leaked.
func (s *RadarService) GetRadar(ctx context.Context, userID, radarID string) (*radardb.Radar, error) {
	return s.getOwnedRadar(ctx, userID, radarID)
}

// UpdateRadar renames a radar or edits its description.
func (s *RadarService) UpdateRadar(ctx context.Context, userID, radarID string, req UpdateRadarRequest) (*radardb.Radar, error) {
	name := strings.TrimSpace(req.Name)

	s.logger.WithFields(logrus.Fields{
		"userID":    userID,
		"radarID":   radarID,
		"radarName": name,
	}).Info("Updating radar in database")

	if name == "" || utf8.RuneCountInString(name) > maxRadarNameLength {
		s.logger.WithFields(logrus.Fields{
			"userID":    userID,
			"radarID":   radarID,
			"radarName": name,
		}).Warn("Radar update failed: name not allowed")
		return nil, apiErrors.ErrRadarNameNotAllowed
	}

	rid, err := uuid.Parse(radarID)
	if err != nil {
		return nil, apiErrors.ErrRadarNotFound
	}
	params := radardb.UpdateRadarParams{
		ID:          rid,
		UserID:      uuid.MustParse(userID),
		Name:        name,
		Description: utils.DerefString(req.Description),
	}
	radar, err := s.radarRepo.UpdateRadar(ctx, params)
	if err != nil {
		if err == sql.ErrNoRows {
			s.logger.WithFields(logrus.Fields{
				"userID":  userID,
				"radarID": radarID,
			}).Warn("Radar update failed: radar not found")
			return nil, apiErrors.ErrRadarNotFound
		}
		if apiErrors.IsUniqueViolation(err) {
			s.logger.WithFields(logrus.Fields{
				"userID":    userID,
				"radarID":   radarID,
				"radarName": name,
			}).Warn("Radar update failed: name already exists for user")
			return nil, apiErrors.ErrDuplicateRadar
		}
		s.logger.WithFields(logrus.Fields{
			"userID":  userID,
			"radarID": radarID,
			"error":   err.Error(),
		}).Error("Failed to update radar in database")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"userID":  userID,
		"radarID": radarID,
	}).Info("Radar updated successfully in database")

	return &radar, nil
}

// DeleteRadar removes a radar and, via cascade, its membership rows.
// Picker sessions still referencing the radar keep running; their next save
// records a not-found failure for it.
func (s *RadarService) DeleteRadar(ctx context.Context, userID, radarID string) error {
	s.logger.WithFields(logrus.Fields{
		"userID":  userID,
		"radarID": radarID,
	}).Info("Deleting radar from database")

	rid, err := uuid.Parse(radarID)
	if err != nil {
		return apiErrors.ErrRadarNotFound
	}
	res, err := s.radarRepo.DeleteRadar(ctx, radardb.DeleteRadarParams{
		ID:     rid,
		UserID: uuid.MustParse(userID),
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID":  userID,
			"radarID": radarID,
			"error":   err.Error(),
		}).Error("Failed to delete radar from database")
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID":  userID,
			"radarID": radarID,
			"error":   err.Error(),
		}).Error("Failed to get rows affected count for radar deletion")
		return err
	}
	if rowsAffected == 0 {
		s.logger.WithFields(logrus.Fields{
			"userID":  userID,
			"radarID": radarID,
		}).Warn("Radar deletion failed: radar not found")
		return apiErrors.ErrRadarNotFound
	}

	s.logger.WithFields(logrus.Fields{
		"userID":  userID,
		"radarID": radarID,
	}).Info("Radar deleted successfully from database")

	return nil
}

// ListRadarRepos returns the repositories tracked by one radar.
func (s *RadarService) ListRadarRepos(ctx context.Context, userID, radarID string) ([]radardb.ListRadarReposRow, error) {
	radar, err := s.getOwnedRadar(ctx, userID, radarID)
	if err != nil {
		return nil, err
	}

	repos, err := s.radarRepo.ListRadarRepos(ctx, radar.ID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID":  userID,
			"radarID": radarID,
			"error":   err.Error(),
		}).Error("Failed to fetch radar repos from database")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"userID":  userID,
		"radarID": radarID,
		"count":   len(repos),
	}).Info("Radar repos fetched successfully from database")

	return repos, nil
}

// AddRepoToRadar persists the repo snapshot and adds it to the radar.
// This is the direct-add path; the picker goes through AddMembership since
// it upserts the snapshot once at session open.
func (s *RadarService) AddRepoToRadar(ctx context.Context, userID, radarID string, snapshot RepoSnapshot) error {
	if _, err := s.upsertRepo(ctx, snapshot); err != nil {
		return err
	}
	return s.AddMembership(ctx, userID, radarID, snapshot.GithubID)
}

// AddMembership adds a repo that is already tracked to one of the caller's
// radars. Duplicate membership and the per-radar repo cap are reported as
// typed errors so callers can surface them per entry.
func (s *RadarService) AddMembership(ctx context.Context, userID, radarID string, githubID int64) error {
	radar, err := s.getOwnedRadar(ctx, userID, radarID)
	if err != nil {
		return err
	}

	count, err := s.radarRepo.CountRadarRepos(ctx, radar.ID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID":  userID,
			"radarID": radarID,
			"error":   err.Error(),
		}).Error("Failed to count radar repos")
		return err
	}
	if count >= int64(s.limits.MaxReposPerRadar) {
		s.logger.WithFields(logrus.Fields{
			"userID":  userID,
			"radarID": radarID,
			"count":   count,
			"limit":   s.limits.MaxReposPerRadar,
		}).Warn("Add membership failed: per-radar repo limit reached")
		return apiErrors.ErrRadarRepoLimitExceeded
	}

	err = s.radarRepo.AddRadarRepo(ctx, radardb.AddRadarRepoParams{
		RadarID:      radar.ID,
		RepoGithubID: githubID,
	})
	if apiErrors.IsUniqueViolation(err) {
		s.logger.WithFields(logrus.Fields{
			"userID":   userID,
			"radarID":  radarID,
			"githubID": githubID,
		}).Warn("Add membership failed: repo already on radar")
		return apiErrors.ErrDuplicateRadarRepo
	}
	if apiErrors.IsForeignKeyViolation(err) {
		s.logger.WithFields(logrus.Fields{
			"userID":   userID,
			"radarID":  radarID,
			"githubID": githubID,
		}).Warn("Add membership failed: repo not tracked")
		return apiErrors.ErrRepoNotFound
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID":   userID,
			"radarID":  radarID,
			"githubID": githubID,
			"error":    err.Error(),
		}).Error("Failed to add repo to radar in database")
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"userID":   userID,
		"radarID":  radarID,
		"githubID": githubID,
	}).Info("Repo added to radar successfully")

	return nil
}

// RemoveMembership removes a repo from one of the caller's radars.
func (s *RadarService) RemoveMembership(ctx context.Context, userID, radarID string, githubID int64) error {
	radar, err := s.getOwnedRadar(ctx, userID, radarID)
	if err != nil {
		return err
	}

	res, err := s.radarRepo.RemoveRadarRepo(ctx, radardb.RemoveRadarRepoParams{
		RadarID:      radar.ID,
		RepoGithubID: githubID,
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID":   userID,
			"radarID":  radarID,
			"githubID": githubID,
			"error":    err.Error(),
		}).Error("Failed to remove repo from radar in database")
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID":   userID,
			"radarID":  radarID,
			"githubID": githubID,
			"error":    err.Error(),
		}).Error("Failed to get rows affected count for membership removal")
		return err
	}
	if rowsAffected == 0 {
		s.logger.WithFields(logrus.Fields{
			"userID":   userID,
			"radarID":  radarID,
			"githubID": githubID,
		}).Warn("Remove membership failed: repo not on radar")
		return apiErrors.ErrRadarRepoNotFound
	}

	s.logger.WithFields(logrus.Fields{
		"userID":   userID,
		"radarID":  radarID,
		"githubID": githubID,
	}).Info("Repo removed from radar successfully")

	return nil
}

// ListRadarsContaining returns the IDs of the caller's radars that track
// the given repo. This is the baseline a picker session starts from.
func (s *RadarService) ListRadarsContaining(ctx context.Context, userID string, githubID int64) ([]string, error) {
	ids, err := s.radarRepo.ListRadarsContainingRepo(ctx, radardb.ListRadarsContainingRepoParams{
		RepoGithubID: githubID,
		UserID:       uuid.MustParse(userID),
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID":   userID,
			"githubID": githubID,
			"error":    err.Error(),
		}).Error("Failed to fetch radars containing repo")
		return nil, err
	}

	return lo.Map(ids, func(id uuid.UUID, _ int) string {
		return id.String()
	}), nil
}

// OpenPicker starts a membership editing session for one repository: the
// snapshot is persisted, the baseline is loaded, and the session is parked
// in the cache under a fresh ID until saved, discarded, or expired.
// Nothing stops two sessions over the same repo; each is race-safe on its
// own, and the last save to reach the store wins.
func (s *RadarService) OpenPicker(ctx context.Context, userID string, req OpenPickerRequest) (*PickerSessionResponseData, error) {
	s.logger.WithFields(logrus.Fields{
		"userID":   userID,
		"githubID": req.Repo.GithubID,
	}).Info("Opening picker session")

	if _, err := s.upsertRepo(ctx, req.Repo); err != nil {
		return nil, err
	}
	baseline, err := s.ListRadarsContaining(ctx, userID, req.Repo.GithubID)
	if err != nil {
		return nil, err
	}

	session := picker.NewSession(req.Repo.GithubID, baseline, &sessionMutator{svc: s, userID: userID})
	sessionID := uuid.NewString()
	s.sessions.Set(ctx, s.sessionKey(userID, sessionID), session, s.sessionTTL)

	s.logger.WithFields(logrus.Fields{
		"userID":    userID,
		"githubID":  req.Repo.GithubID,
		"sessionID": sessionID,
		"baseline":  len(baseline),
	}).Info("Picker session opened")

	return s.pickerResponse(ctx, userID, sessionID, session)
}

// GetPicker returns the current state of a picker session together with a
// fresh radar catalog.
func (s *RadarService) GetPicker(ctx context.Context, userID, sessionID string) (*PickerSessionResponseData, error) {
	session, err := s.lookupSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.pickerResponse(ctx, userID, sessionID, session)
}

// TogglePicker flips one radar's desired membership within a session and
// acknowledges with the new checked state.
func (s *RadarService) TogglePicker(ctx context.Context, userID, sessionID, radarID string) (*PickerToggleResponseData, error) {
	session, err := s.lookupSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	checked, err := session.Toggle(radarID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID":    userID,
			"sessionID": sessionID,
			"radarID":   radarID,
		}).Warn("Toggle rejected: save in flight")
		return nil, err
	}

	return &PickerToggleResponseData{
		RadarID:           radarID,
		Checked:           checked,
		HasUnsavedChanges: session.HasUnsavedChanges(),
	}, nil
}

// SavePicker commits a session's pending toggles. The returned error is
// ErrSaveInFlight when another save is running, or the first mutation
// failure of a partial save; response data is populated in the latter case
// so callers still see every per-entry outcome.
func (s *RadarService) SavePicker(ctx context.Context, userID, sessionID string) (*PickerSaveResponseData, error) {
	session, err := s.lookupSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"userID":    userID,
		"sessionID": sessionID,
	}).Info("Saving picker session")

	outcomes, err := session.Save(ctx)
	if err == apiErrors.ErrSaveInFlight {
		return nil, err
	}

	resp := &PickerSaveResponseData{
		Outcomes: outcomes,
		State:    session.Snapshot(),
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID":    userID,
			"sessionID": sessionID,
			"outcomes":  len(outcomes),
			"error":     err.Error(),
		}).Warn("Picker save completed with failures")
		return resp, err
	}

	s.logger.WithFields(logrus.Fields{
		"userID":    userID,
		"sessionID": sessionID,
		"outcomes":  len(outcomes),
	}).Info("Picker session saved successfully")

	return resp, nil
}

// DiscardPicker drops a session without issuing remote calls. A save still
// in flight completes against the detached session; nothing observes its
// result afterwards.
func (s *RadarService) DiscardPicker(ctx context.Context, userID, sessionID string) error {
	if _, err := s.lookupSession(ctx, userID, sessionID); err != nil {
		return err
	}
	s.sessions.Delete(ctx, s.sessionKey(userID, sessionID))

	s.logger.WithFields(logrus.Fields{
		"userID":    userID,
		"sessionID": sessionID,
	}).Info("Picker session discarded")

	return nil
}

// getOwnedRadar resolves radarID for the calling user. Malformed, unknown,
// and foreign IDs all map to ErrRadarNotFound.
func (s *RadarService) getOwnedRadar(ctx context.Context, userID, radarID string) (*radardb.Radar, error) {
	rid, err := uuid.Parse(radarID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID":  userID,
			"radarID": radarID,
		}).Warn("Radar lookup failed: malformed id")
		return nil, apiErrors.ErrRadarNotFound
	}

	radar, err := s.radarRepo.GetRadarById(ctx, radardb.GetRadarByIdParams{
		ID:     rid,
		UserID: uuid.MustParse(userID),
	})
	if err != nil {
		if err == sql.ErrNoRows {
			s.logger.WithFields(logrus.Fields{
				"userID":  userID,
				"radarID": radarID,
			}).Warn("Radar not found in database")
			return nil, apiErrors.ErrRadarNotFound
		}
		s.logger.WithFields(logrus.Fields{
			"userID":  userID,
			"radarID": radarID,
			"error":   err.Error(),
		}).Error("Failed to fetch radar from database")
		return nil, err
	}

	return &radar, nil
}

// upsertRepo persists the metadata snapshot for a repository the user wants
// tracked. Snapshots refresh on every sighting; GitHub stays authoritative.
func (s *RadarService) upsertRepo(ctx context.Context, snapshot RepoSnapshot) (*radardb.Repo, error) {
	repo, err := s.radarRepo.UpsertRepo(ctx, radardb.UpsertRepoParams{
		GithubID:        snapshot.GithubID,
		FullName:        snapshot.FullName,
		Description:     utils.DerefString(snapshot.Description),
		HtmlUrl:         snapshot.HtmlUrl,
		StargazersCount: snapshot.StargazersCount,
		Language:        utils.DerefString(snapshot.Language),
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"githubID": snapshot.GithubID,
			"fullName": snapshot.FullName,
			"error":    err.Error(),
		}).Error("Failed to upsert repo snapshot in database")
		return nil, err
	}
	return &repo, nil
}

// pickerResponse assembles the one-round-trip payload the picker dialog
// renders from: session state plus the caller's current catalog.
func (s *RadarService) pickerResponse(ctx context.Context, userID, sessionID string, session *picker.Session) (*PickerSessionResponseData, error) {
	radars, err := s.ListRadars(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PickerSessionResponseData{
		SessionID: sessionID,
		State:     session.Snapshot(),
		Radars: lo.Map(radars, func(r radardb.ListRadarsByUserRow, _ int) RadarListRow {
			return ToRadarListRow(r)
		}),
	}, nil
}

func (s *RadarService) sessionKey(userID, sessionID string) string {
	return cache.GenerateKey(cache.PrefixPickerSession, userID, sessionID)
}

// lookupSession fetches a live session for its owner. Every hit re-arms the
// TTL so an active dialog never expires under the user.
func (s *RadarService) lookupSession(ctx context.Context, userID, sessionID string) (*picker.Session, error) {
	v, found := s.sessions.Get(ctx, s.sessionKey(userID, sessionID))
	if !found {
		s.logger.WithFields(logrus.Fields{
			"userID":    userID,
			"sessionID": sessionID,
		}).Warn("Picker session not found or expired")
		return nil, apiErrors.ErrPickerSessionNotFound
	}
	session, ok := v.(*picker.Session)
	if !ok {
		return nil, apiErrors.ErrPickerSessionNotFound
	}
	s.sessions.Set(ctx, s.sessionKey(userID, sessionID), session, s.sessionTTL)
	return session, nil
}

// sessionMutator binds a picker session's remote calls to the user that
// opened it, so ownership checks travel with every mutation.
type sessionMutator struct {
	svc    *RadarService
	userID string
}

func (m *sessionMutator) AddRepo(ctx context.Context, radarID string, repoID int64) error {
	return m.svc.AddMembership(ctx, m.userID, radarID, repoID)
}

func (m *sessionMutator) RemoveRepo(ctx context.Context, radarID string, repoID int64) error {
	return m.svc.RemoveMembership(ctx, m.userID, radarID, repoID)
}
