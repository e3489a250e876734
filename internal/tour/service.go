package tour

import (
	"context"
	"database/sql"

	tourdb "github.com/reporadar/reporadar-backend/internal/tour/gen"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewTourService creates a new instance of TourService.
func NewTourService(logger *logrus.Logger, repository tourdb.Querier) *TourService {
	return &TourService{
		logger:   logger,
		tourRepo: repository,
	}
}

// TourService sequences the onboarding tour for a user. All it does is
// step-index arithmetic over Steps; the persisted row is the single source
// of truth so progress follows the user across devices.
type TourService struct {
	logger   *logrus.Logger
	tourRepo tourdb.Querier
}

// Get returns the user's tour progress, seeding a row at the first step the
// first time the user is seen.
func (s *TourService) Get(ctx context.Context, userID string) (*ProgressResponseData, error) {
	row, err := s.progress(ctx, uuid.MustParse(userID))
	if err != nil {
		return nil, err
	}
	return toProgress(row), nil
}

// Advance moves the tour one step forward. Advancing past the last step
// marks the tour completed; a completed tour stays completed.
func (s *TourService) Advance(ctx context.Context, userID string) (*ProgressResponseData, error) {
	uid := uuid.MustParse(userID)
	current, err := s.progress(ctx, uid)
	if err != nil {
		return nil, err
	}
	if current.Completed {
		return toProgress(current), nil
	}

	next := current.StepIndex + 1
	completed := false
	if next >= int32(len(Steps)) {
		next = int32(len(Steps)) - 1
		completed = true
	}

	row, err := s.tourRepo.UpsertTourProgress(ctx, tourdb.UpsertTourProgressParams{
		UserID:    uid,
		StepIndex: next,
		Completed: completed,
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID": userID,
			"error":  err.Error(),
		}).Error("Failed to advance tour")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"userID":    userID,
		"stepIndex": row.StepIndex,
		"completed": row.Completed,
	}).Info("Advanced tour")
	return toProgress(row), nil
}

// Back moves the tour one step backwards, clamping at the first step.
// Once the tour is completed there is nothing to step back into.
func (s *TourService) Back(ctx context.Context, userID string) (*ProgressResponseData, error) {
	uid := uuid.MustParse(userID)
	current, err := s.progress(ctx, uid)
	if err != nil {
		return nil, err
	}
	if current.Completed {
		return toProgress(current), nil
	}

	prev := current.StepIndex - 1
	if prev < 0 {
		prev = 0
	}

	row, err := s.tourRepo.UpsertTourProgress(ctx, tourdb.UpsertTourProgressParams{
		UserID:    uid,
		StepIndex: prev,
		Completed: false,
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID": userID,
			"error":  err.Error(),
		}).Error("Failed to step tour back")
		return nil, err
	}

	return toProgress(row), nil
}

// Skip marks the tour completed at whatever step the user bailed on.
func (s *TourService) Skip(ctx context.Context, userID string) (*ProgressResponseData, error) {
	uid := uuid.MustParse(userID)
	current, err := s.progress(ctx, uid)
	if err != nil {
		return nil, err
	}

	row, err := s.tourRepo.UpsertTourProgress(ctx, tourdb.UpsertTourProgressParams{
		UserID:    uid,
		StepIndex: current.StepIndex,
		Completed: true,
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID": userID,
			"error":  err.Error(),
		}).Error("Failed to skip tour")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"userID":    userID,
		"stepIndex": row.StepIndex,
	}).Info("Skipped tour")
	return toProgress(row), nil
}

// Reset puts the tour back at the first step, not completed, so the user
// can replay it.
func (s *TourService) Reset(ctx context.Context, userID string) (*ProgressResponseData, error) {
	row, err := s.tourRepo.UpsertTourProgress(ctx, tourdb.UpsertTourProgressParams{
		UserID:    uuid.MustParse(userID),
		StepIndex: 0,
		Completed: false,
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID": userID,
			"error":  err.Error(),
		}).Error("Failed to reset tour")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"userID": userID,
	}).Info("Reset tour")
	return toProgress(row), nil
}

// progress loads the user's row, seeding the first step when none exists.
func (s *TourService) progress(ctx context.Context, uid uuid.UUID) (tourdb.TourProgress, error) {
	row, err := s.tourRepo.GetTourProgress(ctx, uid)
	if err == sql.ErrNoRows {
		row, err = s.tourRepo.UpsertTourProgress(ctx, tourdb.UpsertTourProgressParams{
			UserID:    uid,
			StepIndex: 0,
			Completed: false,
		})
		if err == nil {
			s.logger.WithFields(logrus.Fields{
				"userID": uid.String(),
			}).Info("Seeded tour progress at first step")
		}
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"userID": uid.String(),
			"error":  err.Error(),
		}).Error("Failed to load tour progress")
		return tourdb.TourProgress{}, err
	}
	return row, nil
}

func toProgress(row tourdb.TourProgress) *ProgressResponseData {
	// The step list can shrink between deploys, clamp before the id lookup.
	idx := int(row.StepIndex)
	if idx >= len(Steps) {
		idx = len(Steps) - 1
	}
	if idx < 0 {
		idx = 0
	}

	return &ProgressResponseData{
		StepIndex:  row.StepIndex,
		StepID:     Steps[idx],
		TotalSteps: len(Steps),
		Completed:  row.Completed,
	}
}
