package service

import (
	"context"
	"time"

	"github.com/ridloal/blood-portal/internal/activity/domain"
	"github.com/ridloal/blood-portal/internal/activity/repository"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	recordTimeout    = 3 * time.Second
)

// Recorder is the write side other services depend on.
type Recorder interface {
	Record(ctx context.Context, entry domain.Entry)
}

type ActivityService interface {
	Recorder
	List(ctx context.Context, institutionID string, actions []domain.Action, limit int) ([]domain.Entry, error)
}

type activityServiceImpl struct {
	repo repository.ActivityRepository
}

// NewActivityService accepts a nil repository; the journal is then disabled.
func NewActivityService(repo repository.ActivityRepository) ActivityService {
	return &activityServiceImpl{repo: repo}
}

// Record is best-effort: it never fails the action that triggered it.
func (s *activityServiceImpl) Record(ctx context.Context, entry domain.Entry) {
	if s.repo == nil {
		return
	}
	// Request bisa sudah selesai, tetap simpan
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := s.repo.Insert(ctx, &entry); err != nil {
		logger.Error("ActivityService.Record: failed to store entry", err, map[string]interface{}{
			"action":      string(entry.Action),
			"resource_id": entry.ResourceID,
		})
	}
}

func (s *activityServiceImpl) List(ctx context.Context, institutionID string, actions []domain.Action, limit int) ([]domain.Entry, error) {
	if s.repo == nil {
		return []domain.Entry{}, nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.List(ctx, domain.ListFilter{InstitutionID: institutionID, Actions: actions, Limit: limit})
}

// RecordOutcome journals a backend mutation with the message the user was shown.
func RecordOutcome(ctx context.Context, r Recorder, sess *session.Session, action domain.Action, resourceType, resourceID string, result *apiclient.MutationResult, err error) {
	if r == nil || sess == nil {
		return
	}
	entry := domain.Entry{
		InstitutionID: sess.InstitutionID,
		UserID:        sess.UserID,
		Action:        action,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
		Success:       err == nil,
	}
	if err != nil {
		_, entry.Message = apiclient.StatusFor(err)
	} else if result != nil {
		entry.Message = result.Message
	}
	r.Record(ctx, entry)
}
