package service

import (
	"context"
	"errors"

	activityDomain "github.com/ridloal/blood-portal/internal/activity/domain"
	activityService "github.com/ridloal/blood-portal/internal/activity/service"
	"github.com/ridloal/blood-portal/internal/donor/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
)

var ErrNoDonorsSelected = errors.New("select at least one donor from the ranked list")

type DonorService interface {
	ListRanked(ctx context.Context, fulfillmentID string) ([]domain.RankedDonor, error)
	NotifySelected(ctx context.Context, sess *session.Session, fulfillmentID string, donorIDs []string) (*domain.NotifyResult, *apiclient.MutationResult, error)
}

type donorServiceImpl struct {
	client   DonorClient
	activity activityService.Recorder
}

func NewDonorService(dc DonorClient, ar activityService.Recorder) DonorService {
	return &donorServiceImpl{client: dc, activity: ar}
}

// ListRanked keeps the server order and only adds the display tier.
func (s *donorServiceImpl) ListRanked(ctx context.Context, fulfillmentID string) ([]domain.RankedDonor, error) {
	donors, err := s.client.ListRanked(ctx, fulfillmentID)
	if err != nil {
		return nil, err
	}
	for i := range donors {
		donors[i].Tier = domain.TierFor(donors[i].FinalScore)
	}
	return donors, nil
}

// NotifySelected forwards only ids that are on the current ranked list.
func (s *donorServiceImpl) NotifySelected(ctx context.Context, sess *session.Session, fulfillmentID string, donorIDs []string) (*domain.NotifyResult, *apiclient.MutationResult, error) {
	donors, err := s.client.ListRanked(ctx, fulfillmentID)
	if err != nil {
		return nil, nil, err
	}
	selection := NewSelection(donors)
	for _, id := range donorIDs {
		selection.Select(id)
	}
	if selection.Count() == 0 {
		return nil, nil, ErrNoDonorsSelected
	}
	if dropped := len(donorIDs) - selection.Count(); dropped > 0 {
		logger.Warn("DonorService.NotifySelected: ignored %d ids not on the ranked list of %s", dropped, fulfillmentID)
	}

	out, result, err := s.client.Notify(ctx, fulfillmentID, selection.IDs())
	activityService.RecordOutcome(ctx, s.activity, sess, activityDomain.ActionDonorsNotified, "fulfillment", fulfillmentID, result, err)
	if err != nil {
		logger.Error("DonorService.NotifySelected: backend call failed", err, map[string]interface{}{"fulfillment_id": fulfillmentID})
		return nil, result, err
	}
	return out, result, nil
}
