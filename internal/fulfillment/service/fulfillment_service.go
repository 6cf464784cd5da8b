package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	activityDomain "github.com/ridloal/blood-portal/internal/activity/domain"
	activityService "github.com/ridloal/blood-portal/internal/activity/service"
	"github.com/ridloal/blood-portal/internal/fulfillment/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/scheduler"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/ridloal/blood-portal/internal/platform/sse"
)

var (
	ErrReasonRequired  = errors.New("a cancellation reason is required")
	ErrCannotInitiate  = errors.New("fulfillment can only be initiated from the initiated status")
	ErrAlreadyTerminal = errors.New("fulfillment is already finished")
)

const EventProgress = "fulfillment_progress"

// Topic is the SSE topic for one fulfillment's progress.
func Topic(id string) string {
	return "fulfillment:" + id
}

type FulfillmentService interface {
	GetDetail(ctx context.Context, id string) (*domain.FulfillmentDetail, error)
	ListConfirmations(ctx context.Context, id string) ([]domain.DonorConfirmation, error)
	Initiate(ctx context.Context, sess *session.Session, id string) (*apiclient.MutationResult, error)
	Cancel(ctx context.Context, sess *session.Session, id, reason string) (*apiclient.MutationResult, error)
	Stats(ctx context.Context, pmiID string) (*domain.FulfillmentStats, error)
	// Watch starts (or joins) the polling fallback for id and returns the current detail.
	Watch(ctx context.Context, id string) (*domain.FulfillmentDetail, error)
	Unwatch(id string)
}

type watch struct {
	refs int
	task *scheduler.Task
	last []byte
	// ctx of the most recent viewer; polling uses its token
	ctx context.Context
}

type fulfillmentServiceImpl struct {
	client       FulfillmentClient
	activity     activityService.Recorder
	hub          *sse.Hub
	sched        *scheduler.Scheduler
	pollInterval time.Duration

	mu      sync.Mutex
	watches map[string]*watch
}

func NewFulfillmentService(fc FulfillmentClient, ar activityService.Recorder, hub *sse.Hub, sched *scheduler.Scheduler, pollInterval time.Duration) FulfillmentService {
	return &fulfillmentServiceImpl{
		client:       fc,
		activity:     ar,
		hub:          hub,
		sched:        sched,
		pollInterval: pollInterval,
		watches:      make(map[string]*watch),
	}
}

func (s *fulfillmentServiceImpl) GetDetail(ctx context.Context, id string) (*domain.FulfillmentDetail, error) {
	f, err := s.client.GetFulfillment(ctx, id)
	if err != nil {
		return nil, err
	}
	confirmations, err := s.client.ListConfirmations(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.FulfillmentDetail{
		Fulfillment:   *f,
		Confirmations: confirmations,
		Progress:      CalculateProgress(f, confirmations),
	}, nil
}

func (s *fulfillmentServiceImpl) ListConfirmations(ctx context.Context, id string) ([]domain.DonorConfirmation, error) {
	return s.client.ListConfirmations(ctx, id)
}

func (s *fulfillmentServiceImpl) Initiate(ctx context.Context, sess *session.Session, id string) (*apiclient.MutationResult, error) {
	f, err := s.client.GetFulfillment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CalculateProgress(f, nil).CanInitiate {
		return nil, fmt.Errorf("%w: current status is %s", ErrCannotInitiate, f.Status)
	}

	result, err := s.client.Initiate(ctx, id)
	activityService.RecordOutcome(ctx, s.activity, sess, activityDomain.ActionFulfillmentStarted, "fulfillment", id, result, err)
	if err != nil {
		logger.Error("FulfillmentService.Initiate: backend call failed", err, map[string]interface{}{"fulfillment_id": id})
		return nil, err
	}
	return result, nil
}

func (s *fulfillmentServiceImpl) Cancel(ctx context.Context, sess *session.Session, id, reason string) (*apiclient.MutationResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	f, err := s.client.GetFulfillment(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: status %s", ErrAlreadyTerminal, f.Status)
	}

	result, err := s.client.Cancel(ctx, id, reason)
	activityService.RecordOutcome(ctx, s.activity, sess, activityDomain.ActionFulfillmentCanceled, "fulfillment", id, result, err)
	if err != nil {
		logger.Error("FulfillmentService.Cancel: backend call failed", err, map[string]interface{}{"fulfillment_id": id})
		return nil, err
	}
	return result, nil
}

func (s *fulfillmentServiceImpl) Stats(ctx context.Context, pmiID string) (*domain.FulfillmentStats, error) {
	return s.client.GetStats(ctx, pmiID)
}

func (s *fulfillmentServiceImpl) Watch(ctx context.Context, id string) (*domain.FulfillmentDetail, error) {
	detail, err := s.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot, _ := json.Marshal(detail)

	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.watches[id]; ok {
		w.refs++
		w.ctx = context.WithoutCancel(ctx)
		return detail, nil
	}

	w := &watch{refs: 1, last: snapshot, ctx: context.WithoutCancel(ctx)}
	task, err := s.sched.Every("fulfillment-watch:"+id, s.pollInterval, func() {
		s.poll(id)
	})
	if err != nil {
		return nil, err
	}
	w.task = task
	s.watches[id] = w
	logger.Info("FulfillmentService: watching %s every %s", id, s.pollInterval)
	return detail, nil
}

func (s *fulfillmentServiceImpl) Unwatch(id string) {
	s.mu.Lock()
	w, ok := s.watches[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	w.refs--
	if w.refs > 0 {
		s.mu.Unlock()
		return
	}
	delete(s.watches, id)
	s.mu.Unlock()

	w.task.Stop()
	logger.Info("FulfillmentService: stopped watching %s", id)
}

// poll publishes a progress event only when the snapshot changed.
func (s *fulfillmentServiceImpl) poll(id string) {
	s.mu.Lock()
	w, ok := s.watches[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	ctx := w.ctx
	s.mu.Unlock()

	detail, err := s.GetDetail(ctx, id)
	if err != nil {
		logger.Error("FulfillmentService.poll: refresh failed", err, map[string]interface{}{"fulfillment_id": id})
		return
	}
	snapshot, err := json.Marshal(detail)
	if err != nil {
		logger.Error("FulfillmentService.poll: marshal failed", err, nil)
		return
	}

	s.mu.Lock()
	w, ok = s.watches[id]
	if !ok || bytes.Equal(w.last, snapshot) {
		s.mu.Unlock()
		return
	}
	w.last = snapshot
	s.mu.Unlock()

	s.hub.Publish(Topic(id), sse.Event{EventType: EventProgress, Data: string(snapshot)})
}
