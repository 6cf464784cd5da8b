package service

import (
	"context"
	"sync"
	"time"

	activityDomain "github.com/ridloal/blood-portal/internal/activity/domain"
	activityService "github.com/ridloal/blood-portal/internal/activity/service"
	"github.com/ridloal/blood-portal/internal/notification/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/realtime"
	"github.com/ridloal/blood-portal/internal/platform/scheduler"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/ridloal/blood-portal/internal/platform/sse"
)

const (
	EventSnapshot = "notifications"
	EventCreated  = "notification_created"

	notificationsTable = "notifications"
)

func Topic(institutionID string) string {
	return "notifications:" + institutionID
}

type NotificationService interface {
	// Open starts (or joins) the live feed of an institution; pair every Open with Close.
	Open(ctx context.Context, institutionID string) (domain.Snapshot, error)
	Close(institutionID string)
	List(ctx context.Context, institutionID string) (domain.Snapshot, error)
	UnreadCount(ctx context.Context, institutionID string) (int, error)
	MarkAsRead(ctx context.Context, sess *session.Session, id string) error
	MarkAllAsRead(ctx context.Context, sess *session.Session) error
}

type liveFeed struct {
	refs int
	feed *Feed
	sub  realtime.Subscription
	task *scheduler.Task

	ctxMu sync.Mutex
	ctx   context.Context
}

// setContext keeps the latest viewer's request values (its token) for background work.
func (lf *liveFeed) setContext(ctx context.Context) {
	lf.ctxMu.Lock()
	lf.ctx = context.WithoutCancel(ctx)
	lf.ctxMu.Unlock()
}

func (lf *liveFeed) pollContext() context.Context {
	lf.ctxMu.Lock()
	defer lf.ctxMu.Unlock()
	return lf.ctx
}

func (lf *liveFeed) stop() {
	lf.task.Stop()
	if lf.sub != nil {
		lf.sub.Unsubscribe()
	}
}

type notificationServiceImpl struct {
	client       NotificationClient
	subscriber   realtime.Subscriber
	hub          *sse.Hub
	sched        *scheduler.Scheduler
	activity     activityService.Recorder
	feedLimit    int
	pollInterval time.Duration

	mu    sync.Mutex
	feeds map[string]*liveFeed
}

func NewNotificationService(nc NotificationClient, sub realtime.Subscriber, hub *sse.Hub, sched *scheduler.Scheduler, ar activityService.Recorder, feedLimit int, pollInterval time.Duration) NotificationService {
	return &notificationServiceImpl{
		client:       nc,
		subscriber:   sub,
		hub:          hub,
		sched:        sched,
		activity:     ar,
		feedLimit:    feedLimit,
		pollInterval: pollInterval,
		feeds:        make(map[string]*liveFeed),
	}
}

// Open never holds s.mu across backend or realtime calls.
func (s *notificationServiceImpl) Open(ctx context.Context, institutionID string) (domain.Snapshot, error) {
	if snap, ok := s.join(ctx, institutionID); ok {
		return snap, nil
	}

	feed := NewFeed(s.client, institutionID, s.feedLimit)
	topic := Topic(institutionID)
	feed.onChange = func(snap domain.Snapshot) {
		if ev, err := sse.NewJSONEvent(EventSnapshot, snap); err == nil {
			s.hub.Publish(topic, ev)
		}
	}
	feed.onInsert = func(n domain.Notification) {
		if ev, err := sse.NewJSONEvent(EventCreated, n); err == nil {
			s.hub.Publish(topic, ev)
		}
	}
	lf := &liveFeed{refs: 1, feed: feed}
	lf.setContext(ctx)

	// Subscribe sebelum Load supaya insert di antaranya tidak hilang
	filter := realtime.Filter{Table: notificationsTable, Column: "institution_id", Value: institutionID}
	sub, err := s.subscriber.Subscribe(lf.pollContext(), filter, feed.HandleInsert, feed.HandleUpdate)
	if err != nil {
		// Tanpa push, reconcile berkala tetap jalan
		logger.Error("NotificationService.Open: realtime subscribe failed", err, map[string]interface{}{"institution_id": institutionID})
	} else {
		lf.sub = sub
	}

	if err := feed.Load(ctx); err != nil {
		lf.stop()
		return domain.Snapshot{}, err
	}

	s.mu.Lock()
	if existing, ok := s.feeds[institutionID]; ok {
		// Open lain untuk institusi yang sama selesai duluan
		existing.refs++
		existing.setContext(ctx)
		s.mu.Unlock()
		lf.stop()
		return existing.feed.Snapshot(), nil
	}
	task, err := s.sched.Every("notification-reconcile:"+institutionID, s.pollInterval, func() {
		feed.ReconcileUnread(lf.pollContext())
	})
	if err != nil {
		s.mu.Unlock()
		lf.stop()
		return domain.Snapshot{}, err
	}
	lf.task = task
	s.feeds[institutionID] = lf
	s.mu.Unlock()

	logger.Info("NotificationService: live feed opened for %s", institutionID)
	return feed.Snapshot(), nil
}

func (s *notificationServiceImpl) join(ctx context.Context, institutionID string) (domain.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lf, ok := s.feeds[institutionID]
	if !ok {
		return domain.Snapshot{}, false
	}
	lf.refs++
	lf.setContext(ctx)
	return lf.feed.Snapshot(), true
}

func (s *notificationServiceImpl) Close(institutionID string) {
	s.mu.Lock()
	lf, ok := s.feeds[institutionID]
	if !ok {
		s.mu.Unlock()
		return
	}
	lf.refs--
	if lf.refs > 0 {
		s.mu.Unlock()
		return
	}
	delete(s.feeds, institutionID)
	s.mu.Unlock()

	lf.stop()
	logger.Info("NotificationService: live feed closed for %s", institutionID)
}

func (s *notificationServiceImpl) live(institutionID string) *Feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lf, ok := s.feeds[institutionID]; ok {
		return lf.feed
	}
	return nil
}

// List serves the live feed when one is open, otherwise a one-off load.
func (s *notificationServiceImpl) List(ctx context.Context, institutionID string) (domain.Snapshot, error) {
	if feed := s.live(institutionID); feed != nil {
		return feed.Snapshot(), nil
	}
	feed := NewFeed(s.client, institutionID, s.feedLimit)
	if err := feed.Load(ctx); err != nil {
		return domain.Snapshot{}, err
	}
	return feed.Snapshot(), nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, institutionID string) (int, error) {
	if feed := s.live(institutionID); feed != nil {
		return feed.Snapshot().UnreadCount, nil
	}
	return s.client.UnreadCount(ctx, institutionID)
}

func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, sess *session.Session, id string) error {
	if feed := s.live(sess.InstitutionID); feed != nil {
		return feed.MarkAsRead(ctx, id)
	}
	return s.client.MarkAsRead(ctx, id)
}

func (s *notificationServiceImpl) MarkAllAsRead(ctx context.Context, sess *session.Session) error {
	var err error
	if feed := s.live(sess.InstitutionID); feed != nil {
		err = feed.MarkAllAsRead(ctx)
	} else {
		err = s.client.MarkAllAsRead(ctx, sess.InstitutionID)
	}
	var result *apiclient.MutationResult
	if err == nil {
		result = &apiclient.MutationResult{Success: true, Message: "All notifications marked as read"}
	}
	activityService.RecordOutcome(ctx, s.activity, sess, activityDomain.ActionNotificationsRead, "institution", sess.InstitutionID, result, err)
	return err
}
