package service

import (
	"context"
	"errors"
	"testing"
	"time"

	activityMocks "github.com/ridloal/blood-portal/internal/activity/service/mocks"
	"github.com/ridloal/blood-portal/internal/fulfillment/domain"
	"github.com/ridloal/blood-portal/internal/fulfillment/service/mocks"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/scheduler"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/ridloal/blood-portal/internal/platform/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var pmiSession = &session.Session{UserID: "u1", InstitutionID: "pmi-1", InstitutionType: session.TypePMI}

func newTestService(t *testing.T) (*fulfillmentServiceImpl, *mocks.MockFulfillmentClient, *activityMocks.MockRecorder, *sse.Hub, *scheduler.Scheduler) {
	t.Helper()
	client := new(mocks.MockFulfillmentClient)
	recorder := new(activityMocks.MockRecorder)
	hub := sse.NewHub()
	sched := scheduler.New()
	t.Cleanup(sched.Stop)
	svc := NewFulfillmentService(client, recorder, hub, sched, time.Hour).(*fulfillmentServiceImpl)
	return svc, client, recorder, hub, sched
}

func TestFulfillmentService_GetDetail(t *testing.T) {
	svc, client, _, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("Combines fulfillment, confirmations and progress", func(t *testing.T) {
		f := &domain.FulfillmentRequest{ID: "f1", QuantityNeeded: 4, QuantityCollected: 2, Status: domain.StatusInProgress}
		client.On("GetFulfillment", ctx, "f1").Return(f, nil).Once()
		client.On("ListConfirmations", ctx, "f1").Return(confirmations(domain.ConfirmationConfirmed, domain.ConfirmationCompleted), nil).Once()

		detail, err := svc.GetDetail(ctx, "f1")
		assert.NoError(t, err)
		assert.Equal(t, 50, detail.Progress.ProgressPercentage)
		assert.Equal(t, 100, detail.Progress.CompletionRate)
		assert.Len(t, detail.Confirmations, 2)
		client.AssertExpectations(t)
	})

	t.Run("Not found is passed through", func(t *testing.T) {
		client.On("GetFulfillment", ctx, "missing").Return(nil, apiclient.ErrNotFound).Once()

		detail, err := svc.GetDetail(ctx, "missing")
		assert.Nil(t, detail)
		assert.ErrorIs(t, err, apiclient.ErrNotFound)
	})
}

func TestFulfillmentService_Initiate(t *testing.T) {
	ctx := context.Background()

	t.Run("Initiates from initiated status", func(t *testing.T) {
		svc, client, recorder, _, _ := newTestService(t)
		client.On("GetFulfillment", ctx, "f1").Return(&domain.FulfillmentRequest{ID: "f1", Status: domain.StatusInitiated}, nil).Once()
		client.On("Initiate", ctx, "f1").Return(&apiclient.MutationResult{Success: true, Message: "Donor search started"}, nil).Once()
		recorder.On("Record", ctx, mock.Anything).Once()

		result, err := svc.Initiate(ctx, pmiSession, "f1")
		assert.NoError(t, err)
		assert.Equal(t, "Donor search started", result.Message)
		client.AssertExpectations(t)
		recorder.AssertExpectations(t)
	})

	t.Run("Refuses other statuses without calling the backend", func(t *testing.T) {
		svc, client, _, _, _ := newTestService(t)
		client.On("GetFulfillment", ctx, "f2").Return(&domain.FulfillmentRequest{ID: "f2", Status: domain.StatusSearchingDonors}, nil).Once()

		result, err := svc.Initiate(ctx, pmiSession, "f2")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrCannotInitiate)
		client.AssertNotCalled(t, "Initiate", mock.Anything, mock.Anything)
	})

	t.Run("Backend rejection is recorded and returned", func(t *testing.T) {
		svc, client, recorder, _, _ := newTestService(t)
		apiErr := &apiclient.APIError{StatusCode: 422, Message: "No eligible donors in range"}
		client.On("GetFulfillment", ctx, "f3").Return(&domain.FulfillmentRequest{ID: "f3", Status: domain.StatusInitiated}, nil).Once()
		client.On("Initiate", ctx, "f3").Return(nil, apiErr).Once()
		recorder.On("Record", ctx, mock.Anything).Once()

		_, err := svc.Initiate(ctx, pmiSession, "f3")
		assert.ErrorIs(t, err, apiErr)
		recorder.AssertExpectations(t)
	})
}

func TestFulfillmentService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Reason is required", func(t *testing.T) {
		svc, client, _, _, _ := newTestService(t)
		_, err := svc.Cancel(ctx, pmiSession, "f1", "   ")
		assert.ErrorIs(t, err, ErrReasonRequired)
		client.AssertNotCalled(t, "GetFulfillment", mock.Anything, mock.Anything)
	})

	t.Run("Terminal fulfillment is refused", func(t *testing.T) {
		svc, client, _, _, _ := newTestService(t)
		client.On("GetFulfillment", ctx, "f1").Return(&domain.FulfillmentRequest{ID: "f1", Status: domain.StatusFulfilled}, nil).Once()

		_, err := svc.Cancel(ctx, pmiSession, "f1", "Hospital withdrew")
		assert.ErrorIs(t, err, ErrAlreadyTerminal)
		client.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Trimmed reason is forwarded", func(t *testing.T) {
		svc, client, recorder, _, _ := newTestService(t)
		client.On("GetFulfillment", ctx, "f1").Return(&domain.FulfillmentRequest{ID: "f1", Status: domain.StatusInProgress}, nil).Once()
		client.On("Cancel", ctx, "f1", "Hospital withdrew").Return(&apiclient.MutationResult{Success: true, Message: "Cancelled"}, nil).Once()
		recorder.On("Record", ctx, mock.Anything).Once()

		result, err := svc.Cancel(ctx, pmiSession, "f1", "  Hospital withdrew ")
		assert.NoError(t, err)
		assert.Equal(t, "Cancelled", result.Message)
		client.AssertExpectations(t)
	})
}

func TestFulfillmentService_Watch(t *testing.T) {
	ctx := context.Background()
	svc, client, _, hub, sched := newTestService(t)

	f := &domain.FulfillmentRequest{ID: "f1", QuantityNeeded: 4, QuantityCollected: 1, Status: domain.StatusInProgress}
	client.On("GetFulfillment", mock.Anything, "f1").Return(f, nil).Times(2)
	client.On("ListConfirmations", mock.Anything, "f1").Return([]domain.DonorConfirmation{}, nil).Times(2)

	_, err := svc.Watch(ctx, "f1")
	assert.NoError(t, err)
	_, err = svc.Watch(ctx, "f1")
	assert.NoError(t, err)
	assert.Equal(t, 1, sched.Len(), "two viewers share one polling task")

	viewer := sse.NewClient(Topic("f1"))
	hub.Register(viewer)

	t.Run("Unchanged snapshot publishes nothing", func(t *testing.T) {
		client.On("GetFulfillment", mock.Anything, "f1").Return(f, nil).Once()
		client.On("ListConfirmations", mock.Anything, "f1").Return([]domain.DonorConfirmation{}, nil).Once()
		svc.poll("f1")
		assert.Len(t, viewer.Events, 0)
	})

	t.Run("Changed snapshot is published", func(t *testing.T) {
		updated := *f
		updated.QuantityCollected = 2
		client.On("GetFulfillment", mock.Anything, "f1").Return(&updated, nil).Once()
		client.On("ListConfirmations", mock.Anything, "f1").Return([]domain.DonorConfirmation{}, nil).Once()
		svc.poll("f1")

		assert.Len(t, viewer.Events, 1)
		ev := <-viewer.Events
		assert.Equal(t, EventProgress, ev.EventType)
		assert.Contains(t, ev.Data, `"progress_percentage":50`)
	})

	t.Run("Poll failure keeps the watch alive", func(t *testing.T) {
		client.On("GetFulfillment", mock.Anything, "f1").Return(nil, errors.New("boom")).Once()
		svc.poll("f1")
		assert.Len(t, viewer.Events, 0)
		assert.Equal(t, 1, sched.Len())
	})

	t.Run("Polling follows the latest viewer's token", func(t *testing.T) {
		withToken := func(token string) interface{} {
			return mock.MatchedBy(func(c context.Context) bool { return apiclient.TokenFrom(c) == token })
		}
		client.On("GetFulfillment", withToken("first"), "f1").Return(f, nil).Once()
		client.On("ListConfirmations", withToken("first"), "f1").Return([]domain.DonorConfirmation{}, nil).Once()
		_, err := svc.Watch(apiclient.WithToken(ctx, "first"), "f1")
		assert.NoError(t, err)

		client.On("GetFulfillment", withToken("refreshed"), "f1").Return(f, nil).Twice()
		client.On("ListConfirmations", withToken("refreshed"), "f1").Return([]domain.DonorConfirmation{}, nil).Twice()
		_, err = svc.Watch(apiclient.WithToken(ctx, "refreshed"), "f1")
		assert.NoError(t, err)
		svc.poll("f1")
		client.AssertExpectations(t)

		svc.Unwatch("f1")
		svc.Unwatch("f1")
		assert.Equal(t, 1, sched.Len())
	})

	t.Run("Last viewer leaving stops the task", func(t *testing.T) {
		svc.Unwatch("f1")
		assert.Equal(t, 1, sched.Len())
		svc.Unwatch("f1")
		assert.Equal(t, 0, sched.Len())
		svc.Unwatch("f1")
		assert.Equal(t, 0, sched.Len())
	})
}
