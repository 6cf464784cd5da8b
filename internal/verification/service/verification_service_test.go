package service

import (
	"context"
	"testing"
	"time"

	activityMocks "github.com/ridloal/blood-portal/internal/activity/service/mocks"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/ridloal/blood-portal/internal/verification/domain"
	"github.com/ridloal/blood-portal/internal/verification/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var pmiSession = &session.Session{UserID: "u1", InstitutionID: "pmi-1", InstitutionType: session.TypePMI}

func TestVerificationService_VerifyDonorCode(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid code is forwarded and journaled", func(t *testing.T) {
		client := new(mocks.MockVerificationClient)
		recorder := new(activityMocks.MockRecorder)
		svc := NewVerificationService(client, recorder)

		client.On("VerifyDonorCode", ctx, domain.BackendVerifyRequest{Code: "DN2610180742", PMIID: "pmi-1"}).
			Return(&domain.DonorVerification{ConfirmationID: "c1", DonorName: "Andi"}, &apiclient.MutationResult{Success: true, Message: "Donor verified"}, nil).Once()
		recorder.On("Record", ctx, mock.Anything).Once()

		out, result, err := svc.VerifyDonorCode(ctx, pmiSession, " dn2610180742 ")
		assert.NoError(t, err)
		assert.Equal(t, "Andi", out.DonorName)
		assert.Equal(t, time.Date(2026, 10, 18, 7, 0, 0, 0, time.UTC), out.IssuedAt)
		assert.Equal(t, "Donor verified", result.Message)
		client.AssertExpectations(t)
		recorder.AssertExpectations(t)
	})

	t.Run("Pickup code is refused locally", func(t *testing.T) {
		client := new(mocks.MockVerificationClient)
		svc := NewVerificationService(client, nil)

		_, _, err := svc.VerifyDonorCode(ctx, pmiSession, "PK7Q2M9A")
		assert.ErrorIs(t, err, ErrWrongCodeKind)
		client.AssertNotCalled(t, "VerifyDonorCode", mock.Anything, mock.Anything)
	})

	t.Run("Malformed code is refused locally", func(t *testing.T) {
		client := new(mocks.MockVerificationClient)
		svc := NewVerificationService(client, nil)

		_, _, err := svc.VerifyDonorCode(ctx, pmiSession, "DN2699990742")
		assert.ErrorIs(t, err, ErrInvalidDonorCode)
		client.AssertNotCalled(t, "VerifyDonorCode", mock.Anything, mock.Anything)
	})

	t.Run("Expired code message comes from the backend", func(t *testing.T) {
		client := new(mocks.MockVerificationClient)
		recorder := new(activityMocks.MockRecorder)
		svc := NewVerificationService(client, recorder)

		client.On("VerifyDonorCode", ctx, mock.Anything).Return(nil, nil, &apiclient.APIError{StatusCode: 410, Message: "Code has expired"}).Once()
		recorder.On("Record", ctx, mock.Anything).Once()

		_, _, err := svc.VerifyDonorCode(ctx, pmiSession, "DN2610180742")
		status, msg := apiclient.StatusFor(err)
		assert.Equal(t, 410, status)
		assert.Equal(t, "Code has expired", msg)
	})
}

func TestVerificationService_VerifyPickupCode(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid code", func(t *testing.T) {
		client := new(mocks.MockVerificationClient)
		recorder := new(activityMocks.MockRecorder)
		svc := NewVerificationService(client, recorder)

		client.On("VerifyPickupCode", ctx, domain.BackendVerifyRequest{Code: "PK7Q2M9A", PMIID: "pmi-1"}).
			Return(&domain.PickupVerification{PickupID: "p1", TotalQuantity: 10}, &apiclient.MutationResult{Success: true, Message: "Pickup handed over"}, nil).Once()
		recorder.On("Record", ctx, mock.Anything).Once()

		out, _, err := svc.VerifyPickupCode(ctx, pmiSession, "pk7q2m9a")
		assert.NoError(t, err)
		assert.Equal(t, 10, out.TotalQuantity)
	})

	t.Run("Donor code is refused locally", func(t *testing.T) {
		client := new(mocks.MockVerificationClient)
		svc := NewVerificationService(client, nil)

		_, _, err := svc.VerifyPickupCode(ctx, pmiSession, "DN2610180742")
		assert.ErrorIs(t, err, ErrWrongCodeKind)
		client.AssertNotCalled(t, "VerifyPickupCode", mock.Anything, mock.Anything)
	})

	t.Run("Malformed", func(t *testing.T) {
		svc := NewVerificationService(new(mocks.MockVerificationClient), nil)
		_, _, err := svc.VerifyPickupCode(ctx, pmiSession, "PK-7Q2M9")
		assert.ErrorIs(t, err, ErrInvalidPickupCode)
	})
}
