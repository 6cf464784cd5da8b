package service

import (
	"context"
	"net/http"

	activityDomain "github.com/ridloal/blood-portal/internal/activity/domain"
	activityService "github.com/ridloal/blood-portal/internal/activity/service"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/ridloal/blood-portal/internal/verification/domain"
)

type VerificationClient interface {
	VerifyDonorCode(ctx context.Context, req domain.BackendVerifyRequest) (*domain.DonorVerification, *apiclient.MutationResult, error)
	VerifyPickupCode(ctx context.Context, req domain.BackendVerifyRequest) (*domain.PickupVerification, *apiclient.MutationResult, error)
}

type httpVerificationClient struct {
	api *apiclient.Client
}

func NewHTTPVerificationClient(api *apiclient.Client) VerificationClient {
	return &httpVerificationClient{api: api}
}

func (c *httpVerificationClient) VerifyDonorCode(ctx context.Context, req domain.BackendVerifyRequest) (*domain.DonorVerification, *apiclient.MutationResult, error) {
	var out domain.DonorVerification
	result, err := c.api.Mutate(ctx, http.MethodPost, "/donor-confirmations/verify-code", req, &out)
	if err != nil {
		return nil, result, err
	}
	return &out, result, nil
}

func (c *httpVerificationClient) VerifyPickupCode(ctx context.Context, req domain.BackendVerifyRequest) (*domain.PickupVerification, *apiclient.MutationResult, error) {
	var out domain.PickupVerification
	result, err := c.api.Mutate(ctx, http.MethodPost, "/pickups/verify-code", req, &out)
	if err != nil {
		return nil, result, err
	}
	return &out, result, nil
}

type VerificationService interface {
	VerifyDonorCode(ctx context.Context, sess *session.Session, code string) (*domain.DonorVerification, *apiclient.MutationResult, error)
	VerifyPickupCode(ctx context.Context, sess *session.Session, code string) (*domain.PickupVerification, *apiclient.MutationResult, error)
}

type verificationServiceImpl struct {
	client   VerificationClient
	activity activityService.Recorder
}

func NewVerificationService(vc VerificationClient, ar activityService.Recorder) VerificationService {
	return &verificationServiceImpl{client: vc, activity: ar}
}

// VerifyDonorCode checks the format locally; redemption and expiry are decided by the backend.
func (s *verificationServiceImpl) VerifyDonorCode(ctx context.Context, sess *session.Session, code string) (*domain.DonorVerification, *apiclient.MutationResult, error) {
	code = Normalize(code)
	if Kind(code) == domain.KindPickup {
		return nil, nil, ErrWrongCodeKind
	}
	issued, err := ValidateDonorCode(code)
	if err != nil {
		return nil, nil, err
	}

	out, result, err := s.client.VerifyDonorCode(ctx, domain.BackendVerifyRequest{Code: code, PMIID: sess.InstitutionID})
	activityService.RecordOutcome(ctx, s.activity, sess, activityDomain.ActionDonorCodeVerified, "donor_code", code, result, err)
	if err != nil {
		return nil, result, err
	}
	if out.IssuedAt.IsZero() {
		out.IssuedAt = issued
	}
	logger.Info("VerificationService: donor code %s verified by %s", code, sess.InstitutionID)
	return out, result, nil
}

func (s *verificationServiceImpl) VerifyPickupCode(ctx context.Context, sess *session.Session, code string) (*domain.PickupVerification, *apiclient.MutationResult, error) {
	code = Normalize(code)
	if Kind(code) == domain.KindDonor {
		return nil, nil, ErrWrongCodeKind
	}
	if err := ValidatePickupCode(code); err != nil {
		return nil, nil, err
	}

	out, result, err := s.client.VerifyPickupCode(ctx, domain.BackendVerifyRequest{Code: code, PMIID: sess.InstitutionID})
	activityService.RecordOutcome(ctx, s.activity, sess, activityDomain.ActionPickupCodeVerified, "pickup_code", code, result, err)
	if err != nil {
		return nil, result, err
	}
	logger.Info("VerificationService: pickup code %s verified by %s", code, sess.InstitutionID)
	return out, result, nil
}
