package domain

import "time"

type CodeKind string

const (
	KindDonor   CodeKind = "donor"
	KindPickup  CodeKind = "pickup"
	KindUnknown CodeKind = "unknown"
)

type VerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// BackendVerifyRequest is what the backend verification endpoints expect.
type BackendVerifyRequest struct {
	Code  string `json:"code"`
	PMIID string `json:"pmi_id"`
}

type DonorVerification struct {
	ConfirmationID string    `json:"confirmation_id"`
	FulfillmentID  string    `json:"fulfillment_request_id"`
	DonorID        string    `json:"donor_id"`
	DonorName      string    `json:"donor_name"`
	BloodType      string    `json:"blood_type"`
	Status         string    `json:"status"`
	IssuedAt       time.Time `json:"issued_at"`
}

type PickupVerification struct {
	PickupID       string `json:"pickup_id"`
	BloodRequestID string `json:"blood_request_id"`
	HospitalName   string `json:"hospital_name"`
	TotalQuantity  int    `json:"total_quantity"`
	Status         string `json:"status"`
}
