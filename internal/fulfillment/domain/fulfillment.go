package domain

import (
	"time"
)

type FulfillmentStatus string

const (
	StatusInitiated          FulfillmentStatus = "initiated"
	StatusSearchingDonors    FulfillmentStatus = "searching_donors"
	StatusDonorsFound        FulfillmentStatus = "donors_found"
	StatusInProgress         FulfillmentStatus = "in_progress"
	StatusPartiallyFulfilled FulfillmentStatus = "partially_fulfilled"
	StatusFulfilled          FulfillmentStatus = "fulfilled"
	StatusFailed             FulfillmentStatus = "failed"
	StatusCancelled          FulfillmentStatus = "cancelled"
)

// IsTerminal: fulfilled, failed and cancelled never transition again.
func (s FulfillmentStatus) IsTerminal() bool {
	switch s {
	case StatusFulfilled, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "pending"
	ConfirmationConfirmed ConfirmationStatus = "confirmed"
	ConfirmationRejected  ConfirmationStatus = "rejected"
	ConfirmationExpired   ConfirmationStatus = "expired"
	ConfirmationCompleted ConfirmationStatus = "completed"
	ConfirmationFailed    ConfirmationStatus = "failed"
)

func (s ConfirmationStatus) IsTerminal() bool {
	switch s {
	case ConfirmationRejected, ConfirmationExpired, ConfirmationCompleted, ConfirmationFailed:
		return true
	}
	return false
}

// FulfillmentRequest is one blood request's donor-campaign effort. Status is owned
// by the backend; the portal only asks to initiate or cancel.
type FulfillmentRequest struct {
	ID                string            `json:"id"`
	BloodRequestID    string            `json:"blood_request_id"`
	CampaignID        *string           `json:"campaign_id,omitempty"`
	PMIID             string            `json:"pmi_id"`
	BloodType         string            `json:"blood_type,omitempty"`
	QuantityNeeded    int               `json:"quantity_needed"`
	QuantityCollected int               `json:"quantity_collected"`
	Status            FulfillmentStatus `json:"status"`
	ConfirmedDonors   int               `json:"confirmed_donors"`
	CompletedDonors   int               `json:"completed_donors"`
	RetryCount        int               `json:"retry_count"`
	MaxRetries        int               `json:"max_retries"`
	CancelReason      *string           `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// DonorConfirmation is one donor's response to a fulfillment notification.
type DonorConfirmation struct {
	ID                  string             `json:"id"`
	FulfillmentID       string             `json:"fulfillment_request_id"`
	DonorID             string             `json:"donor_id"`
	DonorName           string             `json:"donor_name,omitempty"`
	Status              ConfirmationStatus `json:"status"`
	UniqueCode          string             `json:"unique_code,omitempty"`
	CodeGeneratedAt     *time.Time         `json:"code_generated_at,omitempty"`
	CodeExpiresAt       *time.Time         `json:"code_expires_at,omitempty"`
	CodeVerified        bool               `json:"code_verified"`
	CodeVerifiedAt      *time.Time         `json:"code_verified_at,omitempty"`
	ConfirmedAt         *time.Time         `json:"confirmed_at,omitempty"`
	DonationCompletedAt *time.Time         `json:"donation_completed_at,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
}

// Progress is the derived summary behind progress bars and stat tiles.
// The zero value is what callers get when there is no fulfillment.
type Progress struct {
	ConfirmedCount     int  `json:"confirmed_count"`
	CompletedCount     int  `json:"completed_count"`
	PendingCount       int  `json:"pending_count"`
	RejectedCount      int  `json:"rejected_count"`
	ExpiredCount       int  `json:"expired_count"`
	FailedCount        int  `json:"failed_count"`
	TotalNotified      int  `json:"total_notified"`
	ResponseRate       int  `json:"response_rate"`
	CompletionRate     int  `json:"completion_rate"`
	QuantityProgress   int  `json:"quantity_progress"`
	ProgressPercentage int  `json:"progress_percentage"`
	IsCompleted        bool `json:"is_completed"`
	IsCancelled        bool `json:"is_cancelled"`
	CanInitiate        bool `json:"can_initiate"`
}

type FulfillmentDetail struct {
	Fulfillment   FulfillmentRequest  `json:"fulfillment"`
	Confirmations []DonorConfirmation `json:"confirmations"`
	Progress      Progress            `json:"progress"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FulfillmentStats feeds the PMI dashboard tiles.
type FulfillmentStats struct {
	Total              int `json:"total"`
	Active             int `json:"active"`
	Fulfilled          int `json:"fulfilled"`
	PartiallyFulfilled int `json:"partially_fulfilled"`
	Failed             int `json:"failed"`
	Cancelled          int `json:"cancelled"`
	UnitsCollected     int `json:"units_collected"`
	DonorsConfirmed    int `json:"donors_confirmed"`
}
