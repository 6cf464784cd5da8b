package domain

import (
	"time"

	allocationDomain "github.com/ridloal/blood-portal/internal/allocation/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusApproved       Status = "approved"
	StatusRejected       Status = "rejected"
	StatusInFulfillment  Status = "in_fulfillment"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

// IsClosed reports whether the request no longer needs an action button.
func (s Status) IsClosed() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

var BloodTypes = []string{"A", "B", "AB", "O"}

type BloodRequest struct {
	ID            string     `json:"id"`
	HospitalID    string     `json:"hospital_id"`
	HospitalName  string     `json:"hospital_name"`
	PMIID         string     `json:"pmi_id"`
	PMIName       string     `json:"pmi_name,omitempty"`
	PatientName   string     `json:"patient_name"`
	BloodType     string     `json:"blood_type"`
	Rhesus        string     `json:"rhesus"`
	Quantity      int        `json:"quantity"`
	Urgency       Urgency    `json:"urgency"`
	Status        Status     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	RejectReason  *string    `json:"reject_reason,omitempty"`
	CancelReason  *string    `json:"cancel_reason,omitempty"`
	NeededBy      *time.Time `json:"needed_by,omitempty"`
	FulfillmentID *string    `json:"fulfillment_request_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Classification is filled for PMI rows only.
	Classification allocationDomain.Classification `json:"classification,omitempty"`
}

type CreateBloodRequest struct {
	PMIID       string     `json:"pmi_id" binding:"required"`
	PatientName string     `json:"patient_name" binding:"required"`
	BloodType   string     `json:"blood_type" binding:"required"`
	Rhesus      string     `json:"rhesus" binding:"required"`
	Quantity    int        `json:"quantity" binding:"required"`
	Urgency     Urgency    `json:"urgency"`
	Notes       string     `json:"notes"`
	NeededBy    *time.Time `json:"needed_by"`
	HospitalID  string     `json:"hospital_id"`
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListFilter is applied locally on the rows the backend returned.
type ListFilter struct {
	Status    Status
	BloodType string
	Urgency   Urgency
	Search    string
	Page      int
	Limit     int
}

type ListResult struct {
	Items      []BloodRequest        `json:"data"`
	Pagination apiclient.Pagination `json:"pagination"`
}
