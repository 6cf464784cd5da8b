package domain

import "time"

type Action string

const (
	ActionRequestCreated      Action = "blood_request.created"
	ActionRequestApproved     Action = "blood_request.approved"
	ActionRequestRejected     Action = "blood_request.rejected"
	ActionRequestCancelled    Action = "blood_request.cancelled"
	ActionFulfillmentStarted  Action = "fulfillment.initiated"
	ActionFulfillmentCanceled Action = "fulfillment.cancelled"
	ActionDonorsNotified      Action = "fulfillment.donors_notified"
	ActionPickupCreated       Action = "pickup.created"
	ActionDonorCodeVerified   Action = "code.donor_verified"
	ActionPickupCodeVerified  Action = "code.pickup_verified"
	ActionNotificationsRead   Action = "notification.read_all"
)

// Entry is one mutation outcome, stored with the message the backend returned.
type Entry struct {
	ID            string    `json:"id"`
	InstitutionID string    `json:"institution_id"`
	UserID        string    `json:"user_id,omitempty"`
	Action        Action    `json:"action"`
	ResourceType  string    `json:"resource_type"`
	ResourceID    string    `json:"resource_id"`
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

type ListFilter struct {
	InstitutionID string
	Actions       []Action
	Limit         int
}
