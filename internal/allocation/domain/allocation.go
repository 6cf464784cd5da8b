package domain

import (
	"time"
)

type AllocationStatus string

const (
	AllocationAllocated     AllocationStatus = "allocated"
	AllocationPartialPickup AllocationStatus = "partial_pickup"
	AllocationPickedUp      AllocationStatus = "picked_up"
	AllocationExpired       AllocationStatus = "expired"
	AllocationCancelled     AllocationStatus = "cancelled"
)

const SourceFreeStock = "free_stock"

// AllocationData is a batch earmarked for one request from a fulfillment's donations.
type AllocationData struct {
	AllocationID      string           `json:"allocation_id"`
	FulfillmentID     string           `json:"fulfillment_request_id,omitempty"`
	BatchNumber       string           `json:"batch_number"`
	BloodType         string           `json:"blood_type,omitempty"`
	QuantityAllocated int              `json:"quantity_allocated"`
	QuantityPickedUp  int              `json:"quantity_picked_up"`
	Status            AllocationStatus `json:"status"`
	ExpiryDate        time.Time        `json:"expiry_date"`
}

// QuantityPending never goes below zero even if the backend over-reports pickups.
func (a AllocationData) QuantityPending() int {
	if p := a.QuantityAllocated - a.QuantityPickedUp; p > 0 {
		return p
	}
	return 0
}

type FreeStockData struct {
	StockID     string    `json:"stock_id"`
	BatchNumber string    `json:"batch_number"`
	BloodType   string    `json:"blood_type,omitempty"`
	Quantity    int       `json:"quantity"`
	ExpiryDate  time.Time `json:"expiry_date"`
	Source      string    `json:"source"`
}

// AllocationSummary is the server-reported per-request availability.
type AllocationSummary struct {
	TotalAllocation int `json:"total_allocation"`
	TotalFreeStock  int `json:"total_free_stock"`
	TotalAvailable  int `json:"total_available"`
}

type PickupSources struct {
	Allocations []AllocationData   `json:"allocations"`
	FreeStock   []FreeStockData    `json:"free_stock"`
	Summary     *AllocationSummary `json:"summary,omitempty"`
}

// RequestRef is the part of a blood request the pickup flow needs.
type RequestRef struct {
	ID        string `json:"id"`
	Quantity  int    `json:"quantity"`
	BloodType string `json:"blood_type"`
	Status    string `json:"status"`
}

type Strategy string

const (
	StrategyAllocationOnly         Strategy = "allocation_only"
	StrategyAllocationAndFreeStock Strategy = "allocation_and_free_stock"
	StrategyFreeStockOnly          Strategy = "free_stock_only"
	StrategyShortage               Strategy = "shortage"
)

type Classification string

const (
	ClassPickupReady    Classification = "pickup_ready"
	ClassCampaignNeeded Classification = "campaign_needed"
)

// Selection is how many units the pickup draws from one batch. Available is the ceiling.
type Selection struct {
	SourceID    string    `json:"source_id"`
	BatchNumber string    `json:"batch_number"`
	ExpiryDate  time.Time `json:"expiry_date"`
	Available   int       `json:"available"`
	Quantity    int       `json:"quantity"`
}

type PickupPlan struct {
	QuantityNeeded         int         `json:"quantity_needed"`
	TotalAllocationPending int         `json:"total_allocation_pending"`
	TotalFreeStock         int         `json:"total_free_stock"`
	Strategy               Strategy    `json:"strategy"`
	Allocations            []Selection `json:"allocations"`
	FreeStock              []Selection `json:"free_stock"`
	ManuallyEdited         bool        `json:"manually_edited"`
}

type SourceQuantity struct {
	ID       string `json:"id" binding:"required"`
	Quantity int    `json:"quantity"`
}

type CreatePickupRequest struct {
	PickupDate  string           `json:"pickup_date"`
	PickupTime  string           `json:"pickup_time"`
	Notes       string           `json:"notes,omitempty"`
	Allocations []SourceQuantity `json:"allocations"`
	FreeStock   []SourceQuantity `json:"free_stock"`
}

type PickupAllocationItem struct {
	AllocationID string `json:"allocation_id"`
	Quantity     int    `json:"quantity"`
}

type PickupFreeStockItem struct {
	StockID  string `json:"stock_id"`
	Quantity int    `json:"quantity"`
}

// BackendPickupRequest is the body posted to the backend.
type BackendPickupRequest struct {
	BloodRequestID string                 `json:"blood_request_id"`
	PickupDate     string                 `json:"pickup_date"`
	PickupTime     string                 `json:"pickup_time"`
	Notes          string                 `json:"notes,omitempty"`
	TotalQuantity  int                    `json:"total_quantity"`
	Allocations    []PickupAllocationItem `json:"allocations"`
	FreeStock      []PickupFreeStockItem  `json:"free_stock"`
}

type Pickup struct {
	ID             string    `json:"id"`
	BloodRequestID string    `json:"blood_request_id"`
	PickupCode     string    `json:"pickup_code"`
	Status         string    `json:"status"`
	TotalQuantity  int       `json:"total_quantity"`
	ScheduledAt    time.Time `json:"scheduled_at"`
}
