package domain

import "time"

type BloodStock struct {
	ID            string    `json:"id"`
	InstitutionID string    `json:"institution_id"`
	BatchNumber   string    `json:"batch_number"`
	BloodType     string    `json:"blood_type"`
	Rhesus        string    `json:"rhesus"`
	Component     string    `json:"component,omitempty"`
	Quantity      int       `json:"quantity"`
	ExpiryDate    time.Time `json:"expiry_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// GroupSummary is one bar of the dashboard stock chart.
type GroupSummary struct {
	BloodType    string `json:"blood_type"`
	Rhesus       string `json:"rhesus"`
	Total        int    `json:"total"`
	ExpiringSoon int    `json:"expiring_soon"`
	Expired      int    `json:"expired"`
	Batches      int    `json:"batches"`
}

type Summary struct {
	Groups           []GroupSummary `json:"groups"`
	TotalUnits       int            `json:"total_units"`
	ExpiringSoon     int            `json:"expiring_soon"`
	ExpiredUnits     int            `json:"expired_units"`
	ExpiryWindowDays int            `json:"expiry_window_days"`
	GeneratedAt      time.Time      `json:"generated_at"`
}
