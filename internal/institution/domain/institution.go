package domain

import (
	"time"

	"github.com/ridloal/blood-portal/internal/platform/session"
)

type Institution struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Type      session.InstitutionType `json:"institution_type"`
	Address   string                  `json:"address,omitempty"`
	City      string                  `json:"city,omitempty"`
	Phone     string                  `json:"phone,omitempty"`
	Email     string                  `json:"email,omitempty"`
	Latitude  *float64                `json:"latitude,omitempty"`
	Longitude *float64                `json:"longitude,omitempty"`
	IsActive  bool                    `json:"is_active"`
	CreatedAt time.Time               `json:"created_at"`
}

// Partner is a counterpart institution: the PMIs of a hospital, or the hospitals of a PMI.
type Partner struct {
	ID          string                  `json:"id"`
	PartnerID   string                  `json:"partner_id"`
	PartnerName string                  `json:"partner_name"`
	PartnerType session.InstitutionType `json:"partner_type"`
	City        string                  `json:"city,omitempty"`
	Status      string                  `json:"status"`
	Since       *time.Time              `json:"since,omitempty"`
}
