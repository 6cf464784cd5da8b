package domain

import "time"

type Tier string

const (
	TierBest Tier = "best"
	TierGood Tier = "good"
	TierFair Tier = "fair"
	TierPoor Tier = "poor"
)

// TierFor buckets a server-computed final score for display.
func TierFor(finalScore float64) Tier {
	switch {
	case finalScore >= 80:
		return TierBest
	case finalScore >= 60:
		return TierGood
	case finalScore >= 40:
		return TierFair
	default:
		return TierPoor
	}
}

// RankedDonor is one row of the backend's ranked candidate list. Scores are
// passed through untouched.
type RankedDonor struct {
	DonorID         string     `json:"donor_id"`
	Name            string     `json:"name"`
	BloodType       string     `json:"blood_type"`
	Rhesus          string     `json:"rhesus,omitempty"`
	DistanceKm      float64    `json:"distance_km"`
	DistanceScore   float64    `json:"distance_score"`
	HistoryScore    float64    `json:"history_score"`
	CommitmentScore float64    `json:"commitment_score"`
	FinalScore      float64    `json:"final_score"`
	Rank            int        `json:"rank"`
	LastDonationAt  *time.Time `json:"last_donation_at,omitempty"`
	AlreadyNotified bool       `json:"already_notified"`
	Tier            Tier       `json:"tier"`
}

type NotifyRequest struct {
	DonorIDs []string `json:"donor_ids" binding:"required"`
}

type NotifyResult struct {
	Notified int `json:"notified"`
}
