package service

import (
	"github.com/ridloal/blood-portal/internal/fulfillment/domain"
	"github.com/shopspring/decimal"
)

// CalculateProgress derives counts and percentages from a fulfillment and its
// confirmations. It has no side effects; nil fulfillment yields the zero Progress.
func CalculateProgress(f *domain.FulfillmentRequest, confirmations []domain.DonorConfirmation) domain.Progress {
	if f == nil {
		return domain.Progress{}
	}

	var p domain.Progress
	for _, c := range confirmations {
		switch c.Status {
		case domain.ConfirmationConfirmed:
			p.ConfirmedCount++
		case domain.ConfirmationCompleted:
			p.CompletedCount++
		case domain.ConfirmationPending:
			p.PendingCount++
		case domain.ConfirmationRejected:
			p.RejectedCount++
		case domain.ConfirmationExpired:
			p.ExpiredCount++
		case domain.ConfirmationFailed:
			p.FailedCount++
		}
	}
	p.TotalNotified = len(confirmations)

	p.ResponseRate = percent(p.ConfirmedCount+p.RejectedCount, p.TotalNotified)
	p.CompletionRate = percent(p.CompletedCount, p.ConfirmedCount)
	p.QuantityProgress = percent(f.QuantityCollected, f.QuantityNeeded)
	p.ProgressPercentage = p.QuantityProgress
	if p.ProgressPercentage > 100 {
		p.ProgressPercentage = 100
	}

	p.IsCompleted = f.Status == domain.StatusFulfilled || f.QuantityCollected >= f.QuantityNeeded
	p.IsCancelled = f.Status == domain.StatusCancelled
	p.CanInitiate = f.Status == domain.StatusInitiated
	return p
}

// percent is round(100*part/whole), half-up, and 0 when whole is 0.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	d := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(0)
	return int(d.IntPart())
}
