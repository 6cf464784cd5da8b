package service

import (
	"errors"
	"fmt"

	"github.com/ridloal/blood-portal/internal/allocation/domain"
)

var (
	ErrExceedsAvailable = errors.New("quantity exceeds what the batch has available")
	ErrInvalidQuantity  = errors.New("quantity must not be negative")
	ErrUnknownSource    = errors.New("batch is not part of this pickup plan")
)

func TotalAllocationPending(allocations []domain.AllocationData) int {
	total := 0
	for _, a := range allocations {
		total += a.QuantityPending()
	}
	return total
}

func TotalFreeStock(freeStock []domain.FreeStockData) int {
	total := 0
	for _, fs := range freeStock {
		if fs.Quantity > 0 {
			total += fs.Quantity
		}
	}
	return total
}

// AutoFill builds the default split for a pickup of needed units. Allocation
// batches are always drawn before free stock, both in server order.
func AutoFill(needed int, allocations []domain.AllocationData, freeStock []domain.FreeStockData) *domain.PickupPlan {
	plan := &domain.PickupPlan{
		QuantityNeeded:         needed,
		TotalAllocationPending: TotalAllocationPending(allocations),
		TotalFreeStock:         TotalFreeStock(freeStock),
		Allocations:            make([]domain.Selection, len(allocations)),
		FreeStock:              make([]domain.Selection, len(freeStock)),
	}
	for i, a := range allocations {
		plan.Allocations[i] = domain.Selection{
			SourceID:    a.AllocationID,
			BatchNumber: a.BatchNumber,
			ExpiryDate:  a.ExpiryDate,
			Available:   a.QuantityPending(),
		}
	}
	for i, fs := range freeStock {
		available := fs.Quantity
		if available < 0 {
			available = 0
		}
		plan.FreeStock[i] = domain.Selection{
			SourceID:    fs.StockID,
			BatchNumber: fs.BatchNumber,
			ExpiryDate:  fs.ExpiryDate,
			Available:   available,
		}
	}

	pending := plan.TotalAllocationPending
	switch {
	case pending >= needed:
		// Pending lebih dari kebutuhan: ambil seperlunya dari batch alokasi
		greedyFill(plan.Allocations, needed)
		plan.Strategy = domain.StrategyAllocationOnly
	case pending+plan.TotalFreeStock >= needed:
		greedyFill(plan.Allocations, pending)
		greedyFill(plan.FreeStock, needed-pending)
		if pending == 0 {
			plan.Strategy = domain.StrategyFreeStockOnly
		} else {
			plan.Strategy = domain.StrategyAllocationAndFreeStock
		}
	default:
		plan.Strategy = domain.StrategyShortage
	}
	return plan
}

// greedyFill takes min(available, remaining) per batch until remaining is zero.
func greedyFill(selections []domain.Selection, quantity int) {
	remaining := quantity
	for i := range selections {
		if remaining <= 0 {
			break
		}
		take := selections[i].Available
		if take > remaining {
			take = remaining
		}
		selections[i].Quantity = take
		remaining -= take
	}
}

// SetAllocationQuantity is the operator's manual override for one allocation batch.
// Rejected values leave the plan unchanged.
func SetAllocationQuantity(plan *domain.PickupPlan, allocationID string, quantity int) error {
	return setQuantity(plan, plan.Allocations, allocationID, quantity)
}

// SetFreeStockQuantity is the operator's manual override for one free-stock batch.
func SetFreeStockQuantity(plan *domain.PickupPlan, stockID string, quantity int) error {
	return setQuantity(plan, plan.FreeStock, stockID, quantity)
}

func setQuantity(plan *domain.PickupPlan, selections []domain.Selection, id string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	for i := range selections {
		if selections[i].SourceID != id {
			continue
		}
		if quantity > selections[i].Available {
			return fmt.Errorf("%w: batch %s has %d, asked for %d", ErrExceedsAvailable, selections[i].BatchNumber, selections[i].Available, quantity)
		}
		selections[i].Quantity = quantity
		plan.ManuallyEdited = true
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownSource, id)
}

func TotalSelected(plan *domain.PickupPlan) int {
	total := 0
	for _, s := range plan.Allocations {
		total += s.Quantity
	}
	for _, s := range plan.FreeStock {
		total += s.Quantity
	}
	return total
}

// CanSubmit is the pickup submit gate: enough units selected plus a date and a time.
func CanSubmit(plan *domain.PickupPlan, pickupDate, pickupTime string) bool {
	if plan == nil || pickupDate == "" || pickupTime == "" {
		return false
	}
	if plan.TotalAllocationPending+plan.TotalFreeStock < plan.QuantityNeeded {
		return false
	}
	return TotalSelected(plan) >= plan.QuantityNeeded
}

// Classify decides which action a request row offers. total_available is the
// only field consulted.
func Classify(quantity int, summary *domain.AllocationSummary) domain.Classification {
	if summary != nil && summary.TotalAvailable >= quantity {
		return domain.ClassPickupReady
	}
	return domain.ClassCampaignNeeded
}
