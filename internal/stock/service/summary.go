package service

import (
	"sort"
	"time"

	"github.com/ridloal/blood-portal/internal/stock/domain"
)

const ExpiryWindow = 7 * 24 * time.Hour

var bloodTypeOrder = map[string]int{"A": 0, "B": 1, "AB": 2, "O": 3}

// Summarize groups stock by blood type + rhesus. Expired batches are counted
// separately and never in Total.
func Summarize(stock []domain.BloodStock, now time.Time) domain.Summary {
	groups := make(map[string]*domain.GroupSummary)
	summary := domain.Summary{GeneratedAt: now, ExpiryWindowDays: int(ExpiryWindow.Hours() / 24)}
	horizon := now.Add(ExpiryWindow)

	for _, s := range stock {
		if s.Quantity <= 0 {
			continue
		}
		key := s.BloodType + s.Rhesus
		g, ok := groups[key]
		if !ok {
			g = &domain.GroupSummary{BloodType: s.BloodType, Rhesus: s.Rhesus}
			groups[key] = g
		}
		g.Batches++

		if !s.ExpiryDate.After(now) {
			g.Expired += s.Quantity
			summary.ExpiredUnits += s.Quantity
			continue
		}
		g.Total += s.Quantity
		summary.TotalUnits += s.Quantity
		if !s.ExpiryDate.After(horizon) {
			g.ExpiringSoon += s.Quantity
			summary.ExpiringSoon += s.Quantity
		}
	}

	summary.Groups = make([]domain.GroupSummary, 0, len(groups))
	for _, g := range groups {
		summary.Groups = append(summary.Groups, *g)
	}
	sort.Slice(summary.Groups, func(i, j int) bool {
		a, b := summary.Groups[i], summary.Groups[j]
		if a.BloodType != b.BloodType {
			oa, okA := bloodTypeOrder[a.BloodType]
			ob, okB := bloodTypeOrder[b.BloodType]
			if okA && okB {
				return oa < ob
			}
			if okA != okB {
				return okA
			}
			return a.BloodType < b.BloodType
		}
		// "+" sorts before "-"
		return a.Rhesus < b.Rhesus
	})
	return summary
}
