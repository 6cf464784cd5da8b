package service

import (
	"strings"

	"github.com/ridloal/blood-portal/internal/bloodrequest/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Filter keeps the rows matching every non-empty field of f, in server order.
func Filter(rows []domain.BloodRequest, f domain.ListFilter) []domain.BloodRequest {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.BloodRequest, 0, len(rows))
	for _, r := range rows {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.BloodType != "" && !strings.EqualFold(r.BloodType, f.BloodType) {
			continue
		}
		if f.Urgency != "" && r.Urgency != f.Urgency {
			continue
		}
		if search != "" && !matches(r, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(r domain.BloodRequest, needle string) bool {
	for _, field := range []string{r.HospitalName, r.PatientName, r.Notes} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Paginate slices rows and builds the pagination block. Out-of-range pages are empty.
func Paginate(rows []domain.BloodRequest, page, limit int) ([]domain.BloodRequest, apiclient.Pagination) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(rows)
	totalPages := (total + limit - 1) / limit
	p := apiclient.Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}

	start := (page - 1) * limit
	if start >= total {
		return []domain.BloodRequest{}, p
	}
	end := start + limit
	if end > total {
		end = total
	}
	return rows[start:end], p
}
