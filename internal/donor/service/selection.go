package service

import "github.com/ridloal/blood-portal/internal/donor/domain"

// Selection is the multi-select state over one ranked list. It only ever
// contains ids from that list and reports them in server order.
type Selection struct {
	order    []string
	selected map[string]bool
}

func NewSelection(donors []domain.RankedDonor) *Selection {
	s := &Selection{order: make([]string, 0, len(donors)), selected: make(map[string]bool)}
	for _, d := range donors {
		s.order = append(s.order, d.DonorID)
	}
	return s
}

// Toggle flips id and reports whether it is now selected. Unknown ids are ignored.
func (s *Selection) Toggle(id string) bool {
	if !s.known(id) {
		return false
	}
	if s.selected[id] {
		delete(s.selected, id)
		return false
	}
	s.selected[id] = true
	return true
}

func (s *Selection) Select(id string) {
	if s.known(id) {
		s.selected[id] = true
	}
}

func (s *Selection) SelectAll() {
	for _, id := range s.order {
		s.selected[id] = true
	}
}

func (s *Selection) Clear() {
	s.selected = make(map[string]bool)
}

func (s *Selection) IsSelected(id string) bool { return s.selected[id] }

func (s *Selection) Count() int { return len(s.selected) }

func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.selected))
	for _, id := range s.order {
		if s.selected[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Selection) known(id string) bool {
	for _, o := range s.order {
		if o == id {
			return true
		}
	}
	return false
}
