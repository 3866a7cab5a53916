// Package filter projects the raw task collection into the subset matching
// the current selection. Apply is a pure function: it never mutates its
// input and preserves the input's relative order.
package filter

import (
	"strings"

	"taskdeck/internal/domain"
)

// DateRange bounds due dates inclusively. An empty Start matches everything;
// an empty End collapses the range to the single day Start.
type DateRange struct {
	Start string
	End   string
}

// Selection is the transient filter state: search text, category-or-ALL and
// an optional due-date range. It is never persisted.
type Selection struct {
	Search   string
	Category domain.FilterCategory
	Dates    DateRange
}

// Apply returns the tasks matching every predicate of the selection, in the
// input's order.
func Apply(tasks []domain.Task, sel Selection) []domain.Task {
	if sel.Category == "" {
		sel.Category = domain.FilterAll
	}
	search := strings.ToLower(sel.Search)
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		if !sel.Category.Matches(t.Category) {
			continue
		}
		if !sel.Dates.matches(t.DueDate) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (r DateRange) matches(dueDate string) bool {
	if r.Start == "" {
		return true
	}
	end := r.End
	if end == "" {
		end = r.Start
	}
	// ISO YYYY-MM-DD compares lexicographically as a date.
	return dueDate >= r.Start && dueDate <= end
}
