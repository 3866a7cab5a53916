package filter_test

import (
	"reflect"
	"testing"

	"taskdeck/internal/domain"
	"taskdeck/internal/filter"
)

func sampleTasks() []domain.Task {
	return []domain.Task{
		{ID: "1", Title: "Write report", Category: domain.CategoryWork, DueDate: "2024-01-10", Status: domain.StatusTodo},
		{ID: "2", Title: "Grocery run", Category: domain.CategoryPersonal, DueDate: "2024-01-12", Status: domain.StatusTodo},
		{ID: "3", Title: "Report review", Category: domain.CategoryWork, DueDate: "", Status: domain.StatusInProgress},
	}
}

func ids(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestApplySearchCaseInsensitive(t *testing.T) {
	got := filter.Apply(sampleTasks(), filter.Selection{Search: "REPORT"})
	if want := []string{"1", "3"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}

func TestApplyCategory(t *testing.T) {
	got := filter.Apply(sampleTasks(), filter.Selection{Category: domain.FilterPersonal})
	if want := []string{"2"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
	// ALL and the zero value behave identically.
	all := filter.Apply(sampleTasks(), filter.Selection{Category: domain.FilterAll})
	zero := filter.Apply(sampleTasks(), filter.Selection{})
	if !reflect.DeepEqual(ids(all), ids(zero)) || len(all) != 3 {
		t.Fatalf("ALL = %v, zero = %v", ids(all), ids(zero))
	}
}

func TestApplyDateRange(t *testing.T) {
	// A single-day range: end defaults to start.
	got := filter.Apply(sampleTasks(), filter.Selection{Dates: filter.DateRange{Start: "2024-01-10"}})
	if want := []string{"1"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("single day ids = %v, want %v", ids(got), want)
	}
	got = filter.Apply(sampleTasks(), filter.Selection{Dates: filter.DateRange{Start: "2024-01-10", End: "2024-01-12"}})
	if want := []string{"1", "2"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("range ids = %v, want %v", ids(got), want)
	}
	// No start bound means the date predicate passes for everything,
	// including tasks without a due date.
	got = filter.Apply(sampleTasks(), filter.Selection{Dates: filter.DateRange{End: "2024-01-01"}})
	if len(got) != 3 {
		t.Fatalf("end-only ids = %v", ids(got))
	}
}

func TestApplyPredicatesCompose(t *testing.T) {
	sel := filter.Selection{
		Search:   "report",
		Category: domain.FilterWork,
		Dates:    filter.DateRange{Start: "2024-01-01", End: "2024-01-31"},
	}
	got := filter.Apply(sampleTasks(), sel)
	if want := []string{"1"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}

func TestApplyPure(t *testing.T) {
	in := sampleTasks()
	snapshot := sampleTasks()
	_ = filter.Apply(in, filter.Selection{Search: "report", Category: domain.FilterWork})
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatal("input mutated")
	}
	// Order preservation: output follows input order even when filtered.
	got := filter.Apply(in, filter.Selection{Category: domain.FilterWork})
	if want := []string{"1", "3"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("ids = %v, want %v", ids(got), want)
	}
}
