package view_test

import (
	"testing"

	"taskdeck/internal/domain"
	"taskdeck/internal/view"
)

func boardTasks() []domain.Task {
	return []domain.Task{
		{ID: "1", Title: "a", Status: domain.StatusTodo},
		{ID: "2", Title: "b", Status: domain.StatusCompleted},
		{ID: "3", Title: "c", Status: domain.StatusTodo},
	}
}

func TestGroupByStatusFixedLanes(t *testing.T) {
	c := view.NewCoordinator(0)
	lanes := c.GroupByStatus(boardTasks())
	if len(lanes) != 3 {
		t.Fatalf("lane count = %d, want 3", len(lanes))
	}
	wantOrder := []domain.Status{domain.StatusTodo, domain.StatusInProgress, domain.StatusCompleted}
	for i, lane := range lanes {
		if lane.Status != wantOrder[i] {
			t.Fatalf("lane %d = %s, want %s", i, lane.Status, wantOrder[i])
		}
	}
	if len(lanes[0].Tasks) != 2 || lanes[0].Tasks[0].ID != "1" || lanes[0].Tasks[1].ID != "3" {
		t.Fatalf("TODO lane = %+v", lanes[0].Tasks)
	}
	// An empty lane is present, never omitted.
	if lanes[1].Tasks != nil {
		t.Fatalf("IN_PROGRESS lane = %+v, want empty", lanes[1].Tasks)
	}
	if len(lanes[2].Tasks) != 1 {
		t.Fatalf("COMPLETED lane = %+v", lanes[2].Tasks)
	}
}

func TestGroupByStatusEmptyInput(t *testing.T) {
	c := view.NewCoordinator(0)
	lanes := c.GroupByStatus(nil)
	if len(lanes) != 3 {
		t.Fatalf("lane count = %d, want 3", len(lanes))
	}
	for _, lane := range lanes {
		if len(lane.Tasks) != 0 {
			t.Fatalf("lane %s not empty", lane.Status)
		}
	}
}

func TestEffectiveModeBreakpoint(t *testing.T) {
	c := view.NewCoordinator(768)
	c.SetMode(view.ModeList)

	c.SetViewportWidth(1024)
	if got := c.EffectiveMode(); got != view.ModeList {
		t.Fatalf("wide viewport mode = %s, want list", got)
	}

	// Below the breakpoint the board wins regardless of the chosen mode.
	c.SetViewportWidth(500)
	if got := c.EffectiveMode(); got != view.ModeBoard {
		t.Fatalf("narrow viewport mode = %s, want board", got)
	}
	c.SetMode(view.ModeList)
	if got := c.EffectiveMode(); got != view.ModeBoard {
		t.Fatalf("mode change below breakpoint = %s, want board", got)
	}

	// Exactly at the breakpoint the chosen mode applies again.
	c.SetViewportWidth(768)
	if got := c.EffectiveMode(); got != view.ModeList {
		t.Fatalf("at breakpoint mode = %s, want list", got)
	}

	// An unknown viewport (zero) never forces the board.
	c.SetViewportWidth(0)
	if got := c.EffectiveMode(); got != view.ModeList {
		t.Fatalf("unknown viewport mode = %s, want list", got)
	}
}

func TestToggleAffectsFlagNotMembership(t *testing.T) {
	c := view.NewCoordinator(0)
	if !c.Expanded(domain.StatusTodo) {
		t.Fatal("lanes should default to expanded")
	}
	c.Toggle(domain.StatusTodo)
	if c.Expanded(domain.StatusTodo) {
		t.Fatal("toggle did not collapse")
	}

	lanes := c.GroupByStatus(boardTasks())
	if lanes[0].Expanded {
		t.Fatal("collapsed flag not reflected in lane")
	}
	if len(lanes[0].Tasks) != 2 {
		t.Fatalf("collapse changed membership: %+v", lanes[0].Tasks)
	}

	c.Toggle(domain.StatusTodo)
	if !c.Expanded(domain.StatusTodo) {
		t.Fatal("second toggle did not expand")
	}
}
