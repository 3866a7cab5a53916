package view_test

import (
	"testing"

	"taskdeck/internal/domain"
	"taskdeck/internal/view"
)

func TestResolveCancelled(t *testing.T) {
	_, ok := view.Resolve(view.Drop{
		TaskID:    "1",
		Source:    domain.StatusTodo,
		Dest:      domain.StatusCompleted,
		Cancelled: true,
	})
	if ok {
		t.Fatal("cancelled drop produced a command")
	}
}

func TestResolveSamePosition(t *testing.T) {
	_, ok := view.Resolve(view.Drop{
		TaskID:      "1",
		Source:      domain.StatusTodo,
		SourceIndex: 2,
		Dest:        domain.StatusTodo,
		DestIndex:   2,
	})
	if ok {
		t.Fatal("same-position drop produced a command")
	}
}

func TestResolveCrossLane(t *testing.T) {
	cmd, ok := view.Resolve(view.Drop{
		TaskID:      "1",
		Source:      domain.StatusTodo,
		SourceIndex: 0,
		Dest:        domain.StatusInProgress,
		DestIndex:   3,
	})
	if !ok {
		t.Fatal("cross-lane drop suppressed")
	}
	if cmd.TaskID != "1" || cmd.Status != domain.StatusInProgress {
		t.Fatalf("command = %+v", cmd)
	}
}

// A same-lane reorder still issues a command with the unchanged status; the
// position itself is not persisted.
func TestResolveIntraLaneReorder(t *testing.T) {
	cmd, ok := view.Resolve(view.Drop{
		TaskID:      "1",
		Source:      domain.StatusTodo,
		SourceIndex: 0,
		Dest:        domain.StatusTodo,
		DestIndex:   2,
	})
	if !ok {
		t.Fatal("intra-lane reorder suppressed")
	}
	if cmd.Status != domain.StatusTodo {
		t.Fatalf("status = %s, want TODO", cmd.Status)
	}
}
