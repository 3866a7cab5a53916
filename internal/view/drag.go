package view

import "taskdeck/internal/domain"

// Drop describes a completed drag gesture over the lanes.
type Drop struct {
	TaskID      string
	Source      domain.Status
	SourceIndex int
	Dest        domain.Status
	DestIndex   int
	Cancelled   bool
}

// StatusCommand is the single mutation a drop can produce.
type StatusCommand struct {
	TaskID string
	Status domain.Status
}

// Resolve translates a drop into at most one status-change command.
// Cancelled gestures and drops onto the exact same lane and index are
// suppressed. Any other drop yields one command carrying the destination
// lane, regardless of destination index: intra-lane position is not
// persisted, so a same-lane reorder "sticks" only until the next reload and
// then reverts to creation order.
func Resolve(d Drop) (StatusCommand, bool) {
	if d.Cancelled {
		return StatusCommand{}, false
	}
	if d.Dest == d.Source && d.DestIndex == d.SourceIndex {
		return StatusCommand{}, false
	}
	return StatusCommand{TaskID: d.TaskID, Status: d.Dest}, true
}
