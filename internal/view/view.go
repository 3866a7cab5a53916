// Package view derives the board/list presentation from the filtered task
// collection: status lanes, per-lane expanded flags and the responsive view
// mode. All view state lives on the Coordinator, never in package globals.
package view

import (
	"sync"

	"taskdeck/internal/domain"
)

type Mode string

const (
	ModeBoard Mode = "board"
	ModeList  Mode = "list"
)

// DefaultBreakpoint is the viewport width below which board layout is forced.
const DefaultBreakpoint = 768

// Lane is the set of tasks sharing one status, rendered as a column in board
// mode or a collapsible section in list mode.
type Lane struct {
	Status   domain.Status
	Tasks    []domain.Task
	Expanded bool
}

type Coordinator struct {
	mu         sync.Mutex
	mode       Mode
	width      int
	breakpoint int
	collapsed  map[domain.Status]bool
}

// NewCoordinator starts in list mode with all lanes expanded.
func NewCoordinator(breakpoint int) *Coordinator {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return &Coordinator{
		mode:       ModeList,
		breakpoint: breakpoint,
		collapsed:  map[domain.Status]bool{},
	}
}

// SetMode records the user's chosen mode.
func (c *Coordinator) SetMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m == ModeBoard || m == ModeList {
		c.mode = m
	}
}

// SetViewportWidth records the current viewport width; EffectiveMode is
// re-evaluated against it on every call.
func (c *Coordinator) SetViewportWidth(w int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = w
}

// EffectiveMode returns board whenever the viewport is narrower than the
// breakpoint, irrespective of the user's chosen mode.
func (c *Coordinator) EffectiveMode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.width > 0 && c.width < c.breakpoint {
		return ModeBoard
	}
	return c.mode
}

// Toggle flips a lane's expanded flag. Membership is unaffected; only
// whether the lane's members render.
func (c *Coordinator) Toggle(status domain.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collapsed[status] = !c.collapsed[status]
}

// Expanded reports a lane's flag; lanes default to expanded.
func (c *Coordinator) Expanded(status domain.Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.collapsed[status]
}

// GroupByStatus partitions tasks into exactly three lanes in the fixed order
// TODO, IN_PROGRESS, COMPLETED. An empty lane is present, never omitted.
// Relative order within a lane follows the input.
func (c *Coordinator) GroupByStatus(tasks []domain.Task) []Lane {
	c.mu.Lock()
	defer c.mu.Unlock()
	lanes := make([]Lane, 0, len(domain.Statuses))
	for _, status := range domain.Statuses {
		lane := Lane{Status: status, Expanded: !c.collapsed[status]}
		for _, t := range tasks {
			if t.Status == status {
				lane.Tasks = append(lane.Tasks, t)
			}
		}
		lanes = append(lanes, lane)
	}
	return lanes
}
