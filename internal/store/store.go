// Package store keeps an in-memory task collection synchronized with the
// persistence service. Consistency model: every successful mutation triggers
// a full reload, so read-after-write is the only guarantee. There is no
// optimistic update and no local patch-merge; under concurrent writers the
// last write silently wins.
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"taskdeck/internal/domain"
)

// Persistence is the narrow interface the store needs from the remote
// document store: query-by-owner ordered by creation, insert, partial
// update, delete.
type Persistence interface {
	ListTasksByOwner(ctx context.Context, ownerID string) ([]domain.Task, error)
	InsertTask(ctx context.Context, t domain.Task) (domain.Task, error)
	UpdateTaskFields(ctx context.Context, id string, p domain.Patch) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type Store struct {
	Persistence Persistence
	OwnerID     string
	Logger      *log.Logger
	Now         func() time.Time

	mu      sync.Mutex
	tasks   []domain.Task
	loading bool
}

func New(p Persistence, ownerID string) *Store {
	return &Store{
		Persistence: p,
		OwnerID:     ownerID,
		Now:         time.Now,
	}
}

func (s *Store) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Tasks returns a copy of the current collection, newest first. Callers must
// treat tasks as read-only and derive filtered or grouped values instead of
// mutating in place.
func (s *Store) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Loading reports whether a load round-trip is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Load replaces the collection with the authoritative owner-scoped read.
// A read failure is logged, never propagated: the collection resets to empty
// and the loading flag clears either way.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	tasks, err := s.Persistence.ListTasksByOwner(ctx, s.OwnerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger().Printf("load tasks for %s: %v", s.OwnerID, err)
		s.tasks = nil
		return
	}
	s.tasks = tasks
}

// Create validates the draft's shape, submits it with client-assigned
// timestamps, then reloads. On failure the collection is untouched and the
// error propagates; the failed task never appears.
func (s *Store) Create(ctx context.Context, d domain.Draft) (domain.Task, error) {
	if err := d.Validate(); err != nil {
		return domain.Task{}, err
	}
	now := s.now().UTC().Format(time.RFC3339)
	t := domain.Task{
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Category:    d.Category,
		DueDate:     d.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
		OwnerID:     s.OwnerID,
		Attachments: d.Attachments,
	}
	for _, tag := range d.Tags {
		t.AddTag(tag)
	}
	created, err := s.Persistence.InsertTask(ctx, t)
	if err != nil {
		return domain.Task{}, err
	}
	s.Load(ctx)
	return created, nil
}

// Update merges the patch into the stored task and reloads. updated_at is
// refreshed by the persistence layer on every successful update. On failure
// the collection keeps its pre-call state (a stale read until the next
// successful load).
func (s *Store) Update(ctx context.Context, id string, p domain.Patch) (domain.Task, error) {
	if err := p.Validate(); err != nil {
		return domain.Task{}, err
	}
	updated, err := s.Persistence.UpdateTaskFields(ctx, id, p)
	if err != nil {
		return domain.Task{}, err
	}
	s.Load(ctx)
	return updated, nil
}

// Remove deletes the task and reloads. Once deleted a task never reappears
// in a subsequent read.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.Persistence.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.Load(ctx)
	return nil
}

// SetStatus is the explicit menu transition: any status to any other.
func (s *Store) SetStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error) {
	return s.Update(ctx, id, domain.Patch{Status: &status})
}

// ToggleStatus is the checkbox shortcut between TODO and COMPLETED. It never
// yields IN_PROGRESS: a completed task toggles back to TODO, anything else
// toggles to COMPLETED.
func (s *Store) ToggleStatus(ctx context.Context, id string, current domain.Status) (domain.Task, error) {
	next := domain.StatusCompleted
	if current == domain.StatusCompleted {
		next = domain.StatusTodo
	}
	return s.SetStatus(ctx, id, next)
}
