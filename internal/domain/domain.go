package domain

import (
	"fmt"
	"time"
)

// Status is the task lifecycle state. Any status may transition directly to
// any other; there is no strict pipeline.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Statuses lists every status in fixed lane order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Category is a stored task category. The filter-only ALL sentinel lives in
// FilterCategory and is never a valid stored value.
type Category string

const (
	CategoryWork     Category = "WORK"
	CategoryPersonal Category = "PERSONAL"
)

func (c Category) Valid() bool {
	return c == CategoryWork || c == CategoryPersonal
}

// FilterCategory is the view-layer category selector. Distinct from Category
// so FilterAll cannot end up persisted on a task.
type FilterCategory string

const (
	FilterAll      FilterCategory = "ALL"
	FilterWork     FilterCategory = "WORK"
	FilterPersonal FilterCategory = "PERSONAL"
)

func (f FilterCategory) Valid() bool {
	return f == FilterAll || f == FilterWork || f == FilterPersonal
}

// Matches reports whether a stored category passes this filter value.
func (f FilterCategory) Matches(c Category) bool {
	return f == FilterAll || string(f) == string(c)
}

type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status" enum:"TODO,IN_PROGRESS,COMPLETED"`
	Category    Category `json:"category" enum:"WORK,PERSONAL"`
	DueDate     string   `json:"due_date" format:"date"`
	CreatedAt   string   `json:"created_at" format:"date-time"`
	UpdatedAt   string   `json:"updated_at" format:"date-time"`
	OwnerID     string   `json:"owner_id"`
	Tags        []string `json:"tags,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// AddTag appends a tag, suppressing duplicates at the point of addition.
func (t *Task) AddTag(tag string) {
	for _, existing := range t.Tags {
		if existing == tag {
			return
		}
	}
	t.Tags = append(t.Tags, tag)
}

// RemoveTag deletes a tag if present, preserving order of the rest.
func (t *Task) RemoveTag(tag string) {
	out := t.Tags[:0]
	for _, existing := range t.Tags {
		if existing != tag {
			out = append(out, existing)
		}
	}
	t.Tags = out
}

// AppendAttachment adds a blob reference. Attachments are append-only; the
// core never reorders them and exposes no per-attachment delete.
func (t *Task) AppendAttachment(ref string) {
	t.Attachments = append(t.Attachments, ref)
}

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Event struct {
	ID      int64  `json:"id"`
	TS      string `json:"ts" format:"date-time"`
	Type    string `json:"type"`
	OwnerID string `json:"owner_id,omitempty"`
	TaskID  string `json:"task_id,omitempty"`
	Payload string `json:"payload_json"`
}

type APIKey struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name,omitempty"`
	KeyHash   string `json:"key_hash"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

// Draft is a candidate task payload produced by the form adapter. The core
// validates structural shape only; an empty title is accepted.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status" enum:"TODO,IN_PROGRESS,COMPLETED"`
	Category    Category `json:"category" enum:"WORK,PERSONAL"`
	DueDate     string   `json:"due_date" format:"date"`
	Tags        []string `json:"tags,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// Validate checks the draft's structural shape.
func (d Draft) Validate() error {
	if !d.Status.Valid() {
		return fmt.Errorf("invalid status %q", d.Status)
	}
	if !d.Category.Valid() {
		return fmt.Errorf("invalid category %q", d.Category)
	}
	if d.DueDate != "" {
		if _, err := time.Parse("2006-01-02", d.DueDate); err != nil {
			return fmt.Errorf("invalid due date %q: %w", d.DueDate, err)
		}
	}
	return nil
}

// Patch carries a partial-field update. Nil fields are left unchanged.
// UpdatedAt is always refreshed on update regardless of the patch contents.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty" enum:"TODO,IN_PROGRESS,COMPLETED"`
	Category    *Category `json:"category,omitempty" enum:"WORK,PERSONAL"`
	DueDate     *string   `json:"due_date,omitempty" format:"date"`
	Tags        []string  `json:"tags,omitempty"`
	Attachments []string  `json:"attachments,omitempty"`
}

// Validate checks only the fields present.
func (p Patch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("invalid status %q", *p.Status)
	}
	if p.Category != nil && !p.Category.Valid() {
		return fmt.Errorf("invalid category %q", *p.Category)
	}
	if p.DueDate != nil && *p.DueDate != "" {
		if _, err := time.Parse("2006-01-02", *p.DueDate); err != nil {
			return fmt.Errorf("invalid due date %q: %w", *p.DueDate, err)
		}
	}
	return nil
}
