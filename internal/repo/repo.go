package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/domain"
	"taskdeck/internal/events"
)

// Repo is the persistence service collaborator: document-shaped task rows in
// SQLite reachable through query-by-owner, insert, partial update and delete.
type Repo struct {
	DB  *sql.DB
	Now func() time.Time
}

var ErrNotFound = errors.New("not found")

func (r Repo) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r Repo) writer() events.Writer {
	return events.Writer{DB: r.DB, Now: r.Now}
}

// ListTasksByOwner returns every task for the owner, newest first.
func (r Repo) ListTasksByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,title,description,status,category,due_date,created_at,updated_at,owner_id,tags_json,attachments_json
FROM tasks WHERE owner_id=? ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r Repo) GetTask(ctx context.Context, id string) (domain.Task, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id,title,description,status,category,due_date,created_at,updated_at,owner_id,tags_json,attachments_json
FROM tasks WHERE id=?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTask(row scannable) (domain.Task, error) {
	var t domain.Task
	var description, tagsJSON, attachmentsJSON sql.NullString
	err := row.Scan(&t.ID, &t.Title, &description, &t.Status, &t.Category, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt, &t.OwnerID, &tagsJSON, &attachmentsJSON)
	if err != nil {
		return t, err
	}
	if description.Valid {
		t.Description = description.String
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &t.Tags); err != nil {
			return t, fmt.Errorf("tags for task %s: %w", t.ID, err)
		}
	}
	if attachmentsJSON.Valid && attachmentsJSON.String != "" {
		if err := json.Unmarshal([]byte(attachmentsJSON.String), &t.Attachments); err != nil {
			return t, fmt.Errorf("attachments for task %s: %w", t.ID, err)
		}
	}
	return t, nil
}

// InsertTask stores a new task and assigns it an id. The caller supplies
// created_at, updated_at and owner_id; the store owns id assignment.
func (r Repo) InsertTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	tagsJSON, err := marshalStringSlice(t.Tags)
	if err != nil {
		return t, err
	}
	attJSON, err := marshalStringSlice(t.Attachments)
	if err != nil {
		return t, err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return t, err
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `INSERT INTO tasks(id,title,description,status,category,due_date,created_at,updated_at,owner_id,tags_json,attachments_json)
VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.Title, nullable(t.Description), t.Status, t.Category, t.DueDate,
		t.CreatedAt, t.UpdatedAt, t.OwnerID, tagsJSON, attJSON)
	if err != nil {
		return t, fmt.Errorf("insert task: %w", err)
	}
	if err := r.writer().Append(ctx, tx, "task.created", t.OwnerID, t.ID, events.EventPayload{"title": t.Title, "status": t.Status}); err != nil {
		return t, err
	}
	if err := tx.Commit(); err != nil {
		return t, err
	}
	return t, nil
}

// UpdateTaskFields merges the patch into the stored task. updated_at is
// always refreshed, even for an empty patch.
func (r Repo) UpdateTaskFields(ctx context.Context, id string, p domain.Patch) (domain.Task, error) {
	t, err := r.GetTask(ctx, id)
	if err != nil {
		return t, err
	}
	from := t.Status
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Tags != nil {
		t.Tags = dedupe(p.Tags)
	}
	if p.Attachments != nil {
		t.Attachments = p.Attachments
	}
	t.UpdatedAt = r.now().UTC().Format(time.RFC3339)

	tagsJSON, err := marshalStringSlice(t.Tags)
	if err != nil {
		return t, err
	}
	attJSON, err := marshalStringSlice(t.Attachments)
	if err != nil {
		return t, err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return t, err
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `UPDATE tasks SET title=?, description=?, status=?, category=?, due_date=?, updated_at=?, tags_json=?, attachments_json=? WHERE id=?`,
		t.Title, nullable(t.Description), t.Status, t.Category, t.DueDate, t.UpdatedAt, tagsJSON, attJSON, t.ID)
	if err != nil {
		return t, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return t, ErrNotFound
	}
	if err := r.writer().Append(ctx, tx, "task.updated", t.OwnerID, t.ID, events.EventPayload{
		"from_status": from,
		"to_status":   t.Status,
	}); err != nil {
		return t, err
	}
	if err := tx.Commit(); err != nil {
		return t, err
	}
	return t, nil
}

// DeleteTask removes a task permanently. No tombstone remains.
func (r Repo) DeleteTask(ctx context.Context, id string) error {
	t, err := r.GetTask(ctx, id)
	if err != nil {
		return err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := r.writer().Append(ctx, tx, "task.deleted", t.OwnerID, t.ID, events.EventPayload{"title": t.Title}); err != nil {
		return err
	}
	return tx.Commit()
}

// UpsertUser records the identity tuple supplied by the identity provider.
func (r Repo) UpsertUser(ctx context.Context, u domain.User) error {
	now := r.now().UTC().Format(time.RFC3339)
	_, err := r.DB.ExecContext(ctx, `INSERT INTO users(id,name,email,avatar_url,created_at) VALUES (?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, avatar_url=excluded.avatar_url`,
		u.ID, u.Name, u.Email, nullable(u.AvatarURL), now)
	return err
}

func (r Repo) GetUser(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	var avatar sql.NullString
	err := r.DB.QueryRowContext(ctx, `SELECT id,name,email,avatar_url FROM users WHERE id=?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &avatar)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	if avatar.Valid {
		u.AvatarURL = avatar.String
	}
	return u, err
}

// LatestEvents returns the most recent event rows, optionally scoped to an owner.
func (r Repo) LatestEvents(ctx context.Context, limit int, ownerID string) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id,ts,type,owner_id,task_id,payload_json FROM events`
	var args []any
	if ownerID != "" {
		query += ` WHERE owner_id=?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		var owner, task sql.NullString
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &owner, &task, &e.Payload); err != nil {
			return nil, err
		}
		if owner.Valid {
			e.OwnerID = owner.String
		}
		if task.Valid {
			e.TaskID = task.String
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func marshalStringSlice(in []string) (any, error) {
	if len(in) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func dedupe(in []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
