package store_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"taskdeck/internal/db"
	"taskdeck/internal/domain"
	"taskdeck/internal/migrate"
	"taskdeck/internal/repo"
	"taskdeck/internal/store"
)

type testEnv struct {
	Store *store.Store
	Repo  repo.Repo
	Ctx   context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	if _, err := db.EnsureWorkspace(dir); err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	r := repo.Repo{DB: conn}
	ctx := context.Background()
	if err := r.UpsertUser(ctx, domain.User{ID: "alice", Name: "Alice"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	st := store.New(r, "alice")
	st.Logger = log.New(io.Discard, "", 0)
	return testEnv{Store: st, Repo: r, Ctx: ctx}
}

func TestCreateReloadsCollection(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.Store.Create(env.Ctx, domain.Draft{
		Title:    "First",
		Status:   domain.StatusTodo,
		Category: domain.CategoryWork,
		Tags:     []string{"a", "a", "b"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("id not assigned")
	}
	if len(created.Tags) != 2 {
		t.Fatalf("tags not deduplicated: %v", created.Tags)
	}
	tasks := env.Store.Tasks()
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Fatalf("collection after create: %+v", tasks)
	}
}

func TestListOrderNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		tick := base.Add(time.Duration(i) * time.Minute)
		env.Store.Now = func() time.Time { return tick }
		if _, err := env.Store.Create(env.Ctx, domain.Draft{
			Title:    "task",
			Status:   domain.StatusTodo,
			Category: domain.CategoryWork,
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	tasks := env.Store.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("count = %d", len(tasks))
	}
	for i := 1; i < len(tasks); i++ {
		if tasks[i-1].CreatedAt < tasks[i].CreatedAt {
			t.Fatalf("not newest first: %s before %s", tasks[i-1].CreatedAt, tasks[i].CreatedAt)
		}
	}
}

func TestUpdateRefreshesUpdatedAtOnly(t *testing.T) {
	env := newTestEnv(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	env.Store.Now = func() time.Time { return created }
	env.Repo.Now = func() time.Time { return created }
	task, err := env.Store.Create(env.Ctx, domain.Draft{
		Title:    "v1",
		Status:   domain.StatusTodo,
		Category: domain.CategoryWork,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	later := created.Add(time.Hour)
	env.Repo.Now = func() time.Time { return later }
	env.Store.Persistence = env.Repo
	title := "v2"
	updated, err := env.Store.Update(env.Ctx, task.ID, domain.Patch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CreatedAt != task.CreatedAt {
		t.Fatalf("created_at changed: %s -> %s", task.CreatedAt, updated.CreatedAt)
	}
	if updated.UpdatedAt <= task.UpdatedAt {
		t.Fatalf("updated_at not refreshed: %s -> %s", task.UpdatedAt, updated.UpdatedAt)
	}

	// Even a no-change patch refreshes updated_at.
	evenLater := later.Add(time.Hour)
	env.Repo.Now = func() time.Time { return evenLater }
	env.Store.Persistence = env.Repo
	again, err := env.Store.Update(env.Ctx, task.ID, domain.Patch{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if again.UpdatedAt <= updated.UpdatedAt {
		t.Fatalf("empty patch did not refresh updated_at: %s -> %s", updated.UpdatedAt, again.UpdatedAt)
	}
}

func TestRemoveIsComplete(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Store.Create(env.Ctx, domain.Draft{
		Title:    "doomed",
		Status:   domain.StatusTodo,
		Category: domain.CategoryPersonal,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := env.Store.Remove(env.Ctx, task.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(env.Store.Tasks()) != 0 {
		t.Fatal("task still visible after remove")
	}
	if _, err := env.Repo.GetTask(env.Ctx, task.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("get after remove: %v", err)
	}
	if err := env.Store.Remove(env.Ctx, task.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("second remove: %v", err)
	}
}

func TestToggleNeverYieldsInProgress(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Store.Create(env.Ctx, domain.Draft{
		Title:    "toggle me",
		Status:   domain.StatusInProgress,
		Category: domain.CategoryWork,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done, err := env.Store.ToggleStatus(env.Ctx, task.ID, task.Status)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if done.Status != domain.StatusCompleted {
		t.Fatalf("IN_PROGRESS toggled to %s, want COMPLETED", done.Status)
	}
	back, err := env.Store.ToggleStatus(env.Ctx, task.ID, done.Status)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if back.Status != domain.StatusTodo {
		t.Fatalf("COMPLETED toggled to %s, want TODO", back.Status)
	}
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	cases := []domain.Draft{
		{Title: "bad status", Status: "DONE", Category: domain.CategoryWork},
		{Title: "bad category", Status: domain.StatusTodo, Category: "URGENT"},
		{Title: "bad date", Status: domain.StatusTodo, Category: domain.CategoryWork, DueDate: "tomorrow"},
	}
	for _, d := range cases {
		if _, err := env.Store.Create(env.Ctx, d); err == nil {
			t.Fatalf("draft %+v accepted", d)
		}
	}
	if len(env.Store.Tasks()) != 0 {
		t.Fatal("rejected drafts reached the collection")
	}
	// An empty title is accepted; validation covers shape, not content.
	if _, err := env.Store.Create(env.Ctx, domain.Draft{Status: domain.StatusTodo, Category: domain.CategoryWork}); err != nil {
		t.Fatalf("empty title rejected: %v", err)
	}
}

// failingPersistence wraps a working persistence layer and fails selected
// operations to observe what reaches the collection.
type failingPersistence struct {
	store.Persistence
	failList   bool
	failInsert bool
}

var errBoom = errors.New("boom")

func (f *failingPersistence) ListTasksByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	if f.failList {
		return nil, errBoom
	}
	return f.Persistence.ListTasksByOwner(ctx, ownerID)
}

func (f *failingPersistence) InsertTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if f.failInsert {
		return domain.Task{}, errBoom
	}
	return f.Persistence.InsertTask(ctx, task)
}

func TestCreateFailureLeavesCollectionUnchanged(t *testing.T) {
	env := newTestEnv(t)
	existing, err := env.Store.Create(env.Ctx, domain.Draft{
		Title:    "keep",
		Status:   domain.StatusTodo,
		Category: domain.CategoryWork,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fp := &failingPersistence{Persistence: env.Repo, failInsert: true}
	env.Store.Persistence = fp
	if _, err := env.Store.Create(env.Ctx, domain.Draft{
		Title:    "lost",
		Status:   domain.StatusTodo,
		Category: domain.CategoryWork,
	}); !errors.Is(err, errBoom) {
		t.Fatalf("create error = %v, want boom", err)
	}
	tasks := env.Store.Tasks()
	if len(tasks) != 1 || tasks[0].ID != existing.ID {
		t.Fatalf("collection after failed create: %+v", tasks)
	}
}

func TestLoadFailureResetsCollection(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Store.Create(env.Ctx, domain.Draft{
		Title:    "present",
		Status:   domain.StatusTodo,
		Category: domain.CategoryWork,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	fp := &failingPersistence{Persistence: env.Repo, failList: true}
	env.Store.Persistence = fp
	env.Store.Load(env.Ctx)
	// The failure is swallowed: collection empty, loading flag cleared.
	if got := env.Store.Tasks(); len(got) != 0 {
		t.Fatalf("collection after failed load: %+v", got)
	}
	if env.Store.Loading() {
		t.Fatal("loading flag stuck after failed load")
	}

	fp.failList = false
	env.Store.Load(env.Ctx)
	if got := env.Store.Tasks(); len(got) != 1 {
		t.Fatalf("collection after recovery: %+v", got)
	}
}
