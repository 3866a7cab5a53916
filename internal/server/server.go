package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"taskdeck/internal/app"
	"taskdeck/internal/blob"
	"taskdeck/internal/config"
	"taskdeck/internal/domain"
	"taskdeck/internal/filter"
	"taskdeck/internal/repo"
	"taskdeck/internal/store"
	"taskdeck/internal/view"
)

// Config for the HTTP API handler.
type Config struct {
	Repo      repo.Repo
	Blob      blob.Store
	AppConfig *config.Config
	BasePath  string
	Auth      AuthConfig
	Now       func() time.Time
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"task not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// server owns one task store per authenticated owner so every mutation goes
// through the reload-after-mutation engine rather than straight at the repo.
type server struct {
	cfg    Config
	mu     sync.Mutex
	stores map[string]*store.Store
}

func (s *server) storeFor(ownerID string) *store.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.stores[ownerID]; ok {
		return st
	}
	st := store.New(s.cfg.Repo, ownerID)
	st.Logger = s.cfg.Auth.logger()
	if s.cfg.Now != nil {
		st.Now = s.cfg.Now
	}
	s.stores[ownerID] = st
	return st
}

// New returns an HTTP handler exposing the Taskdeck API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if cfg.AppConfig == nil {
		cfg.AppConfig = config.Default("")
	}
	s := &server{cfg: cfg, stores: map[string]*store.Store{}}

	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(newAuthMiddleware(basePath, cfg.Auth, cfg.Repo))
	hcfg := huma.DefaultConfig("Taskdeck API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerTasks(group, s)
	registerBoard(group, s)
	registerAttachments(group, s)
	registerKeys(group, s)
	registerEvents(group, s)
	registerMe(group, s)
	registerDevAuth(group, s)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	switch {
	case strings.Contains(lowered, "invalid") || strings.Contains(lowered, "required"):
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

// ownedTask fetches a task and enforces owner scoping. Foreign tasks read as
// not found so ids cannot be probed across owners.
func (s *server) ownedTask(ctx context.Context, id string) (domain.Task, Principal, huma.StatusError) {
	principal, authErr := ownerFromContext(ctx)
	if authErr != nil {
		return domain.Task{}, principal, authErr
	}
	t, err := s.cfg.Repo.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, principal, handleError(err)
	}
	if t.OwnerID != principal.OwnerID {
		return domain.Task{}, principal, newAPIError(http.StatusNotFound, "not_found", "not found", nil)
	}
	return t, principal, nil
}

func selectionFromQuery(search, category, from, to string) (filter.Selection, huma.StatusError) {
	sel := filter.Selection{
		Search:   search,
		Category: domain.FilterAll,
		Dates:    filter.DateRange{Start: from, End: to},
	}
	if category != "" {
		fc := domain.FilterCategory(category)
		if !fc.Valid() {
			return sel, newAPIError(http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid category filter %q", category), nil)
		}
		sel.Category = fc
	}
	return sel, nil
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

type listTasksInput struct {
	Search   string `query:"search"`
	Category string `query:"category" enum:"ALL,WORK,PERSONAL"`
	From     string `query:"from"`
	To       string `query:"to"`
}

func registerTasks(api huma.API, s *server) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
		Description: "Returns the owner's tasks newest first, filtered by search text, category and due-date range.",
	}, func(ctx context.Context, input *listTasksInput) (*struct {
		Body TaskListResponse `json:"body"`
	}, error) {
		principal, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		sel, selErr := selectionFromQuery(input.Search, input.Category, input.From, input.To)
		if selErr != nil {
			return nil, selErr
		}
		st := s.storeFor(principal.OwnerID)
		st.Load(ctx)
		tasks := filter.Apply(st.Tasks(), sel)
		return &struct {
			Body TaskListResponse `json:"body"`
		}{Body: TaskListResponse{Items: toTaskResponses(tasks)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create task",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		Body CreateTaskRequest `json:"body"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		principal, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		d := domain.Draft{
			Title:    input.Body.Title,
			Status:   domain.StatusTodo,
			Category: domain.Category(s.cfg.AppConfig.Defaults.Category),
			Tags:     input.Body.Tags,
		}
		if d.Category == "" {
			d.Category = domain.CategoryWork
		}
		if input.Body.Description != nil {
			d.Description = *input.Body.Description
		}
		if input.Body.Status != nil {
			d.Status = domain.Status(*input.Body.Status)
		}
		if input.Body.Category != nil {
			d.Category = domain.Category(*input.Body.Category)
		}
		if input.Body.DueDate != nil {
			d.DueDate = *input.Body.DueDate
		}
		created, err := s.storeFor(principal.OwnerID).Create(ctx, d)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: toTaskResponse(created)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{task_id}",
		Summary:     "Get task",
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		t, _, errSt := s.ownedTask(ctx, input.TaskID)
		if errSt != nil {
			return nil, errSt
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: toTaskResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{task_id}",
		Summary:     "Update task fields",
		Description: "Merges the given fields into the task. updated_at refreshes on every successful update.",
	}, func(ctx context.Context, input *struct {
		TaskID string            `path:"task_id"`
		Body   UpdateTaskRequest `json:"body"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		_, principal, errSt := s.ownedTask(ctx, input.TaskID)
		if errSt != nil {
			return nil, errSt
		}
		p := domain.Patch{
			Title:       input.Body.Title,
			Description: input.Body.Description,
			DueDate:     input.Body.DueDate,
			Tags:        input.Body.Tags,
		}
		if input.Body.Status != nil {
			status := domain.Status(*input.Body.Status)
			p.Status = &status
		}
		if input.Body.Category != nil {
			category := domain.Category(*input.Body.Category)
			p.Category = &category
		}
		updated, err := s.storeFor(principal.OwnerID).Update(ctx, input.TaskID, p)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: toTaskResponse(updated)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/tasks/{task_id}",
		Summary:       "Delete task",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct{}, error) {
		_, principal, errSt := s.ownedTask(ctx, input.TaskID)
		if errSt != nil {
			return nil, errSt
		}
		if err := s.storeFor(principal.OwnerID).Remove(ctx, input.TaskID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-task-status",
		Method:      http.MethodPatch,
		Path:        "/tasks/{task_id}/status",
		Summary:     "Set task status",
		Description: "Explicit menu transition; any status may move directly to any other.",
	}, func(ctx context.Context, input *struct {
		TaskID string           `path:"task_id"`
		Body   SetStatusRequest `json:"body"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		_, principal, errSt := s.ownedTask(ctx, input.TaskID)
		if errSt != nil {
			return nil, errSt
		}
		updated, err := s.storeFor(principal.OwnerID).SetStatus(ctx, input.TaskID, domain.Status(input.Body.Status))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: toTaskResponse(updated)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-task",
		Method:      http.MethodPost,
		Path:        "/tasks/{task_id}/toggle",
		Summary:     "Toggle between TODO and COMPLETED",
		Description: "Checkbox shortcut. A completed task returns to TODO; anything else completes. Never yields IN_PROGRESS.",
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		t, principal, errSt := s.ownedTask(ctx, input.TaskID)
		if errSt != nil {
			return nil, errSt
		}
		updated, err := s.storeFor(principal.OwnerID).ToggleStatus(ctx, input.TaskID, t.Status)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: toTaskResponse(updated)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-task",
		Method:      http.MethodPost,
		Path:        "/tasks/{task_id}/move",
		Summary:     "Apply a drag gesture",
		Description: "Translates a drop into at most one status change. Cancelled gestures and exact same-position drops apply nothing. Intra-lane position is not persisted.",
	}, func(ctx context.Context, input *struct {
		TaskID string          `path:"task_id"`
		Body   MoveTaskRequest `json:"body"`
	}) (*struct {
		Body MoveTaskResponse `json:"body"`
	}, error) {
		t, principal, errSt := s.ownedTask(ctx, input.TaskID)
		if errSt != nil {
			return nil, errSt
		}
		drop := view.Drop{
			TaskID:      input.TaskID,
			Source:      domain.Status(input.Body.Source),
			SourceIndex: input.Body.SourceIndex,
			Dest:        domain.Status(input.Body.Dest),
			DestIndex:   input.Body.DestIndex,
			Cancelled:   input.Body.Cancelled,
		}
		cmd, ok := view.Resolve(drop)
		if !ok {
			return &struct {
				Body MoveTaskResponse `json:"body"`
			}{Body: MoveTaskResponse{Applied: false, Task: toTaskResponse(t)}}, nil
		}
		updated, err := s.storeFor(principal.OwnerID).SetStatus(ctx, cmd.TaskID, cmd.Status)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body MoveTaskResponse `json:"body"`
		}{Body: MoveTaskResponse{Applied: true, Task: toTaskResponse(updated)}}, nil
	})
}

func registerBoard(api huma.API, s *server) {
	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/board",
		Summary:     "Grouped board projection",
		Description: "Groups the filtered collection into the three status lanes in fixed order. Below the configured breakpoint the effective mode is board regardless of the requested mode.",
	}, func(ctx context.Context, input *struct {
		Search   string `query:"search"`
		Category string `query:"category" enum:"ALL,WORK,PERSONAL"`
		From     string `query:"from"`
		To       string `query:"to"`
		Mode     string `query:"mode" enum:"board,list"`
		Width    int    `query:"width"`
	}) (*struct {
		Body BoardResponse `json:"body"`
	}, error) {
		principal, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		sel, selErr := selectionFromQuery(input.Search, input.Category, input.From, input.To)
		if selErr != nil {
			return nil, selErr
		}
		st := s.storeFor(principal.OwnerID)
		st.Load(ctx)
		tasks := filter.Apply(st.Tasks(), sel)

		coord := view.NewCoordinator(s.cfg.AppConfig.View.Breakpoint)
		coord.SetMode(view.Mode(s.cfg.AppConfig.View.DefaultMode))
		if input.Mode != "" {
			coord.SetMode(view.Mode(input.Mode))
		}
		coord.SetViewportWidth(input.Width)

		lanes := coord.GroupByStatus(tasks)
		resp := BoardResponse{Mode: string(coord.EffectiveMode())}
		for _, lane := range lanes {
			resp.Lanes = append(resp.Lanes, LaneResponse{
				Status:   string(lane.Status),
				Expanded: lane.Expanded,
				Tasks:    toTaskResponses(lane.Tasks),
			})
		}
		return &struct {
			Body BoardResponse `json:"body"`
		}{Body: resp}, nil
	})
}

func registerAttachments(api huma.API, s *server) {
	huma.Register(api, huma.Operation{
		OperationID: "add-attachment",
		Method:      http.MethodPost,
		Path:        "/tasks/{task_id}/attachments",
		Summary:     "Attach a file",
		Description: "Stores the raw bytes with the blob collaborator and appends the returned reference to the task. Attachments are append-only.",
	}, func(ctx context.Context, input *struct {
		TaskID   string `path:"task_id"`
		Filename string `query:"filename"`
		RawBody  []byte
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		t, principal, errSt := s.ownedTask(ctx, input.TaskID)
		if errSt != nil {
			return nil, errSt
		}
		if s.cfg.Blob == nil {
			return nil, newAPIError(http.StatusNotImplemented, "not_implemented", "blob storage not configured", nil)
		}
		ref, err := s.cfg.Blob.Put(ctx, principal.OwnerID, input.Filename, bytes.NewReader(input.RawBody))
		if err != nil {
			return nil, handleError(err)
		}
		t.AppendAttachment(ref)
		updated, err := s.storeFor(principal.OwnerID).Update(ctx, input.TaskID, domain.Patch{Attachments: t.Attachments})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: toTaskResponse(updated)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-attachment",
		Method:      http.MethodGet,
		Path:        "/tasks/{task_id}/attachments/{index}",
		Summary:     "Download an attachment",
		Description: "Streams back the bytes behind the attachment reference at the given position in the task's attachment list.",
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
		Index  int    `path:"index" minimum:"0"`
	}) (*huma.StreamResponse, error) {
		t, _, errSt := s.ownedTask(ctx, input.TaskID)
		if errSt != nil {
			return nil, errSt
		}
		if s.cfg.Blob == nil {
			return nil, newAPIError(http.StatusNotImplemented, "not_implemented", "blob storage not configured", nil)
		}
		if input.Index >= len(t.Attachments) {
			return nil, newAPIError(http.StatusNotFound, "not_found", "attachment not found", nil)
		}
		ref := t.Attachments[input.Index]
		rc, err := s.cfg.Blob.Open(ref)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, newAPIError(http.StatusNotFound, "not_found", "attachment not found", nil)
			}
			return nil, handleError(err)
		}
		filename := path.Base(strings.TrimPrefix(ref, "blob:"))
		return &huma.StreamResponse{Body: func(hctx huma.Context) {
			defer rc.Close()
			hctx.SetHeader("Content-Type", "application/octet-stream")
			hctx.SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
			io.Copy(hctx.BodyWriter(), rc)
		}}, nil
	})
}

func registerKeys(api huma.API, s *server) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-key",
		Method:        http.MethodPost,
		Path:          "/keys",
		Summary:       "Create API key",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body CreateKeyRequest `json:"body"`
	}) (*struct {
		Body KeyResponse `json:"body"`
	}, error) {
		principal, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		plain, key, err := app.MintAPIKey(ctx, s.cfg.Repo, principal.OwnerID, input.Body.Name)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body KeyResponse `json:"body"`
		}{Body: KeyResponse{ID: key.ID, OwnerID: key.OwnerID, Name: key.Name, Key: plain, CreatedAt: key.CreatedAt}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-keys",
		Method:      http.MethodGet,
		Path:        "/keys",
		Summary:     "List API keys",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []KeyResponse `json:"body"`
	}, error) {
		principal, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		keys, err := s.cfg.Repo.ListAPIKeys(ctx, principal.OwnerID)
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]KeyResponse, 0, len(keys))
		for _, k := range keys {
			out = append(out, KeyResponse{ID: k.ID, OwnerID: k.OwnerID, Name: k.Name, CreatedAt: k.CreatedAt})
		}
		return &struct {
			Body []KeyResponse `json:"body"`
		}{Body: out}, nil
	})
}

func registerEvents(api huma.API, s *server) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "Latest events",
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit"`
	}) (*struct {
		Body []domain.Event `json:"body"`
	}, error) {
		principal, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		items, err := s.cfg.Repo.LatestEvents(ctx, input.Limit, principal.OwnerID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Event `json:"body"`
		}{Body: items}, nil
	})
}

func registerMe(api huma.API, s *server) {
	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/me",
		Summary:     "Current user",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.User `json:"body"`
	}, error) {
		principal, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		u, err := s.cfg.Repo.GetUser(ctx, principal.OwnerID)
		if errors.Is(err, repo.ErrNotFound) {
			u = principal.user()
			err = nil
		}
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.User `json:"body"`
		}{Body: u}, nil
	})
}

func registerDevAuth(api huma.API, s *server) {
	if !s.cfg.Auth.DevLogin {
		return
	}
	huma.Register(api, huma.Operation{
		OperationID: "dev-login",
		Method:      http.MethodPost,
		Path:        "/auth/dev/login",
		Summary:     "Issue a development token",
		Description: "Unauthenticated sign-in stand-in for local use. Records the identity tuple and returns a bearer token scoped to it.",
	}, func(ctx context.Context, input *struct {
		Body DevLoginRequest `json:"body"`
	}) (*struct {
		Body DevLoginResponse `json:"body"`
	}, error) {
		if input.Body.OwnerID == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "owner_id is required", nil)
		}
		u := domain.User{
			ID:        input.Body.OwnerID,
			Name:      input.Body.Name,
			Email:     input.Body.Email,
			AvatarURL: input.Body.AvatarURL,
		}
		if u.Name == "" {
			u.Name = "User"
		}
		if err := s.cfg.Repo.UpsertUser(ctx, u); err != nil {
			return nil, handleError(err)
		}
		now := time.Now
		if s.cfg.Now != nil {
			now = s.cfg.Now
		}
		token, err := issueToken(s.cfg.Auth.JWTSecret, u, 24*time.Hour, now())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body DevLoginResponse `json:"body"`
		}{Body: DevLoginResponse{Token: token}}, nil
	})
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Taskdeck API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
    <p style="padding: 1rem; font-family: sans-serif; color: #444;">
      Authenticate with Authorization: Bearer &lt;token&gt; or X-Api-Key.
    </p>
  </body>
</html>`, specURL)
}
