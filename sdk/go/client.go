package taskdecksdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Taskdeck HTTP API client.
type Client struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Task represents the API task model.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	Category    string   `json:"category"`
	DueDate     string   `json:"due_date"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	OwnerID     string   `json:"owner_id"`
	Tags        []string `json:"tags,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// User represents the authenticated profile.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Event represents a log entry.
type Event struct {
	ID      int64  `json:"id"`
	TS      string `json:"ts"`
	Type    string `json:"type"`
	OwnerID string `json:"owner_id"`
	TaskID  string `json:"task_id"`
	Payload string `json:"payload_json"`
}

// Lane is one status column of the board projection.
type Lane struct {
	Status   string `json:"status"`
	Expanded bool   `json:"expanded"`
	Tasks    []Task `json:"tasks"`
}

// Board is the grouped projection of the filtered collection.
type Board struct {
	Mode  string `json:"mode"`
	Lanes []Lane `json:"lanes"`
}

// MoveResult reports whether a drag gesture produced a status change.
type MoveResult struct {
	Applied bool `json:"applied"`
	Task    Task `json:"task"`
}

// ListFilter narrows ListTasks and GetBoard. Zero values mean no constraint;
// an empty Category is treated as ALL.
type ListFilter struct {
	Search   string
	Category string
	From     string
	To       string
}

func (f ListFilter) query() string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.From != "" {
		q.Set("from", f.From)
	}
	if f.To != "" {
		q.Set("to", f.To)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// ListTasks returns the owner's filtered tasks, newest first.
func (c *Client) ListTasks(ctx context.Context, f ListFilter) ([]Task, error) {
	var resp struct {
		Items []Task `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, "v0/tasks"+f.query(), nil, &resp)
	return resp.Items, err
}

// CreateTask creates a task. Status defaults to TODO server-side.
func (c *Client) CreateTask(ctx context.Context, title, category string, fields map[string]any) (Task, error) {
	body := map[string]any{"title": title}
	if category != "" {
		body["category"] = category
	}
	for k, v := range fields {
		body[k] = v
	}
	var resp Task
	err := c.do(ctx, http.MethodPost, "v0/tasks", body, &resp)
	return resp, err
}

// GetTask fetches a task by id.
func (c *Client) GetTask(ctx context.Context, id string) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodGet, taskPath(id), nil, &resp)
	return resp, err
}

// UpdateTask merges the given fields into the task.
func (c *Client) UpdateTask(ctx context.Context, id string, fields map[string]any) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodPatch, taskPath(id), fields, &resp)
	return resp, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// SetStatus moves a task to an explicit status.
func (c *Client) SetStatus(ctx context.Context, id, status string) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodPatch, taskPath(id)+"/status", map[string]any{"status": status}, &resp)
	return resp, err
}

// ToggleStatus flips a task between TODO and COMPLETED.
func (c *Client) ToggleStatus(ctx context.Context, id string) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodPost, taskPath(id)+"/toggle", nil, &resp)
	return resp, err
}

// MoveTask submits a drag gesture between lanes.
func (c *Client) MoveTask(ctx context.Context, id, source string, sourceIndex int, dest string, destIndex int) (MoveResult, error) {
	body := map[string]any{
		"source":       source,
		"source_index": sourceIndex,
		"dest":         dest,
		"dest_index":   destIndex,
	}
	var resp MoveResult
	err := c.do(ctx, http.MethodPost, taskPath(id)+"/move", body, &resp)
	return resp, err
}

// GetBoard returns the grouped board projection.
func (c *Client) GetBoard(ctx context.Context, f ListFilter, mode string, width int) (Board, error) {
	endpoint := "v0/board" + f.query()
	extra := url.Values{}
	if mode != "" {
		extra.Set("mode", mode)
	}
	if width > 0 {
		extra.Set("width", fmt.Sprintf("%d", width))
	}
	if len(extra) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + extra.Encode()
	}
	var resp Board
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Me returns the authenticated profile.
func (c *Client) Me(ctx context.Context) (User, error) {
	var resp User
	err := c.do(ctx, http.MethodGet, "v0/me", nil, &resp)
	return resp, err
}

// Events returns recent audit events, newest first.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	endpoint := "v0/events"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp []Event
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// DevLogin exchanges an identity tuple for a bearer token on servers with
// dev login enabled, and stores the token on the client.
func (c *Client) DevLogin(ctx context.Context, ownerID, name, email string) (string, error) {
	body := map[string]any{
		"owner_id": ownerID,
		"name":     name,
		"email":    email,
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "v0/auth/dev/login", body, &resp); err != nil {
		return "", err
	}
	c.BearerToken = resp.Token
	return resp.Token, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func taskPath(id string) string {
	return "v0/tasks/" + url.PathEscape(id)
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
