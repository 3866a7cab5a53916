package server

import (
	"taskdeck/internal/domain"
)

// Request payloads

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty" enum:"TODO,IN_PROGRESS,COMPLETED"`
	Category    *string  `json:"category,omitempty" enum:"WORK,PERSONAL"`
	DueDate     *string  `json:"due_date,omitempty" format:"date"`
	Tags        []string `json:"tags,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty" enum:"TODO,IN_PROGRESS,COMPLETED"`
	Category    *string  `json:"category,omitempty" enum:"WORK,PERSONAL"`
	DueDate     *string  `json:"due_date,omitempty" format:"date"`
	Tags        []string `json:"tags,omitempty"`
}

type SetStatusRequest struct {
	Status string `json:"status" enum:"TODO,IN_PROGRESS,COMPLETED"`
}

type MoveTaskRequest struct {
	Source      string `json:"source" enum:"TODO,IN_PROGRESS,COMPLETED"`
	SourceIndex int    `json:"source_index"`
	Dest        string `json:"dest" enum:"TODO,IN_PROGRESS,COMPLETED"`
	DestIndex   int    `json:"dest_index"`
	Cancelled   bool   `json:"cancelled,omitempty"`
}

type CreateKeyRequest struct {
	Name string `json:"name,omitempty"`
}

type DevLoginRequest struct {
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Response payloads

type TaskResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status" enum:"TODO,IN_PROGRESS,COMPLETED"`
	Category    string   `json:"category" enum:"WORK,PERSONAL"`
	DueDate     string   `json:"due_date" format:"date"`
	CreatedAt   string   `json:"created_at" format:"date-time"`
	UpdatedAt   string   `json:"updated_at" format:"date-time"`
	OwnerID     string   `json:"owner_id"`
	Tags        []string `json:"tags,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

type TaskListResponse struct {
	Items []TaskResponse `json:"items"`
}

type LaneResponse struct {
	Status   string         `json:"status" enum:"TODO,IN_PROGRESS,COMPLETED"`
	Expanded bool           `json:"expanded"`
	Tasks    []TaskResponse `json:"tasks"`
}

type BoardResponse struct {
	Mode  string         `json:"mode" enum:"board,list"`
	Lanes []LaneResponse `json:"lanes"`
}

// MoveTaskResponse reports whether the drop produced a status update.
// Suppressed gestures echo the task unchanged.
type MoveTaskResponse struct {
	Applied bool         `json:"applied"`
	Task    TaskResponse `json:"task"`
}

type KeyResponse struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name,omitempty"`
	Key       string `json:"key,omitempty"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type DevLoginResponse struct {
	Token string `json:"token"`
}

func toTaskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Category:    string(t.Category),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		OwnerID:     t.OwnerID,
		Tags:        t.Tags,
		Attachments: t.Attachments,
	}
}

func toTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}
