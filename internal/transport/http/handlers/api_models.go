package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/task-bounty-service/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary describes a minimal view of a user returned by the API.
type UserSummary struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse describes the response returned for a successful login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// CreateUserRequest defines the payload for the admin user creation endpoint.
type CreateUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	RoleIDs  []int64 `json:"role_ids"`
}

// CreateUserResponse carries the identifier of a newly created account.
type CreateUserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// RoleSummary describes a role entry in catalog listings.
type RoleSummary struct {
	ID       int64  `json:"id"`
	RoleKey  string `json:"role_key"`
	RoleName string `json:"role_name"`
}

// PermissionSummary describes a permission entry in catalog listings.
type PermissionSummary struct {
	ID       int64  `json:"id"`
	PermKey  string `json:"perm_key"`
	PermName string `json:"perm_name"`
}

// PaginationInfo carries paging metadata on list responses.
type PaginationInfo struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// TaskResponse is the API view of a task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	RewardCNY   int32     `json:"reward_cny"`
	RewardToken string    `json:"reward_token"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Code:        task.Code,
		Name:        task.Name,
		RewardCNY:   task.RewardCNY,
		RewardToken: task.RewardToken,
		Description: task.Description,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// TaskListResponse is one page of tasks.
type TaskListResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	Pagination PaginationInfo `json:"pagination"`
}

// CreateTaskRequest defines the payload for task creation.
type CreateTaskRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	RewardCNY   int32  `json:"reward_cny"`
	RewardToken string `json:"reward_token"`
	Description string `json:"description"`
}

// UpdateTaskRequest defines the payload for partial task updates.
type UpdateTaskRequest struct {
	Name        *string `json:"name"`
	RewardCNY   *int32  `json:"reward_cny"`
	RewardToken *string `json:"reward_token"`
	Description *string `json:"description"`
}

// SubmissionResponse is the API view of a task submission.
type SubmissionResponse struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	PRURL     string    `json:"pr_url"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSubmissionResponse(sub domain.TaskSubmission) SubmissionResponse {
	return SubmissionResponse{
		ID:        sub.ID,
		TaskID:    sub.TaskID,
		UserID:    sub.UserID,
		PRURL:     sub.PRURL,
		Status:    string(sub.Status),
		Note:      sub.Note,
		CreatedAt: sub.CreatedAt,
		UpdatedAt: sub.UpdatedAt,
	}
}

// SubmissionListResponse is one page of submissions.
type SubmissionListResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
	Pagination  PaginationInfo       `json:"pagination"`
}

// ReviewRequest carries an optional note for approve and reject decisions.
type ReviewRequest struct {
	Note *string `json:"note"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports downstream dependency health.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
