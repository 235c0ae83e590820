package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arklim/task-bounty-service/internal/core/domain"
	"github.com/arklim/task-bounty-service/internal/usecase"
)

// TaskHandler exposes the task CRUD endpoints.
type TaskHandler struct {
	tasks *usecase.TaskService
}

// NewTaskHandler constructs TaskHandler.
func NewTaskHandler(tasks *usecase.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid id"))
		return 0, false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// List returns one page of tasks, optionally filtered by a search term.
func (h *TaskHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 0)
	search := c.Query("search")

	result, err := h.tasks.List(c.Request.Context(), search, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list tasks"))
		return
	}

	out := make([]TaskResponse, 0, len(result.Tasks))
	for _, task := range result.Tasks {
		out = append(out, newTaskResponse(task))
	}

	c.JSON(http.StatusOK, TaskListResponse{
		Tasks: out,
		Pagination: PaginationInfo{
			Page:     result.Page,
			PageSize: result.PageSize,
			Total:    result.Total,
		},
	})
}

// Get returns a single task.
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTaskNotFound, Status: http.StatusNotFound, Message: "task not found"},
		}, http.StatusInternalServerError, "failed to load task")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(*task))
}

// Create stores a new task.
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "code and name are required"))
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), domain.Task{
		Code:        req.Code,
		Name:        req.Name,
		RewardCNY:   req.RewardCNY,
		RewardToken: req.RewardToken,
		Description: req.Description,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create task"))
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(*task))
}

// Update applies a partial update to a task.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request body"))
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), id, domain.TaskPatch{
		Name:        req.Name,
		RewardCNY:   req.RewardCNY,
		RewardToken: req.RewardToken,
		Description: req.Description,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTaskNotFound, Status: http.StatusNotFound, Message: "task not found"},
			{Err: usecase.ErrEmptyPatch, Status: http.StatusBadRequest, Message: "no fields to update"},
		}, http.StatusInternalServerError, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(*task))
}

// Delete removes a task.
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTaskNotFound, Status: http.StatusNotFound, Message: "task not found"},
		}, http.StatusInternalServerError, "failed to delete task")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "task deleted"})
}
