package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arklim/task-bounty-service/internal/core/domain"
	"github.com/arklim/task-bounty-service/internal/core/port"
	"github.com/arklim/task-bounty-service/internal/repository"
)

var (
	// ErrTaskNotFound indicates the referenced task does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmptyPatch indicates a partial update carried no fields.
	ErrEmptyPatch = errors.New("no fields to update")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks    []domain.Task
	Total    int
	Page     int
	PageSize int
}

// TaskService coordinates the task CRUD surface.
type TaskService struct {
	tasks port.TaskRepository
}

// NewTaskService constructs a TaskService instance.
func NewTaskService(tasks port.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// normalizePage clamps page and pageSize into supported ranges.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// List returns one page of tasks, optionally filtered by a search term that
// matches name, code or description.
func (s *TaskService) List(ctx context.Context, search string, page, pageSize int) (*TaskPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	search = strings.TrimSpace(search)

	filter := port.TaskFilter{
		Search: search,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	total, err := s.tasks.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return &TaskPage{
		Tasks:    tasks,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Get retrieves one task.
func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// Create stores a new task and returns it with the generated identifier.
func (s *TaskService) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	if task.Code == "" {
		return nil, fmt.Errorf("code is required")
	}
	if task.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	id, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	created, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload task: %w", err)
	}
	return created, nil
}

// Update applies a partial update and returns the refreshed task.
func (s *TaskService) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}

	updated, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if !updated {
		return nil, ErrTaskNotFound
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload task: %w", err)
	}
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}
