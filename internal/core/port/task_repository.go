package port

import (
	"context"

	"github.com/arklim/task-bounty-service/internal/core/domain"
)

// TaskFilter narrows task listings.
type TaskFilter struct {
	Search string
	Limit  int
	Offset int
}

// TaskRepository exposes persistence behavior for tasks.
type TaskRepository interface {
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	Create(ctx context.Context, task domain.Task) (int64, error)
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// SubmissionFilter narrows submission listings for a task.
type SubmissionFilter struct {
	Status domain.SubmissionStatus
	Limit  int
	Offset int
}

// SubmissionRepository exposes persistence behavior for task submissions.
type SubmissionRepository interface {
	ListByTask(ctx context.Context, taskID int64, filter SubmissionFilter) ([]domain.TaskSubmission, error)
	CountByTask(ctx context.Context, taskID int64, filter SubmissionFilter) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.TaskSubmission, error)
	SetStatus(ctx context.Context, id int64, status domain.SubmissionStatus, note *string) (bool, error)
}
