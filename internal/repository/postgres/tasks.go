package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arklim/task-bounty-service/internal/core/domain"
	"github.com/arklim/task-bounty-service/internal/core/port"
	"github.com/arklim/task-bounty-service/internal/repository"
)

// TaskRepository implements port.TaskRepository using PostgreSQL.
type TaskRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTaskRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewTaskRepository(exec pgExecutor) *TaskRepository {
	repo := &TaskRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

var taskColumns = []string{
	"id",
	"code",
	"name",
	"reward_cny",
	"reward_token",
	"description",
	"created_at",
	"updated_at",
}

func (r *TaskRepository) applyFilter(query squirrel.SelectBuilder, filter port.TaskFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	return query
}

// List returns tasks matching the filter, newest first.
func (r *TaskRepository) List(ctx context.Context, filter port.TaskFilter) ([]domain.Task, error) {
	query := r.builder.
		Select(taskColumns...).
		From("task").
		OrderBy("created_at DESC")
	query = r.applyFilter(query, filter)
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select tasks sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0, filter.Limit)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Code,
			&task.Name,
			&task.RewardCNY,
			&task.RewardToken,
			&task.Description,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// Count returns the number of tasks matching the filter.
func (r *TaskRepository) Count(ctx context.Context, filter port.TaskFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("task")
	query = r.applyFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count tasks sql: %w", err)
	}

	var total int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return total, nil
}

// GetByID retrieves a task by identifier.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	stmt, args, err := r.builder.
		Select(taskColumns...).
		From("task").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select task sql: %w", err)
	}

	var task domain.Task
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&task.ID,
		&task.Code,
		&task.Name,
		&task.RewardCNY,
		&task.RewardToken,
		&task.Description,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// Create inserts a task row and returns its generated identifier.
func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (int64, error) {
	now := time.Now().UTC()
	stmt, args, err := r.builder.
		Insert("task").
		Columns("code", "name", "reward_cny", "reward_token", "description", "created_at", "updated_at").
		Values(task.Code, task.Name, task.RewardCNY, task.RewardToken, task.Description, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert task sql: %w", err)
	}

	var id int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return id, nil
}

// Update applies the non-nil patch fields. It reports whether a row matched.
func (r *TaskRepository) Update(ctx context.Context, id int64, patch domain.TaskPatch) (bool, error) {
	if patch.IsEmpty() {
		_, err := r.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}

	query := r.builder.Update("task").Set("updated_at", time.Now().UTC())
	if patch.Name != nil {
		query = query.Set("name", *patch.Name)
	}
	if patch.RewardCNY != nil {
		query = query.Set("reward_cny", *patch.RewardCNY)
	}
	if patch.RewardToken != nil {
		query = query.Set("reward_token", *patch.RewardToken)
	}
	if patch.Description != nil {
		query = query.Set("description", *patch.Description)
	}

	stmt, args, err := query.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build update task sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return false, fmt.Errorf("update task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a task row. It reports whether a row matched.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	stmt, args, err := r.builder.
		Delete("task").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete task sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
