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

// SubmissionRepository implements port.SubmissionRepository using PostgreSQL.
type SubmissionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSubmissionRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewSubmissionRepository(exec pgExecutor) *SubmissionRepository {
	repo := &SubmissionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

var submissionColumns = []string{
	"id",
	"task_id",
	"user_id",
	"pr_url",
	"status",
	"note",
	"created_at",
	"updated_at",
}

func scanSubmission(row pgx.Row) (*domain.TaskSubmission, error) {
	var sub domain.TaskSubmission
	if err := row.Scan(
		&sub.ID,
		&sub.TaskID,
		&sub.UserID,
		&sub.PRURL,
		&sub.Status,
		&sub.Note,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}
	return &sub, nil
}

// ListByTask returns submissions for a task, oldest first.
func (r *SubmissionRepository) ListByTask(ctx context.Context, taskID int64, filter port.SubmissionFilter) ([]domain.TaskSubmission, error) {
	query := r.builder.
		Select(submissionColumns...).
		From("task_submission").
		Where(squirrel.Eq{"task_id": taskID}).
		OrderBy("id")
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select submissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	subs := make([]domain.TaskSubmission, 0, filter.Limit)
	for rows.Next() {
		var sub domain.TaskSubmission
		if err := rows.Scan(
			&sub.ID,
			&sub.TaskID,
			&sub.UserID,
			&sub.PRURL,
			&sub.Status,
			&sub.Note,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

// CountByTask returns the number of submissions for a task matching the filter.
func (r *SubmissionRepository) CountByTask(ctx context.Context, taskID int64, filter port.SubmissionFilter) (int, error) {
	query := r.builder.
		Select("COUNT(*)").
		From("task_submission").
		Where(squirrel.Eq{"task_id": taskID})
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count submissions sql: %w", err)
	}

	var total int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return total, nil
}

// GetByID retrieves a submission by identifier.
func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*domain.TaskSubmission, error) {
	stmt, args, err := r.builder.
		Select(submissionColumns...).
		From("task_submission").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select submission sql: %w", err)
	}

	return scanSubmission(r.exec.QueryRow(ctx, stmt, args...))
}

// SetStatus records a review decision. It reports whether a row matched.
func (r *SubmissionRepository) SetStatus(ctx context.Context, id int64, status domain.SubmissionStatus, note *string) (bool, error) {
	query := r.builder.
		Update("task_submission").
		Set("status", status).
		Set("updated_at", time.Now().UTC())
	if note != nil {
		query = query.Set("note", *note)
	}

	stmt, args, err := query.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build update submission sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return false, fmt.Errorf("update submission: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
