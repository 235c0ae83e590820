package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/task-bounty-service/internal/core/domain"
	"github.com/arklim/task-bounty-service/internal/core/port"
	"github.com/arklim/task-bounty-service/internal/repository"
)

var (
	// ErrSubmissionNotFound indicates the referenced submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrInvalidSubmissionStatus indicates an unsupported status filter value.
	ErrInvalidSubmissionStatus = errors.New("invalid submission status")
)

// SubmissionPage is one page of a submission listing.
type SubmissionPage struct {
	Submissions []domain.TaskSubmission
	Total       int
	Page        int
	PageSize    int
}

// SubmissionService coordinates submission reads and review decisions.
type SubmissionService struct {
	submissions port.SubmissionRepository
	tasks       port.TaskRepository
	events      port.EventPublisher
	logger      *zap.Logger
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(
	submissions port.SubmissionRepository,
	tasks port.TaskRepository,
	events port.EventPublisher,
	logger *zap.Logger,
) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		submissions: submissions,
		tasks:       tasks,
		events:      events,
		logger:      logger,
	}
}

// ParseSubmissionStatus validates a status filter string. Empty means no filter.
func ParseSubmissionStatus(value string) (domain.SubmissionStatus, error) {
	switch domain.SubmissionStatus(value) {
	case "", domain.SubmissionPending, domain.SubmissionApproved, domain.SubmissionRejected:
		return domain.SubmissionStatus(value), nil
	default:
		return "", ErrInvalidSubmissionStatus
	}
}

// ListByTask returns one page of submissions for a task.
func (s *SubmissionService) ListByTask(ctx context.Context, taskID int64, status domain.SubmissionStatus, page, pageSize int) (*SubmissionPage, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	page, pageSize = normalizePage(page, pageSize)
	filter := port.SubmissionFilter{
		Status: status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	total, err := s.submissions.CountByTask(ctx, taskID, filter)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}

	subs, err := s.submissions.ListByTask(ctx, taskID, filter)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	return &SubmissionPage{
		Submissions: subs,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

// Get retrieves one submission.
func (s *SubmissionService) Get(ctx context.Context, id int64) (*domain.TaskSubmission, error) {
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

// Approve marks a submission approved and records the reviewer.
func (s *SubmissionService) Approve(ctx context.Context, id int64, reviewer string, note *string) (*domain.TaskSubmission, error) {
	return s.review(ctx, id, domain.SubmissionApproved, reviewer, note)
}

// Reject marks a submission rejected and records the reviewer.
func (s *SubmissionService) Reject(ctx context.Context, id int64, reviewer string, note *string) (*domain.TaskSubmission, error) {
	return s.review(ctx, id, domain.SubmissionRejected, reviewer, note)
}

func (s *SubmissionService) review(ctx context.Context, id int64, status domain.SubmissionStatus, reviewer string, note *string) (*domain.TaskSubmission, error) {
	updated, err := s.submissions.SetStatus(ctx, id, status, note)
	if err != nil {
		return nil, fmt.Errorf("set submission status: %w", err)
	}
	if !updated {
		return nil, ErrSubmissionNotFound
	}

	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload submission: %w", err)
	}

	if s.events != nil {
		event := domain.SubmissionReviewedEvent{
			EventID:      uuid.NewString(),
			SubmissionID: sub.ID,
			TaskID:       sub.TaskID,
			Status:       sub.Status,
			Note:         sub.Note,
			ReviewedBy:   reviewer,
			ReviewedAt:   time.Now().UTC(),
		}
		if err := s.events.PublishSubmissionReviewed(ctx, event); err != nil {
			s.logger.Warn("publish submission reviewed event failed",
				zap.Error(err),
				zap.Int64("submission_id", sub.ID),
			)
		}
	}

	return sub, nil
}
