package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/task-bounty-service/internal/core/domain"
)

// StubPublisher logs events instead of sending them to Kafka. Useful when no
// brokers are configured.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserCreated logs bounty.user.created events.
func (p *StubPublisher) PublishUserCreated(_ context.Context, event domain.UserCreatedEvent) error {
	p.logEvent(topicUserCreated, event.CreatedAt, map[string]any{
		"user_id":    event.UserID,
		"username":   event.Username,
		"role_ids":   event.RoleIDs,
		"created_by": event.CreatedBy,
	})
	return nil
}

// PublishUserLoggedIn logs bounty.user.login events.
func (p *StubPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	p.logEvent(topicUserLogin, event.LoginAt, map[string]any{
		"user_id":  event.UserID,
		"username": event.Username,
		"roles":    event.Roles,
	})
	return nil
}

// PublishSubmissionReviewed logs bounty.submission.reviewed events.
func (p *StubPublisher) PublishSubmissionReviewed(_ context.Context, event domain.SubmissionReviewedEvent) error {
	p.logEvent(topicSubmissionReviewed, event.ReviewedAt, map[string]any{
		"submission_id": event.SubmissionID,
		"task_id":       event.TaskID,
		"status":        event.Status,
		"note":          event.Note,
		"reviewed_by":   event.ReviewedBy,
	})
	return nil
}
