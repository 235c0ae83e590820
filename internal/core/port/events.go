package port

import (
	"context"

	"github.com/arklim/task-bounty-service/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserCreated(ctx context.Context, event domain.UserCreatedEvent) error
	PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error
	PublishSubmissionReviewed(ctx context.Context, event domain.SubmissionReviewedEvent) error
}
