package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/task-bounty-service/internal/core/domain"
	"github.com/arklim/task-bounty-service/internal/infra/config"
)

const (
	schemaVersion = "1.0"

	topicUserCreated        = "bounty.user.created"
	topicUserLogin          = "bounty.user.login"
	topicSubmissionReviewed = "bounty.submission.reviewed"
)

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	UserID    int64             `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, userID int64, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserCreated publishes bounty.user.created events.
func (p *EventPublisher) PublishUserCreated(ctx context.Context, event domain.UserCreatedEvent) error {
	payload := struct {
		UserID    int64     `json:"user_id"`
		Username  string    `json:"username"`
		RoleIDs   []int64   `json:"role_ids,omitempty"`
		CreatedBy string    `json:"created_by,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}{
		UserID:    event.UserID,
		Username:  event.Username,
		RoleIDs:   event.RoleIDs,
		CreatedBy: event.CreatedBy,
		CreatedAt: event.CreatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, topicUserCreated, event.UserID, event.CreatedAt, payload)
}

// PublishUserLoggedIn publishes bounty.user.login events.
func (p *EventPublisher) PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error {
	payload := struct {
		UserID   int64     `json:"user_id"`
		Username string    `json:"username"`
		Roles    []string  `json:"roles,omitempty"`
		LoginAt  time.Time `json:"login_at"`
	}{
		UserID:   event.UserID,
		Username: event.Username,
		Roles:    event.Roles,
		LoginAt:  event.LoginAt.UTC(),
	}

	return p.publish(ctx, event.EventID, topicUserLogin, event.UserID, event.LoginAt, payload)
}

// PublishSubmissionReviewed publishes bounty.submission.reviewed events.
func (p *EventPublisher) PublishSubmissionReviewed(ctx context.Context, event domain.SubmissionReviewedEvent) error {
	payload := struct {
		SubmissionID int64     `json:"submission_id"`
		TaskID       int64     `json:"task_id"`
		Status       string    `json:"status"`
		Note         string    `json:"note,omitempty"`
		ReviewedBy   string    `json:"reviewed_by,omitempty"`
		ReviewedAt   time.Time `json:"reviewed_at"`
	}{
		SubmissionID: event.SubmissionID,
		TaskID:       event.TaskID,
		Status:       string(event.Status),
		Note:         event.Note,
		ReviewedBy:   event.ReviewedBy,
		ReviewedAt:   event.ReviewedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, topicSubmissionReviewed, 0, event.ReviewedAt, payload)
}
