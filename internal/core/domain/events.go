package domain

import "time"

// UserCreatedEvent represents the payload for bounty.user.created messages.
type UserCreatedEvent struct {
	EventID   string
	UserID    int64
	Username  string
	RoleIDs   []int64
	CreatedBy string
	CreatedAt time.Time
}

// UserLoggedInEvent represents the payload for bounty.user.login messages.
type UserLoggedInEvent struct {
	EventID  string
	UserID   int64
	Username string
	Roles    []string
	LoginAt  time.Time
}

// SubmissionReviewedEvent represents the payload for bounty.submission.reviewed messages.
type SubmissionReviewedEvent struct {
	EventID      string
	SubmissionID int64
	TaskID       int64
	Status       SubmissionStatus
	Note         string
	ReviewedBy   string
	ReviewedAt   time.Time
}
