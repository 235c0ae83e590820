package domain

import "time"

// Task mirrors the persisted representation in the task table.
type Task struct {
	ID          int64
	Code        string
	Name        string
	RewardCNY   int32
	RewardToken string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch carries optional task fields for partial updates.
// Nil fields are left untouched.
type TaskPatch struct {
	Name        *string
	RewardCNY   *int32
	RewardToken *string
	Description *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Name == nil && p.RewardCNY == nil && p.RewardToken == nil && p.Description == nil
}

// SubmissionStatus enumerates the review states of a task submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// TaskSubmission mirrors the persisted representation in the task_submission table.
type TaskSubmission struct {
	ID        int64
	TaskID    int64
	UserID    int64
	PRURL     string
	Status    SubmissionStatus
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
