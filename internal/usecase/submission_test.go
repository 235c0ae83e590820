package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/arklim/task-bounty-service/internal/core/domain"
)

func TestParseSubmissionStatus(t *testing.T) {
	for _, valid := range []string{"", "pending", "approved", "rejected"} {
		if _, err := ParseSubmissionStatus(valid); err != nil {
			t.Fatalf("expected %q to parse, got %v", valid, err)
		}
	}

	if _, err := ParseSubmissionStatus("bogus"); !errors.Is(err, ErrInvalidSubmissionStatus) {
		t.Fatalf("expected ErrInvalidSubmissionStatus, got %v", err)
	}
}

func TestSubmissionService_ListByTask_UnknownTask(t *testing.T) {
	svc := NewSubmissionService(&stubSubmissionRepo{}, &stubTaskRepo{}, nil, nil)

	if _, err := svc.ListByTask(context.Background(), 42, "", 1, 20); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSubmissionService_ListByTask_StatusFilter(t *testing.T) {
	subs := &stubSubmissionRepo{submissions: map[int64]domain.TaskSubmission{
		1: {ID: 1, TaskID: 5, Status: domain.SubmissionPending},
		2: {ID: 2, TaskID: 5, Status: domain.SubmissionApproved},
		3: {ID: 3, TaskID: 6, Status: domain.SubmissionPending},
	}}
	tasks := &stubTaskRepo{tasks: map[int64]domain.Task{5: {ID: 5, Code: "T-005", Name: "Task"}}}

	svc := NewSubmissionService(subs, tasks, nil, nil)

	page, err := svc.ListByTask(context.Background(), 5, domain.SubmissionPending, 1, 20)
	if err != nil {
		t.Fatalf("ListByTask returned error: %v", err)
	}
	if page.Total != 1 || len(page.Submissions) != 1 || page.Submissions[0].ID != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestSubmissionService_Approve(t *testing.T) {
	subs := &stubSubmissionRepo{submissions: map[int64]domain.TaskSubmission{
		1: {ID: 1, TaskID: 5, Status: domain.SubmissionPending},
	}}
	events := &recordingPublisher{}

	svc := NewSubmissionService(subs, &stubTaskRepo{}, events, nil)

	note := "nice work"
	sub, err := svc.Approve(context.Background(), 1, "reviewer-1", &note)
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if sub.Status != domain.SubmissionApproved || sub.Note != "nice work" {
		t.Fatalf("unexpected submission: %+v", sub)
	}
	if len(events.submissionReviewed) != 1 {
		t.Fatalf("expected a reviewed event, got %+v", events.submissionReviewed)
	}
	if events.submissionReviewed[0].ReviewedBy != "reviewer-1" {
		t.Fatalf("unexpected reviewer on event: %+v", events.submissionReviewed[0])
	}
}

func TestSubmissionService_Reject_NotFound(t *testing.T) {
	svc := NewSubmissionService(&stubSubmissionRepo{}, &stubTaskRepo{}, nil, nil)

	if _, err := svc.Reject(context.Background(), 9, "reviewer-1", nil); !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}
