package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/arklim/task-bounty-service/internal/core/domain"
)

func TestTaskService_List_NormalizesPaging(t *testing.T) {
	tasks := &stubTaskRepo{tasks: map[int64]domain.Task{
		1: {ID: 1, Code: "T-001", Name: "Write docs"},
	}}
	svc := NewTaskService(tasks)

	page, err := svc.List(context.Background(), "  docs  ", 0, 500)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if page.Page != 1 {
		t.Fatalf("expected page 1, got %d", page.Page)
	}
	if page.PageSize != maxPageSize {
		t.Fatalf("expected page size clamped to %d, got %d", maxPageSize, page.PageSize)
	}
	if tasks.lastFilter.Search != "docs" {
		t.Fatalf("expected trimmed search term, got %q", tasks.lastFilter.Search)
	}
	if tasks.lastFilter.Offset != 0 {
		t.Fatalf("expected zero offset for first page, got %d", tasks.lastFilter.Offset)
	}
	if page.Total != 1 {
		t.Fatalf("expected total 1, got %d", page.Total)
	}
}

func TestTaskService_Get_NotFound(t *testing.T) {
	svc := NewTaskService(&stubTaskRepo{})

	if _, err := svc.Get(context.Background(), 99); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskService_Create_RequiresCodeAndName(t *testing.T) {
	svc := NewTaskService(&stubTaskRepo{})

	if _, err := svc.Create(context.Background(), domain.Task{Name: "No code"}); err == nil {
		t.Fatal("expected error for missing code")
	}
	if _, err := svc.Create(context.Background(), domain.Task{Code: "T-001"}); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestTaskService_Update_EmptyPatch(t *testing.T) {
	tasks := &stubTaskRepo{tasks: map[int64]domain.Task{1: {ID: 1, Code: "T-001", Name: "Old"}}}
	svc := NewTaskService(tasks)

	if _, err := svc.Update(context.Background(), 1, domain.TaskPatch{}); !errors.Is(err, ErrEmptyPatch) {
		t.Fatalf("expected ErrEmptyPatch, got %v", err)
	}
}

func TestTaskService_Update_AppliesPatch(t *testing.T) {
	tasks := &stubTaskRepo{tasks: map[int64]domain.Task{1: {ID: 1, Code: "T-001", Name: "Old", RewardCNY: 100}}}
	svc := NewTaskService(tasks)

	name := "New name"
	reward := int32(250)
	task, err := svc.Update(context.Background(), 1, domain.TaskPatch{Name: &name, RewardCNY: &reward})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if task.Name != "New name" || task.RewardCNY != 250 {
		t.Fatalf("patch not applied: %+v", task)
	}
	if task.Code != "T-001" {
		t.Fatalf("untouched field changed: %+v", task)
	}
}

func TestTaskService_Delete_NotFound(t *testing.T) {
	svc := NewTaskService(&stubTaskRepo{})

	if err := svc.Delete(context.Background(), 7); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}
