package usecase

import (
	"context"
	"time"

	"github.com/arklim/task-bounty-service/internal/core/domain"
	"github.com/arklim/task-bounty-service/internal/core/port"
	"github.com/arklim/task-bounty-service/internal/repository"
)

type stubUserRepo struct {
	usersByName map[string]domain.User
	roleKeys    map[int64][]string
	permKeys    map[int64][]string

	created       []string
	nextID        int64
	passwordReset map[string]string
}

func (r *stubUserRepo) FindActiveByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := r.usersByName[username]
	if !ok || !user.IsActive() {
		return nil, repository.ErrNotFound
	}
	copy := user
	return &copy, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range r.usersByName {
		if user.ID == id {
			copy := user
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.usersByName[username]
	return ok, nil
}

func (r *stubUserRepo) Create(_ context.Context, username, passwordHash, salt string, roleIDs []int64) (int64, error) {
	r.nextID++
	if r.usersByName == nil {
		r.usersByName = make(map[string]domain.User)
	}
	r.usersByName[username] = domain.User{
		ID:           r.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		Salt:         salt,
		Status:       domain.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	r.created = append(r.created, username)
	return r.nextID, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, username, passwordHash, salt string) error {
	user, ok := r.usersByName[username]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.Salt = salt
	r.usersByName[username] = user
	if r.passwordReset == nil {
		r.passwordReset = make(map[string]string)
	}
	r.passwordReset[username] = passwordHash
	return nil
}

func (r *stubUserRepo) ListRoleKeys(_ context.Context, userID int64) ([]string, error) {
	return r.roleKeys[userID], nil
}

func (r *stubUserRepo) ListPermissionKeys(_ context.Context, userID int64) ([]string, error) {
	return r.permKeys[userID], nil
}

type stubRoleRepo struct {
	roles []domain.Role
}

func (r *stubRoleRepo) ListActive(context.Context) ([]domain.Role, error) {
	return r.roles, nil
}

type stubPermissionRepo struct {
	permissions []domain.Permission
}

func (r *stubPermissionRepo) List(context.Context) ([]domain.Permission, error) {
	return r.permissions, nil
}

type stubTaskRepo struct {
	tasks map[int64]domain.Task

	lastFilter port.TaskFilter
}

func (r *stubTaskRepo) List(_ context.Context, filter port.TaskFilter) ([]domain.Task, error) {
	r.lastFilter = filter
	out := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		out = append(out, task)
	}
	return out, nil
}

func (r *stubTaskRepo) Count(_ context.Context, filter port.TaskFilter) (int, error) {
	return len(r.tasks), nil
}

func (r *stubTaskRepo) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := task
	return &copy, nil
}

func (r *stubTaskRepo) Create(_ context.Context, task domain.Task) (int64, error) {
	id := int64(len(r.tasks) + 1)
	if r.tasks == nil {
		r.tasks = make(map[int64]domain.Task)
	}
	task.ID = id
	r.tasks[id] = task
	return id, nil
}

func (r *stubTaskRepo) Update(_ context.Context, id int64, patch domain.TaskPatch) (bool, error) {
	task, ok := r.tasks[id]
	if !ok {
		return false, nil
	}
	if patch.Name != nil {
		task.Name = *patch.Name
	}
	if patch.RewardCNY != nil {
		task.RewardCNY = *patch.RewardCNY
	}
	if patch.RewardToken != nil {
		task.RewardToken = *patch.RewardToken
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	r.tasks[id] = task
	return true, nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.tasks[id]; !ok {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

type stubSubmissionRepo struct {
	submissions map[int64]domain.TaskSubmission
}

func (r *stubSubmissionRepo) ListByTask(_ context.Context, taskID int64, filter port.SubmissionFilter) ([]domain.TaskSubmission, error) {
	out := make([]domain.TaskSubmission, 0, len(r.submissions))
	for _, sub := range r.submissions {
		if sub.TaskID != taskID {
			continue
		}
		if filter.Status != "" && sub.Status != filter.Status {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

func (r *stubSubmissionRepo) CountByTask(ctx context.Context, taskID int64, filter port.SubmissionFilter) (int, error) {
	subs, err := r.ListByTask(ctx, taskID, port.SubmissionFilter{Status: filter.Status})
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}

func (r *stubSubmissionRepo) GetByID(_ context.Context, id int64) (*domain.TaskSubmission, error) {
	sub, ok := r.submissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := sub
	return &copy, nil
}

func (r *stubSubmissionRepo) SetStatus(_ context.Context, id int64, status domain.SubmissionStatus, note *string) (bool, error) {
	sub, ok := r.submissions[id]
	if !ok {
		return false, nil
	}
	sub.Status = status
	if note != nil {
		sub.Note = *note
	}
	r.submissions[id] = sub
	return true, nil
}

type recordingPublisher struct {
	userCreated        []domain.UserCreatedEvent
	userLoggedIn       []domain.UserLoggedInEvent
	submissionReviewed []domain.SubmissionReviewedEvent
}

func (p *recordingPublisher) PublishUserCreated(_ context.Context, event domain.UserCreatedEvent) error {
	p.userCreated = append(p.userCreated, event)
	return nil
}

func (p *recordingPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	p.userLoggedIn = append(p.userLoggedIn, event)
	return nil
}

func (p *recordingPublisher) PublishSubmissionReviewed(_ context.Context, event domain.SubmissionReviewedEvent) error {
	p.submissionReviewed = append(p.submissionReviewed, event)
	return nil
}
