package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/arklim/task-bounty-service/internal/core/domain"
	"github.com/arklim/task-bounty-service/internal/repository"
)

func TestUserRepository_FindActiveByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	createdAt := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "username", "password_hash", "salt", "status", "created_at"}).
		AddRow(int64(7), "alice", "$2b$12$hash", "a1b2c3d4e5f6g7h8", domain.StatusActive, createdAt)

	mock.ExpectQuery(`SELECT id, username, password_hash, salt, status, created_at FROM sys_user`).
		WithArgs(domain.StatusActive, "alice").
		WillReturnRows(rows)

	user, err := repo.FindActiveByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindActiveByUsername returned error: %v", err)
	}
	if user.ID != 7 || user.Username != "alice" || user.Salt != "a1b2c3d4e5f6g7h8" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_FindActiveByUsername_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT id, username, password_hash, salt, status, created_at FROM sys_user`).
		WithArgs(domain.StatusActive, "ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "salt", "status", "created_at"}))

	if _, err := repo.FindActiveByUsername(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_Create_LinksRoles(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO sys_user`).
		WithArgs("bob", "$2b$12$hash", "saltsaltsaltsalt", domain.StatusActive, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(`INSERT INTO sys_user_role`).
		WithArgs(int64(42), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO sys_user_role`).
		WithArgs(int64(42), int64(3)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), "bob", "$2b$12$hash", "saltsaltsaltsalt", []int64{2, 3})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_UpdatePassword_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE sys_user`).
		WithArgs("$2b$12$hash", "saltsaltsaltsalt", "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdatePassword(context.Background(), "ghost", "$2b$12$hash", "saltsaltsaltsalt")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_ListRoleKeys(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	rows := pgxmock.NewRows([]string{"role_key"}).AddRow("editor").AddRow("reviewer")
	mock.ExpectQuery(`SELECT r.role_key FROM sys_role r .* ORDER BY r.role_key`).
		WithArgs(domain.StatusActive, int64(7)).
		WillReturnRows(rows)

	keys, err := repo.ListRoleKeys(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListRoleKeys returned error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "editor" || keys[1] != "reviewer" {
		t.Fatalf("unexpected role keys: %v", keys)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
