package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arklim/task-bounty-service/internal/core/domain"
	"github.com/arklim/task-bounty-service/internal/repository"
)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewUserRepository(exec pgExecutor) *UserRepository {
	repo := &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var userColumns = []string{
	"id",
	"username",
	"password_hash",
	"salt",
	"status",
	"created_at",
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Salt,
		&user.Status,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

// FindActiveByUsername retrieves an active user by username.
func (r *UserRepository) FindActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("sys_user").
		Where(squirrel.Eq{"username": username, "status": domain.StatusActive}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("sys_user").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// ExistsByUsername reports whether any user row carries the username.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("sys_user").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select user sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check username: %w", err)
	}
	return true, nil
}

// Create inserts a user row and its role links in a single transaction.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash, salt string, roleIDs []int64) (int64, error) {
	beginner, ok := r.exec.(txBeginner)
	if !ok {
		return r.create(ctx, r.exec, username, passwordHash, salt, roleIDs)
	}

	tx, err := beginner.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin create user tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := r.create(ctx, tx, username, passwordHash, salt, roleIDs)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit create user tx: %w", err)
	}
	return id, nil
}

func (r *UserRepository) create(ctx context.Context, exec pgExecutor, username, passwordHash, salt string, roleIDs []int64) (int64, error) {
	stmt, args, err := r.builder.
		Insert("sys_user").
		Columns("username", "password_hash", "salt", "status", "created_at").
		Values(username, passwordHash, salt, domain.StatusActive, time.Now().UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert user sql: %w", err)
	}

	var id int64
	if err := exec.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	for _, roleID := range roleIDs {
		linkStmt, linkArgs, err := r.builder.
			Insert("sys_user_role").
			Columns("user_id", "role_id").
			Values(id, roleID).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert user role sql: %w", err)
		}
		if _, err := exec.Exec(ctx, linkStmt, linkArgs...); err != nil {
			return 0, fmt.Errorf("insert user role: %w", err)
		}
	}

	return id, nil
}

// UpdatePassword replaces the stored hash and salt for a username.
func (r *UserRepository) UpdatePassword(ctx context.Context, username, passwordHash, salt string) error {
	stmt, args, err := r.builder.
		Update("sys_user").
		Set("password_hash", passwordHash).
		Set("salt", salt).
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListRoleKeys returns the role keys attached to a user in alphabetical
// order, so the first key is a stable choice for the token's role claim.
func (r *UserRepository) ListRoleKeys(ctx context.Context, userID int64) ([]string, error) {
	stmt, args, err := r.builder.
		Select("r.role_key").
		From("sys_role r").
		Join("sys_user_role ur ON ur.role_id = r.id").
		Where(squirrel.Eq{"ur.user_id": userID, "r.status": domain.StatusActive}).
		OrderBy("r.role_key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role keys sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query role keys: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0, 4)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan role key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role keys: %w", err)
	}
	return keys, nil
}

// ListPermissionKeys returns the distinct permission keys a user holds through roles.
func (r *UserRepository) ListPermissionKeys(ctx context.Context, userID int64) ([]string, error) {
	stmt, args, err := r.builder.
		Select("DISTINCT p.perm_key").
		From("sys_permission p").
		Join("sys_role_perm rp ON rp.perm_id = p.id").
		Join("sys_user_role ur ON ur.role_id = rp.role_id").
		Where(squirrel.Eq{"ur.user_id": userID}).
		OrderBy("p.perm_key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permission keys sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permission keys: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0, 8)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan permission key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permission keys: %w", err)
	}
	return keys, nil
}
