package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/task-bounty-service/internal/core/domain"
	"github.com/arklim/task-bounty-service/internal/core/port"
	"github.com/arklim/task-bounty-service/internal/infra/security"
	"github.com/arklim/task-bounty-service/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided username or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists indicates the requested username is already taken.
	ErrUserExists = errors.New("username already exists")
	// ErrPasswordPolicyViolation indicates the password does not meet complexity requirements.
	ErrPasswordPolicyViolation = errors.New("password does not meet complexity requirements")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// LoginResult carries everything the transport layer returns after a successful login.
type LoginResult struct {
	Token       string
	User        domain.User
	Roles       []string
	Permissions []string
}

// AuthService coordinates authentication and account management flows.
type AuthService struct {
	users     port.UserRepository
	roles     port.RoleRepository
	tokens    *security.TokenService
	validator *security.PasswordValidator
	events    port.EventPublisher
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	roles port.RoleRepository,
	tokens *security.TokenService,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		roles:     roles,
		tokens:    tokens,
		validator: validator,
		events:    events,
		logger:    logger,
	}
}

// Login validates credentials and issues an access token. Unknown usernames,
// inactive accounts and wrong passwords all collapse into ErrInvalidCredentials
// so the response does not reveal which part failed.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !security.VerifyPassword(password, user.Salt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	roles, err := s.users.ListRoleKeys(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	permissions, err := s.users.ListPermissionKeys(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, primaryRole(roles))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.publishLogin(ctx, user, roles)

	sanitized := *user
	sanitized.PasswordHash = ""
	sanitized.Salt = ""

	return &LoginResult{
		Token:       token,
		User:        sanitized,
		Roles:       roles,
		Permissions: permissions,
	}, nil
}

// Profile returns the account, roles and permissions for an authenticated user.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, []string, []string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil, ErrUserNotFound
		}
		return nil, nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	roles, err := s.users.ListRoleKeys(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list roles: %w", err)
	}

	permissions, err := s.users.ListPermissionKeys(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list permissions: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	sanitized.Salt = ""

	return &sanitized, roles, permissions, nil
}

// CreateUser registers a new account with the supplied roles. The actor is the
// username of the administrator performing the call, recorded on the event.
func (s *AuthService) CreateUser(ctx context.Context, actor, username, password string, roleIDs []int64) (int64, error) {
	if username == "" {
		return 0, fmt.Errorf("username is required")
	}

	if err := s.validator.Validate(password); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrPasswordPolicyViolation, err.Error())
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return 0, ErrUserExists
	}

	salt, err := security.GenerateSalt()
	if err != nil {
		return 0, fmt.Errorf("generate salt: %w", err)
	}

	hash, err := security.HashPassword(password, salt)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.Create(ctx, username, hash, salt, roleIDs)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	if s.events != nil {
		event := domain.UserCreatedEvent{
			EventID:   uuid.NewString(),
			UserID:    id,
			Username:  username,
			RoleIDs:   roleIDs,
			CreatedBy: actor,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.events.PublishUserCreated(ctx, event); err != nil {
			s.logger.Warn("publish user created event failed", zap.Error(err), zap.Int64("user_id", id))
		}
	}

	return id, nil
}

type seedUser struct {
	username string
	password string
	roleKey  string
}

// SeedDefaultUsers provisions the bootstrap accounts and resets their
// passwords if they already exist. Intended for development and first boot.
func (s *AuthService) SeedDefaultUsers(ctx context.Context) error {
	seeds := []seedUser{
		{username: "admin", password: "admin123", roleKey: domain.AdminRoleKey},
		{username: "demo", password: "user123", roleKey: "user"},
	}

	roles, err := s.roles.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	roleIDByKey := make(map[string]int64, len(roles))
	for _, role := range roles {
		roleIDByKey[role.RoleKey] = role.ID
	}

	for _, seed := range seeds {
		salt, err := security.GenerateSalt()
		if err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
		hash, err := security.HashPassword(seed.password, salt)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		exists, err := s.users.ExistsByUsername(ctx, seed.username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}

		if exists {
			if err := s.users.UpdatePassword(ctx, seed.username, hash, salt); err != nil {
				return fmt.Errorf("reset password for %s: %w", seed.username, err)
			}
			s.logger.Info("seed user password reset", zap.String("username", seed.username))
			continue
		}

		var roleIDs []int64
		if id, ok := roleIDByKey[seed.roleKey]; ok {
			roleIDs = []int64{id}
		} else {
			s.logger.Warn("seed role missing, creating user without roles",
				zap.String("username", seed.username),
				zap.String("role_key", seed.roleKey),
			)
		}

		id, err := s.users.Create(ctx, seed.username, hash, salt, roleIDs)
		if err != nil {
			return fmt.Errorf("create seed user %s: %w", seed.username, err)
		}
		s.logger.Info("seed user created", zap.String("username", seed.username), zap.Int64("user_id", id))
	}

	return nil
}

func (s *AuthService) publishLogin(ctx context.Context, user *domain.User, roles []string) {
	if s.events == nil {
		return
	}
	event := domain.UserLoggedInEvent{
		EventID:  uuid.NewString(),
		UserID:   user.ID,
		Username: user.Username,
		Roles:    roles,
		LoginAt:  time.Now().UTC(),
	}
	if err := s.events.PublishUserLoggedIn(ctx, event); err != nil {
		s.logger.Warn("publish login event failed", zap.Error(err), zap.Int64("user_id", user.ID))
	}
}

// primaryRole picks the role encoded into the access token. Users may hold
// several roles; the first assigned one wins.
func primaryRole(roles []string) string {
	if len(roles) == 0 {
		return ""
	}
	return roles[0]
}
