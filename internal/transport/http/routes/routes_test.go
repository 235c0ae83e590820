package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/task-bounty-service/internal/core/domain"
	"github.com/arklim/task-bounty-service/internal/infra/config"
	"github.com/arklim/task-bounty-service/internal/infra/security"
	"github.com/arklim/task-bounty-service/internal/repository"
	"github.com/arklim/task-bounty-service/internal/usecase"
)

type stubUsers struct {
	user     domain.User
	roleKeys []string
	permKeys []string
}

func (s *stubUsers) FindActiveByUsername(_ context.Context, username string) (*domain.User, error) {
	if username != s.user.Username || !s.user.IsActive() {
		return nil, repository.ErrNotFound
	}
	copy := s.user
	return &copy, nil
}

func (s *stubUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if id != s.user.ID {
		return nil, repository.ErrNotFound
	}
	copy := s.user
	return &copy, nil
}

func (s *stubUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	return username == s.user.Username, nil
}

func (s *stubUsers) Create(context.Context, string, string, string, []int64) (int64, error) {
	return 0, repository.ErrNotFound
}

func (s *stubUsers) UpdatePassword(context.Context, string, string, string) error {
	return repository.ErrNotFound
}

func (s *stubUsers) ListRoleKeys(context.Context, int64) ([]string, error) {
	return s.roleKeys, nil
}

func (s *stubUsers) ListPermissionKeys(context.Context, int64) ([]string, error) {
	return s.permKeys, nil
}

type stubRoles struct{}

func (stubRoles) ListActive(context.Context) ([]domain.Role, error) { return nil, nil }

func newTestRouter(t *testing.T) (*gin.Engine, *security.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	salt, err := security.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	hash, err := security.HashPassword("admin123", salt)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	users := &stubUsers{
		user: domain.User{
			ID:           1,
			Username:     "admin",
			PasswordHash: hash,
			Salt:         salt,
			Status:       domain.StatusActive,
			CreatedAt:    time.Now().UTC(),
		},
		roleKeys: []string{"admin"},
		permKeys: []string{"task:read", "task:write"},
	}

	tokens, err := security.NewTokenService("routes-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	auth := usecase.NewAuthService(users, stubRoles{}, tokens, nil, nil, nil)

	cfg := &config.AppConfig{}
	cfg.App.Env = "test"

	router := Register(Dependencies{
		Config: cfg,
		Tokens: tokens,
		Services: ServiceSet{
			Auth: auth,
		},
	})

	return router, tokens
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	router, tokens := newTestRouter(t)

	rec := postJSON(router, "/api/auth/login", map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID          int64    `json:"id"`
			Username    string   `json:"username"`
			Roles       []string `json:"roles"`
			Permissions []string `json:"permissions"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User.Username != "admin" || resp.User.ID != 1 {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
	if len(resp.User.Roles) != 1 || resp.User.Roles[0] != "admin" {
		t.Fatalf("unexpected roles: %v", resp.User.Roles)
	}

	claims, err := tokens.Parse(resp.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("unexpected role claim: %q", claims.Role)
	}
}

func TestLogin_FailuresAreUniform(t *testing.T) {
	router, _ := newTestRouter(t)

	wrongPassword := postJSON(router, "/api/auth/login", map[string]string{
		"username": "admin",
		"password": "nope",
	})
	unknownUser := postJSON(router, "/api/auth/login", map[string]string{
		"username": "ghost",
		"password": "whatever",
	})

	if wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", wrongPassword.Code)
	}
	if unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: expected 401, got %d", unknownUser.Code)
	}

	var a, b struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(wrongPassword.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode wrong password body: %v", err)
	}
	if err := json.Unmarshal(unknownUser.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode unknown user body: %v", err)
	}
	if a.Error == "" || a.Error != b.Error {
		t.Fatalf("expected identical error messages, got %q and %q", a.Error, b.Error)
	}
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProfile_WithToken(t *testing.T) {
	router, _ := newTestRouter(t)

	login := postJSON(router, "/api/auth/login", map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login body: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var profile struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile body: %v", err)
	}
	if profile.Username != "admin" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}
