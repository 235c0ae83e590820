package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/task-bounty-service/internal/transport/http/middleware"
	"github.com/arklim/task-bounty-service/internal/usecase"
)

// AuthHandler exposes authentication and account endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
	rbac *usecase.RBACService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, rbac *usecase.RBACService) *AuthHandler {
	return &AuthHandler{auth: auth, rbac: rbac}
}

// Login verifies credentials and returns a signed access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username and password are required"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid username or password"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: result.Token,
		User: UserSummary{
			ID:          result.User.ID,
			Username:    result.User.Username,
			Roles:       result.Roles,
			Permissions: result.Permissions,
		},
	})
}

// Profile returns the authenticated user's account, roles and permissions.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, roles, permissions, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, UserSummary{
		ID:          user.ID,
		Username:    user.Username,
		Roles:       roles,
		Permissions: permissions,
	})
}

// CreateUser registers a new account. Admin only.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username and password are required"))
		return
	}

	actor := ""
	if claims, ok := middleware.CurrentClaims(c); ok {
		actor = claims.Subject
	}

	id, err := h.auth.CreateUser(c.Request.Context(), actor, req.Username, req.Password, req.RoleIDs)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserExists, Status: http.StatusConflict, Message: "username already exists"},
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusBadRequest, Message: "password does not meet complexity requirements"},
		}, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, CreateUserResponse{ID: id, Username: req.Username})
}

// ListRoles returns the active role catalog.
func (h *AuthHandler) ListRoles(c *gin.Context) {
	roles, err := h.rbac.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list roles"))
		return
	}

	out := make([]RoleSummary, 0, len(roles))
	for _, role := range roles {
		out = append(out, RoleSummary{ID: role.ID, RoleKey: role.RoleKey, RoleName: role.RoleName})
	}
	c.JSON(http.StatusOK, gin.H{"roles": out})
}

// ListPermissions returns the permission catalog.
func (h *AuthHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.rbac.ListPermissions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list permissions"))
		return
	}

	out := make([]PermissionSummary, 0, len(permissions))
	for _, perm := range permissions {
		out = append(out, PermissionSummary{ID: perm.ID, PermKey: perm.PermKey, PermName: perm.PermName})
	}
	c.JSON(http.StatusOK, gin.H{"permissions": out})
}
