package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/task-bounty-service/internal/infra/config"
	"github.com/arklim/task-bounty-service/internal/infra/security"
	"github.com/arklim/task-bounty-service/internal/transport/http/handlers"
	"github.com/arklim/task-bounty-service/internal/transport/http/middleware"
	"github.com/arklim/task-bounty-service/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth        *usecase.AuthService
	RBAC        *usecase.RBACService
	Tasks       *usecase.TaskService
	Submissions *usecase.SubmissionService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	Tokens      *security.TokenService
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Tokens)

	checks := make(map[string]handlers.ReadinessCheck, 2)
	if deps.Database != nil {
		checks["database"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}
	healthHandler := handlers.NewHealthHandler(checks)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.RBAC)

		authGroup := api.Group("/auth")
		if deps.RateLimiter != nil {
			rule := middleware.RateLimitRule{
				Name:   "login",
				Limit:  deps.Config.RateLimit.LoginMaxAttempts,
				Window: deps.Config.RateLimit.WindowDuration,
			}
			authGroup.POST("/login", deps.RateLimiter.RateLimit(rule), authHandler.Login)
		} else {
			authGroup.POST("/login", authHandler.Login)
		}

		authGroup.GET("/profile", authMiddleware, authHandler.Profile)
		authGroup.GET("/roles", authMiddleware, authHandler.ListRoles)
		authGroup.GET("/permissions", authMiddleware, authHandler.ListPermissions)
		authGroup.POST("/admin/users", authMiddleware, middleware.RequireRole("admin"), authHandler.CreateUser)

		taskHandler := handlers.NewTaskHandler(deps.Services.Tasks)
		submissionHandler := handlers.NewSubmissionHandler(deps.Services.Submissions)

		taskGroup := api.Group("/tasks")
		taskGroup.Use(authMiddleware)
		taskGroup.GET("", taskHandler.List)
		taskGroup.GET("/:id", taskHandler.Get)
		taskGroup.POST("", middleware.RequireRole("editor"), taskHandler.Create)
		taskGroup.PUT("/:id", middleware.RequireRole("editor"), taskHandler.Update)
		taskGroup.DELETE("/:id", middleware.RequireRole("editor"), taskHandler.Delete)
		taskGroup.GET("/:id/submissions", submissionHandler.ListByTask)

		submissionGroup := api.Group("/submissions")
		submissionGroup.Use(authMiddleware)
		submissionGroup.GET("/:id", submissionHandler.Get)
		submissionGroup.POST("/:id/approve", middleware.RequireRole("reviewer"), submissionHandler.Approve)
		submissionGroup.POST("/:id/reject", middleware.RequireRole("reviewer"), submissionHandler.Reject)
	}

	return r
}
