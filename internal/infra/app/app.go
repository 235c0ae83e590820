package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arklim/task-bounty-service/internal/core/port"
	"github.com/arklim/task-bounty-service/internal/infra/config"
	"github.com/arklim/task-bounty-service/internal/infra/database"
	kafkainfra "github.com/arklim/task-bounty-service/internal/infra/kafka"
	"github.com/arklim/task-bounty-service/internal/infra/logger"
	redisinfra "github.com/arklim/task-bounty-service/internal/infra/redis"
	"github.com/arklim/task-bounty-service/internal/infra/security"
	postgresrepo "github.com/arklim/task-bounty-service/internal/repository/postgres"
	redisrepo "github.com/arklim/task-bounty-service/internal/repository/redis"
	"github.com/arklim/task-bounty-service/internal/transport/http/middleware"
	"github.com/arklim/task-bounty-service/internal/transport/http/routes"
	"github.com/arklim/task-bounty-service/internal/usecase"
)

// Application owns the assembled service and its long-lived resources.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

// New wires configuration, infrastructure, repositories, services and routes.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if cfg.UsingDefaultJWTSecret() {
		log.Error("JWT secret is not configured, falling back to the built-in default; set JWT_SECRET before exposing this service")
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	tokenService, err := security.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init token service: %w", err)
	}

	var (
		redisClient *redisinfra.Client
		rateLimiter *middleware.RateLimiter
	)
	if cfg.Redis.Enabled {
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}

		rateLimitWindow := cfg.RateLimit.WindowDuration
		if rateLimitWindow <= 0 {
			rateLimitWindow = time.Minute
		}
		rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
			KeyPrefix: "bounty:rate-limit",
			TTL:       rateLimitWindow * 2,
		})
		rateLimiter = middleware.NewRateLimiter(rateLimitStore, log)
	} else {
		log.Info("redis disabled, login rate limiting is off")
	}

	var (
		eventPublisher port.EventPublisher
		producer       *kafkainfra.Producer
	)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			producer = nil
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	repos := postgresrepo.NewRepositories(pool)

	authService := usecase.NewAuthService(
		repos.Users,
		repos.Roles,
		tokenService,
		security.DefaultPasswordValidator(),
		eventPublisher,
		log,
	)
	rbacService := usecase.NewRBACService(repos.Roles, repos.Permissions)
	taskService := usecase.NewTaskService(repos.Tasks)
	submissionService := usecase.NewSubmissionService(repos.Submissions, repos.Tasks, eventPublisher, log)

	if err := authService.SeedDefaultUsers(ctx); err != nil {
		return nil, fmt.Errorf("seed default users: %w", err)
	}

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	deps := routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		Tokens:      tokenService,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Database:    pool,
		Services: routes.ServiceSet{
			Auth:        authService,
			RBAC:        rbacService,
			Tasks:       taskService,
			Submissions: submissionService,
		},
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}

	engine := routes.Register(deps)

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		// Flushes buffered messages and stops the error drain goroutine.
		if a.producer != nil {
			if err := a.producer.Close(); err != nil {
				a.logger.Warn("closing kafka producer", zap.Error(err))
			}
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting task bounty API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
