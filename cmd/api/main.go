package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/civic-issue-service/internal/api/http"
	"github.com/spec-kit/civic-issue-service/internal/api/http/handlers"
	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/mail"
	"github.com/spec-kit/civic-issue-service/internal/observability"
	"github.com/spec-kit/civic-issue-service/internal/persistence"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	"github.com/spec-kit/civic-issue-service/internal/service"
	"github.com/spec-kit/civic-issue-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		userRepo  repository.UserRepository
		issueRepo repository.IssueRepository
		pg        *persistence.Postgres
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pg, err = persistence.NewPostgres(ctx, cfg.Storage.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Storage.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewPostgresUserRepository(pg.PoolHandle())
		issueRepo = repository.NewPostgresIssueRepository(pg.PoolHandle())
	default:
		userRepo, err = repository.NewFileUserRepository(cfg.Storage.DataDir)
		if err != nil {
			logger.Fatal("failed to open user store", zap.Error(err))
		}
		issueRepo, err = repository.NewFileIssueRepository(cfg.Storage.DataDir)
		if err != nil {
			logger.Fatal("failed to open issue store", zap.Error(err))
		}
	}

	uploads, err := persistence.NewUploadStore(cfg.Storage.UploadsDir)
	if err != nil {
		logger.Fatal("failed to open upload store", zap.Error(err))
	}

	var (
		dispatcher events.Dispatcher
		rd         *persistence.Redis
	)
	if cfg.Notification.Queue == config.NotifyQueueRedis {
		rd = persistence.NewRedis(cfg.Redis, logger)
		defer rd.Close()
		dispatcher = events.NewRedisDispatcher(rd.Client, cfg.Notification.QueueKey, logger)
	} else {
		dispatcher = events.NewInMemoryDispatcher()
	}

	mailer := mail.NewMailer(cfg.Notification, logger)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	issueService := service.NewIssueService(issueRepo, uploads, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, userRepo, mailer, logger, cfg.Notification)
	worker.StartNotificationWorker(ctx, notificationService, dispatcher)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Storage.DataDir, pg, rd),
		Users:          handlers.NewUsersHandler(authService),
		Issues:         handlers.NewIssuesHandler(issueService),
		AuthMiddleware: authMiddleware,
		UploadsDir:     cfg.Storage.UploadsDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
