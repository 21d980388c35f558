// Command seed provisions the demo accounts (one per role) into the
// configured store. Accounts are created out of band; the API itself
// never creates users.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/observability"
	"github.com/spec-kit/civic-issue-service/internal/persistence"
	"github.com/spec-kit/civic-issue-service/internal/repository"
)

type seedAccount struct {
	username string
	password string
	role     domain.Role
	email    string
}

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

	ctx := context.Background()

	var users repository.UserRepository
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Storage.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Storage.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		users = repository.NewPostgresUserRepository(pg.PoolHandle())
	default:
		users, err = repository.NewFileUserRepository(cfg.Storage.DataDir)
		if err != nil {
			logger.Fatal("failed to open user store", zap.Error(err))
		}
	}

	accounts := []seedAccount{
		{username: "citizen1", password: "password123", role: domain.RoleCitizen, email: "citizen1@example.com"},
		{username: "officer1", password: "officer123", role: domain.RoleOfficer, email: "officer1@example.com"},
		{username: "admin1", password: "admin123", role: domain.RoleAdmin, email: "admin1@example.com"},
	}

	for _, account := range accounts {
		if _, err := users.GetByUsernameRole(ctx, account.username, account.role); err == nil {
			logger.Info("account already provisioned", zap.String("username", account.username))
			continue
		}

		hash, err := auth.HashPassword(account.password, cfg.Auth.BcryptCost)
		if err != nil {
			logger.Fatal("failed to hash password", zap.Error(err))
		}

		now := time.Now()
		user := &domain.User{
			ID:           uuid.NewString(),
			Username:     account.username,
			PasswordHash: hash,
			Role:         account.role,
			Email:        account.email,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.Create(ctx, user); err != nil {
			logger.Fatal("failed to create account",
				zap.String("username", account.username),
				zap.Error(err))
		}
		logger.Info("account provisioned",
			zap.String("username", account.username),
			zap.String("role", string(account.role)))
	}
}
