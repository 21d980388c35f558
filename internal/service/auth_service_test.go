package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

func seedUsers(t *testing.T) repository.UserRepository {
	t.Helper()

	users, err := repository.NewFileUserRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileUserRepository: %v", err)
	}

	accounts := []struct {
		id       string
		username string
		password string
		role     domain.Role
		email    string
	}{
		{"u-citizen", "alice", "password123", domain.RoleCitizen, "alice@example.com"},
		{"u-officer", "bob", "officer123", domain.RoleOfficer, "bob@example.com"},
		{"u-admin", "carol", "admin123", domain.RoleAdmin, ""},
	}
	for _, account := range accounts {
		hash, err := auth.HashPassword(account.password, 4)
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
		now := time.Now()
		err = users.Create(context.Background(), &domain.User{
			ID:           account.id,
			Username:     account.username,
			PasswordHash: hash,
			Role:         account.role,
			Email:        account.email,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			t.Fatalf("seed user %s: %v", account.username, err)
		}
	}
	return users
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 24, BcryptCost: 4}
}

func TestLoginIssuesDecodableToken(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(testAuthConfig(), seedUsers(t))

	user, token, expiresAt, err := svc.Login(context.Background(), "alice", "password123", domain.RoleCitizen)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != "u-citizen" {
		t.Errorf("expected user u-citizen, got %q", user.ID)
	}
	if until := time.Until(expiresAt); until < 23*time.Hour || until > 24*time.Hour {
		t.Errorf("expected ~24h expiry, got %v", until)
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "u-citizen" || claims.Username != "alice" || claims.Role != domain.RoleCitizen {
		t.Errorf("claims do not match user: %+v", claims)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(testAuthConfig(), seedUsers(t))

	cases := []struct {
		name     string
		username string
		password string
		role     domain.Role
	}{
		{"wrong password", "alice", "nope", domain.RoleCitizen},
		{"wrong role", "alice", "password123", domain.RoleOfficer},
		{"unknown username", "mallory", "password123", domain.RoleCitizen},
		{"bogus role", "alice", "password123", domain.Role("mayor")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Login(context.Background(), tc.username, tc.password, tc.role)
			if err == nil {
				t.Fatal("expected login failure")
			}
			var domainErr *apperrors.DomainError
			if !errors.As(err, &domainErr) {
				t.Fatalf("expected DomainError, got %v", err)
			}
			// Identical shape for every credential failure; no enumeration.
			if domainErr.Code != "INVALID_CREDENTIALS" || domainErr.Message != "Invalid credentials" {
				t.Errorf("expected uniform invalid credentials, got %q/%q", domainErr.Code, domainErr.Message)
			}
			if domainErr.HTTPStatus != 401 {
				t.Errorf("expected 401, got %d", domainErr.HTTPStatus)
			}
		})
	}
}

func TestLoginRequiresAllFields(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(testAuthConfig(), seedUsers(t))

	cases := []struct {
		name     string
		username string
		password string
		role     domain.Role
	}{
		{"missing username", "", "password123", domain.RoleCitizen},
		{"missing password", "alice", "", domain.RoleCitizen},
		{"missing role", "alice", "password123", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Login(context.Background(), tc.username, tc.password, tc.role)
			var domainErr *apperrors.DomainError
			if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
				t.Errorf("expected VALIDATION_FAILED, got %v", err)
			}
		})
	}
}

func TestLoginWithoutSecretIsConfigError(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	cfg.JWTSecret = ""
	svc := NewAuthService(cfg, seedUsers(t))

	_, _, _, err := svc.Login(context.Background(), "alice", "password123", domain.RoleCitizen)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFIG_ERROR" {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(testAuthConfig(), seedUsers(t))

	user, err := svc.Profile(context.Background(), "u-officer")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if user.Username != "bob" {
		t.Errorf("expected bob, got %q", user.Username)
	}

	_, err = svc.Profile(context.Background(), "u-ghost")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
