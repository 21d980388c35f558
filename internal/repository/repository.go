package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// ErrNotFound is returned when a record does not exist, regardless of the
// backing driver.
var ErrNotFound = errors.New("record not found")

// UserRepository defines persistence access for provisioned accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameRole(ctx context.Context, username string, role domain.Role) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// IssueRepository defines persistence access for reported issues.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	Update(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	ListAll(ctx context.Context) ([]domain.Issue, error)
	ListByCitizen(ctx context.Context, citizenID string) ([]domain.Issue, error)
	Delete(ctx context.Context, id string) error
}
