package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/persistence"
)

type fileUserRepository struct {
	users *persistence.Collection[domain.User]
}

// NewFileUserRepository returns a flat-file implementation backed by
// users.json in the given data directory.
func NewFileUserRepository(dataDir string) (UserRepository, error) {
	users, err := persistence.NewCollection[domain.User](dataDir, "users.json")
	if err != nil {
		return nil, err
	}
	return &fileUserRepository{users: users}, nil
}

func (r *fileUserRepository) Create(_ context.Context, user *domain.User) error {
	return r.users.Mutate(func(records []domain.User) ([]domain.User, error) {
		for _, existing := range records {
			if existing.Username == user.Username && existing.Role == user.Role {
				return nil, fmt.Errorf("user %q with role %q already exists", user.Username, user.Role)
			}
		}
		return append(records, *user), nil
	})
}

func (r *fileUserRepository) Update(_ context.Context, user *domain.User) error {
	return r.users.Mutate(func(records []domain.User) ([]domain.User, error) {
		for i := range records {
			if records[i].ID == user.ID {
				records[i] = *user
				return records, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *fileUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	records, err := r.users.LoadAll()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			user := records[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fileUserRepository) GetByUsernameRole(_ context.Context, username string, role domain.Role) (*domain.User, error) {
	records, err := r.users.LoadAll()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Username == username && records[i].Role == role {
			user := records[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fileUserRepository) List(_ context.Context) ([]domain.User, error) {
	return r.users.LoadAll()
}
