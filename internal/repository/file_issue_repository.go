package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/persistence"
)

type fileIssueRepository struct {
	issues *persistence.Collection[domain.Issue]
}

// NewFileIssueRepository returns a flat-file implementation backed by
// issues.json in the given data directory.
func NewFileIssueRepository(dataDir string) (IssueRepository, error) {
	issues, err := persistence.NewCollection[domain.Issue](dataDir, "issues.json")
	if err != nil {
		return nil, err
	}
	return &fileIssueRepository{issues: issues}, nil
}

func (r *fileIssueRepository) Create(_ context.Context, issue *domain.Issue) error {
	return r.issues.Mutate(func(records []domain.Issue) ([]domain.Issue, error) {
		for _, existing := range records {
			if existing.ID == issue.ID {
				return nil, fmt.Errorf("issue %q already exists", issue.ID)
			}
		}
		return append(records, *issue), nil
	})
}

func (r *fileIssueRepository) Update(_ context.Context, issue *domain.Issue) error {
	return r.issues.Mutate(func(records []domain.Issue) ([]domain.Issue, error) {
		for i := range records {
			if records[i].ID == issue.ID {
				records[i] = *issue
				return records, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *fileIssueRepository) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	records, err := r.issues.LoadAll()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			issue := records[i]
			return &issue, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fileIssueRepository) ListAll(_ context.Context) ([]domain.Issue, error) {
	return r.issues.LoadAll()
}

func (r *fileIssueRepository) ListByCitizen(_ context.Context, citizenID string) ([]domain.Issue, error) {
	records, err := r.issues.LoadAll()
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.Issue, 0, len(records))
	for _, issue := range records {
		if issue.CitizenID == citizenID {
			filtered = append(filtered, issue)
		}
	}
	return filtered, nil
}

func (r *fileIssueRepository) Delete(_ context.Context, id string) error {
	return r.issues.Mutate(func(records []domain.Issue) ([]domain.Issue, error) {
		for i := range records {
			if records[i].ID == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}
