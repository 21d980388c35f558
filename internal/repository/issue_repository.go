package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

type pgIssueRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresIssueRepository returns a Postgres-backed implementation.
func NewPostgresIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &pgIssueRepository{pool: pool}
}

const issueColumns = `
        id, title, description, address, latitude, longitude, priority,
        image_path, status, citizen_id, reported_by, comments, created_at, updated_at`

func (r *pgIssueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (id, title, description, address, latitude, longitude, priority,
            image_path, status, citizen_id, reported_by, comments, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		issue.ID,
		issue.Title,
		issue.Description,
		issue.Location.Address,
		issue.Location.Latitude,
		issue.Location.Longitude,
		issue.Priority,
		issue.ImagePath,
		issue.Status,
		issue.CitizenID,
		issue.ReportedBy,
		issue.Comments,
		issue.CreatedAt,
		issue.UpdatedAt,
	)
	return err
}

func (r *pgIssueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	const query = `
        UPDATE issues SET title=$1, description=$2, address=$3, latitude=$4, longitude=$5,
            priority=$6, image_path=$7, status=$8, comments=$9, updated_at=$10
        WHERE id=$11`

	cmd, err := r.pool.Exec(ctx, query,
		issue.Title,
		issue.Description,
		issue.Location.Address,
		issue.Location.Latitude,
		issue.Location.Longitude,
		issue.Priority,
		issue.ImagePath,
		issue.Status,
		issue.Comments,
		issue.UpdatedAt,
		issue.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgIssueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	const query = `SELECT ` + issueColumns + ` FROM issues WHERE id=$1`

	issue, err := scanIssue(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return issue, nil
}

func (r *pgIssueRepository) ListAll(ctx context.Context) ([]domain.Issue, error) {
	const query = `SELECT ` + issueColumns + ` FROM issues ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *pgIssueRepository) ListByCitizen(ctx context.Context, citizenID string) ([]domain.Issue, error) {
	const query = `SELECT ` + issueColumns + ` FROM issues WHERE citizen_id=$1 ORDER BY created_at`
	return r.list(ctx, query, citizenID)
}

func (r *pgIssueRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM issues WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgIssueRepository) list(ctx context.Context, query string, args ...any) ([]domain.Issue, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := []domain.Issue{}
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, *issue)
	}
	return issues, rows.Err()
}

func scanIssue(row pgx.Row) (*domain.Issue, error) {
	var issue domain.Issue
	if err := row.Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Location.Address,
		&issue.Location.Latitude,
		&issue.Location.Longitude,
		&issue.Priority,
		&issue.ImagePath,
		&issue.Status,
		&issue.CitizenID,
		&issue.ReportedBy,
		&issue.Comments,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &issue, nil
}
