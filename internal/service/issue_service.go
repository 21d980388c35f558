package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/persistence"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// IssueService coordinates the issue lifecycle: creation, listing, status
// transitions and deletion, plus event publication for notifications.
type IssueService struct {
	issues     repository.IssueRepository
	uploads    *persistence.UploadStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewIssueService constructs the service.
func NewIssueService(issues repository.IssueRepository, uploads *persistence.UploadStore, dispatcher events.Dispatcher, logger *zap.Logger) *IssueService {
	return &IssueService{
		issues:     issues,
		uploads:    uploads,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// IssueCreateInput describes a citizen submission.
type IssueCreateInput struct {
	Title       string
	Description string
	Address     string
	Latitude    *float64
	Longitude   *float64
	Priority    domain.IssuePriority
	Image       *multipart.FileHeader
}

// Create records a new issue for the reporting citizen. Status always
// starts at pending and citizenId is the requester.
func (s *IssueService) Create(ctx context.Context, actor auth.Identity, input IssueCreateInput) (*domain.Issue, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("Title and description are required")
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.IssuePriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("Invalid priority value")
	}

	imagePath := ""
	if input.Image != nil {
		path, err := s.uploads.Store(input.Image)
		if err != nil {
			if errors.Is(err, persistence.ErrNotAnImage) {
				return nil, apperrors.NewValidationError("Uploaded file must be an image")
			}
			return nil, apperrors.NewStorageError(err)
		}
		imagePath = path
	}

	now := time.Now()
	issue := &domain.Issue{
		ID:          strconv.FormatInt(now.UnixNano(), 10),
		Title:       title,
		Description: description,
		Location: domain.Location{
			Address:   strings.TrimSpace(input.Address),
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
		},
		Priority:   priority,
		ImagePath:  imagePath,
		Status:     domain.IssueStatusPending,
		CitizenID:  actor.UserID,
		ReportedBy: actor.Username,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		Actor:   actorFromIdentity(actor),
		Issue:   *issue,
	})
	return issue, nil
}

// ListAll returns every issue, for triage staff.
func (s *IssueService) ListAll(ctx context.Context) ([]domain.Issue, error) {
	issues, err := s.issues.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return issues, nil
}

// ListMine returns only issues reported by the given citizen.
func (s *IssueService) ListMine(ctx context.Context, citizenID string) ([]domain.Issue, error) {
	issues, err := s.issues.ListByCitizen(ctx, citizenID)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return issues, nil
}

// UpdateStatus transitions an issue to the given status. Any of the three
// states may be set from any other; no ordering is enforced. Comments, when
// provided, are stored on the issue and included in the notification.
func (s *IssueService) UpdateStatus(ctx context.Context, actor auth.Identity, issueID string, status domain.IssueStatus, comments string) (*domain.Issue, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("Invalid status value")
	}

	issue, err := s.getIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}

	oldStatus := issue.Status
	issue.Status = status
	if comments = strings.TrimSpace(comments); comments != "" {
		issue.Comments = comments
	}
	issue.UpdatedAt = time.Now()

	if err := s.issues.Update(ctx, issue); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Issue")
		}
		return nil, apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventIssueStatusChanged,
		IssueID:   issue.ID,
		Actor:     actorFromIdentity(actor),
		Issue:     *issue,
		OldStatus: oldStatus,
		NewStatus: status,
		Comments:  comments,
	})
	return issue, nil
}

// Delete removes a resolved issue along with its stored image. Failure to
// remove the image is logged, not fatal.
func (s *IssueService) Delete(ctx context.Context, actor auth.Identity, issueID string) error {
	issue, err := s.getIssue(ctx, issueID)
	if err != nil {
		return err
	}

	if issue.Status != domain.IssueStatusResolved {
		return apperrors.NewInvalidState("Only resolved issues can be deleted")
	}

	if issue.ImagePath != "" {
		if err := s.uploads.Delete(issue.ImagePath); err != nil {
			s.logger.Warn("failed to delete issue image",
				zap.String("issue_id", issue.ID),
				zap.String("image", issue.ImagePath),
				zap.Error(err))
		}
	}

	if err := s.issues.Delete(ctx, issueID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("Issue")
		}
		return apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueDeleted,
		IssueID: issue.ID,
		Actor:   actorFromIdentity(actor),
		Issue:   *issue,
	})
	return nil
}

func (s *IssueService) getIssue(ctx context.Context, issueID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Issue")
		}
		return nil, apperrors.NewStorageError(err)
	}
	return issue, nil
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFromIdentity(identity auth.Identity) events.Actor {
	return events.Actor{
		UserID:   identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
	}
}
