package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/mail"
	"github.com/spec-kit/civic-issue-service/internal/repository"
)

// NotificationService turns lifecycle events into best-effort emails.
// Failures are logged and never surface to the operation that triggered
// the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	mailer     mail.Mailer
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.UserRepository, mailer mail.Mailer, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		mailer:     mailer,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventIssueCreated, n.handleIssueCreated)
	n.dispatcher.Subscribe(events.EventIssueStatusChanged, n.handleIssueStatusChanged)
	n.dispatcher.Subscribe(events.EventIssueDeleted, n.handleIssueDeleted)
}

func (n *NotificationService) handleIssueCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("IssueCreated",
		zap.String("issue_id", event.IssueID),
		zap.String("reported_by", event.Issue.ReportedBy))

	citizen := n.lookupUser(ctx, event.Issue.CitizenID)
	if citizen != nil && citizen.Email != "" {
		msg, err := mail.IssueReported(event.Issue, citizen.Email)
		if err != nil {
			n.logger.Error("render issue-reported email", zap.Error(err))
		} else {
			n.send(ctx, msg)
		}
	}

	if n.cfg.NotifyOfficers {
		n.notifyStaff(ctx, event, citizen)
	}
	return nil
}

func (n *NotificationService) handleIssueStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("IssueStatusChanged",
		zap.String("issue_id", event.IssueID),
		zap.String("old_status", string(event.OldStatus)),
		zap.String("new_status", string(event.NewStatus)))

	citizen := n.lookupUser(ctx, event.Issue.CitizenID)
	if citizen == nil || citizen.Email == "" {
		return nil
	}

	msg, err := mail.StatusUpdate(event.Issue, citizen.Email, event.OldStatus, event.NewStatus, event.Comments)
	if err != nil {
		n.logger.Error("render status-update email", zap.Error(err))
		return nil
	}
	n.send(ctx, msg)
	return nil
}

func (n *NotificationService) handleIssueDeleted(_ context.Context, event events.Event) error {
	n.logger.Info("IssueDeleted",
		zap.String("issue_id", event.IssueID),
		zap.String("deleted_by", event.Actor.Username))
	return nil
}

func (n *NotificationService) notifyStaff(ctx context.Context, event events.Event, citizen *domain.User) {
	users, err := n.users.List(ctx)
	if err != nil {
		n.logger.Error("list notification recipients", zap.Error(err))
		return
	}

	reportedBy := event.Issue.ReportedBy
	if citizen != nil && citizen.Email != "" {
		reportedBy = reportedBy + " (" + citizen.Email + ")"
	}

	for _, user := range users {
		if user.Role != domain.RoleOfficer && user.Role != domain.RoleAdmin {
			continue
		}
		if user.Email == "" {
			continue
		}
		msg, err := mail.OfficerNotification(event.Issue, reportedBy, user.Email)
		if err != nil {
			n.logger.Error("render officer-notification email", zap.Error(err))
			continue
		}
		n.send(ctx, msg)
	}
}

func (n *NotificationService) lookupUser(ctx context.Context, userID string) *domain.User {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		n.logger.Warn("notification recipient lookup failed",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil
	}
	return user
}

func (n *NotificationService) send(ctx context.Context, msg mail.Message) {
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Error("email delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return
	}
	n.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
}
