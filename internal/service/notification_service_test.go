package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/mail"
)

// recordingMailer captures outgoing messages, optionally failing every send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

func notificationFixture(t *testing.T, mailer mail.Mailer, cfg config.NotificationConfig) events.Dispatcher {
	t.Helper()

	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, seedUsers(t), mailer, zap.NewNop(), cfg)
	svc.RegisterHandlers()
	return dispatcher
}

func createdEvent() events.Event {
	return events.Event{
		ID:      "e-1",
		Type:    events.EventIssueCreated,
		IssueID: "i-1",
		Actor:   events.Actor{UserID: "u-citizen", Username: "alice", Role: domain.RoleCitizen},
		Issue: domain.Issue{
			ID:          "i-1",
			Title:       "Pothole",
			Description: "On 5th St",
			Priority:    domain.IssuePriorityMedium,
			Status:      domain.IssueStatusPending,
			CitizenID:   "u-citizen",
			ReportedBy:  "alice",
		},
	}
}

func TestIssueCreatedNotifiesCitizenAndStaff(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{}
	dispatcher := notificationFixture(t, mailer, config.NotificationConfig{NotifyOfficers: true})

	if err := dispatcher.Publish(context.Background(), createdEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// alice gets a confirmation; bob is the only staff member with an email
	// (carol has none), so exactly two messages go out.
	messages := mailer.messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d: %+v", len(messages), messages)
	}

	byRecipient := map[string]mail.Message{}
	for _, msg := range messages {
		byRecipient[msg.To] = msg
	}
	citizenMsg, ok := byRecipient["alice@example.com"]
	if !ok {
		t.Fatal("expected confirmation to the reporting citizen")
	}
	if !strings.Contains(citizenMsg.Subject, "#i-1") {
		t.Errorf("citizen subject missing issue id: %q", citizenMsg.Subject)
	}
	staffMsg, ok := byRecipient["bob@example.com"]
	if !ok {
		t.Fatal("expected officer notification")
	}
	if !strings.Contains(staffMsg.HTML, "alice (alice@example.com)") {
		t.Error("officer notification missing reporter attribution")
	}
}

func TestIssueCreatedWithoutOfficerFanout(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{}
	dispatcher := notificationFixture(t, mailer, config.NotificationConfig{NotifyOfficers: false})

	if err := dispatcher.Publish(context.Background(), createdEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	messages := mailer.messages()
	if len(messages) != 1 || messages[0].To != "alice@example.com" {
		t.Errorf("expected only the citizen confirmation, got %+v", messages)
	}
}

func TestStatusChangedNotifiesCitizen(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{}
	dispatcher := notificationFixture(t, mailer, config.NotificationConfig{})

	event := createdEvent()
	event.Type = events.EventIssueStatusChanged
	event.Issue.Status = domain.IssueStatusInProgress
	event.OldStatus = domain.IssueStatusPending
	event.NewStatus = domain.IssueStatusInProgress
	event.Comments = "crew dispatched"

	if err := dispatcher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	messages := mailer.messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].To != "alice@example.com" {
		t.Errorf("unexpected recipient %q", messages[0].To)
	}
	if !strings.Contains(messages[0].HTML, "crew dispatched") {
		t.Error("status email missing comments")
	}
}

func TestUnknownCitizenIsSkipped(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{}
	dispatcher := notificationFixture(t, mailer, config.NotificationConfig{})

	event := createdEvent()
	event.Issue.CitizenID = "u-ghost"

	if err := dispatcher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := mailer.messages(); len(got) != 0 {
		t.Errorf("expected no messages for unknown citizen, got %+v", got)
	}
}

func TestMailerFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{fail: true}
	dispatcher := notificationFixture(t, mailer, config.NotificationConfig{NotifyOfficers: true})

	// Delivery failures are logged, never returned.
	if err := dispatcher.Publish(context.Background(), createdEvent()); err != nil {
		t.Errorf("expected failures to be swallowed, got %v", err)
	}
}
