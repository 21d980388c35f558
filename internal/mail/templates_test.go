package mail

import (
	"strings"
	"testing"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

func sampleIssue() domain.Issue {
	return domain.Issue{
		ID:          "1700000000000",
		Title:       "Pothole",
		Description: "On 5th St",
		Priority:    domain.IssuePriorityHigh,
		Status:      domain.IssueStatusPending,
		Location:    domain.Location{Address: "5th St"},
	}
}

func TestIssueReportedEmail(t *testing.T) {
	t.Parallel()

	msg, err := IssueReported(sampleIssue(), "citizen@example.com")
	if err != nil {
		t.Fatalf("IssueReported: %v", err)
	}
	if msg.To != "citizen@example.com" {
		t.Errorf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "#1700000000000") {
		t.Errorf("subject should carry issue id, got %q", msg.Subject)
	}
	for _, want := range []string{"Pothole", "On 5th St", "5th St", "high"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestStatusUpdateEmail(t *testing.T) {
	t.Parallel()

	msg, err := StatusUpdate(sampleIssue(), "citizen@example.com",
		domain.IssueStatusPending, domain.IssueStatusInProgress, "investigating")
	if err != nil {
		t.Fatalf("StatusUpdate: %v", err)
	}
	if !strings.Contains(msg.Subject, "In-progress") {
		t.Errorf("subject should carry new status, got %q", msg.Subject)
	}
	for _, want := range []string{"Pending", "In-progress", "investigating"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestStatusUpdateEmailOmitsEmptyComments(t *testing.T) {
	t.Parallel()

	msg, err := StatusUpdate(sampleIssue(), "citizen@example.com",
		domain.IssueStatusInProgress, domain.IssueStatusResolved, "")
	if err != nil {
		t.Fatalf("StatusUpdate: %v", err)
	}
	if strings.Contains(msg.HTML, "Official Comments") {
		t.Error("comments block should be omitted when empty")
	}
	if !strings.Contains(msg.HTML, "successfully resolved") {
		t.Error("resolved note missing")
	}
}

func TestOfficerNotificationEmail(t *testing.T) {
	t.Parallel()

	msg, err := OfficerNotification(sampleIssue(), "alice (alice@example.com)", "officer@example.com")
	if err != nil {
		t.Fatalf("OfficerNotification: %v", err)
	}
	if msg.To != "officer@example.com" {
		t.Errorf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.HTML, "alice (alice@example.com)") {
		t.Error("reporter attribution missing")
	}
}

func TestLocationText(t *testing.T) {
	t.Parallel()

	lat, lng := 12.5, -70.25
	cases := []struct {
		name string
		loc  domain.Location
		want string
	}{
		{"address", domain.Location{Address: "5th St"}, "5th St"},
		{"coordinates", domain.Location{Latitude: &lat, Longitude: &lng}, "12.500000, -70.250000"},
		{"empty", domain.Location{}, "Not specified"},
	}
	for _, tc := range cases {
		if got := locationText(tc.loc); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
