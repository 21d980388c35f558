package mail

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// Template data shared by the issue emails.
type issueEmailData struct {
	Issue      domain.Issue
	Location   string
	OldStatus  string
	NewStatus  string
	Comments   string
	ReportedBy string
	Resolved   bool
	InProgress bool
}

var issueReportedTmpl = template.Must(template.New("issue-reported").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #1565C0; color: white; padding: 20px;">
    <h1 style="margin: 0;">Civic Issue Reporting System</h1>
  </div>
  <div style="background-color: white; padding: 30px;">
    <h2 style="color: #1565C0;">Issue Reported Successfully</h2>
    <p>Dear Citizen,</p>
    <p>Thank you for reporting an issue in your community. Your report has been received:</p>
    <div style="background-color: #f8f9fa; padding: 20px;">
      <p><strong>Issue ID:</strong> #{{.Issue.ID}}</p>
      <p><strong>Title:</strong> {{.Issue.Title}}</p>
      <p><strong>Description:</strong> {{.Issue.Description}}</p>
      <p><strong>Location:</strong> {{.Location}}</p>
      <p><strong>Priority:</strong> {{.Issue.Priority}}</p>
      <p><strong>Status:</strong> <span style="color: #FF9800;">Pending Review</span></p>
    </div>
    <p>You'll receive email updates when the status changes. You can track your issue using ID #{{.Issue.ID}}.</p>
  </div>
  <p style="color: #666; font-size: 12px; text-align: center;">This is an automated message from the Civic Issue Reporting System</p>
</div>`))

var statusUpdateTmpl = template.Must(template.New("status-update").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #1565C0; color: white; padding: 20px;">
    <h1 style="margin: 0;">Civic Issue Reporting System</h1>
  </div>
  <div style="background-color: white; padding: 30px;">
    <h2 style="color: #1565C0;">Issue Status Updated</h2>
    <p>Dear Citizen,</p>
    <p>We have an update regarding your reported issue:</p>
    <div style="background-color: #f8f9fa; padding: 20px;">
      <p><strong>Issue ID:</strong> #{{.Issue.ID}}</p>
      <p><strong>Title:</strong> {{.Issue.Title}}</p>
      <p><strong>Location:</strong> {{.Location}}</p>
    </div>
    <div style="background-color: #e8f5e8; padding: 20px;">
      <p><strong>Previous Status:</strong> {{.OldStatus}}</p>
      <p><strong>New Status:</strong> <span style="font-weight: bold;">{{.NewStatus}}</span></p>
    </div>
    {{if .Comments}}
    <div style="background-color: #fff3cd; padding: 20px;">
      <p><strong>Official Comments:</strong></p>
      <p style="font-style: italic;">"{{.Comments}}"</p>
    </div>
    {{end}}
    {{if .Resolved}}
    <p>Thank you for your patience. The issue has been successfully resolved. If you notice any remaining problems, please report a new issue.</p>
    {{else if .InProgress}}
    <p>Our team is actively working on resolving this issue. We'll keep you updated on the progress.</p>
    {{end}}
  </div>
  <p style="color: #666; font-size: 12px; text-align: center;">This is an automated message from the Civic Issue Reporting System</p>
</div>`))

var officerNotificationTmpl = template.Must(template.New("officer-notification").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #d32f2f; color: white; padding: 20px;">
    <h1 style="margin: 0;">New Issue Reported</h1>
  </div>
  <div style="background-color: white; padding: 30px;">
    <h2 style="color: #d32f2f;">Action Required - New Community Issue</h2>
    <p>Dear Officer,</p>
    <p>A new issue has been reported by a community member and requires your attention:</p>
    <div style="background-color: #ffebee; padding: 20px;">
      <p><strong>Issue ID:</strong> #{{.Issue.ID}}</p>
      <p><strong>Title:</strong> {{.Issue.Title}}</p>
      <p><strong>Description:</strong> {{.Issue.Description}}</p>
      <p><strong>Location:</strong> {{.Location}}</p>
      <p><strong>Priority:</strong> {{.Issue.Priority}}</p>
      <p><strong>Reported By:</strong> {{.ReportedBy}}</p>
    </div>
    <p>Please log into the system to review the issue, update its status and add comments for the citizen.</p>
  </div>
  <p style="color: #666; font-size: 12px; text-align: center;">This is an automated notification from the Civic Issue Reporting System</p>
</div>`))

// IssueReported builds the confirmation email sent to the reporting citizen.
func IssueReported(issue domain.Issue, to string) (Message, error) {
	html, err := render(issueReportedTmpl, issueEmailData{
		Issue:    issue,
		Location: locationText(issue.Location),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Issue Reported Successfully - #%s", issue.ID),
		HTML:    html,
	}, nil
}

// StatusUpdate builds the old→new status summary sent to the citizen.
func StatusUpdate(issue domain.Issue, to string, oldStatus, newStatus domain.IssueStatus, comments string) (Message, error) {
	html, err := render(statusUpdateTmpl, issueEmailData{
		Issue:      issue,
		Location:   locationText(issue.Location),
		OldStatus:  titleCase(string(oldStatus)),
		NewStatus:  titleCase(string(newStatus)),
		Comments:   comments,
		Resolved:   newStatus == domain.IssueStatusResolved,
		InProgress: newStatus == domain.IssueStatusInProgress,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Issue Update - #%s Status Changed to %s", issue.ID, titleCase(string(newStatus))),
		HTML:    html,
	}, nil
}

// OfficerNotification builds the alert sent to triage staff on creation.
func OfficerNotification(issue domain.Issue, reportedBy, to string) (Message, error) {
	html, err := render(officerNotificationTmpl, issueEmailData{
		Issue:      issue,
		Location:   locationText(issue.Location),
		ReportedBy: reportedBy,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("New Issue Reported - #%s - %s", issue.ID, issue.Title),
		HTML:    html,
	}, nil
}

func render(tmpl *template.Template, data issueEmailData) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func locationText(loc domain.Location) string {
	switch {
	case loc.Address != "":
		return loc.Address
	case loc.Latitude != nil && loc.Longitude != nil:
		return fmt.Sprintf("%.6f, %.6f", *loc.Latitude, *loc.Longitude)
	default:
		return "Not specified"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
