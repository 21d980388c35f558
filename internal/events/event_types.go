package events

import (
	"time"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueStatusChanged EventType = "issue_status_changed"
	EventIssueDeleted       EventType = "issue_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Event represents a domain event emitted by services. The payload carries
// a full issue snapshot so consumers never re-read mutated state.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	IssueID   string    `json:"issue_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`

	Issue     domain.Issue       `json:"issue"`
	OldStatus domain.IssueStatus `json:"old_status,omitempty"`
	NewStatus domain.IssueStatus `json:"new_status,omitempty"`
	Comments  string             `json:"comments,omitempty"`
}
