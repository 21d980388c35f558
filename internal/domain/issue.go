package domain

import "time"

// IssueStatus enumerates lifecycle states for reported issues.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "pending"
	IssueStatusInProgress IssueStatus = "in-progress"
	IssueStatusResolved   IssueStatus = "resolved"
)

// Valid reports whether the status is one of the known states.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusPending, IssueStatusInProgress, IssueStatusResolved:
		return true
	}
	return false
}

// IssuePriority enumerates urgency levels.
type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "low"
	IssuePriorityMedium IssuePriority = "medium"
	IssuePriorityHigh   IssuePriority = "high"
)

// Valid reports whether the priority is one of the known levels.
func (p IssuePriority) Valid() bool {
	switch p {
	case IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh:
		return true
	}
	return false
}

// Location captures where an issue was observed. Either a free-form
// address, coordinates, or both may be present.
type Location struct {
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Empty reports whether no location information was provided.
func (l Location) Empty() bool {
	return l.Address == "" && l.Latitude == nil && l.Longitude == nil
}

// Issue is the aggregate for citizen-reported civic problems.
type Issue struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    Location      `json:"location"`
	Priority    IssuePriority `json:"priority"`
	ImagePath   string        `json:"image,omitempty"`
	Status      IssueStatus   `json:"status"`
	CitizenID   string        `json:"citizenId"`
	ReportedBy  string        `json:"reportedBy"`
	Comments    string        `json:"comments,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
