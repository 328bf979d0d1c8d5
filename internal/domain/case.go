package domain

import "time"

// Case is a unit-of-work instance progressing through defined stages.
// NextAssignmentID is set on create responses, pointing the client at the
// first open assignment of the new case.
type Case struct {
	ID               string
	CaseTypeID       string
	Name             string
	Status           string
	StatusWork       string
	Urgency          string
	CreateTime       string
	UpdateTime       string
	Owner            string
	CreatedBy        string
	LastUpdatedBy    string
	Stage            string
	NextAssignmentID string
	Content          map[string]any
}

// CaseType describes a kind of case an operator can create.
type CaseType struct {
	ID          string
	Name        string
	Description string
}

// RecentCase is a dashboard entry for a case the operator opened.
type RecentCase struct {
	CaseID   string
	CaseName string
	Status   string
	OpenedAt time.Time
}

// CaseHistoryEntry is one audit record from a case's history.
type CaseHistoryEntry struct {
	ID                string
	Performer         string
	PerformedDateTime string
	Message           string
	EventType         string
}
