package domain

// Assignment is a work item requiring a human action within a case.
type Assignment struct {
	ID           string
	CaseID       string
	Name         string
	Instructions string
	Status       string
	Urgency      string
	CreateTime   string
	RoutedTo     string
	AssignedTo   string
	CanPerform   string
}

// ActionInfo is one defined operation on an assignment, with the link
// targets the platform advertises for it. Hrefs, when present, are used
// verbatim in preference to constructed URLs.
type ActionInfo struct {
	ID         string
	Name       string
	SubmitHref string
	SaveHref   string
	OpenHref   string
}

// StageKind distinguishes primary-path stages from alternate ones.
type StageKind string

const (
	StagePrimary   StageKind = "Primary"
	StageAlternate StageKind = "Alternate"
)

// StageInfo is a high-level phase within a case's lifecycle.
type StageInfo struct {
	ID            string
	Name          string
	VisitedStatus string
	Kind          StageKind
}

// NavigationStep is one entry in a multi-step assignment's navigation rail.
type NavigationStep struct {
	ID            string
	Name          string
	ActionID      string
	VisitedStatus string
	OpenHref      string
}

// ButtonInfo is a main or secondary action button advertised by the view.
type ButtonInfo struct {
	Name     string
	JSAction string
}
