package api

import (
	"encoding/json"

	"casedesk/internal/schema"
)

// Envelope is the response shape returned by assignment/action/case
// endpoints that carry a form view. Raw holds the undecoded response for
// the legacy-shape fallback hunt.
type Envelope struct {
	UIResources *UIResources   `json:"uiResources"`
	Data        *EnvelopeData  `json:"data"`
	Raw         map[string]any `json:"-"`
}

func (e *Envelope) UnmarshalJSON(b []byte) error {
	type alias Envelope
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = Envelope(a)
	e.Raw = raw
	return nil
}

// Catalogue assembles the inputs for a view-tree resolution pass.
func (e *Envelope) Catalogue() schema.Catalogue {
	cat := schema.Catalogue{Raw: e.Raw}
	if e.UIResources != nil {
		cat.Root = e.UIResources.Root
		cat.Views = e.UIResources.Resources.Views
		cat.Fields = e.UIResources.Resources.Fields
	}
	if info := e.CaseInfo(); info != nil {
		cat.Content = info.Content
	}
	return cat
}

// CaseInfo returns the embedded case structure, if any.
func (e *Envelope) CaseInfo() *CaseInfo {
	if e == nil || e.Data == nil {
		return nil
	}
	return e.Data.CaseInfo
}

// NextAssignment returns the first open assignment embedded in the
// response's case structure, or nil when the case has no further steps.
func (e *Envelope) NextAssignment() *AssignmentInfo {
	info := e.CaseInfo()
	if info == nil || len(info.Assignments) == 0 {
		return nil
	}
	return &info.Assignments[0]
}

// UIResources carries the view catalogue, field metadata, root node, and
// navigation chrome of a form response.
type UIResources struct {
	Root          *schema.ViewNode `json:"root"`
	Resources     Resources        `json:"resources"`
	Navigation    *Navigation      `json:"navigation"`
	ActionButtons *ActionButtons   `json:"actionButtons"`
}

// Resources is the named-view catalogue plus per-property field metadata.
type Resources struct {
	Views  map[string][]schema.ViewNode  `json:"views"`
	Fields map[string][]schema.FieldMeta `json:"fields"`
}

// Navigation lists the steps of a multi-step assignment.
type Navigation struct {
	Steps []NavigationStepDTO `json:"steps"`
}

// NavigationStepDTO is one navigation rail entry.
type NavigationStepDTO struct {
	ID            string `json:"ID"`
	Name          string `json:"name"`
	ActionID      string `json:"actionID"`
	VisitedStatus string `json:"visited_status"`
	Links         Links  `json:"links"`
}

// ActionButtons carries the main/secondary buttons advertised by the view.
type ActionButtons struct {
	Main      []ButtonDTO `json:"main"`
	Secondary []ButtonDTO `json:"secondary"`
}

// ButtonDTO is a single advertised button.
type ButtonDTO struct {
	Name     string `json:"name"`
	JSAction string `json:"jsAction"`
}

// Links maps link names to their targets. Hrefs are used verbatim when
// present, bypassing constructed URLs.
type Links map[string]Link

// Link is a single resource link.
type Link struct {
	Href string `json:"href"`
}

// Href returns the named link target, or "".
func (l Links) Href(name string) string {
	return l[name].Href
}

// EnvelopeData is the data half of a form response.
type EnvelopeData struct {
	CaseInfo *CaseInfo `json:"caseInfo"`
}

// CaseInfo is the embedded case structure of a form response.
type CaseInfo struct {
	ID            string           `json:"ID"`
	CaseTypeID    string           `json:"caseTypeID"`
	Name          string           `json:"name"`
	Status        string           `json:"status"`
	Urgency       string           `json:"urgency"`
	Owner         string           `json:"owner"`
	CreatedBy     string           `json:"createdBy"`
	LastUpdatedBy string           `json:"lastUpdatedBy"`
	CreateTime    string           `json:"createTime"`
	UpdateTime    string           `json:"lastUpdateTime"`
	StageLabel    string           `json:"stageLabel"`
	Stages        []StageDTO       `json:"stages"`
	Assignments   []AssignmentInfo `json:"assignments"`
	Content       map[string]any   `json:"content"`
}

// StageDTO is one lifecycle stage of the case.
type StageDTO struct {
	ID            string `json:"ID"`
	Name          string `json:"name"`
	VisitedStatus string `json:"visited_status"`
	Type          string `json:"type"`
}

// AssignmentInfo is an open assignment embedded in a case structure.
type AssignmentInfo struct {
	ID           string      `json:"ID"`
	Name         string      `json:"name"`
	Instructions string      `json:"instructions"`
	Urgency      string      `json:"urgency"`
	CanPerform   string      `json:"canPerform"`
	Actions      []ActionDTO `json:"actions"`
}

// ActionDTO is one available action on an embedded assignment.
type ActionDTO struct {
	ID    string `json:"ID"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Links Links  `json:"links"`
}
