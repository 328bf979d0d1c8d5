package workflow

import (
	"strings"

	"casedesk/internal/api"
	"casedesk/internal/domain"
)

// PageState aggregates everything the assignment screen shows: assignment
// and case identity, audit fields, stage progress, available actions,
// navigation steps, and buttons. It is constructed fresh per navigation,
// mutated in place as enrichment calls return, and replaced wholesale when
// a submission lands on a different assignment.
type PageState struct {
	AssignmentID   string
	AssignmentName string
	CaseID         string
	CaseName       string
	Status         string
	Urgency        string
	Owner          string
	CreatedBy      string
	LastUpdatedBy  string
	CreateTime     string
	UpdateTime     string
	StageLabel     string
	Instructions   string

	Stages           []domain.StageInfo
	Actions          []domain.ActionInfo
	Steps            []domain.NavigationStep
	MainButtons      []domain.ButtonInfo
	SecondaryButtons []domain.ButtonInfo

	Content map[string]any
}

// applyCaseInfo folds a response's embedded case structure into the page.
// The assignment matching the page's identity (or the first open one) is
// the source for assignment-level attributes and actions.
func (p *PageState) applyCaseInfo(info *api.CaseInfo) {
	if info == nil {
		return
	}
	setIfPresent(&p.CaseID, info.ID)
	setIfPresent(&p.CaseName, info.Name)
	setIfPresent(&p.Status, info.Status)
	setIfPresent(&p.Urgency, info.Urgency)
	setIfPresent(&p.Owner, info.Owner)
	setIfPresent(&p.CreatedBy, info.CreatedBy)
	setIfPresent(&p.LastUpdatedBy, info.LastUpdatedBy)
	setIfPresent(&p.CreateTime, info.CreateTime)
	setIfPresent(&p.UpdateTime, info.UpdateTime)
	setIfPresent(&p.StageLabel, info.StageLabel)
	if info.Content != nil {
		p.Content = info.Content
	}
	if len(info.Stages) > 0 {
		p.Stages = stagesToDomain(info.Stages)
	}

	assignment := matchAssignment(info.Assignments, p.AssignmentID)
	if assignment == nil {
		return
	}
	setIfPresent(&p.AssignmentID, assignment.ID)
	setIfPresent(&p.AssignmentName, assignment.Name)
	setIfPresent(&p.Instructions, assignment.Instructions)
	setIfPresent(&p.Urgency, assignment.Urgency)
	if len(assignment.Actions) > 0 {
		p.Actions = actionsToDomain(assignment.Actions)
	}
}

// applyUIResources backfills navigation steps and buttons that hydration
// has not filled yet.
func (p *PageState) applyUIResources(ui *api.UIResources) {
	if ui == nil {
		return
	}
	if ui.Navigation != nil && len(p.Steps) == 0 {
		for _, s := range ui.Navigation.Steps {
			p.Steps = append(p.Steps, domain.NavigationStep{
				ID:            s.ID,
				Name:          s.Name,
				ActionID:      s.ActionID,
				VisitedStatus: s.VisitedStatus,
				OpenHref:      s.Links.Href("open"),
			})
		}
	}
	if ui.ActionButtons != nil {
		if len(p.MainButtons) == 0 {
			p.MainButtons = buttonsToDomain(ui.ActionButtons.Main)
		}
		if len(p.SecondaryButtons) == 0 {
			p.SecondaryButtons = buttonsToDomain(ui.ActionButtons.Secondary)
		}
	}
}

// merge folds a direct assignment-detail fetch into the page. Values
// already present win only when the fetch brought nothing.
func (p *PageState) merge(detail *api.AssignmentDetail) {
	if detail == nil {
		return
	}
	setIfPresent(&p.AssignmentName, detail.Name)
	setIfPresent(&p.CaseID, detail.CaseID)
	setIfPresent(&p.Instructions, detail.Instructions)
	setIfPresent(&p.Status, detail.Status)
	setIfPresent(&p.Urgency, detail.Urgency)
	if len(p.Actions) == 0 && len(detail.Actions) > 0 {
		p.Actions = detail.Actions
	}
}

func matchAssignment(assignments []api.AssignmentInfo, id string) *api.AssignmentInfo {
	if len(assignments) == 0 {
		return nil
	}
	for i := range assignments {
		if assignments[i].ID == id {
			return &assignments[i]
		}
	}
	return &assignments[0]
}

func actionsToDomain(actions []api.ActionDTO) []domain.ActionInfo {
	out := make([]domain.ActionInfo, 0, len(actions))
	for _, a := range actions {
		out = append(out, domain.ActionInfo{
			ID:         a.ID,
			Name:       a.Name,
			SubmitHref: a.Links.Href("submit"),
			SaveHref:   a.Links.Href("save"),
			OpenHref:   a.Links.Href("open"),
		})
	}
	return out
}

func stagesToDomain(stages []api.StageDTO) []domain.StageInfo {
	out := make([]domain.StageInfo, 0, len(stages))
	for _, s := range stages {
		kind := domain.StagePrimary
		if strings.EqualFold(s.Type, string(domain.StageAlternate)) {
			kind = domain.StageAlternate
		}
		out = append(out, domain.StageInfo{
			ID:            s.ID,
			Name:          s.Name,
			VisitedStatus: s.VisitedStatus,
			Kind:          kind,
		})
	}
	return out
}

func buttonsToDomain(buttons []api.ButtonDTO) []domain.ButtonInfo {
	out := make([]domain.ButtonInfo, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, domain.ButtonInfo{Name: b.Name, JSAction: b.JSAction})
	}
	return out
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
