package api

import (
	"context"
	"fmt"
	"net/url"

	"casedesk/internal/domain"
)

// assignmentDTO is the flat assignment record of worklist and detail
// responses.
type assignmentDTO struct {
	ID           string      `json:"ID"`
	CaseID       string      `json:"caseID"`
	Name         string      `json:"name"`
	Instructions string      `json:"instructions"`
	Status       string      `json:"status"`
	Urgency      string      `json:"urgency"`
	CreateTime   string      `json:"createTime"`
	RoutedTo     string      `json:"routedTo"`
	AssignedTo   string      `json:"assignedTo"`
	CanPerform   string      `json:"canPerform"`
	Actions      []ActionDTO `json:"actions"`
}

func (d assignmentDTO) toDomain() domain.Assignment {
	return domain.Assignment{
		ID:           d.ID,
		CaseID:       d.CaseID,
		Name:         d.Name,
		Instructions: d.Instructions,
		Status:       d.Status,
		Urgency:      d.Urgency,
		CreateTime:   d.CreateTime,
		RoutedTo:     d.RoutedTo,
		AssignedTo:   d.AssignedTo,
		CanPerform:   d.CanPerform,
	}
}

// AssignmentDetail is an assignment record together with its available
// actions, as returned by the detail endpoint.
type AssignmentDetail struct {
	domain.Assignment
	Actions []domain.ActionInfo
}

// Worklist returns the operator's pending work items.
func (c *Client) Worklist(ctx context.Context) ([]domain.Assignment, error) {
	var resp listResponse[assignmentDTO]
	if err := c.get(ctx, "/assignments", &resp); err != nil {
		return nil, fmt.Errorf("fetching worklist: %w", err)
	}
	items := make([]domain.Assignment, 0, len(resp.PxResults))
	for _, dto := range resp.PxResults {
		items = append(items, dto.toDomain())
	}
	return items, nil
}

// GetAssignment fetches one assignment's detail record with its actions.
func (c *Client) GetAssignment(ctx context.Context, assignmentID string) (*AssignmentDetail, error) {
	var dto assignmentDTO
	endpoint := "/assignments/" + url.PathEscape(assignmentID)
	if err := c.get(ctx, endpoint, &dto); err != nil {
		return nil, fmt.Errorf("fetching assignment %s: %w", assignmentID, err)
	}
	detail := &AssignmentDetail{Assignment: dto.toDomain()}
	for _, a := range dto.Actions {
		detail.Actions = append(detail.Actions, actionToDomain(a))
	}
	return detail, nil
}

func actionToDomain(a ActionDTO) domain.ActionInfo {
	return domain.ActionInfo{
		ID:         a.ID,
		Name:       a.Name,
		SubmitHref: a.Links.Href("submit"),
		SaveHref:   a.Links.Href("save"),
		OpenHref:   a.Links.Href("open"),
	}
}

// OpenAssignmentAction fetches an action's form view via the constructed
// endpoint.
func (c *Client) OpenAssignmentAction(ctx context.Context, assignmentID, actionID string) (*Envelope, error) {
	endpoint := "/assignments/" + url.PathEscape(assignmentID) + "/actions/" + url.PathEscape(actionID)
	var env Envelope
	if err := c.get(ctx, endpoint, &env); err != nil {
		return nil, fmt.Errorf("opening action %s: %w", actionID, err)
	}
	return &env, nil
}

// OpenByHref fetches a form view using a link target from a prior response.
func (c *Client) OpenByHref(ctx context.Context, href string) (*Envelope, error) {
	var env Envelope
	if err := c.get(ctx, href, &env); err != nil {
		return nil, fmt.Errorf("opening %s: %w", href, err)
	}
	return &env, nil
}

// SubmitByHref performs the conditional write against an action's submit
// (or save) link.
func (c *Client) SubmitByHref(ctx context.Context, href string, content map[string]any) (*Envelope, error) {
	var env Envelope
	if err := c.patch(ctx, href, map[string]any{"content": content}, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PerformAction submits an assignment action via the constructed fallback
// endpoint, used when the response carried no submit link.
func (c *Client) PerformAction(ctx context.Context, assignmentID, actionID string, content map[string]any) (*Envelope, error) {
	endpoint := "/assignments/" + url.PathEscape(assignmentID) + "/actions/" + url.PathEscape(actionID)
	var env Envelope
	if err := c.patch(ctx, endpoint, map[string]any{"content": content}, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
