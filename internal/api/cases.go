package api

import (
	"context"
	"fmt"
	"net/url"

	"casedesk/internal/domain"
)

type caseDTO struct {
	ID               string         `json:"ID"`
	CaseTypeID       string         `json:"caseTypeID"`
	Name             string         `json:"name"`
	Status           string         `json:"status"`
	StatusWork       string         `json:"statusWork"`
	Urgency          string         `json:"urgency"`
	CreateTime       string         `json:"createTime"`
	UpdateTime       string         `json:"updateTime"`
	Owner            string         `json:"owner"`
	CreatedBy        string         `json:"createdBy"`
	LastUpdatedBy    string         `json:"lastUpdatedBy"`
	Stage            string         `json:"stage"`
	NextAssignmentID string         `json:"nextAssignmentID"`
	Content          map[string]any `json:"content"`
}

func (d caseDTO) toDomain() domain.Case {
	return domain.Case{
		ID:               d.ID,
		CaseTypeID:       d.CaseTypeID,
		Name:             d.Name,
		Status:           d.Status,
		StatusWork:       d.StatusWork,
		Urgency:          d.Urgency,
		CreateTime:       d.CreateTime,
		UpdateTime:       d.UpdateTime,
		Owner:            d.Owner,
		CreatedBy:        d.CreatedBy,
		LastUpdatedBy:    d.LastUpdatedBy,
		Stage:            d.Stage,
		NextAssignmentID: d.NextAssignmentID,
		Content:          d.Content,
	}
}

type caseTypeDTO struct {
	ID          string `json:"ID"`
	CaseTypeID  string `json:"caseTypeID"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CaseTypes lists the case types the operator can create.
func (c *Client) CaseTypes(ctx context.Context) ([]domain.CaseType, error) {
	var resp listResponse[caseTypeDTO]
	if err := c.get(ctx, "/casetypes", &resp); err != nil {
		return nil, fmt.Errorf("fetching case types: %w", err)
	}
	types := make([]domain.CaseType, 0, len(resp.PxResults))
	for _, dto := range resp.PxResults {
		id := dto.ID
		if id == "" {
			id = dto.CaseTypeID
		}
		types = append(types, domain.CaseType{ID: id, Name: dto.Name, Description: dto.Description})
	}
	return types, nil
}

// CreateCase starts a new case of the given type.
func (c *Client) CreateCase(ctx context.Context, caseTypeID string, content map[string]any) (domain.Case, error) {
	body := map[string]any{"caseTypeID": caseTypeID}
	if content != nil {
		body["content"] = content
	}
	var dto caseDTO
	if err := c.post(ctx, "/cases", body, &dto); err != nil {
		return domain.Case{}, fmt.Errorf("creating case: %w", err)
	}
	return dto.toDomain(), nil
}

// GetCase fetches a case by id.
func (c *Client) GetCase(ctx context.Context, caseID string) (domain.Case, error) {
	var dto caseDTO
	if err := c.get(ctx, "/cases/"+url.PathEscape(caseID), &dto); err != nil {
		return domain.Case{}, fmt.Errorf("fetching case %s: %w", caseID, err)
	}
	return dto.toDomain(), nil
}

// UpdateCase writes case content conditionally.
func (c *Client) UpdateCase(ctx context.Context, caseID string, content map[string]any) (domain.Case, error) {
	var dto caseDTO
	endpoint := "/cases/" + url.PathEscape(caseID)
	if err := c.put(ctx, endpoint, map[string]any{"content": content}, &dto); err != nil {
		return domain.Case{}, fmt.Errorf("updating case %s: %w", caseID, err)
	}
	return dto.toDomain(), nil
}

type caseHistoryDTO struct {
	ID                string `json:"ID"`
	Performer         string `json:"performer"`
	PerformedDateTime string `json:"performedDateTime"`
	Message           string `json:"message"`
	EventType         string `json:"eventType"`
}

// CaseHistory returns the audit trail of a case.
func (c *Client) CaseHistory(ctx context.Context, caseID string) ([]domain.CaseHistoryEntry, error) {
	var resp listResponse[caseHistoryDTO]
	if err := c.get(ctx, "/cases/"+url.PathEscape(caseID)+"/history", &resp); err != nil {
		return nil, fmt.Errorf("fetching case history: %w", err)
	}
	entries := make([]domain.CaseHistoryEntry, 0, len(resp.PxResults))
	for _, dto := range resp.PxResults {
		entries = append(entries, domain.CaseHistoryEntry{
			ID:                dto.ID,
			Performer:         dto.Performer,
			PerformedDateTime: dto.PerformedDateTime,
			Message:           dto.Message,
			EventType:         dto.EventType,
		})
	}
	return entries, nil
}
