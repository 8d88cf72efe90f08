package crmclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// GetLeadByUUID fetches one lead.
func (c *Client) GetLeadByUUID(ctx context.Context, leadUUID uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	if err := c.do(ctx, http.MethodGet, "/leads/"+leadUUID.String(), nil, nil, &lead); err != nil {
		return nil, fmt.Errorf("get lead %s: %w", leadUUID, err)
	}
	return &lead, nil
}

// UpdateLead applies a partial update and returns the updated lead.
func (c *Client) UpdateLead(ctx context.Context, leadUUID uuid.UUID, update domain.LeadUpdate) (*domain.Lead, error) {
	var lead domain.Lead
	if err := c.do(ctx, http.MethodPut, "/leads/"+leadUUID.String(), nil, update, &lead); err != nil {
		return nil, fmt.Errorf("update lead %s: %w", leadUUID, err)
	}
	return &lead, nil
}

// MarkLost transitions a lead to lost. reason may be empty.
func (c *Client) MarkLost(ctx context.Context, leadUUID uuid.UUID, reason string) (*domain.Lead, error) {
	var lead domain.Lead
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	if err := c.do(ctx, http.MethodPost, "/leads/"+leadUUID.String()+"/lost", nil, body, &lead); err != nil {
		return nil, fmt.Errorf("mark lead %s lost: %w", leadUUID, err)
	}
	return &lead, nil
}

// ActivateLead transitions a lead back to active.
func (c *Client) ActivateLead(ctx context.Context, leadUUID uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	if err := c.do(ctx, http.MethodPost, "/leads/"+leadUUID.String()+"/activate", nil, nil, &lead); err != nil {
		return nil, fmt.Errorf("activate lead %s: %w", leadUUID, err)
	}
	return &lead, nil
}
