package crmclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// TemplateInput carries the writable quick-template fields.
type TemplateInput struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category,omitempty"`
}

type templatesResponse struct {
	Templates []domain.QuickTemplate `json:"templates"`
}

// ListTemplates fetches all quick-message templates.
func (c *Client) ListTemplates(ctx context.Context) ([]domain.QuickTemplate, error) {
	var resp templatesResponse
	if err := c.do(ctx, http.MethodGet, "/templates", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return resp.Templates, nil
}

// CreateTemplate creates a quick-message template.
func (c *Client) CreateTemplate(ctx context.Context, in TemplateInput) (*domain.QuickTemplate, error) {
	var tpl domain.QuickTemplate
	if err := c.do(ctx, http.MethodPost, "/templates", nil, in, &tpl); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return &tpl, nil
}

// UpdateTemplate replaces a template's writable fields.
func (c *Client) UpdateTemplate(ctx context.Context, id uuid.UUID, in TemplateInput) (*domain.QuickTemplate, error) {
	var tpl domain.QuickTemplate
	if err := c.do(ctx, http.MethodPut, "/templates/"+id.String(), nil, in, &tpl); err != nil {
		return nil, fmt.Errorf("update template %s: %w", id, err)
	}
	return &tpl, nil
}

// DeleteTemplate removes a template.
func (c *Client) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/templates/"+id.String(), nil, nil, nil); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}
