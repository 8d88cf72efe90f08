package crmclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// contactCallsResponse wraps the listing payload.
type contactCallsResponse struct {
	ContactCalls []domain.ContactAggregate `json:"contact_calls"`
}

// ListContactCalls fetches the contact-call aggregates, optionally filtered by
// a search string matched server-side against name, company and phone.
func (c *Client) ListContactCalls(ctx context.Context, search string) ([]domain.ContactAggregate, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}

	var resp contactCallsResponse
	if err := c.do(ctx, http.MethodGet, "/contact-calls", query, nil, &resp); err != nil {
		return nil, fmt.Errorf("list contact calls: %w", err)
	}
	return resp.ContactCalls, nil
}

// GetTimeline fetches the full interaction history for one contact.
func (c *Client) GetTimeline(ctx context.Context, contactID string) (*domain.Timeline, error) {
	var timeline domain.Timeline
	if err := c.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(contactID)+"/timeline", nil, nil, &timeline); err != nil {
		return nil, fmt.Errorf("get timeline for contact %s: %w", contactID, err)
	}
	return &timeline, nil
}

// MarkContactRead clears a contact's unread flag on the calls service.
func (c *Client) MarkContactRead(ctx context.Context, contactID string) error {
	if err := c.do(ctx, http.MethodPost, "/contacts/"+url.PathEscape(contactID)+"/read", nil, nil, nil); err != nil {
		return fmt.Errorf("mark contact %s read: %w", contactID, err)
	}
	return nil
}
