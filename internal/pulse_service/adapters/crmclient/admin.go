package crmclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

type sessionsResponse struct {
	Sessions []domain.AdminSession `json:"sessions"`
}

type usersResponse struct {
	Users []domain.AdminUser `json:"users"`
}

// ListSessions fetches all active login sessions.
func (c *Client) ListSessions(ctx context.Context) ([]domain.AdminSession, error) {
	var resp sessionsResponse
	if err := c.do(ctx, http.MethodGet, "/admin/sessions", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return resp.Sessions, nil
}

// RevokeSession terminates one login session.
func (c *Client) RevokeSession(ctx context.Context, sessionID string) error {
	if err := c.do(ctx, http.MethodDelete, "/admin/sessions/"+url.PathEscape(sessionID), nil, nil, nil); err != nil {
		return fmt.Errorf("revoke session %s: %w", sessionID, err)
	}
	return nil
}

// ListUsers fetches all managed user accounts.
func (c *Client) ListUsers(ctx context.Context) ([]domain.AdminUser, error) {
	var resp usersResponse
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return resp.Users, nil
}

// UpdateUserRole changes a user's role. The backend may reject the transition
// (e.g. demoting the last admin); that conflict is surfaced verbatim.
func (c *Client) UpdateUserRole(ctx context.Context, userID string, role string) (*domain.AdminUser, error) {
	var user domain.AdminUser
	body := map[string]string{"role": role}
	if err := c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(userID)+"/role", nil, body, &user); err != nil {
		return nil, fmt.Errorf("update role for user %s: %w", userID, err)
	}
	return &user, nil
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if err := c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(userID), nil, nil, nil); err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	return nil
}
