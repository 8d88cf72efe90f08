package crmclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(server.URL, "test-token", 5*time.Second, logger), server
}

func TestListContactCalls_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contact-calls", r.URL.Path)
		assert.Equal(t, "acme", r.URL.Query().Get("search"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"contact_calls": []map[string]any{
				{"contact_id": "c1", "customer_e164": "+15551234567", "call_count": 3, "direction": "inbound", "created_at": time.Now().UTC()},
			},
		})
	})

	aggregates, err := client.ListContactCalls(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, aggregates, 1)
	assert.Equal(t, "c1", aggregates[0].ContactID)
	assert.Equal(t, 3, aggregates[0].CallCount)
}

func TestGetTimeline_NotFoundMapsToDomainError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "contact not found"})
	})

	_, err := client.GetTimeline(context.Background(), "gone")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "contact not found")
}

func TestUpdateUserRole_ConflictSurfacedVerbatim(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "cannot remove last admin"})
	})

	_, err := client.UpdateUserRole(context.Background(), "u1", "agent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Contains(t, err.Error(), "cannot remove last admin")
}

func TestDo_ValidationStatusMapsToValidationError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "body is required"})
	})

	_, err := client.SendMessage(context.Background(), "conv1", SendMessageInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestDo_ServerErrorMapsToUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.ListTemplates(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}

func TestDo_ConnectionRefusedMapsToUnavailable(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	err := client.MarkContactRead(context.Background(), "c1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}
