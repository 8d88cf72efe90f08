package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/golang_services/internal/pulse_service/app"
	httptransport "github.com/pulsecrm/golang_services/internal/pulse_service/transport/http"
)

func setupEventFeed(t *testing.T) (*httptransport.EventFeedHandler, string, func()) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	feed := httptransport.NewEventFeedHandler(logger)

	r := chi.NewRouter()
	feed.RegisterRoutes(r)
	server := httptest.NewServer(r)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	return feed, wsURL, server.Close
}

func TestEventFeed_ClientReceivesChangeNotifications(t *testing.T) {
	feed, wsURL, teardown := setupEventFeed(t)
	defer teardown()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return feed.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond, "client should be registered after the upgrade")

	feed.NotifyChanged(app.ProjectionChange{Scope: "timeline", ContactID: "contact-1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var change app.ProjectionChange
	require.NoError(t, json.Unmarshal(payload, &change))
	assert.Equal(t, "timeline", change.Scope)
	assert.Equal(t, "contact-1", change.ContactID)
}

func TestEventFeed_DisconnectedClientIsUnregistered(t *testing.T) {
	feed, wsURL, teardown := setupEventFeed(t)
	defer teardown()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return feed.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return feed.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond, "closed client should be dropped from the feed")

	// Notifying with no clients connected must not panic or block.
	feed.NotifyChanged(app.ProjectionChange{Scope: "contact_list"})
}
