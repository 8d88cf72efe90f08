package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/pulsecrm/golang_services/internal/pulse_service/app"
)

const (
	wsWriteTimeout  = 10 * time.Second
	wsPingInterval  = 20 * time.Second
	wsReadDeadline  = 60 * time.Second
	wsSendQueueSize = 32
)

// EventFeedHandler pushes projection change notifications to connected UI
// clients over a websocket. It implements app.ChangeNotifier, so the merge
// controller can notify without knowing about websockets.
type EventFeedHandler struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

// NewEventFeedHandler creates a new EventFeedHandler.
func NewEventFeedHandler(logger *slog.Logger) *EventFeedHandler {
	return &EventFeedHandler{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:   logger.With("handler", "event_feed"),
		clients:  make(map[*websocket.Conn]chan []byte),
	}
}

// NotifyChanged broadcasts one projection change to every connected client.
// Never blocks: clients with a full send queue drop the notification; the UI
// re-fetches on the next one it does receive.
func (h *EventFeedHandler) NotifyChanged(change app.ProjectionChange) {
	payload, err := json.Marshal(change)
	if err != nil {
		h.logger.Error("Failed to marshal projection change", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, queue := range h.clients {
		select {
		case queue <- payload:
		default:
			h.logger.Warn("Client send queue full, dropping notification", "remote_addr", conn.RemoteAddr().String())
		}
	}
}

// ClientCount returns the number of connected feed clients.
func (h *EventFeedHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// RegisterRoutes sets up the websocket route.
func (h *EventFeedHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.ServeFeed)
}

// ServeFeed upgrades the connection and streams change notifications until the
// client goes away.
func (h *EventFeedHandler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed", "error", err)
		return
	}

	queue := make(chan []byte, wsSendQueueSize)
	h.mu.Lock()
	h.clients[conn] = queue
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("Event feed client connected", "remote_addr", conn.RemoteAddr().String(), "total", total)

	done := make(chan struct{})
	go h.writeLoop(conn, queue, done)

	// Read loop exists only to detect disconnects and answer pings.
	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(done)
	h.mu.Lock()
	delete(h.clients, conn)
	total = len(h.clients)
	h.mu.Unlock()
	_ = conn.Close()
	h.logger.Info("Event feed client disconnected", "total", total)
}

// writeLoop serializes all writes to one connection: queued notifications plus
// keepalive pings.
func (h *EventFeedHandler) writeLoop(conn *websocket.Conn, queue <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case payload := <-queue:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Debug("Websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
