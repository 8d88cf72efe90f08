package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pulsecrm/golang_services/internal/platform/messagebroker"
	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// PushEventConsumer consumes CRM push events from NATS and forwards them to
// the merge controller's channel. The transport owns reconnection; this
// consumer only tolerates what arrives, including duplicated and reordered
// events (the controller's handlers are idempotent).
type PushEventConsumer struct {
	natsClient *messagebroker.NATSClient
	logger     *slog.Logger
	outputChan chan<- domain.PushEvent
}

// NewPushEventConsumer creates a new PushEventConsumer.
// outputChan is where successfully deserialized events are sent.
func NewPushEventConsumer(natsClient *messagebroker.NATSClient, logger *slog.Logger, outputChan chan<- domain.PushEvent) *PushEventConsumer {
	return &PushEventConsumer{
		natsClient: natsClient,
		logger:     logger.With("component", "push_event_consumer"),
		outputChan: outputChan,
	}
}

// StartConsuming subscribes to the given NATS subject (e.g. "crm.events.>")
// and blocks until the context is cancelled or the subscription fails.
func (c *PushEventConsumer) StartConsuming(ctx context.Context, subject string, queueGroup string) error {
	msgHandler := func(msg *nats.Msg) {
		natsPushEventsReceivedCounter.WithLabelValues(subject).Inc()

		var ev domain.PushEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			c.logger.ErrorContext(ctx, "Failed to deserialize push event",
				"error", err, "subject", msg.Subject, "data", string(msg.Data))
			return
		}

		if ev.Type == "" {
			c.logger.WarnContext(ctx, "Push event missing type, dropping", "subject", msg.Subject)
			return
		}

		c.logger.DebugContext(ctx, "Received push event",
			"subject", msg.Subject, "type", ev.Type, "contact_id", ev.ContactID, "call_sid", ev.CallSid)

		// Bounded wait so a stalled controller cannot wedge the NATS callback.
		sendCtx, cancelSend := context.WithTimeout(ctx, 5*time.Second)
		defer cancelSend()

		select {
		case c.outputChan <- ev:
		case <-sendCtx.Done():
			c.logger.ErrorContext(sendCtx, "Timed out forwarding push event to merge controller",
				"error", sendCtx.Err(), "type", ev.Type)
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "Context cancelled, dropping push event", "type", ev.Type)
		}
	}

	c.logger.InfoContext(ctx, "Starting NATS push event subscription", "subject", subject, "queue_group", queueGroup)
	if err := c.natsClient.SubscribeToSubjectWithQueue(ctx, subject, queueGroup, msgHandler); err != nil {
		c.logger.ErrorContext(ctx, "NATS push event subscription failed", "error", err, "subject", subject)
		return err
	}

	c.logger.InfoContext(ctx, "NATS push event subscription ended", "subject", subject)
	return nil
}
