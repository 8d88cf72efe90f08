package app

import (
	"context"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// ContactDirectory is the slice of the CRM backend the merge controller
// consumes: list-level aggregates, per-contact timelines and the read flag.
// Implemented by the crmclient adapter; mocked in tests.
type ContactDirectory interface {
	ListContactCalls(ctx context.Context, search string) ([]domain.ContactAggregate, error)
	GetTimeline(ctx context.Context, contactID string) (*domain.Timeline, error)
	MarkContactRead(ctx context.Context, contactID string) error
}

// ChangeNotifier receives a notification whenever a projection changed, so
// connected UI clients can be told to re-render. Implementations must not
// block; the controller calls this on its event path.
type ChangeNotifier interface {
	NotifyChanged(change ProjectionChange)
}

// ProjectionChange describes which projection moved and for which entity.
type ProjectionChange struct {
	Scope     string `json:"scope"` // contact_list | timeline | contact_read | transcript
	ContactID string `json:"contact_id,omitempty"`
	CallSid   string `json:"call_sid,omitempty"`
}

// NopNotifier discards change notifications.
type NopNotifier struct{}

func (NopNotifier) NotifyChanged(ProjectionChange) {}
