package domain

import "time"

// PushEventType enumerates the real-time events the CRM backend publishes.
type PushEventType string

const (
	PushCallCreated         PushEventType = "call.created"
	PushCallUpdated         PushEventType = "call.updated"
	PushMessageAdded        PushEventType = "message.added"
	PushContactRead         PushEventType = "contact.read"
	PushTranscriptDelta     PushEventType = "transcript.delta"
	PushTranscriptFinalized PushEventType = "transcript.finalized"
)

// Known reports whether t is one of the event types this service handles.
// Unknown types are logged and skipped rather than failing the consumer.
func (t PushEventType) Known() bool {
	switch t {
	case PushCallCreated, PushCallUpdated, PushMessageAdded,
		PushContactRead, PushTranscriptDelta, PushTranscriptFinalized:
		return true
	}
	return false
}

// PushEvent mirrors the JSON payload published by the CRM backend on the
// real-time channel. One flat record covers all event types; which fields are
// populated depends on Type. Used for deserializing the NATS message payload.
type PushEvent struct {
	Type           PushEventType `json:"type"`
	ContactID      string        `json:"contact_id,omitempty"`
	CallSid        string        `json:"call_sid,omitempty"`
	ParentCallSid  string        `json:"parent_call_sid,omitempty"`
	ConversationID string        `json:"conversation_id,omitempty"`
	MessageSid     string        `json:"message_sid,omitempty"`
	// Text carries the delta fragment or the full final transcript.
	Text      string    `json:"text,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// IsChildCallLeg reports whether a call event refers to a leg of an
// already-tracked call. Child legs are suppressed from list-level refresh to
// avoid spurious reordering from call-leg churn.
func (e PushEvent) IsChildCallLeg() bool {
	return e.ParentCallSid != ""
}
