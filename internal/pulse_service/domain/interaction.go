package domain

import (
	"strings"
	"time"
)

// InteractionKind classifies a single call or SMS interaction by medium and direction.
type InteractionKind string

const (
	KindCallInbound  InteractionKind = "call_inbound"
	KindCallOutbound InteractionKind = "call_outbound"
	KindSMSInbound   InteractionKind = "sms_inbound"
	KindSMSOutbound  InteractionKind = "sms_outbound"
)

// IsCall reports whether the kind is a voice call (either direction).
func (k InteractionKind) IsCall() bool {
	return k == KindCallInbound || k == KindCallOutbound
}

// InteractionEvent is the uniform record derived from a raw call or message:
// which customer phone was involved, when, and what kind of interaction it was.
// Events are value records; they are derived on each recompute and never mutated.
type InteractionEvent struct {
	Phone     string          `json:"phone"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      InteractionKind `json:"kind"`
}

// Call is a voice call as returned by the timeline service. Direction strings
// come from the telephony provider ("inbound", "outbound-api", "outbound-dial", ...).
type Call struct {
	CallSid       string     `json:"call_sid"`
	ParentCallSid string     `json:"parent_call_sid,omitempty"`
	ContactID     string     `json:"contact_id,omitempty"`
	FromNumber    string     `json:"from_number"`
	ToNumber      string     `json:"to_number"`
	Direction     string     `json:"direction"`
	Status        string     `json:"status,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsInbound reports whether the call was placed by the customer.
func (c Call) IsInbound() bool {
	return strings.Contains(strings.ToLower(c.Direction), "inbound")
}

// CustomerNumber returns the customer-side phone of the call: the caller for
// inbound calls, the callee otherwise.
func (c Call) CustomerNumber() string {
	if c.IsInbound() {
		return c.FromNumber
	}
	return c.ToNumber
}

// EventTime is the call start time, falling back to creation time when the
// provider never reported a start (e.g. the call failed before connecting).
func (c Call) EventTime() time.Time {
	if c.StartedAt != nil && !c.StartedAt.IsZero() {
		return *c.StartedAt
	}
	return c.CreatedAt
}

// Message is a single SMS as returned by the timeline service.
type Message struct {
	MessageSid      string     `json:"message_sid"`
	ConversationID  string     `json:"conversation_id,omitempty"`
	ContactID       string     `json:"contact_id,omitempty"`
	FromNumber      string     `json:"from_number"`
	ToNumber        string     `json:"to_number"`
	Direction       string     `json:"direction"`
	Body            string     `json:"body"`
	RemoteCreatedAt *time.Time `json:"remote_created_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// IsInbound reports whether the message was sent by the customer.
func (m Message) IsInbound() bool {
	return strings.Contains(strings.ToLower(m.Direction), "inbound")
}

// CustomerNumber returns the customer-side phone of the message.
func (m Message) CustomerNumber() string {
	if m.IsInbound() {
		return m.FromNumber
	}
	return m.ToNumber
}

// EventTime is the remote-reported creation time, falling back to the local
// creation time when the messaging provider did not report one.
func (m Message) EventTime() time.Time {
	if m.RemoteCreatedAt != nil && !m.RemoteCreatedAt.IsZero() {
		return *m.RemoteCreatedAt
	}
	return m.CreatedAt
}

// Conversation groups SMS traffic between one customer number and one proxy number.
type Conversation struct {
	ID            string     `json:"id"`
	ContactID     string     `json:"contact_id,omitempty"`
	CustomerE164  string     `json:"customer_e164"`
	ProxyE164     string     `json:"proxy_e164"`
	Unread        bool       `json:"unread"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// Timeline is the full interaction history for one selected contact, in the
// order the backend returned it. The reconciler never re-sorts these slices;
// ordering only matters inside the event-derivation pass.
type Timeline struct {
	Calls         []Call            `json:"calls"`
	Messages      []Message         `json:"messages"`
	Conversations []Conversation    `json:"conversations"`
	Contact       *ContactAggregate `json:"contact,omitempty"`
}
