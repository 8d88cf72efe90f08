package domain

import "time"

// ContactAggregate is one row of the contact/call listing service: a contact
// plus the rolled-up interaction stats the backend maintains for it.
type ContactAggregate struct {
	ContactID           string     `json:"contact_id"`
	Name                string     `json:"name,omitempty"`
	Company             string     `json:"company,omitempty"`
	FromNumber          string     `json:"from_number"`
	ToNumber            string     `json:"to_number"`
	Direction           string     `json:"direction"`
	Status              string     `json:"status,omitempty"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	CallCount           int        `json:"call_count"`
	SMSCount            int        `json:"sms_count"`
	LastInteractionAt   *time.Time `json:"last_interaction_at,omitempty"`
	LastInteractionType string     `json:"last_interaction_type,omitempty"`
	HasUnread           bool       `json:"has_unread"`
	CustomerE164        string     `json:"customer_e164,omitempty"`
	ProxyE164           string     `json:"proxy_e164,omitempty"`
	SecondaryE164       string     `json:"secondary_e164,omitempty"`
}

// CustomerPhone returns the customer-side phone for the aggregate: the backend's
// canonical E.164 when present, otherwise derived from the latest call's direction.
func (a ContactAggregate) CustomerPhone() string {
	if a.CustomerE164 != "" {
		return a.CustomerE164
	}
	call := Call{FromNumber: a.FromNumber, ToNumber: a.ToNumber, Direction: a.Direction}
	return call.CustomerNumber()
}

// ContactListEntry is one rendered sidebar row: a contact aggregate keyed by its
// digit-normalized customer phone. The reconciled list holds at most one entry
// per non-empty digit key.
type ContactListEntry struct {
	DigitKey        string            `json:"digit_key"`
	Contact         ContactAggregate  `json:"contact"`
	CallCount       int               `json:"call_count"`
	SMSCount        int               `json:"sms_count"`
	LastInteraction *InteractionEvent `json:"last_interaction,omitempty"`
	HasUnread       bool              `json:"has_unread"`
}

// NewContactListEntry builds a list entry projection from a listing aggregate.
func NewContactListEntry(a ContactAggregate) ContactListEntry {
	entry := ContactListEntry{
		DigitKey:  NormalizePhone(a.CustomerPhone()),
		Contact:   a,
		CallCount: a.CallCount,
		SMSCount:  a.SMSCount,
		HasUnread: a.HasUnread,
	}
	if a.LastInteractionAt != nil {
		kind := KindCallInbound
		if a.LastInteractionType == "sms" {
			kind = KindSMSInbound
		}
		entry.LastInteraction = &InteractionEvent{
			Phone:     a.CustomerPhone(),
			Timestamp: *a.LastInteractionAt,
			Kind:      kind,
		}
	}
	return entry
}
