package http

import (
	"github.com/pulsecrm/golang_services/internal/pulse_service/app"
	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// ContactListResponse wraps the reconciled sidebar projection.
type ContactListResponse struct {
	Contacts []domain.ContactListEntry `json:"contacts"`
}

// TimelineResponse is the open contact's detail view.
type TimelineResponse struct {
	ContactID     string           `json:"contact_id"`
	Timeline      *domain.Timeline `json:"timeline"`
	LastUsedPhone string           `json:"last_used_phone,omitempty"`
}

// TranscriptResponse is the live transcript buffer for one call.
type TranscriptResponse struct {
	CallSid    string                 `json:"call_sid"`
	Transcript app.TranscriptSnapshot `json:"transcript"`
}

// SendMessageRequest posts a message into an existing conversation.
type SendMessageRequest struct {
	Body     string `json:"body" validate:"required,min=1,max=1600"`
	MediaURL string `json:"media_url,omitempty" validate:"omitempty,url"`
}

// StartConversationRequest opens a new conversation.
type StartConversationRequest struct {
	CustomerE164   string `json:"customer_e164" validate:"required,e164"`
	ProxyE164      string `json:"proxy_e164" validate:"required,e164"`
	InitialMessage string `json:"initial_message,omitempty" validate:"omitempty,max=1600"`
}

// PolishTextRequest asks the messaging service to clean up a draft.
type PolishTextRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1600"`
}

// UpdateLeadRequest carries a partial lead update; omitted fields stay unchanged.
type UpdateLeadRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=200"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=4000"`
}

// MarkLostRequest optionally records why the lead was lost.
type MarkLostRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// TemplateRequest carries the writable quick-template fields.
type TemplateRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=120"`
	Body     string `json:"body" validate:"required,min=1,max=1600"`
	Category string `json:"category,omitempty" validate:"omitempty,max=60"`
}

// UpdateUserRoleRequest changes a managed user's role.
type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin manager agent"`
}
