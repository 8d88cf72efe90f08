package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pulsecrm/golang_services/internal/pulse_service/adapters/crmclient"
	"github.com/pulsecrm/golang_services/internal/pulse_service/app"
	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// MessagingService is the messaging collaborator slice the pulse handler uses.
type MessagingService interface {
	SendMessage(ctx context.Context, conversationID string, in crmclient.SendMessageInput) (*domain.Message, error)
	StartConversation(ctx context.Context, in crmclient.StartConversationInput) (*domain.Conversation, error)
	MarkConversationRead(ctx context.Context, conversationID string) error
	PolishText(ctx context.Context, text string) (*crmclient.PolishResult, error)
}

// PulseHandler serves the reconciled contact list, timeline and transcript
// projections, and dispatches messaging mutations to the backend.
type PulseHandler struct {
	projection *app.Projection
	controller *app.MergeController
	directory  app.ContactDirectory
	messaging  MessagingService
	logger     *slog.Logger
	validate   *validator.Validate
}

// NewPulseHandler creates a new PulseHandler.
func NewPulseHandler(
	projection *app.Projection,
	controller *app.MergeController,
	directory app.ContactDirectory,
	messaging MessagingService,
	logger *slog.Logger,
	validate *validator.Validate,
) *PulseHandler {
	return &PulseHandler{
		projection: projection,
		controller: controller,
		directory:  directory,
		messaging:  messaging,
		logger:     logger.With("handler", "pulse"),
		validate:   validate,
	}
}

// RegisterRoutes sets up the routing for contact, timeline and messaging operations.
func (h *PulseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/contacts", h.ListContacts)
	r.Post("/contacts/{contactID}/read", h.MarkContactRead)
	r.Get("/contacts/{contactID}/timeline", h.GetTimeline)
	r.Get("/calls/{callSid}/transcript", h.GetTranscript)

	r.Post("/conversations", h.StartConversation)
	r.Post("/conversations/{conversationID}/messages", h.SendMessage)
	r.Post("/conversations/{conversationID}/read", h.MarkConversationRead)
	r.Post("/messages/polish", h.PolishText)
}

// ListContacts returns the deduplicated contact list. Without a search it
// serves (and refreshes) the shared projection; with a search it reconciles a
// one-off filtered fetch without disturbing the projection.
func (h *PulseHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := r.URL.Query().Get("search")

	if search == "" {
		h.controller.RefreshContactList(ctx)
		respondWithJSON(w, http.StatusOK, ContactListResponse{Contacts: h.projection.ContactList()})
		return
	}

	aggregates, err := h.directory.ListContactCalls(ctx, search)
	if err != nil {
		h.logger.ErrorContext(ctx, "Filtered contact list fetch failed", "search", search, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ContactListResponse{Contacts: domain.DedupeContacts(aggregates)})
}

// MarkContactRead clears a contact's unread flag: optimistically in the local
// projection first, then on the calls service. A backend failure is surfaced
// but the local clear stands until the next refresh reconciles it.
func (h *PulseHandler) MarkContactRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contactID := chi.URLParam(r, "contactID")
	if contactID == "" {
		respondWithError(w, http.StatusBadRequest, "contactID is required")
		return
	}

	h.projection.MarkContactRead(contactID)

	if err := h.directory.MarkContactRead(ctx, contactID); err != nil {
		h.logger.ErrorContext(ctx, "Failed to mark contact read on backend", "contact_id", contactID, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// GetTimeline opens the contact and returns its timeline with the resolved
// last-used phone. A vanished contact yields an empty placeholder view.
func (h *PulseHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contactID := chi.URLParam(r, "contactID")
	if contactID == "" {
		respondWithError(w, http.StatusBadRequest, "contactID is required")
		return
	}

	timeline, lastUsed, err := h.controller.OpenContact(ctx, contactID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to open contact timeline", "contact_id", contactID, "error", err)
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, TimelineResponse{
		ContactID:     contactID,
		Timeline:      timeline,
		LastUsedPhone: lastUsed,
	})
}

// GetTranscript returns the live transcript buffer for one call.
func (h *PulseHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	callSid := chi.URLParam(r, "callSid")
	if callSid == "" {
		respondWithError(w, http.StatusBadRequest, "callSid is required")
		return
	}

	snapshot, ok := h.projection.Transcript(callSid)
	if !ok {
		respondWithError(w, http.StatusNotFound, "no transcript buffered for call "+callSid)
		return
	}
	respondWithJSON(w, http.StatusOK, TranscriptResponse{CallSid: callSid, Transcript: snapshot})
}

// StartConversation opens a new conversation via the messaging service.
func (h *PulseHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	conv, err := h.messaging.StartConversation(ctx, crmclient.StartConversationInput{
		CustomerE164:   req.CustomerE164,
		ProxyE164:      req.ProxyE164,
		InitialMessage: req.InitialMessage,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to start conversation", "customer_e164", req.CustomerE164, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, conv)
}

// SendMessage posts a message into an existing conversation.
func (h *PulseHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "conversationID")
	if conversationID == "" {
		respondWithError(w, http.StatusBadRequest, "conversationID is required")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	msg, err := h.messaging.SendMessage(ctx, conversationID, crmclient.SendMessageInput{
		Body:     req.Body,
		MediaURL: req.MediaURL,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to send message", "conversation_id", conversationID, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, msg)
}

// MarkConversationRead clears a conversation's unread flag.
func (h *PulseHandler) MarkConversationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "conversationID")
	if conversationID == "" {
		respondWithError(w, http.StatusBadRequest, "conversationID is required")
		return
	}

	if err := h.messaging.MarkConversationRead(ctx, conversationID); err != nil {
		h.logger.ErrorContext(ctx, "Failed to mark conversation read", "conversation_id", conversationID, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// PolishText rewrites a draft message via the messaging service.
func (h *PulseHandler) PolishText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PolishTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	result, err := h.messaging.PolishText(ctx, req.Text)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to polish text", "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
