package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// LeadService is the lead collaborator slice the handler uses.
type LeadService interface {
	GetLeadByUUID(ctx context.Context, leadUUID uuid.UUID) (*domain.Lead, error)
	UpdateLead(ctx context.Context, leadUUID uuid.UUID, update domain.LeadUpdate) (*domain.Lead, error)
	MarkLost(ctx context.Context, leadUUID uuid.UUID, reason string) (*domain.Lead, error)
	ActivateLead(ctx context.Context, leadUUID uuid.UUID) (*domain.Lead, error)
}

// LeadHandler proxies lead CRUD and status transitions to the lead service.
type LeadHandler struct {
	leads    LeadService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leads LeadService, logger *slog.Logger, validate *validator.Validate) *LeadHandler {
	return &LeadHandler{
		leads:    leads,
		logger:   logger.With("handler", "lead"),
		validate: validate,
	}
}

// RegisterRoutes sets up the routing for lead operations.
func (h *LeadHandler) RegisterRoutes(r chi.Router) {
	r.Get("/leads/{leadUUID}", h.GetLead)
	r.Put("/leads/{leadUUID}", h.UpdateLead)
	r.Post("/leads/{leadUUID}/lost", h.MarkLost)
	r.Post("/leads/{leadUUID}/activate", h.ActivateLead)
}

// leadUUIDParam parses the lead UUID path parameter, writing a 400 on failure.
func leadUUIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "leadUUID")
	id, err := uuid.Parse(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lead UUID: "+raw)
		return uuid.Nil, false
	}
	return id, true
}

func (h *LeadHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := leadUUIDParam(w, r)
	if !ok {
		return
	}

	lead, err := h.leads.GetLeadByUUID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to fetch lead", "lead_uuid", id, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := leadUUIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	lead, err := h.leads.UpdateLead(ctx, id, domain.LeadUpdate{
		Name:    req.Name,
		Company: req.Company,
		Phone:   req.Phone,
		Email:   req.Email,
		Notes:   req.Notes,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to update lead", "lead_uuid", id, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) MarkLost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := leadUUIDParam(w, r)
	if !ok {
		return
	}

	var req MarkLostRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
			return
		}
		defer r.Body.Close()

		if err := h.validate.StructCtx(ctx, req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
			return
		}
	}

	lead, err := h.leads.MarkLost(ctx, id, req.Reason)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to mark lead lost", "lead_uuid", id, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) ActivateLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := leadUUIDParam(w, r)
	if !ok {
		return
	}

	lead, err := h.leads.ActivateLead(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to activate lead", "lead_uuid", id, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, lead)
}
