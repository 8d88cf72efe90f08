package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pulsecrm/golang_services/internal/pulse_service/adapters/crmclient"
	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// TemplateService is the quick-template collaborator slice the handler uses.
type TemplateService interface {
	ListTemplates(ctx context.Context) ([]domain.QuickTemplate, error)
	CreateTemplate(ctx context.Context, in crmclient.TemplateInput) (*domain.QuickTemplate, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, in crmclient.TemplateInput) (*domain.QuickTemplate, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
}

// TemplateHandler manages quick-message templates.
type TemplateHandler struct {
	templates TemplateService
	logger    *slog.Logger
	validate  *validator.Validate
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templates TemplateService, logger *slog.Logger, validate *validator.Validate) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
		logger:    logger.With("handler", "template"),
		validate:  validate,
	}
}

// RegisterRoutes sets up the routing for template operations.
func (h *TemplateHandler) RegisterRoutes(r chi.Router) {
	r.Get("/templates", h.ListTemplates)
	r.Post("/templates", h.CreateTemplate)
	r.Put("/templates/{templateID}", h.UpdateTemplate)
	r.Delete("/templates/{templateID}", h.DeleteTemplate)
}

func templateIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "templateID")
	id, err := uuid.Parse(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid template ID: "+raw)
		return uuid.Nil, false
	}
	return id, true
}

func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	templates, err := h.templates.ListTemplates(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list templates", "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string][]domain.QuickTemplate{"templates": templates})
}

func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	tpl, err := h.templates.CreateTemplate(ctx, crmclient.TemplateInput{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to create template", "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := templateIDParam(w, r)
	if !ok {
		return
	}

	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	tpl, err := h.templates.UpdateTemplate(ctx, id, crmclient.TemplateInput{
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to update template", "template_id", id, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tpl)
}

func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := templateIDParam(w, r)
	if !ok {
		return
	}

	if err := h.templates.DeleteTemplate(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "Failed to delete template", "template_id", id, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
