package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
)

// AdminService is the super-admin collaborator slice the handler uses.
type AdminService interface {
	ListSessions(ctx context.Context) ([]domain.AdminSession, error)
	RevokeSession(ctx context.Context, sessionID string) error
	ListUsers(ctx context.Context) ([]domain.AdminUser, error)
	UpdateUserRole(ctx context.Context, userID string, role string) (*domain.AdminUser, error)
	DeleteUser(ctx context.Context, userID string) error
}

// AdminHandler proxies super-admin session and user management. Authorization
// is enforced server-side by the admin service; this layer only relays.
type AdminHandler struct {
	admin    AdminService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin AdminService, logger *slog.Logger, validate *validator.Validate) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		logger:   logger.With("handler", "admin"),
		validate: validate,
	}
}

// RegisterRoutes sets up the routing for admin operations.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/sessions", h.ListSessions)
	r.Delete("/admin/sessions/{sessionID}", h.RevokeSession)
	r.Get("/admin/users", h.ListUsers)
	r.Put("/admin/users/{userID}/role", h.UpdateUserRole)
	r.Delete("/admin/users/{userID}", h.DeleteUser)
}

func (h *AdminHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessions, err := h.admin.ListSessions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list sessions", "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string][]domain.AdminSession{"sessions": sessions})
}

func (h *AdminHandler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "sessionID is required")
		return
	}

	if err := h.admin.RevokeSession(ctx, sessionID); err != nil {
		h.logger.ErrorContext(ctx, "Failed to revoke session", "session_id", sessionID, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := h.admin.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list users", "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string][]domain.AdminUser{"users": users})
}

// UpdateUserRole changes a user's role. A backend conflict (e.g. demoting the
// last admin) comes back as 409 with the backend's message untouched.
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "userID is required")
		return
	}

	var req UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	user, err := h.admin.UpdateUserRole(ctx, userID, req.Role)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to update user role", "user_id", userID, "role", req.Role, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "userID is required")
		return
	}

	if err := h.admin.DeleteUser(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "Failed to delete user", "user_id", userID, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
