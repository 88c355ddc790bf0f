package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/procura-platform/procura/internal/authz"
	"github.com/procura-platform/procura/internal/platform/httpx"
)

// Handler wires HTTP endpoints for user administration.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers user administration routes. The whole area is
// restricted to Admin sessions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(authz.RoleAdmin))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
		r.Post("/{id}/activate", h.activate)
		r.Post("/{id}/deactivate", h.deactivate)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, r, http.StatusOK, "", map[string]any{"users": users})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "invalid user id", "VALIDATION")
		return
	}
	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, r, http.StatusOK, "", detail)
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "user activated")
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "user deactivated")
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "invalid user id", "VALIDATION")
		return
	}
	if err := h.service.SetActive(r.Context(), id, active); err != nil {
		h.logger.Error("set user active", slog.Int64("user_id", id), slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, r, http.StatusOK, message, nil)
}
