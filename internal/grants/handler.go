package grants

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/procura-platform/procura/internal/authz"
	"github.com/procura-platform/procura/internal/platform/httpx"
)

// Handler wires HTTP endpoints for sub-role grant management.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers grant routes on the provided router. Mounted under
// /procurement/users.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(authz.RouteRequirement{
			Roles:      []authz.Role{authz.RoleAdmin, authz.RoleProcurement},
			Permission: authz.KeyUsers,
			Action:     authz.ActionWrite,
		}))
		r.Post("/{userId}/sub-roles", h.assign)
		r.Get("/{userId}/sub-roles", h.list)
	})
}

type assignRequest struct {
	Name      string `json:"name" validate:"required"`
	CanView   bool   `json:"canView"`
	CanCreate bool   `json:"canCreate"`
	CanUpdate bool   `json:"canUpdate"`
	CanDelete bool   `json:"canDelete"`
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil || userID <= 0 {
		httpx.Fail(w, r, http.StatusBadRequest, "invalid user id", "VALIDATION")
		return
	}

	var req assignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "malformed request body", "VALIDATION")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "sub-role name required", "VALIDATION")
		return
	}

	assignment, err := h.service.Assign(r.Context(), userID, req.Name, authz.ActionSet{
		CanView:   req.CanView,
		CanCreate: req.CanCreate,
		CanUpdate: req.CanUpdate,
		CanDelete: req.CanDelete,
	})
	if err != nil {
		h.logger.Error("assign sub-role", slog.Int64("user_id", userID), slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}

	httpx.OK(w, r, http.StatusOK, "sub-role assigned", assignment)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil || userID <= 0 {
		httpx.Fail(w, r, http.StatusBadRequest, "invalid user id", "VALIDATION")
		return
	}

	assignment, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list sub-roles", slog.Int64("user_id", userID), slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}

	httpx.OK(w, r, http.StatusOK, "", assignment)
}
