package suppliers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/procura-platform/procura/internal/authz"
	"github.com/procura-platform/procura/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the supplier directory.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers supplier routes. Each verb declares its own action
// on the suppliers menu key.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequirePermission(authz.KeySuppliers, authz.ActionRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
	})
	r.With(h.guard.RequirePermission(authz.KeySuppliers, authz.ActionCreate)).
		Post("/", h.create)
	r.With(h.guard.RequirePermission(authz.KeySuppliers, authz.ActionWrite)).
		Put("/{id}", h.update)
	r.With(h.guard.RequirePermission(authz.KeySuppliers, authz.ActionDelete)).
		Delete("/{id}", h.remove)
}

type supplierRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	filters := ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sort"),
		SortDir: r.URL.Query().Get("dir"),
	}

	suppliers, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list suppliers", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}

	httpx.OK(w, r, http.StatusOK, "", map[string]any{
		"suppliers": suppliers,
		"total":     total,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "invalid supplier id", "VALIDATION")
		return
	}
	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, r, http.StatusOK, "", supplier)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "malformed request body", "VALIDATION")
		return
	}
	created, err := h.service.Create(r.Context(), Supplier{
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, r, http.StatusCreated, "supplier created", created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "invalid supplier id", "VALIDATION")
		return
	}
	var req supplierRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "malformed request body", "VALIDATION")
		return
	}
	if err := h.service.Update(r.Context(), id, Supplier{
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
	}); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, r, http.StatusOK, "supplier updated", nil)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "invalid supplier id", "VALIDATION")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, r, http.StatusOK, "supplier deleted", nil)
}
