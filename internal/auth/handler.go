package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/procura-platform/procura/internal/authz"
	"github.com/procura-platform/procura/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.loginPrompt)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.currentSession)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// loginResponse is the token payload returned at login.
type loginResponse struct {
	Email                  string                        `json:"email"`
	DisplayName            string                        `json:"displayName"`
	Role                   authz.Role                    `json:"role"`
	Token                  string                        `json:"token"`
	ExpiresAt              time.Time                     `json:"expiresAt"`
	ProcurementSubRoles    []string                      `json:"procurementSubRoles,omitempty"`
	ProcurementPermissions *authz.ActionSet              `json:"procurementPermissions,omitempty"`
	Grants                 map[authz.Key]authz.ActionSet `json:"grants,omitempty"`
}

// loginPrompt is the target of guard redirects for unauthenticated
// navigation.
func (h *Handler) loginPrompt(w http.ResponseWriter, r *http.Request) {
	httpx.Fail(w, r, http.StatusUnauthorized, "authentication required", "UNAUTHENTICATED")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "malformed request body", "VALIDATION")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "email and password are required", "VALIDATION")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Fail(w, r, http.StatusUnauthorized, "invalid email or password", "INVALID_CREDENTIALS")
		return
	}

	sess, err := h.service.IssueSession(r.Context(), user, r.RemoteAddr, r.UserAgent())
	if err != nil {
		h.logger.Error("issue session", slog.String("email", user.Email), slog.Any("error", err))
		httpx.Fail(w, r, http.StatusUnauthorized, "authentication failed", "AUTH_FAILURE")
		return
	}

	resp := loginResponse{
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		Role:        sess.Role,
		Token:       sess.Token,
		ExpiresAt:   sess.ExpiresAt,
	}
	if sess.Role == authz.RoleProcurement {
		resp.ProcurementSubRoles = sess.SubRoles
		perms := sess.Permissions
		resp.ProcurementPermissions = &perms
		resp.Grants = sess.Grants
	}

	httpx.OK(w, r, http.StatusOK, "login successful", resp)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if token == "" {
		httpx.Fail(w, r, http.StatusUnauthorized, "authentication required", "UNAUTHENTICATED")
		return
	}
	if err := h.service.Logout(r.Context(), token); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.OK(w, r, http.StatusOK, "logged out", nil)
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	sess := authz.SessionFromContext(r.Context())
	if sess == nil {
		httpx.Fail(w, r, http.StatusUnauthorized, "authentication required", "UNAUTHENTICATED")
		return
	}
	resp := loginResponse{
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		Role:        sess.Role,
		ExpiresAt:   sess.ExpiresAt,
	}
	if sess.Role == authz.RoleProcurement {
		resp.ProcurementSubRoles = sess.SubRoles
		perms := sess.Permissions
		resp.ProcurementPermissions = &perms
		resp.Grants = sess.Grants
	}
	httpx.OK(w, r, http.StatusOK, "", resp)
}
