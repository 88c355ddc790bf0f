package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/procura-platform/procura/internal/auth"
	"github.com/procura-platform/procura/internal/authz"
	"github.com/procura-platform/procura/internal/grants"
	"github.com/procura-platform/procura/internal/observability"
	"github.com/procura-platform/procura/internal/platform/httpx"
	"github.com/procura-platform/procura/internal/suppliers"
	"github.com/procura-platform/procura/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthService      *auth.Service
	AuthHandler      *auth.Handler
	GrantsHandler    *grants.Handler
	UsersHandler     *users.Handler
	SuppliersHandler *suppliers.Handler
	Guard            authz.Middleware
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with platform defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Auth:    params.AuthService,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Authenticated users land on their role dashboard, everyone else on
	// the login page.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sess := authz.SessionFromContext(r.Context())
		if sess == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, authz.DefaultPath(sess.Role), http.StatusSeeOther)
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.With(params.Guard.RequireRole(authz.RoleAdmin)).
		Get("/admin/dashboard", dashboard("admin"))
	r.With(params.Guard.RequireRole(authz.RoleProcurement)).
		Get("/procurement/dashboard", dashboard("procurement"))
	r.With(params.Guard.RequireRole(authz.RoleSupplier)).
		Get("/supplier/dashboard", dashboard("supplier"))

	if params.UsersHandler != nil {
		r.Route("/users", params.UsersHandler.MountRoutes)
	}
	r.Route("/procurement/users", params.GrantsHandler.MountRoutes)
	if params.SuppliersHandler != nil {
		r.Route("/procurement/suppliers", params.SuppliersHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

// dashboard returns the landing payload for a role area. Navigation data
// comes straight from the session so clients render menus without another
// round trip.
func dashboard(area string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := authz.SessionFromContext(r.Context())
		data := map[string]any{
			"area":        area,
			"displayName": sess.DisplayName,
			"role":        sess.Role,
			"permissions": sess.Permissions,
		}
		if len(sess.SubRoles) > 0 {
			data["subRoles"] = sess.SubRoles
		}
		if len(sess.Grants) > 0 {
			data["menus"] = sess.Grants
		}
		httpx.OK(w, r, http.StatusOK, "", data)
	}
}
