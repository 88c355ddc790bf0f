package authz

import (
	"log/slog"
	"net/http"
)

// Middleware translates guard decisions into HTTP responses for protected
// routes. Decision logic stays in Evaluate; this layer only redirects.
type Middleware struct {
	Logger *slog.Logger

	// Observe, when set, receives every guard outcome. Used to feed
	// decision counters without coupling this package to a metrics
	// backend.
	Observe func(Decision)
}

// Require wraps a handler with the guard for the given requirement.
func (m Middleware) Require(req RouteRequirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			decision := Evaluate(sess, req)
			if m.Observe != nil {
				m.Observe(decision)
			}
			switch decision {
			case Allow:
				next.ServeHTTP(w, r)
			case RedirectToLogin:
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			case RedirectToRoleDefault:
				if m.Logger != nil {
					m.Logger.Warn("navigation denied",
						slog.String("path", r.URL.Path),
						slog.String("role", string(sess.Role)),
						slog.String("permission", string(req.Permission)))
				}
				http.Redirect(w, r, DefaultPath(sess.Role), http.StatusSeeOther)
			}
		})
	}
}

// RequireRole is shorthand for a role-only requirement.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return m.Require(RequireRoles(roles...))
}

// RequirePermission is shorthand for a permission requirement.
func (m Middleware) RequirePermission(key Key, action Action) func(http.Handler) http.Handler {
	return m.Require(RouteRequirement{Permission: key, Action: action})
}
