package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/procura-platform/procura/internal/authz"
)

// BearerToken extracts the bearer credential from a request, empty when
// absent.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Middleware resolves the bearer token into a session for downstream
// guards. Requests without a valid token proceed without a session; the
// guard decides what that means for each route. Static asset paths skip
// token handling entirely.
func Middleware(service *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := service.VerifyToken(r.Context(), token)
			if err != nil {
				if logger != nil {
					logger.Debug("bearer token rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
				}
				next.ServeHTTP(w, r)
				return
			}
			ctx := authz.ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
