package grants

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/procura-platform/procura/internal/authz"
	_ "github.com/procura-platform/procura/testing"
)

func mountGrants(sess *authz.Session) (http.Handler, *memoryGrantRepo) {
	repo := newMemoryGrantRepo()
	handler := NewHandler(slog.Default(), NewService(repo, nil), authz.Middleware{})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if sess != nil {
				req = req.WithContext(authz.ContextWithSession(req.Context(), sess))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/procurement/users", handler.MountRoutes)
	return r, repo
}

func TestAssignRequiresSession(t *testing.T) {
	router, _ := mountGrants(nil)

	req := httptest.NewRequest(http.MethodPost, "/procurement/users/1/sub-roles",
		strings.NewReader(`{"name":"Sourcing","canView":true}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/auth/login", res.Header().Get("Location"))
}

func TestAssignDeniedWithoutUsersWrite(t *testing.T) {
	sess := &authz.Session{
		Role:      authz.RoleProcurement,
		SubRoles:  []string{"Sourcing"},
		Grants:    map[authz.Key]authz.ActionSet{authz.KeySuppliers: {CanView: true}},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	router, _ := mountGrants(sess)

	req := httptest.NewRequest(http.MethodPost, "/procurement/users/1/sub-roles",
		strings.NewReader(`{"name":"Sourcing","canView":true}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/procurement/dashboard", res.Header().Get("Location"))
}

func TestAssignAsAdminPersistsGrant(t *testing.T) {
	sess := &authz.Session{Role: authz.RoleAdmin, Permissions: authz.FullAccess(), ExpiresAt: time.Now().Add(time.Hour)}
	router, repo := mountGrants(sess)

	req := httptest.NewRequest(http.MethodPost, "/procurement/users/7/sub-roles",
		strings.NewReader(`{"name":"Reporting","canView":true,"canCreate":true}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	held, err := repo.ListForUser(req.Context(), 7)
	require.NoError(t, err)
	require.Len(t, held, 1)
	require.Equal(t, "Reporting", held[0].Name)
	require.True(t, held[0].Actions.CanCreate)
	require.False(t, held[0].Actions.CanDelete)
}

func TestAssignRejectsBlankName(t *testing.T) {
	sess := &authz.Session{Role: authz.RoleAdmin, Permissions: authz.FullAccess(), ExpiresAt: time.Now().Add(time.Hour)}
	router, _ := mountGrants(sess)

	req := httptest.NewRequest(http.MethodPost, "/procurement/users/7/sub-roles",
		strings.NewReader(`{"name":""}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}
