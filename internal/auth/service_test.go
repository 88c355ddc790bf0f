package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/procura-platform/procura/internal/auth"
	"github.com/procura-platform/procura/internal/authz"
	"github.com/procura-platform/procura/internal/grants"
	_ "github.com/procura-platform/procura/testing"
)

type stubRepo struct {
	user     *auth.User
	sessions map[string]int64
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, errors.New("no such user")
	}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	if s.sessions == nil {
		s.sessions = make(map[string]int64)
	}
	s.sessions[id] = userID
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

type stubGrants struct {
	held []grants.SubRoleGrant
}

func (s *stubGrants) ListForUser(ctx context.Context, userID int64) ([]grants.SubRoleGrant, error) {
	return s.held, nil
}

func newService(t *testing.T, user *auth.User, held []grants.SubRoleGrant) *auth.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := auth.NewSessionStore(client)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return auth.NewService(&stubRepo{user: user}, &stubGrants{held: held}, authz.DefaultCatalog(), tokens, store)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthenticateRejectsBadPassword(t *testing.T) {
	user := &auth.User{ID: 1, Email: "admin@procura.local", PasswordHash: mustHash(t, "correct-pass"), Role: authz.RoleAdmin, IsActive: true}
	svc := newService(t, user, nil)

	_, err := svc.Authenticate(context.Background(), "admin@procura.local", "wrong-pass")
	require.Error(t, err)

	got, err := svc.Authenticate(context.Background(), "admin@procura.local", "correct-pass")
	require.NoError(t, err)
	require.Equal(t, int64(1), got.ID)
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	user := &auth.User{ID: 1, Email: "admin@procura.local", PasswordHash: mustHash(t, "correct-pass"), Role: authz.RoleAdmin, IsActive: false}
	svc := newService(t, user, nil)

	_, err := svc.Authenticate(context.Background(), "admin@procura.local", "correct-pass")
	require.Error(t, err)
}

func TestIssueSessionAdminFullAccess(t *testing.T) {
	user := &auth.User{ID: 1, Email: "admin@procura.local", Role: authz.RoleAdmin, IsActive: true}
	svc := newService(t, user, nil)

	sess, err := svc.IssueSession(context.Background(), user, "", "")
	require.NoError(t, err)
	require.Equal(t, authz.FullAccess(), sess.Permissions)
	require.Empty(t, sess.SubRoles)
	require.Empty(t, sess.Grants)
	require.NotEmpty(t, sess.Token)
	require.True(t, sess.ExpiresAt.After(time.Now()))
}

func TestIssueSessionProcurementWithoutSubRolesFailsOpen(t *testing.T) {
	user := &auth.User{ID: 2, Email: "buyer@procura.local", Role: authz.RoleProcurement, IsActive: true}
	svc := newService(t, user, nil)

	sess, err := svc.IssueSession(context.Background(), user, "", "")
	require.NoError(t, err)
	require.Equal(t, authz.FullAccess(), sess.Permissions)
	require.Empty(t, sess.SubRoles)
}

func TestIssueSessionProcurementMergesSubRoles(t *testing.T) {
	user := &auth.User{ID: 3, Email: "buyer@procura.local", Role: authz.RoleProcurement, IsActive: true}
	held := []grants.SubRoleGrant{
		{UserID: 3, Name: "Manager", Actions: authz.FullAccess()},
		{UserID: 3, Name: "Sourcing", Actions: authz.ActionSet{CanView: true}},
	}
	svc := newService(t, user, held)

	sess, err := svc.IssueSession(context.Background(), user, "", "")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Manager", "Sourcing"}, sess.SubRoles)
	require.Equal(t, authz.FullAccess(), sess.Permissions)

	// Manager covers settings with full access; Sourcing does not reach
	// settings so the merged grant equals Manager's alone.
	grant, ok := sess.Grant(authz.KeySettings)
	require.True(t, ok)
	require.Equal(t, authz.FullAccess(), grant)
	require.Equal(t, authz.Allow, authz.Evaluate(sess, authz.RequirePermission(authz.KeySettings, authz.ActionWrite)))
}

func TestIssueSessionSourcingAloneLacksSettings(t *testing.T) {
	user := &auth.User{ID: 4, Email: "buyer@procura.local", Role: authz.RoleProcurement, IsActive: true}
	held := []grants.SubRoleGrant{
		{UserID: 4, Name: "Sourcing", Actions: authz.ActionSet{CanView: true, CanCreate: true}},
	}
	svc := newService(t, user, held)

	sess, err := svc.IssueSession(context.Background(), user, "", "")
	require.NoError(t, err)

	_, ok := sess.Grant(authz.KeySettings)
	require.False(t, ok)
	require.Equal(t, authz.RedirectToRoleDefault,
		authz.Evaluate(sess, authz.RequirePermission(authz.KeySettings, authz.ActionWrite)))
}

func TestIssueSessionZeroFlagGrantFallsBackToCatalogDefaults(t *testing.T) {
	user := &auth.User{ID: 5, Email: "buyer@procura.local", Role: authz.RoleProcurement, IsActive: true}
	held := []grants.SubRoleGrant{
		{UserID: 5, Name: "Reporting"},
	}
	svc := newService(t, user, held)

	sess, err := svc.IssueSession(context.Background(), user, "", "")
	require.NoError(t, err)

	grant, ok := sess.Grant(authz.KeyReports)
	require.True(t, ok)
	require.Equal(t, authz.DefaultCatalog().ActionDefaults(authz.KeyReports), grant)
}

func TestIssueSessionSupplierCarriesNoGrants(t *testing.T) {
	user := &auth.User{ID: 6, Email: "vendor@supplier.example", Role: authz.RoleSupplier, IsActive: true}
	svc := newService(t, user, nil)

	sess, err := svc.IssueSession(context.Background(), user, "", "")
	require.NoError(t, err)
	require.Equal(t, authz.ActionSet{}, sess.Permissions)
	require.Empty(t, sess.Grants)
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	user := &auth.User{ID: 7, Email: "buyer@procura.local", DisplayName: "Buyer", Role: authz.RoleProcurement, IsActive: true}
	held := []grants.SubRoleGrant{
		{UserID: 7, Name: "Sourcing", Actions: authz.ActionSet{CanView: true}},
	}
	svc := newService(t, user, held)
	ctx := context.Background()

	issued, err := svc.IssueSession(ctx, user, "", "")
	require.NoError(t, err)

	verified, err := svc.VerifyToken(ctx, issued.Token)
	require.NoError(t, err)
	require.Equal(t, issued.UserID, verified.UserID)
	require.Equal(t, issued.Role, verified.Role)
	require.Equal(t, issued.SubRoles, verified.SubRoles)
	require.Equal(t, issued.Permissions, verified.Permissions)
	require.Equal(t, issued.Grants, verified.Grants)
}

func TestLogoutRevokesToken(t *testing.T) {
	user := &auth.User{ID: 8, Email: "admin@procura.local", Role: authz.RoleAdmin, IsActive: true}
	svc := newService(t, user, nil)
	ctx := context.Background()

	sess, err := svc.IssueSession(ctx, user, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.Token))

	_, err = svc.VerifyToken(ctx, sess.Token)
	require.Error(t, err)
}

func TestVerifyTokenRejectsTampered(t *testing.T) {
	user := &auth.User{ID: 9, Email: "admin@procura.local", Role: authz.RoleAdmin, IsActive: true}
	svc := newService(t, user, nil)
	ctx := context.Background()

	sess, err := svc.IssueSession(ctx, user, "", "")
	require.NoError(t, err)

	_, err = svc.VerifyToken(ctx, sess.Token+"x")
	require.Error(t, err)
}
