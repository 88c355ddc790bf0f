package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func procurementSession(subRoles []string, grants map[Key]ActionSet) *Session {
	return &Session{
		UserID:    7,
		Email:     "buyer@procura.local",
		Role:      RoleProcurement,
		SubRoles:  subRoles,
		Grants:    grants,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestGuardNoSessionRedirectsToLogin(t *testing.T) {
	require.Equal(t, RedirectToLogin, Evaluate(nil, RouteRequirement{}))
	// A role restriction never turns an unauthenticated caller into a
	// role-default redirect.
	require.Equal(t, RedirectToLogin, Evaluate(nil, RequireRoles(RoleAdmin)))
}

func TestGuardRoleMismatch(t *testing.T) {
	sess := procurementSession(nil, nil)
	require.Equal(t, RedirectToRoleDefault, Evaluate(sess, RequireRoles(RoleAdmin)))
	require.Equal(t, Allow, Evaluate(sess, RequireRoles(RoleAdmin, RoleProcurement)))
}

func TestGuardNoPermissionRequirementAllows(t *testing.T) {
	sess := &Session{Role: RoleSupplier, ExpiresAt: time.Now().Add(time.Hour)}
	require.Equal(t, Allow, Evaluate(sess, RouteRequirement{}))
	require.Equal(t, Allow, Evaluate(sess, RequireRoles(RoleSupplier)))
}

func TestGuardAdminSatisfiesEverything(t *testing.T) {
	sess := &Session{Role: RoleAdmin, Permissions: FullAccess(), ExpiresAt: time.Now().Add(time.Hour)}
	for _, key := range []Key{KeyDashboard, KeySettings, Key("not-in-catalog")} {
		for _, action := range []Action{ActionRead, ActionCreate, ActionWrite, ActionDelete} {
			require.Equal(t, Allow, Evaluate(sess, RequirePermission(key, action)))
		}
	}
}

func TestGuardProcurementWithoutSubRolesFailsOpen(t *testing.T) {
	sess := procurementSession(nil, nil)
	require.Equal(t, Allow, Evaluate(sess, RequirePermission(KeySettings, ActionDelete)))
	require.Equal(t, Allow, Evaluate(sess, RequirePermission(Key("not-in-catalog"), ActionRead)))
}

func TestGuardMissingGrantRedirects(t *testing.T) {
	// Sourcing holds no grant for settings.
	sess := procurementSession([]string{"Sourcing"}, map[Key]ActionSet{
		KeySuppliers: {CanView: true, CanCreate: true, CanUpdate: true},
	})
	require.Equal(t, RedirectToRoleDefault, Evaluate(sess, RequirePermission(KeySettings, ActionWrite)))
}

func TestGuardActionNotGrantedRedirects(t *testing.T) {
	sess := procurementSession([]string{"Sourcing"}, map[Key]ActionSet{
		KeySuppliers: {CanView: true},
	})
	require.Equal(t, Allow, Evaluate(sess, RequirePermission(KeySuppliers, ActionRead)))
	require.Equal(t, RedirectToRoleDefault, Evaluate(sess, RequirePermission(KeySuppliers, ActionDelete)))
}

func TestGuardMergedSubRolesAllowWrite(t *testing.T) {
	// Manager grants everything on settings; Sourcing contributes nothing
	// there. The merged grant equals Manager's alone.
	managerSettings := FullAccess()
	sess := procurementSession([]string{"Manager", "Sourcing"}, map[Key]ActionSet{
		KeySettings:  Merge(managerSettings, ActionSet{}),
		KeySuppliers: {CanView: true, CanCreate: true, CanUpdate: true},
	})
	require.Equal(t, managerSettings, sess.Grants[KeySettings])
	require.Equal(t, Allow, Evaluate(sess, RequirePermission(KeySettings, ActionWrite)))
}

func TestGuardActionDefaultsToRead(t *testing.T) {
	sess := procurementSession([]string{"Sourcing"}, map[Key]ActionSet{
		KeySuppliers: {CanView: true},
	})
	require.Equal(t, Allow, Evaluate(sess, RouteRequirement{Permission: KeySuppliers}))
}

func TestGuardSupplierLacksProcurementGrants(t *testing.T) {
	sess := &Session{Role: RoleSupplier, ExpiresAt: time.Now().Add(time.Hour)}
	require.Equal(t, RedirectToRoleDefault, Evaluate(sess, RequirePermission(KeySuppliers, ActionRead)))
}

func TestSessionHoldsSubRole(t *testing.T) {
	sess := procurementSession([]string{"Manager"}, nil)
	require.True(t, sess.HoldsSubRole("manager"))
	require.False(t, sess.HoldsSubRole("Sourcing"))
}
