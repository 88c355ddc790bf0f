package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogUnknownSubRole(t *testing.T) {
	catalog := DefaultCatalog()
	require.Empty(t, catalog.PermissionsForSubRole("does-not-exist"))
	require.Empty(t, catalog.PermissionsForSubRole(""))
}

func TestCatalogUnknownKeyDefaults(t *testing.T) {
	catalog := DefaultCatalog()
	require.Equal(t, ActionSet{}, catalog.ActionDefaults(Key("unknown")))
	require.False(t, catalog.KnownKey(Key("unknown")))
}

func TestCatalogSubRoleLookupIsCaseInsensitive(t *testing.T) {
	catalog := DefaultCatalog()
	require.ElementsMatch(t, catalog.PermissionsForSubRole("Sourcing"), catalog.PermissionsForSubRole("sourcing"))
	require.NotEmpty(t, catalog.PermissionsForSubRole("SOURCING"))
}

func TestCatalogScopes(t *testing.T) {
	catalog := DefaultCatalog()

	require.Contains(t, catalog.PermissionsForSubRole("Manager"), KeySettings)
	require.NotContains(t, catalog.PermissionsForSubRole("Sourcing"), KeySettings)
	require.Contains(t, catalog.PermissionsForSubRole("Reporting"), KeyReports)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("Procurement")
	require.NoError(t, err)
	require.Equal(t, RoleProcurement, role)

	_, err = ParseRole("superuser")
	require.Error(t, err)

	require.False(t, Role("").Valid())
}

func TestDefaultPathNeverEmpty(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleProcurement, RoleSupplier} {
		require.NotEmpty(t, DefaultPath(role))
	}
}
