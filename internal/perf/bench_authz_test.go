package perf

import (
	"testing"
	"time"

	"github.com/procura-platform/procura/internal/authz"
)

func benchSession() *authz.Session {
	catalog := authz.DefaultCatalog()
	grants := make(map[authz.Key]authz.ActionSet)
	for _, name := range []string{"Lead", "Sourcing", "Reporting"} {
		for _, key := range catalog.PermissionsForSubRole(name) {
			grants[key] = authz.Merge(grants[key], catalog.ActionDefaults(key))
		}
	}
	overall := authz.ActionSet{}
	for _, set := range grants {
		overall = authz.Merge(overall, set)
	}
	return &authz.Session{
		UserID:      7,
		Role:        authz.RoleProcurement,
		SubRoles:    []string{"Lead", "Sourcing", "Reporting"},
		Permissions: overall,
		Grants:      grants,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func BenchmarkGuardEvaluate(b *testing.B) {
	sess := benchSession()
	req := authz.RouteRequirement{
		Roles:      []authz.Role{authz.RoleAdmin, authz.RoleProcurement},
		Permission: authz.KeySuppliers,
		Action:     authz.ActionWrite,
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if authz.Evaluate(sess, req) != authz.Allow {
			b.Fatal("expected allow")
		}
	}
}

func BenchmarkMergeActionSets(b *testing.B) {
	sets := []authz.ActionSet{
		{CanView: true},
		{CanCreate: true},
		{CanUpdate: true},
		{CanView: true, CanDelete: true},
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if authz.Merge(sets...).IsZero() {
			b.Fatal("expected flags")
		}
	}
}
