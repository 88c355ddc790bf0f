// Package authz implements the role and sub-role permission model: the
// static permission catalog, the merge algebra over action sets, and the
// guard that decides every protected navigation.
package authz

import (
	"fmt"
	"strings"
)

// Role is the top-level principal category. Exactly one per session.
type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleProcurement Role = "Procurement"
	RoleSupplier    Role = "Supplier"
)

// ParseRole validates a role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleProcurement:
		return RoleProcurement, nil
	case RoleSupplier:
		return RoleSupplier, nil
	}
	return "", fmt.Errorf("authz: unknown role %q", s)
}

// Valid reports whether the role is one of the closed enumeration values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProcurement, RoleSupplier:
		return true
	}
	return false
}

// DefaultPath resolves the fixed role to landing-page table used when the
// guard denies a navigation. It is never empty for a valid role.
func DefaultPath(r Role) string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleProcurement:
		return "/procurement/dashboard"
	case RoleSupplier:
		return "/supplier/dashboard"
	}
	return "/auth/login"
}
