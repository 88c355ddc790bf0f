package authz

// Decision is the outcome of evaluating a session against a route
// requirement.
type Decision int

const (
	// Allow lets the navigation proceed.
	Allow Decision = iota
	// RedirectToLogin sends the caller to the login page.
	RedirectToLogin
	// RedirectToRoleDefault sends the caller to its role's landing page.
	RedirectToRoleDefault
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToRoleDefault:
		return "redirect-to-role-default"
	}
	return "unknown"
}

// RouteRequirement is declared on a protected route. A zero requirement
// only demands an authenticated session. Action defaults to read when a
// permission key is set without one.
type RouteRequirement struct {
	Roles      []Role
	Permission Key
	Action     Action
}

// RequireRoles builds a requirement restricted to the given roles.
func RequireRoles(roles ...Role) RouteRequirement {
	return RouteRequirement{Roles: roles}
}

// RequirePermission builds a requirement on a permission key and action.
func RequirePermission(key Key, action Action) RouteRequirement {
	return RouteRequirement{Permission: key, Action: action}
}

func (rr RouteRequirement) action() Action {
	if rr.Action == "" {
		return ActionRead
	}
	return rr.Action
}

func (rr RouteRequirement) allowsRole(r Role) bool {
	if len(rr.Roles) == 0 {
		return true
	}
	for _, allowed := range rr.Roles {
		if allowed == r {
			return true
		}
	}
	return false
}

// Evaluate runs the guard's ordered decision table. It is a pure function
// of the session snapshot and the declared requirement and holds no state
// between navigations.
//
// Admin satisfies every requirement. A Procurement session holding no
// sub-role passes permission checks unconditionally; this mirrors the
// platform's historical "unrestricted until assigned" default.
func Evaluate(sess *Session, req RouteRequirement) Decision {
	if sess == nil {
		return RedirectToLogin
	}
	if !req.allowsRole(sess.Role) {
		return RedirectToRoleDefault
	}
	if req.Permission == "" {
		return Allow
	}
	if sess.Role == RoleAdmin {
		return Allow
	}
	if sess.Role == RoleProcurement && len(sess.SubRoles) == 0 {
		return Allow
	}
	grant, ok := sess.Grant(req.Permission)
	if !ok {
		return RedirectToRoleDefault
	}
	if !grant.Has(req.action()) {
		return RedirectToRoleDefault
	}
	return Allow
}
