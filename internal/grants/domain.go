// Package grants manages per-user sub-role assignments and their action
// flags. Writes to the same sub-role name replace the prior grant; merging
// happens only across distinct names, at token issuance.
package grants

import (
	"time"

	"github.com/procura-platform/procura/internal/authz"
)

// SubRoleGrant is one user's grant under one sub-role name.
type SubRoleGrant struct {
	UserID    int64           `json:"-"`
	Name      string          `json:"name"`
	Actions   authz.ActionSet `json:"permissions"`
	UpdatedAt time.Time       `json:"-"`
}

// Assignment is the state of a user's sub-roles after a write: every held
// grant plus the overall merged action set.
type Assignment struct {
	UserID      int64           `json:"userId"`
	SubRoles    []SubRoleGrant  `json:"subRoles"`
	Permissions authz.ActionSet `json:"permissions"`
}
