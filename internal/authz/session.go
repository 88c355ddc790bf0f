package authz

import (
	"strings"
	"time"
)

// Session is the resolved, signed artifact issued at authentication.
// It is immutable for its lifetime; re-authentication produces a
// replacement rather than mutating the value in place.
type Session struct {
	UserID      int64
	Email       string
	DisplayName string
	Role        Role

	// SubRoles and the resolved permission data apply to Procurement
	// sessions only.
	SubRoles    []string
	Permissions ActionSet
	Grants      map[Key]ActionSet

	Token     string
	ExpiresAt time.Time
}

// HoldsSubRole reports whether the session carries the named sub-role.
func (s *Session) HoldsSubRole(name string) bool {
	if s == nil {
		return false
	}
	for _, held := range s.SubRoles {
		if strings.EqualFold(held, name) {
			return true
		}
	}
	return false
}

// Grant looks up the carried per-menu grant for a key. The second return
// reports whether any grant exists for that key.
func (s *Session) Grant(key Key) (ActionSet, bool) {
	if s == nil || s.Grants == nil {
		return ActionSet{}, false
	}
	set, ok := s.Grants[key]
	return set, ok
}

// Expired reports whether the session passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !s.ExpiresAt.After(now)
}
