package authz

// Action names one of the four operations an ActionSet governs.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// ActionSet holds the four independent action flags attached to a single
// permission key. The zero value grants nothing.
type ActionSet struct {
	CanView   bool `json:"canView"`
	CanCreate bool `json:"canCreate"`
	CanUpdate bool `json:"canUpdate"`
	CanDelete bool `json:"canDelete"`
}

// FullAccess returns an ActionSet with every flag set.
func FullAccess() ActionSet {
	return ActionSet{CanView: true, CanCreate: true, CanUpdate: true, CanDelete: true}
}

// Has reports whether the set grants the named action. Unknown actions are
// never granted.
func (a ActionSet) Has(action Action) bool {
	switch action {
	case ActionRead:
		return a.CanView
	case ActionCreate:
		return a.CanCreate
	case ActionWrite:
		return a.CanUpdate
	case ActionDelete:
		return a.CanDelete
	}
	return false
}

// IsZero reports whether no flag is set.
func (a ActionSet) IsZero() bool {
	return a == ActionSet{}
}

// Merge combines any number of action sets with a per-flag boolean OR.
// Merge of nothing is the zero set; the operation is associative,
// commutative and idempotent, so re-applying a grant never regresses an
// already-held flag.
func Merge(sets ...ActionSet) ActionSet {
	var out ActionSet
	for _, s := range sets {
		out.CanView = out.CanView || s.CanView
		out.CanCreate = out.CanCreate || s.CanCreate
		out.CanUpdate = out.CanUpdate || s.CanUpdate
		out.CanDelete = out.CanDelete || s.CanDelete
	}
	return out
}
