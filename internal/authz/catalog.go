package authz

import (
	"sort"
	"strings"
)

// Key identifies a protected menu area. Keys form a closed set checked
// against the catalog at the boundary.
type Key string

const (
	KeyDashboard      Key = "dashboard"
	KeySuppliers      Key = "suppliers"
	KeyPurchaseOrders Key = "purchase-orders"
	KeyWorkflows      Key = "workflows"
	KeyUsers          Key = "users"
	KeyReports        Key = "reports"
	KeySettings       Key = "settings"
)

// Catalog is the read-only registry behind permission resolution. It maps
// each known sub-role name to the menu keys it covers and each key to its
// default action flags. Constructed once and shared by reference; lookups
// never fail, unknown names resolve to "no grant".
type Catalog struct {
	subRoles map[string][]Key
	defaults map[Key]ActionSet
}

// NewCatalog builds a catalog from explicit tables. Sub-role names are
// matched case-insensitively.
func NewCatalog(subRoles map[string][]Key, defaults map[Key]ActionSet) *Catalog {
	normalized := make(map[string][]Key, len(subRoles))
	for name, keys := range subRoles {
		normalized[strings.ToLower(strings.TrimSpace(name))] = append([]Key(nil), keys...)
	}
	defs := make(map[Key]ActionSet, len(defaults))
	for key, set := range defaults {
		defs[key] = set
	}
	return &Catalog{subRoles: normalized, defaults: defs}
}

// DefaultCatalog returns the server-wide permission tables shipped with the
// platform. "Manager" and "Lead" span every menu; "Sourcing" and
// "Reporting" are scoped to their work areas.
func DefaultCatalog() *Catalog {
	all := []Key{KeyDashboard, KeySuppliers, KeyPurchaseOrders, KeyWorkflows, KeyUsers, KeyReports, KeySettings}
	return NewCatalog(
		map[string][]Key{
			"Manager":   all,
			"Lead":      {KeyDashboard, KeySuppliers, KeyPurchaseOrders, KeyWorkflows, KeyReports},
			"Sourcing":  {KeyDashboard, KeySuppliers, KeyPurchaseOrders},
			"Reporting": {KeyDashboard, KeyReports},
		},
		map[Key]ActionSet{
			KeyDashboard:      {CanView: true},
			KeySuppliers:      {CanView: true, CanCreate: true, CanUpdate: true},
			KeyPurchaseOrders: {CanView: true, CanCreate: true, CanUpdate: true},
			KeyWorkflows:      {CanView: true, CanUpdate: true},
			KeyUsers:          {CanView: true},
			KeyReports:        {CanView: true},
			KeySettings:       {CanView: true, CanUpdate: true},
		},
	)
}

// PermissionsForSubRole returns the menu keys the named sub-role covers.
// Unknown names return an empty slice, not an error.
func (c *Catalog) PermissionsForSubRole(name string) []Key {
	if c == nil {
		return nil
	}
	keys := c.subRoles[strings.ToLower(strings.TrimSpace(name))]
	return append([]Key(nil), keys...)
}

// ActionDefaults returns the default flags for a key. Unknown keys resolve
// to the zero set.
func (c *Catalog) ActionDefaults(key Key) ActionSet {
	if c == nil {
		return ActionSet{}
	}
	return c.defaults[key]
}

// SubRoleNames lists the catalog's sub-role names in sorted order.
func (c *Catalog) SubRoleNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.subRoles))
	for name := range c.subRoles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownKey reports whether the key exists in the catalog.
func (c *Catalog) KnownKey(key Key) bool {
	if c == nil {
		return false
	}
	_, ok := c.defaults[key]
	return ok
}
