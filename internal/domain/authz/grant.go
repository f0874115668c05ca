package authz

import "time"

// Named permission flags carried by role grants.
const (
	PermAdjudicate = "adjudicate"
	PermDataExport = "data_export"
)

// Grant is a user's role grant in one project. A grant may inherit
// permission values from a group-level role template; per-user overrides
// take precedence when set.
type Grant struct {
	ProjectID  int64
	Username   string
	RoleID     *int64
	Expiration *time.Time
	// Overrides holds project-level per-user permission values. A missing
	// key means "not set here, consult the template".
	Overrides map[string]bool
	// Template holds the role template's permission values, nil when the
	// user has no role.
	Template map[string]bool
}

// Active reports whether the grant has not expired at now.
func (g Grant) Active(now time.Time) bool {
	return g.Expiration == nil || g.Expiration.After(now)
}

// Permitted resolves the effective value of a named permission: project-level
// override if present, else the role-template value, else denied.
func (g Grant) Permitted(name string) bool {
	if v, ok := g.Overrides[name]; ok {
		return v
	}
	if g.Template != nil {
		if v, ok := g.Template[name]; ok {
			return v
		}
	}
	return false
}
