package authz

import "time"

// Caller identifies the user requesting source data.
type Caller struct {
	Username  string
	SuperUser bool
}

// Authorize decides whether the caller may read source data under the given
// policy. destGrants and sourceGrants are the caller's role grants in the
// destination and source projects; expired grants are ignored. System
// super-users bypass all checks.
func Authorize(caller Caller, destGrants, sourceGrants []Grant, policy Policy, now time.Time) bool {
	if caller.SuperUser {
		return true
	}

	dest := activeGrants(destGrants, now)
	source := activeGrants(sourceGrants, now)

	adjudicate := anyPermitted(dest, PermAdjudicate)
	switch policy {
	case PolicyDestOnly:
		return adjudicate
	case PolicyDestPlusSourceMembership:
		return adjudicate && len(source) > 0
	case PolicyDestPlusSourceExport:
		return adjudicate && anyPermitted(source, PermDataExport)
	}
	return false
}

func activeGrants(grants []Grant, now time.Time) []Grant {
	var active []Grant
	for _, g := range grants {
		if g.Active(now) {
			active = append(active, g)
		}
	}
	return active
}

func anyPermitted(grants []Grant, name string) bool {
	for _, g := range grants {
		if g.Permitted(name) {
			return true
		}
	}
	return false
}
