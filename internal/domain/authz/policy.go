package authz

import "fmt"

// Policy selects how source-project access is checked for a destination
// project. Stored per destination project as an integer code.
type Policy int

const (
	// PolicyDestOnly requires adjudicate permission in the destination
	// project only.
	PolicyDestOnly Policy = iota
	// PolicyDestPlusSourceMembership additionally requires any active role
	// in the source project, regardless of its permissions.
	PolicyDestPlusSourceMembership
	// PolicyDestPlusSourceExport additionally requires data-export
	// permission in the source project.
	PolicyDestPlusSourceExport
)

// ParsePolicy converts a stored policy code to a Policy.
func ParsePolicy(code int) (Policy, error) {
	switch code {
	case 0:
		return PolicyDestOnly, nil
	case 1:
		return PolicyDestPlusSourceMembership, nil
	case 2:
		return PolicyDestPlusSourceExport, nil
	}
	return 0, fmt.Errorf("unknown source permissions policy code %d", code)
}

func (p Policy) String() string {
	switch p {
	case PolicyDestOnly:
		return "dest-only"
	case PolicyDestPlusSourceMembership:
		return "dest-plus-source-membership"
	case PolicyDestPlusSourceExport:
		return "dest-plus-source-export"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}
