package entities

import "strings"

// Role represents the part a character plays in a raid group
type Role string

const (
	RoleTank   Role = "Tank"
	RoleHealer Role = "Healer"
	RoleDPS    Role = "DPS"

	// RoleNone marks a character registered without a role
	RoleNone Role = ""
)

// Roles lists every assignable role in display order
var Roles = []Role{RoleTank, RoleHealer, RoleDPS}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is assignable or unset
func (r Role) IsValid() bool {
	switch r {
	case RoleTank, RoleHealer, RoleDPS, RoleNone:
		return true
	default:
		return false
	}
}

// ParseRole matches an input string to a role, ignoring case.
// An empty input parses to RoleNone.
func ParseRole(input string) (Role, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return RoleNone, true
	}
	for _, role := range Roles {
		if strings.EqualFold(trimmed, string(role)) {
			return role, true
		}
	}
	return "", false
}
