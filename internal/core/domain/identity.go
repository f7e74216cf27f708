package domain

// RoleID is the numeric role identifier shared with the backend.
// The numbering is part of the wire contract and must not change.
type RoleID int

const (
	RoleAdministrator RoleID = 1
	RoleManager       RoleID = 2
	RoleEmployee      RoleID = 3
)

// Name returns the display name of the role.
func (r RoleID) Name() string {
	switch r {
	case RoleAdministrator:
		return "Administrator"
	case RoleManager:
		return "Manager"
	case RoleEmployee:
		return "Employee"
	default:
		return "Unknown"
	}
}

// Known reports whether the role id is one of the three defined roles.
func (r RoleID) Known() bool {
	return r == RoleAdministrator || r == RoleManager || r == RoleEmployee
}

// Identity is the authenticated principal derived from a login token.
// It is immutable once created: replaced wholesale on re-login, destroyed
// on logout. The JSON field names match the token claims and the persisted
// "user" value.
type Identity struct {
	Email  string `json:"email"`
	RoleID RoleID `json:"roleId"`
	UserID int    `json:"userId"`
}

// Valid reports whether the identity carries the minimum set of claims the
// portal requires to make authorization decisions.
func (i Identity) Valid() bool {
	return i.Email != "" && i.RoleID.Known() && i.UserID > 0
}

// NavigationEntry is a named navigation target with its required role set.
// An empty role set means any authenticated identity may see it.
type NavigationEntry struct {
	Name  string   `json:"name"`
	Path  string   `json:"path"`
	Roles []RoleID `json:"-"`
}
