// Package policy holds the pure authorization decisions of the portal.
// Nothing here performs I/O or keeps state; both functions are recomputed
// on every call.
package policy

import "github.com/bt-group/leave-portal/internal/core/domain"

// IsAuthorized reports whether identity may access a target protected by
// requiredRoles. An empty or absent role set admits any authenticated
// identity; a nil identity is only admitted when no roles are required.
// Anonymous visitors are normally rejected earlier by the route guard, not
// here.
func IsAuthorized(identity *domain.Identity, requiredRoles []domain.RoleID) bool {
	if len(requiredRoles) == 0 {
		return true
	}
	if identity == nil {
		return false
	}
	for _, role := range requiredRoles {
		if identity.RoleID == role {
			return true
		}
	}
	return false
}

// VisibleNavigation filters entries down to those the identity is
// authorized for, preserving input order.
func VisibleNavigation(identity *domain.Identity, entries []domain.NavigationEntry) []domain.NavigationEntry {
	visible := make([]domain.NavigationEntry, 0, len(entries))
	for _, entry := range entries {
		if IsAuthorized(identity, entry.Roles) {
			visible = append(visible, entry)
		}
	}
	return visible
}
