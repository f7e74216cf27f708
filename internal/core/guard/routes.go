package guard

import "github.com/bt-group/leave-portal/internal/core/domain"

// Route declares one protected navigation target. The table below is the
// single authority on which roles may reach which path; both the guard
// middleware and the navigation menu consume it, so there are no per-view
// role checks anywhere else.
type Route struct {
	Path  string
	Name  string
	Roles []domain.RoleID
	// Nav marks routes that appear in the navigation menu.
	Nav bool
}

var routes = []Route{
	{Path: "/dashboard", Name: "Dashboard", Roles: []domain.RoleID{domain.RoleAdministrator, domain.RoleManager, domain.RoleEmployee}, Nav: true},
	{Path: "/leave-requests", Name: "My Leave Requests", Roles: []domain.RoleID{domain.RoleEmployee}, Nav: true},
	{Path: "/leave-requests/create", Name: "Create Leave Request", Roles: []domain.RoleID{domain.RoleEmployee}},
	{Path: "/team-requests", Name: "Team Requests", Roles: []domain.RoleID{domain.RoleAdministrator, domain.RoleManager}, Nav: true},
	{Path: "/all-requests", Name: "All Requests", Roles: []domain.RoleID{domain.RoleAdministrator}, Nav: true},
	{Path: "/users", Name: "Users", Roles: []domain.RoleID{domain.RoleAdministrator, domain.RoleManager}, Nav: true},
	{Path: "/settings", Name: "Settings", Roles: []domain.RoleID{domain.RoleAdministrator}, Nav: true},

	// UI affordances that are actions rather than pages. Declared here so
	// they share the same uniform gating as everything else.
	{Path: "/leave-requests/:id/approve", Name: "Approve Request", Roles: []domain.RoleID{domain.RoleAdministrator, domain.RoleManager}},
	{Path: "/leave-requests/:id/reject", Name: "Reject Request", Roles: []domain.RoleID{domain.RoleAdministrator, domain.RoleManager}},
	{Path: "/leave-requests/:id/cancel", Name: "Cancel Request", Roles: []domain.RoleID{domain.RoleEmployee}},
}

// Routes returns the static route table.
func Routes() []Route {
	return routes
}

// Lookup returns the route registered for path.
func Lookup(path string) (Route, bool) {
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// NavigationEntries projects the nav-marked routes into menu entries, in
// table order.
func NavigationEntries() []domain.NavigationEntry {
	entries := make([]domain.NavigationEntry, 0, len(routes))
	for _, r := range routes {
		if r.Nav {
			entries = append(entries, domain.NavigationEntry{Name: r.Name, Path: r.Path, Roles: r.Roles})
		}
	}
	return entries
}
