package guard

import (
	"testing"

	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/internal/core/session"
)

func snapFor(role domain.RoleID) session.Snapshot {
	return session.Snapshot{
		Token:    "tok",
		Identity: &domain.Identity{Email: "x@bt.com", RoleID: role, UserID: 1},
	}
}

func TestEvaluate_StateMachine(t *testing.T) {
	adminOnly := []domain.RoleID{domain.RoleAdministrator}

	cases := []struct {
		name string
		snap session.Snapshot
		want Decision
	}{
		{"resolving wins over everything", session.Snapshot{Resolving: true}, DecisionResolving},
		{"resolving even when authenticated", session.Snapshot{Token: "t", Identity: &domain.Identity{Email: "x@bt.com", RoleID: 1, UserID: 1}, Resolving: true}, DecisionResolving},
		{"anonymous goes to login", session.Snapshot{}, DecisionLogin},
		{"wrong role is forbidden", snapFor(domain.RoleEmployee), DecisionForbidden},
		{"matching role is allowed", snapFor(domain.RoleAdministrator), DecisionAllow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.snap, adminOnly); got != tc.want {
				t.Fatalf("Evaluate = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestEvaluate_RouteTable walks every declared route with every role and
// checks the decision against the table's role sets.
func TestEvaluate_RouteTable(t *testing.T) {
	roles := []domain.RoleID{domain.RoleAdministrator, domain.RoleManager, domain.RoleEmployee}

	for _, route := range Routes() {
		for _, role := range roles {
			allowed := false
			for _, r := range route.Roles {
				if r == role {
					allowed = true
				}
			}

			want := DecisionForbidden
			if allowed {
				want = DecisionAllow
			}
			if got := Evaluate(snapFor(role), route.Roles); got != want {
				t.Fatalf("%s as %s: Evaluate = %v, want %v", route.Path, role.Name(), got, want)
			}
		}

		if got := Evaluate(session.Snapshot{}, route.Roles); got != DecisionLogin {
			t.Fatalf("%s anonymous: Evaluate = %v, want login", route.Path, got)
		}
	}
}

func TestLookup(t *testing.T) {
	route, ok := Lookup("/team-requests")
	if !ok {
		t.Fatalf("expected /team-requests in the route table")
	}
	if len(route.Roles) != 2 {
		t.Fatalf("expected 2 roles on /team-requests, got %d", len(route.Roles))
	}

	if _, ok := Lookup("/nope"); ok {
		t.Fatalf("unknown path must not resolve")
	}
}

func TestNavigationEntries_OmitActionRoutes(t *testing.T) {
	entries := NavigationEntries()

	wantOrder := []string{"/dashboard", "/leave-requests", "/team-requests", "/all-requests", "/users", "/settings"}
	if len(entries) != len(wantOrder) {
		t.Fatalf("expected %d nav entries, got %d", len(wantOrder), len(entries))
	}
	for i, path := range wantOrder {
		if entries[i].Path != path {
			t.Fatalf("entry %d: expected %s, got %s", i, path, entries[i].Path)
		}
	}
}

func TestDecisionString(t *testing.T) {
	if DecisionResolving.String() != "resolving" || DecisionLogin.String() != "login" ||
		DecisionForbidden.String() != "forbidden" || DecisionAllow.String() != "allow" {
		t.Fatalf("decision labels changed")
	}
}
