package views

import (
	"errors"
	"testing"

	"pontodigital/cmd/internal/domain/entity"
)

func TestHome(t *testing.T) {
	cases := map[entity.Role]View{
		entity.RoleAdmin:    AdminDashboard,
		entity.RoleEmployee: EmployeeHome,
		entity.RoleTotem:    TotemPunch,
	}
	for role, want := range cases {
		if got := Home(role); got != want {
			t.Fatalf("%s: expected %s, got %s", role, want, got)
		}
		if !Allowed(role, want) {
			t.Fatalf("%s must be allowed on its home", role)
		}
	}
}

func TestNavigate(t *testing.T) {
	got, err := Navigate(entity.RoleEmployee, EmployeeHome, EmployeeHistory)
	if err != nil || got != EmployeeHistory {
		t.Fatalf("home -> history should work, got %s %v", got, err)
	}

	got, err = Navigate(entity.RoleEmployee, EmployeeProfile, EmployeeHistory)
	if !errors.Is(err, ErrNoTransition) || got != EmployeeProfile {
		t.Fatalf("profile -> history is not a transition, got %s %v", got, err)
	}

	// Home is always reachable.
	if got, err = Navigate(entity.RoleEmployee, EmployeeProfile, EmployeeHome); err != nil || got != EmployeeHome {
		t.Fatalf("going home must always work, got %s %v", got, err)
	}

	// Staying put is fine.
	if _, err = Navigate(entity.RoleAdmin, AdminHolidays, AdminHolidays); err != nil {
		t.Fatalf("same view: %v", err)
	}
}

func TestNavigateRejectsOtherRolesScreens(t *testing.T) {
	if _, err := Navigate(entity.RoleEmployee, EmployeeHome, AdminEmployees); !errors.Is(err, ErrForbiddenView) {
		t.Fatalf("employee must not reach admin screens, got %v", err)
	}
	if _, err := Navigate(entity.RoleTotem, TotemPunch, EmployeeHistory); !errors.Is(err, ErrForbiddenView) {
		t.Fatalf("totem is locked to its screen, got %v", err)
	}
	if _, err := Navigate(entity.RoleAdmin, AdminDashboard, View("settings")); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("unknown view must be rejected, got %v", err)
	}
}

func TestReachableReturnsCopy(t *testing.T) {
	next := Reachable(entity.RoleAdmin, AdminDashboard)
	if len(next) != 6 {
		t.Fatalf("admin menu should reach 6 screens, got %d", len(next))
	}
	next[0] = TotemPunch

	if Reachable(entity.RoleAdmin, AdminDashboard)[0] == TotemPunch {
		t.Fatalf("Reachable must not expose the internal table")
	}
}

func TestParse(t *testing.T) {
	if v, err := Parse("history"); err != nil || v != EmployeeHistory {
		t.Fatalf("expected history, got %s %v", v, err)
	}
	if _, err := Parse("nope"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("expected ErrUnknownView, got %v", err)
	}
}
