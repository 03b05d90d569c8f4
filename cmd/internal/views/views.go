// Package views enumerates the screens of the app and which screen a role
// may move to from which.
package views

import (
	"errors"

	"pontodigital/cmd/internal/domain/entity"
)

type View string

const (
	AdminDashboard View = "admin_dashboard"
	AdminEmployees View = "admin_employees"
	AdminHolidays  View = "admin_holidays"
	AdminRequests  View = "admin_requests"
	AdminCompany   View = "admin_company"
	AdminReports   View = "admin_reports"
	AdminAssistant View = "admin_assistant"

	EmployeeHome      View = "home"
	EmployeeHistory   View = "history"
	EmployeeRequests  View = "requests"
	EmployeeProfile   View = "profile"
	EmployeeAssistant View = "assistant"

	TotemPunch View = "totem_punch"
)

var (
	ErrUnknownView   = errors.New("views: unknown view")
	ErrForbiddenView = errors.New("views: view not allowed for role")
	ErrNoTransition  = errors.New("views: transition not allowed")
)

var known = map[View]bool{
	AdminDashboard: true, AdminEmployees: true, AdminHolidays: true, AdminRequests: true,
	AdminCompany: true, AdminReports: true, AdminAssistant: true,
	EmployeeHome: true, EmployeeHistory: true, EmployeeRequests: true,
	EmployeeProfile: true, EmployeeAssistant: true,
	TotemPunch: true,
}

// transitions lists, per role, the views reachable from each view. The admin
// menu reaches every admin screen; sub screens go back through the menu.
var transitions = map[entity.Role]map[View][]View{
	entity.RoleAdmin: {
		AdminDashboard: {AdminEmployees, AdminHolidays, AdminRequests, AdminCompany, AdminReports, AdminAssistant},
		AdminEmployees: {AdminDashboard, AdminReports},
		AdminHolidays:  {AdminDashboard, AdminCompany},
		AdminRequests:  {AdminDashboard, AdminEmployees},
		AdminCompany:   {AdminDashboard, AdminHolidays},
		AdminReports:   {AdminDashboard, AdminEmployees},
		AdminAssistant: {AdminDashboard},
	},
	entity.RoleEmployee: {
		EmployeeHome:      {EmployeeHistory, EmployeeRequests, EmployeeProfile, EmployeeAssistant},
		EmployeeHistory:   {EmployeeHome, EmployeeRequests},
		EmployeeRequests:  {EmployeeHome, EmployeeHistory},
		EmployeeProfile:   {EmployeeHome},
		EmployeeAssistant: {EmployeeHome},
	},
	entity.RoleTotem: {
		TotemPunch: {},
	},
}

func Parse(s string) (View, error) {
	v := View(s)
	if !known[v] {
		return "", ErrUnknownView
	}
	return v, nil
}

// Home is where a role lands after login.
func Home(role entity.Role) View {
	switch role {
	case entity.RoleAdmin:
		return AdminDashboard
	case entity.RoleTotem:
		return TotemPunch
	default:
		return EmployeeHome
	}
}

// Allowed reports whether the role may ever render v.
func Allowed(role entity.Role, v View) bool {
	_, ok := transitions[role][v]
	return ok
}

// Reachable lists the views the role can move to from current.
func Reachable(role entity.Role, current View) []View {
	next := transitions[role][current]
	out := make([]View, len(next))
	copy(out, next)
	return out
}

// Navigate validates a move from current to target. Moving to the role's
// home is always allowed, and so is staying on the same view.
func Navigate(role entity.Role, current, target View) (View, error) {
	if !known[target] {
		return current, ErrUnknownView
	}
	if !Allowed(role, target) {
		return current, ErrForbiddenView
	}
	if target == current || target == Home(role) || !Allowed(role, current) {
		return target, nil
	}

	for _, v := range transitions[role][current] {
		if v == target {
			return target, nil
		}
	}
	return current, ErrNoTransition
}
