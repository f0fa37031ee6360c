package converter

import (
	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
)

// headerLinks is the navigation offered to each role.
var headerLinks = map[entity.Role][]dto.NavLink{
	entity.RoleAdmin: {
		{ID: "addDocBtn", Label: "Add Doctor", Href: "/adminDashboard#add-doctor"},
		{ID: "logout", Label: "Logout", Href: "/logout", Post: true},
	},
	entity.RoleDoctor: {
		{ID: "home", Label: "Home", Href: "/doctorDashboard"},
		{ID: "logout", Label: "Logout", Href: "/logout", Post: true},
	},
	entity.RolePatient: {
		{ID: "patientLogin", Label: "Login", Href: "/pages/patientDashboard#patient-login"},
		{ID: "patientSignup", Label: "Sign Up", Href: "/pages/patientDashboard#patient-signup"},
	},
	entity.RoleLoggedPatient: {
		{ID: "home", Label: "Home", Href: "/pages/loggedPatientDashboard"},
		{ID: "patientAppointments", Label: "Appointments", Href: "/pages/patientAppointments"},
		{ID: "logout", Label: "Logout", Href: "/logout/patient", Post: true},
	},
}

// SessionToHeader builds the header for the current session and path. The root
// page always gets the bare logo header.
func SessionToHeader(session *entity.Session, path string) dto.HeaderView {
	if path == "/" || session == nil {
		return dto.HeaderView{Bare: true}
	}

	links := headerLinks[session.Role]
	view := dto.HeaderView{
		Role:  session.Role.String(),
		Links: make([]dto.NavLink, len(links)),
	}
	copy(view.Links, links)
	return view
}

// DashboardPath is where a role lands after login or when it clicks Home.
func DashboardPath(role entity.Role) string {
	switch role {
	case entity.RoleAdmin:
		return "/adminDashboard"
	case entity.RoleDoctor:
		return "/doctorDashboard"
	case entity.RolePatient:
		return "/pages/patientDashboard"
	case entity.RoleLoggedPatient:
		return "/pages/loggedPatientDashboard"
	}
	return "/"
}
