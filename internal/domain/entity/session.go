package entity

// Role is the client-held identity that gates which chrome and actions a page shows.
type Role string

const (
	RoleAbsent        Role = ""
	RoleAdmin         Role = "admin"
	RoleDoctor        Role = "doctor"
	RolePatient       Role = "patient"
	RoleLoggedPatient Role = "loggedPatient"
)

// Roles lists every non-absent role.
var Roles = []Role{RoleAdmin, RoleDoctor, RolePatient, RoleLoggedPatient}

// ParseRole maps a stored string onto the closed set of roles.
// Anything unrecognised is treated as no role at all.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient, RoleLoggedPatient:
		return Role(s)
	default:
		return RoleAbsent
	}
}

// RequiresToken reports whether the role implies an authenticated identity.
func (r Role) RequiresToken() bool {
	return r == RoleAdmin || r == RoleDoctor || r == RoleLoggedPatient
}

func (r Role) String() string {
	return string(r)
}

// Session keys as they are persisted.
const (
	SessionKeyRole  = "userRole"
	SessionKeyToken = "token"
	SessionKeyFlash = "flash"
)

// Session is the per-browser state shared by every page: a role, a backend token
// and at most one pending notice.
type Session struct {
	ID    string
	Role  Role
	Token string
	Flash string
}

// HasToken reports whether a backend token is present.
func (s *Session) HasToken() bool {
	return s != nil && s.Token != ""
}

// Valid is false when the role needs a token that is not there.
func (s *Session) Valid() bool {
	if s == nil {
		return true
	}
	return !s.Role.RequiresToken() || s.Token != ""
}
