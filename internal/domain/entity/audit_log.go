package entity

// AuditEvent is one state-changing action performed through the portal.
type AuditEvent struct {
	Action   string
	Role     Role
	Entity   string
	EntityID string
	Outcome  string
}

// Audit outcomes
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeFailure = "failure"
)

// Common audit actions
const (
	AuditActionAdminLogin         = "admin.login"
	AuditActionDoctorLogin        = "doctor.login"
	AuditActionPatientLogin       = "patient.login"
	AuditActionPatientSignup      = "patient.signup"
	AuditActionLogout             = "user.logout"
	AuditActionDoctorCreate       = "doctor.create"
	AuditActionDoctorDelete       = "doctor.delete"
	AuditActionAppointmentBook    = "appointment.book"
	AuditActionAppointmentUpdate  = "appointment.update"
	AuditActionAppointmentCancel  = "appointment.cancel"
	AuditActionPrescriptionCreate = "prescription.create"
)
