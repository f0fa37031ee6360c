package dto

type PatientSignupRequest struct {
	Name     string `validate:"required,min=3,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Phone    string `validate:"required,min=10,max=15"`
	Address  string `validate:"required,max=255"`
}

type PatientAppointmentsQuery struct {
	Condition string `validate:"omitempty,oneof=past future"`
	Name      string `validate:"omitempty,max=100"`
}

type PatientAppointmentsView struct {
	PatientName string
	Rows        []RecordRow
	Filter      PatientAppointmentsQuery
}
