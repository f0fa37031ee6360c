package converter

import (
	"net/url"
	"strings"

	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
)

// AppointmentToPatientRow converts an Appointment to the doctor dashboard's patient row
func AppointmentToPatientRow(appointment *entity.Appointment) dto.PatientRow {
	if appointment == nil {
		return dto.PatientRow{PatientID: "-", Name: "-", Phone: "-", Email: "-"}
	}

	var phone, email string
	if appointment.Patient != nil {
		phone = appointment.Patient.Phone
		email = appointment.Patient.Email
	}
	if appointment.PatientPhone != "" {
		phone = appointment.PatientPhone
	}
	if appointment.PatientEmail != "" {
		email = appointment.PatientEmail
	}

	patientID := appointment.PatientIDValue()
	row := dto.PatientRow{
		PatientID: orDash(patientID),
		Name:      orDash(appointment.PatientNameValue()),
		Phone:     orDash(phone),
		Email:     orDash(email),
	}
	if patientID != "" {
		row.RecordURL = "/pages/patientRecord?" + url.Values{
			"id":       {patientID},
			"doctorId": {appointment.DoctorIDValue()},
		}.Encode()
	}
	return row
}

// AppointmentsToPatientRows converts a slice of appointments to patient rows
func AppointmentsToPatientRows(appointments []entity.Appointment) []dto.PatientRow {
	rows := make([]dto.PatientRow, len(appointments))
	for i := range appointments {
		rows[i] = AppointmentToPatientRow(&appointments[i])
	}
	return rows
}

// SignupRequestToEntity builds the backend payload for patient registration
func SignupRequestToEntity(req *dto.PatientSignupRequest) *entity.Patient {
	return &entity.Patient{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Phone:    strings.TrimSpace(req.Phone),
		Address:  strings.TrimSpace(req.Address),
	}
}
