package converter

import (
	"net/url"
	"strconv"

	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
)

// AppointmentToRecordRow converts an Appointment to a patient-record row. The two
// links carry the navigation contract read back by the prescription and update pages.
func AppointmentToRecordRow(appointment *entity.Appointment, role entity.Role) dto.RecordRow {
	if appointment == nil {
		return dto.RecordRow{Date: "-", AppointmentID: "-", PatientID: "-"}
	}

	query := RecordQuery(appointment, role).Encode()
	id := strconv.FormatInt(appointment.ID, 10)
	if appointment.ID == 0 {
		id = ""
	}

	return dto.RecordRow{
		AppointmentID:   orDash(id),
		Date:            orDash(appointment.DateValue()),
		PatientID:       orDash(appointment.PatientIDValue()),
		PatientName:     orDash(appointment.PatientNameValue()),
		DoctorName:      orDash(appointment.DoctorNameValue()),
		TimeRange:       orDash(appointment.TimeRange()),
		Status:          strconv.Itoa(appointment.Status),
		PrescriptionURL: "/pages/addPrescription?" + query,
		UpdateURL:       "/pages/updateAppointment?" + query,
	}
}

// AppointmentsToRecordRows converts a slice of appointments to record rows
func AppointmentsToRecordRows(appointments []entity.Appointment, role entity.Role) []dto.RecordRow {
	rows := make([]dto.RecordRow, len(appointments))
	for i := range appointments {
		rows[i] = AppointmentToRecordRow(&appointments[i], role)
	}
	return rows
}

// RecordQuery builds the query parameters shared by both record-row links.
// Absent values are sent as empty strings.
func RecordQuery(appointment *entity.Appointment, role entity.Role) url.Values {
	id := ""
	if appointment.ID != 0 {
		id = strconv.FormatInt(appointment.ID, 10)
	}
	return url.Values{
		"appointmentId":     {id},
		"patientId":         {appointment.PatientIDValue()},
		"patientName":       {appointment.PatientNameValue()},
		"doctorId":          {appointment.DoctorIDValue()},
		"doctorName":        {appointment.DoctorNameValue()},
		"appointmentDate":   {appointment.DateValue()},
		"appointmentTime":   {appointment.TimeRange()},
		"appointmentStatus": {strconv.Itoa(appointment.Status)},
		"role":              {role.String()},
	}
}
