package handler

import (
	"errors"
	"net/http"
	"net/url"

	"hospital-cms-portal/internal/converter"
	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/service"
	"hospital-cms-portal/internal/usecase"
)

const (
	patientAppointmentsPath = "/pages/patientAppointments"
	updateAppointmentPath   = "/pages/updateAppointment"
	bookingPath             = "/pages/booking"

	missingSessionDataMessage = "Missing session data, redirecting to appointments page."
	loadPatientMessage        = "Failed to fetch patient details. Please log in again."
	loadAppointmentsMessage   = "Failed to load appointments."
	invalidIDMessage          = "Invalid ID in the request."
)

type AppointmentHandler struct {
	*Base
	appointmentUsecase usecase.AppointmentUsecase
}

func NewAppointmentHandler(base *Base, appointmentUsecase usecase.AppointmentUsecase) *AppointmentHandler {
	return &AppointmentHandler{
		Base:               base,
		appointmentUsecase: appointmentUsecase,
	}
}

func (h *AppointmentHandler) DoctorDashboard(w http.ResponseWriter, r *http.Request) {
	query := dashboardQuery(r)

	var notice *dto.Notice
	if err := h.validator.Validate(&query); err != nil {
		notice = h.validationNotice(err)
		query = dto.DoctorDashboardQuery{PatientName: query.PatientName}
	}

	view, err := h.appointmentUsecase.DoctorDashboard(r.Context(), h.session(r), &query)
	if err != nil {
		h.sessionExpired(w, r)
		return
	}
	h.page(w, r, http.StatusOK, "doctor_dashboard", "Doctor Dashboard", view, notice)
}

// FilterAppointments answers the dashboard search with the table body only.
func (h *AppointmentHandler) FilterAppointments(w http.ResponseWriter, r *http.Request) {
	query := dashboardQuery(r)
	if err := h.validator.Validate(&query); err != nil {
		h.renderer.Fragment(w, http.StatusOK, "appointment-rows", dto.AppointmentTable{Notice: h.validationNotice(err)})
		return
	}

	table, err := h.appointmentUsecase.FilterDoctorAppointments(r.Context(), h.session(r), &query)
	if err != nil {
		if errors.Is(err, service.ErrSuperseded) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.sessionExpired(w, r)
		return
	}
	h.renderer.Fragment(w, http.StatusOK, "appointment-rows", table)
}

func (h *AppointmentHandler) PatientRecord(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	query := dto.PatientRecordQuery{
		ID:       queryValue(r, "id"),
		DoctorID: queryValue(r, "doctorId"),
		Name:     queryValue(r, "name"),
	}
	if err := h.validator.Validate(&query); err != nil {
		h.redirect(w, r, converter.DashboardPath(session.Role), h.validationNotice(err))
		return
	}

	view, err := h.appointmentUsecase.PatientRecord(r.Context(), session, &query)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTokenRequired):
			h.sessionExpired(w, r)
			return
		case errors.Is(err, usecase.ErrInvalidID):
			h.redirect(w, r, converter.DashboardPath(session.Role), dto.ErrorNotice(invalidIDMessage))
			return
		}
		h.page(w, r, http.StatusOK, "patient_record", "Patient Record",
			dto.PatientRecordView{PatientID: query.ID, DoctorID: query.DoctorID}, dto.ErrorNotice(loadAppointmentsMessage))
		return
	}
	h.page(w, r, http.StatusOK, "patient_record", "Patient Record", view, nil)
}

func (h *AppointmentHandler) UpdateAppointmentForm(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	query := dto.UpdateAppointmentQuery{
		AppointmentID:     queryValue(r, "appointmentId"),
		PatientID:         queryValue(r, "patientId"),
		PatientName:       queryValue(r, "patientName"),
		DoctorID:          queryValue(r, "doctorId"),
		DoctorName:        queryValue(r, "doctorName"),
		AppointmentDate:   queryValue(r, "appointmentDate"),
		AppointmentTime:   queryValue(r, "appointmentTime"),
		AppointmentStatus: queryValue(r, "appointmentStatus"),
		Role:              queryValue(r, "role"),
	}
	if query.AppointmentID == "" || query.PatientID == "" {
		h.redirect(w, r, appointmentsHome(session.Role), dto.ErrorNotice(missingSessionDataMessage))
		return
	}
	if err := h.validator.Validate(&query); err != nil {
		h.redirect(w, r, appointmentsHome(session.Role), h.validationNotice(err))
		return
	}

	view, err := h.appointmentUsecase.UpdateForm(r.Context(), session, &query)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTokenRequired):
			h.redirect(w, r, appointmentsHome(session.Role), dto.ErrorNotice(missingSessionDataMessage))
		case errors.Is(err, usecase.ErrDoctorNotFound):
			h.redirect(w, r, appointmentsHome(session.Role), dto.ErrorNotice("Doctor not found."))
		case errors.Is(err, usecase.ErrInvalidID):
			h.redirect(w, r, appointmentsHome(session.Role), dto.ErrorNotice(invalidIDMessage))
		default:
			h.redirect(w, r, appointmentsHome(session.Role), dto.ErrorNotice("Failed to load doctor data."))
		}
		return
	}
	h.page(w, r, http.StatusOK, "update_appointment", "Update Appointment", view, nil)
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	req := dto.UpdateAppointmentRequest{
		AppointmentID:  formValue(r, "appointmentId"),
		PatientID:      formValue(r, "patientId"),
		DoctorID:       formValue(r, "doctorId"),
		Date:           formValue(r, "date"),
		Time:           formValue(r, "time"),
		Status:         formValue(r, "status"),
		OriginalDate:   formValue(r, "originalDate"),
		OriginalTime:   formValue(r, "originalTime"),
		OriginalStatus: formValue(r, "originalStatus"),
	}
	if err := h.validator.Validate(&req); err != nil {
		h.redirect(w, r, appointmentsHome(session.Role), h.validationNotice(err))
		return
	}

	result, err := h.appointmentUsecase.UpdateAppointment(r.Context(), session, &req)
	if err != nil {
		back := updateFormURL(&req, session.Role)
		switch {
		case errors.Is(err, usecase.ErrTokenRequired):
			h.sessionExpired(w, r)
		case errors.Is(err, usecase.ErrInvalidID):
			h.redirect(w, r, appointmentsHome(session.Role), dto.ErrorNotice(invalidIDMessage))
		case errors.Is(err, entity.ErrMissingDateTime),
			errors.Is(err, entity.ErrInvalidDate),
			errors.Is(err, entity.ErrInvalidTime):
			h.redirect(w, r, back, dto.ErrorNotice(capitalize(err.Error())))
		default:
			h.redirect(w, r, back, failureNotice("Failed to update appointment", err))
		}
		return
	}
	h.redirect(w, r, result.Redirect, dto.SuccessNotice(result.Message))
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	req := dto.CancelAppointmentRequest{
		AppointmentID: formValue(r, "appointmentId"),
		Confirmed:     formValue(r, "confirmed") == "true",
	}
	if err := h.validator.Validate(&req); err != nil {
		h.redirect(w, r, appointmentsHome(session.Role), h.validationNotice(err))
		return
	}

	result, err := h.appointmentUsecase.CancelAppointment(r.Context(), session, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCancelNotConfirmed):
			h.redirect(w, r, appointmentsHome(session.Role), dto.InfoNotice("Deletion cancelled."))
		case errors.Is(err, usecase.ErrCancelNotAllowed):
			h.redirect(w, r, appointmentsHome(session.Role), dto.ErrorNotice("Doctors cannot delete appointments."))
		case errors.Is(err, usecase.ErrTokenRequired):
			h.sessionExpired(w, r)
		case errors.Is(err, usecase.ErrInvalidID):
			h.redirect(w, r, appointmentsHome(session.Role), dto.ErrorNotice(invalidIDMessage))
		default:
			h.redirect(w, r, appointmentsHome(session.Role), failureNotice("Failed to delete appointment", err))
		}
		return
	}
	h.redirect(w, r, result.Redirect, dto.SuccessNotice(result.Message))
}

func (h *AppointmentHandler) BookingForm(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	query := dto.BookingQuery{DoctorID: queryValue(r, "doctorId")}
	if err := h.validator.Validate(&query); err != nil {
		h.redirect(w, r, converter.DashboardPath(session.Role), h.validationNotice(err))
		return
	}

	view, err := h.appointmentUsecase.BookingForm(r.Context(), session, &query)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTokenRequired), errors.Is(err, usecase.ErrLoadPatientFailed):
			h.redirect(w, r, "/", dto.ErrorNotice(loadPatientMessage))
		case errors.Is(err, usecase.ErrDoctorNotFound):
			h.redirect(w, r, converter.DashboardPath(session.Role), dto.ErrorNotice("Doctor not found."))
		case errors.Is(err, usecase.ErrInvalidID):
			h.redirect(w, r, converter.DashboardPath(session.Role), dto.ErrorNotice(invalidIDMessage))
		default:
			h.redirect(w, r, converter.DashboardPath(session.Role), dto.ErrorNotice(loadDoctorsMessage))
		}
		return
	}
	h.page(w, r, http.StatusOK, "booking", "Book Appointment", view, nil)
}

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	req := dto.BookingRequest{
		DoctorID:  formValue(r, "doctorId"),
		PatientID: formValue(r, "patientId"),
		Date:      formValue(r, "date"),
		Time:      formValue(r, "time"),
	}
	back := withQuery(bookingPath, url.Values{"doctorId": {req.DoctorID}})
	if err := h.validator.Validate(&req); err != nil {
		h.redirect(w, r, back, h.validationNotice(err))
		return
	}

	result, err := h.appointmentUsecase.BookAppointment(r.Context(), h.session(r), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTokenRequired):
			h.sessionExpired(w, r)
		case errors.Is(err, usecase.ErrInvalidID):
			h.redirect(w, r, back, dto.ErrorNotice(invalidIDMessage))
		case errors.Is(err, entity.ErrMissingDateTime),
			errors.Is(err, entity.ErrInvalidDate),
			errors.Is(err, entity.ErrInvalidTime):
			h.redirect(w, r, back, dto.ErrorNotice(capitalize(err.Error())))
		default:
			h.redirect(w, r, back, failureNotice("Failed to book appointment", err))
		}
		return
	}
	h.redirect(w, r, result.Redirect, dto.SuccessNotice(result.Message))
}

func (h *AppointmentHandler) PatientAppointments(w http.ResponseWriter, r *http.Request) {
	query := dto.PatientAppointmentsQuery{
		Condition: queryValue(r, "condition"),
		Name:      queryValue(r, "name"),
	}

	var notice *dto.Notice
	if err := h.validator.Validate(&query); err != nil {
		notice = h.validationNotice(err)
		query = dto.PatientAppointmentsQuery{Name: query.Name}
	}

	view, err := h.appointmentUsecase.PatientAppointments(r.Context(), h.session(r), &query)
	if err != nil {
		if errors.Is(err, usecase.ErrTokenRequired) || errors.Is(err, usecase.ErrLoadPatientFailed) {
			h.redirect(w, r, "/", dto.ErrorNotice(loadPatientMessage))
			return
		}
		h.page(w, r, http.StatusOK, "patient_appointments", "My Appointments",
			dto.PatientAppointmentsView{Filter: query}, dto.ErrorNotice(loadAppointmentsMessage))
		return
	}
	h.page(w, r, http.StatusOK, "patient_appointments", "My Appointments", view, notice)
}

func dashboardQuery(r *http.Request) dto.DoctorDashboardQuery {
	return dto.DoctorDashboardQuery{
		PatientName: queryValue(r, "patientName"),
		Date:        queryValue(r, "date"),
		Today:       queryValue(r, "today") == "1",
	}
}

// appointmentsHome is where a role lands when an appointment page cannot be shown.
func appointmentsHome(role entity.Role) string {
	if role == entity.RoleLoggedPatient {
		return patientAppointmentsPath
	}
	return converter.DashboardPath(role)
}

// updateFormURL reopens the update page with the values it was first opened with.
func updateFormURL(req *dto.UpdateAppointmentRequest, role entity.Role) string {
	return withQuery(updateAppointmentPath, url.Values{
		"appointmentId":     {req.AppointmentID},
		"patientId":         {req.PatientID},
		"doctorId":          {req.DoctorID},
		"appointmentDate":   {req.OriginalDate},
		"appointmentTime":   {req.OriginalTime},
		"appointmentStatus": {req.OriginalStatus},
		"role":              {role.String()},
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
