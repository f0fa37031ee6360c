package handler

import (
	"errors"
	"net/http"
	"net/url"

	"hospital-cms-portal/internal/converter"
	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/usecase"
)

const prescriptionPath = "/pages/addPrescription"

type PrescriptionHandler struct {
	*Base
	prescriptionUsecase usecase.PrescriptionUsecase
}

func NewPrescriptionHandler(base *Base, prescriptionUsecase usecase.PrescriptionUsecase) *PrescriptionHandler {
	return &PrescriptionHandler{
		Base:                base,
		prescriptionUsecase: prescriptionUsecase,
	}
}

func (h *PrescriptionHandler) Form(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	query := dto.PrescriptionQuery{
		AppointmentID:     queryValue(r, "appointmentId"),
		PatientID:         queryValue(r, "patientId"),
		PatientName:       queryValue(r, "patientName"),
		DoctorID:          queryValue(r, "doctorId"),
		DoctorName:        queryValue(r, "doctorName"),
		AppointmentStatus: queryValue(r, "appointmentStatus"),
		Mode:              queryValue(r, "mode"),
	}
	if err := h.validator.Validate(&query); err != nil {
		h.redirect(w, r, appointmentsHome(session.Role), h.validationNotice(err))
		return
	}

	view, err := h.prescriptionUsecase.Form(r.Context(), session, &query)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidID) {
			h.redirect(w, r, appointmentsHome(session.Role), dto.ErrorNotice(invalidIDMessage))
			return
		}
		h.sessionExpired(w, r)
		return
	}
	h.page(w, r, http.StatusOK, "add_prescription", view.Heading, view, nil)
}

func (h *PrescriptionHandler) Save(w http.ResponseWriter, r *http.Request) {
	req := dto.SavePrescriptionRequest{
		AppointmentID: formValue(r, "appointmentId"),
		PatientName:   formValue(r, "patientName"),
		Medication:    formValue(r, "medication"),
		Dosage:        formValue(r, "dosage"),
		DoctorNotes:   formValue(r, "doctorNotes"),
	}
	back := withQuery(prescriptionPath, url.Values{
		"appointmentId": {req.AppointmentID},
		"patientName":   {req.PatientName},
		"mode":          {"edit"},
	})
	if err := h.validator.Validate(&req); err != nil {
		h.redirect(w, r, back, h.validationNotice(err))
		return
	}

	result, err := h.prescriptionUsecase.Save(r.Context(), h.session(r), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTokenRequired):
			h.sessionExpired(w, r)
		case errors.Is(err, usecase.ErrInvalidID):
			h.redirect(w, r, back, dto.ErrorNotice(invalidIDMessage))
		case errors.Is(err, usecase.ErrPrescriptionReadOnly):
			h.redirect(w, r, converter.DashboardPath(h.session(r).Role), dto.ErrorNotice("This prescription can only be viewed."))
		default:
			h.redirect(w, r, back, failureNotice("Failed to save prescription", err))
		}
		return
	}
	h.redirect(w, r, result.Redirect, dto.SuccessNotice(result.Message))
}
