package handler

import (
	"errors"
	"net/http"
	"strconv"

	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/service"
	"hospital-cms-portal/internal/usecase"
	"hospital-cms-portal/pkg/response"

	"github.com/gorilla/mux"
)

const (
	adminDashboardPath = "/adminDashboard"
	loadDoctorsMessage = "Failed to load doctors."
)

type DoctorHandler struct {
	*Base
	doctorUsecase usecase.DoctorUsecase
}

func NewDoctorHandler(base *Base, doctorUsecase usecase.DoctorUsecase) *DoctorHandler {
	return &DoctorHandler{
		Base:          base,
		doctorUsecase: doctorUsecase,
	}
}

func (h *DoctorHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	view := h.listView(r, adminDashboardPath+"/doctors/filter")
	view.CanAdd = true
	h.renderList(w, r, "admin_dashboard", "Admin Dashboard", view)
}

// PatientDashboard serves both the anonymous and the logged-in patient. Only the
// anonymous one sees the login and signup forms.
func (h *DoctorHandler) PatientDashboard(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	filterURL := "/pages/patientDashboard/doctors"
	if session.Role == entity.RoleLoggedPatient {
		filterURL = "/pages/loggedPatientDashboard/doctors"
	}
	view := h.listView(r, filterURL)
	view.ShowLogin = session.Role == entity.RolePatient
	h.renderList(w, r, "patient_dashboard", "Patient Dashboard", view)
}

// FilterDoctors answers the filter bar with the card grid fragment.
func (h *DoctorHandler) FilterDoctors(w http.ResponseWriter, r *http.Request) {
	query := doctorFilterQuery(r)
	if err := h.validator.Validate(&query); err != nil {
		h.fragmentNotice(w, h.validationNotice(err))
		return
	}

	cards, err := h.doctorUsecase.FilterCards(r.Context(), h.session(r), &query)
	if err != nil {
		if errors.Is(err, service.ErrSuperseded) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.fragmentNotice(w, dto.ErrorNotice(loadDoctorsMessage))
		return
	}
	h.renderer.Fragment(w, http.StatusOK, "doctor-cards", cards)
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	req := dto.CreateDoctorRequest{
		Name:           formValue(r, "name"),
		Specialty:      formValue(r, "specialty"),
		Email:          formValue(r, "email"),
		Phone:          formValue(r, "phone"),
		Password:       r.FormValue("password"),
		AvailableTimes: formValues(r, "availability"),
	}
	if err := h.validator.Validate(&req); err != nil {
		h.redirect(w, r, adminDashboardPath+"#add-doctor", h.validationNotice(err))
		return
	}

	message, err := h.doctorUsecase.AddDoctor(r.Context(), h.session(r), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrTokenRequired) {
			h.sessionExpired(w, r)
			return
		}
		h.redirect(w, r, adminDashboardPath+"#add-doctor", failureNotice("Failed to add doctor", err))
		return
	}
	h.redirect(w, r, adminDashboardPath, dto.SuccessNotice(message))
}

// DeleteDoctor removes a doctor once the admin confirmed. For htmx the empty body
// replaces the card; otherwise the dashboard is reloaded.
func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.redirect(w, r, adminDashboardPath, dto.ErrorNotice("Invalid doctor ID."))
		return
	}

	req := dto.DeleteDoctorRequest{ID: id, Confirmed: formValue(r, "confirmed") == "true"}
	if err := h.validator.Validate(&req); err != nil {
		h.redirect(w, r, adminDashboardPath, h.validationNotice(err))
		return
	}

	message, err := h.doctorUsecase.DeleteDoctor(r.Context(), h.session(r), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDeleteNotConfirmed):
			if response.IsHTMX(r) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			h.redirect(w, r, adminDashboardPath, dto.InfoNotice("Deletion cancelled."))
		case errors.Is(err, usecase.ErrTokenRequired):
			h.redirect(w, r, "/", dto.ErrorNotice("Admin token not found. Please log in again."))
		default:
			notice := failureNotice("Failed to delete doctor", err)
			if response.IsHTMX(r) {
				h.fragmentNotice(w, notice)
				return
			}
			h.redirect(w, r, adminDashboardPath, notice)
		}
		return
	}

	if response.IsHTMX(r) {
		response.NoContent(w)
		return
	}
	h.redirect(w, r, adminDashboardPath, dto.SuccessNotice(message))
}

func (h *DoctorHandler) listView(r *http.Request, filterURL string) dto.DoctorListView {
	return dto.DoctorListView{
		Filter:           doctorFilterQuery(r),
		FilterURL:        filterURL,
		TimeOptions:      dto.TimeOptions,
		SpecialtyOptions: dto.SpecialtyOptions,
		SlotOptions:      dto.SlotOptions,
	}
}

// renderList loads the full list, or the filtered one when the page was opened
// with filter parameters.
func (h *DoctorHandler) renderList(w http.ResponseWriter, r *http.Request, name, title string, view dto.DoctorListView) {
	session := h.session(r)

	var (
		cards []dto.DoctorCard
		err   error
	)
	if view.Filter == (dto.DoctorFilterQuery{}) {
		cards, err = h.doctorUsecase.ListCards(r.Context(), session)
	} else {
		cards, err = h.doctorUsecase.FilterCards(r.Context(), session, &view.Filter)
	}

	var notice *dto.Notice
	if err != nil {
		notice = dto.ErrorNotice(loadDoctorsMessage)
		cards = []dto.DoctorCard{}
	}
	view.Cards = cards
	h.page(w, r, http.StatusOK, name, title, view, notice)
}

func doctorFilterQuery(r *http.Request) dto.DoctorFilterQuery {
	return dto.DoctorFilterQuery{
		Name:      queryValue(r, "name"),
		Time:      queryValue(r, "time"),
		Specialty: queryValue(r, "specialty"),
	}
}
