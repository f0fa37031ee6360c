package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/service"
	"hospital-cms-portal/internal/usecase"

	"github.com/gorilla/mux"
)

type fakeDoctorUsecase struct {
	cards     []dto.DoctorCard
	filterErr error
	addErr    error
	deleteErr error
	filtered  []dto.DoctorFilterQuery
	deleted   []dto.DeleteDoctorRequest
}

func (f *fakeDoctorUsecase) ListCards(ctx context.Context, session *entity.Session) ([]dto.DoctorCard, error) {
	return f.cards, nil
}

func (f *fakeDoctorUsecase) FilterCards(ctx context.Context, session *entity.Session, query *dto.DoctorFilterQuery) ([]dto.DoctorCard, error) {
	f.filtered = append(f.filtered, *query)
	return f.cards, f.filterErr
}

func (f *fakeDoctorUsecase) AddDoctor(ctx context.Context, session *entity.Session, req *dto.CreateDoctorRequest) (string, error) {
	return "Doctor added successfully!", f.addErr
}

func (f *fakeDoctorUsecase) DeleteDoctor(ctx context.Context, session *entity.Session, req *dto.DeleteDoctorRequest) (string, error) {
	if !req.Confirmed {
		return "", usecase.ErrDeleteNotConfirmed
	}
	f.deleted = append(f.deleted, *req)
	return "Doctor deleted successfully.", f.deleteErr
}

func newDoctorHandler(t *testing.T, uc *fakeDoctorUsecase) (*DoctorHandler, *testEnv) {
	env := newTestEnv(t, entity.RoleAdmin, "admintoken")
	return NewDoctorHandler(env.base, uc), env
}

func deleteRequest(env *testEnv, id string, confirmed, htmx bool) *http.Request {
	form := url.Values{}
	if confirmed {
		form.Set("confirmed", "true")
	}
	req := env.request("/adminDashboard/doctors/"+id+"/delete", form, htmx)
	return mux.SetURLVars(req, map[string]string{"id": id})
}

func TestDoctorHandler_DeleteNotConfirmed(t *testing.T) {
	uc := &fakeDoctorUsecase{}
	h, env := newDoctorHandler(t, uc)

	rec := httptest.NewRecorder()
	h.DeleteDoctor(rec, deleteRequest(env, "7", false, true))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for htmx, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.DeleteDoctor(rec, deleteRequest(env, "7", false, false))
	assertRedirect(t, rec, "/adminDashboard")
	assertFlash(t, env, dto.NoticeInfo, "Deletion cancelled.")

	if len(uc.deleted) != 0 {
		t.Errorf("expected nothing deleted, got %v", uc.deleted)
	}
}

func TestDoctorHandler_DeleteHTMXRemovesCard(t *testing.T) {
	uc := &fakeDoctorUsecase{}
	h, env := newDoctorHandler(t, uc)

	rec := httptest.NewRecorder()
	h.DeleteDoctor(rec, deleteRequest(env, "7", true, true))

	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("expected empty 200, got %d %q", rec.Code, rec.Body.String())
	}
	if len(uc.deleted) != 1 || uc.deleted[0].ID != 7 {
		t.Errorf("expected doctor 7 deleted, got %v", uc.deleted)
	}
}

func TestDoctorHandler_DeleteWithoutHTMX(t *testing.T) {
	h, env := newDoctorHandler(t, &fakeDoctorUsecase{})

	rec := httptest.NewRecorder()
	h.DeleteDoctor(rec, deleteRequest(env, "7", true, false))
	assertRedirect(t, rec, "/adminDashboard")
	assertFlash(t, env, dto.NoticeSuccess, "Doctor deleted successfully.")
}

func TestDoctorHandler_DeleteFailureGoesToBanner(t *testing.T) {
	uc := &fakeDoctorUsecase{deleteErr: &entity.APIError{Kind: entity.ErrorKindStatus, Status: 409, Message: "Doctor has appointments"}}
	h, env := newDoctorHandler(t, uc)

	rec := httptest.NewRecorder()
	h.DeleteDoctor(rec, deleteRequest(env, "7", true, true))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 so htmx swaps, got %d", rec.Code)
	}
	if got := rec.Header().Get("HX-Retarget"); got != "#notice" {
		t.Errorf("expected retarget to #notice, got %q", got)
	}
	if !strings.Contains(rec.Body.String(), "Failed to delete doctor: Doctor has appointments") {
		t.Errorf("expected failure notice, got %q", rec.Body.String())
	}
}

func TestDoctorHandler_DeleteWithoutToken(t *testing.T) {
	uc := &fakeDoctorUsecase{deleteErr: usecase.ErrTokenRequired}
	h, env := newDoctorHandler(t, uc)

	rec := httptest.NewRecorder()
	h.DeleteDoctor(rec, deleteRequest(env, "7", true, false))
	assertRedirect(t, rec, "/")
	assertFlash(t, env, dto.NoticeError, "Admin token not found. Please log in again.")
}

func TestDoctorHandler_DeleteInvalidID(t *testing.T) {
	h, env := newDoctorHandler(t, &fakeDoctorUsecase{})

	rec := httptest.NewRecorder()
	h.DeleteDoctor(rec, deleteRequest(env, "abc", true, false))
	assertRedirect(t, rec, "/adminDashboard")
	assertFlash(t, env, dto.NoticeError, "Invalid doctor ID.")
}

func TestDoctorHandler_FilterDoctors(t *testing.T) {
	uc := &fakeDoctorUsecase{cards: []dto.DoctorCard{{ID: 1, DOMID: "doctor-1", Name: "Dr. Ann"}}}
	h, env := newDoctorHandler(t, uc)

	rec := httptest.NewRecorder()
	h.FilterDoctors(rec, env.request("/adminDashboard/doctors/filter?name=Ann&time=AM", nil, true))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `id="doctor-1"`) {
		t.Errorf("expected the card fragment, got %d %q", rec.Code, rec.Body.String())
	}
	want := dto.DoctorFilterQuery{Name: "Ann", Time: "AM"}
	if len(uc.filtered) != 1 || uc.filtered[0] != want {
		t.Errorf("expected query %+v, got %+v", want, uc.filtered)
	}
}

func TestDoctorHandler_FilterSuperseded(t *testing.T) {
	h, env := newDoctorHandler(t, &fakeDoctorUsecase{filterErr: service.ErrSuperseded})

	rec := httptest.NewRecorder()
	h.FilterDoctors(rec, env.request("/adminDashboard/doctors/filter?name=A", nil, true))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for a superseded filter, got %d", rec.Code)
	}
}

func TestDoctorHandler_FilterFailure(t *testing.T) {
	h, env := newDoctorHandler(t, &fakeDoctorUsecase{filterErr: usecase.ErrLoadDoctorsFailed})

	rec := httptest.NewRecorder()
	h.FilterDoctors(rec, env.request("/adminDashboard/doctors/filter?name=A", nil, true))
	if rec.Header().Get("HX-Retarget") != "#notice" || !strings.Contains(rec.Body.String(), "Failed to load doctors.") {
		t.Errorf("expected load failure notice, got %q", rec.Body.String())
	}
}

func TestDoctorHandler_CreateDoctorValidation(t *testing.T) {
	h, env := newDoctorHandler(t, &fakeDoctorUsecase{})

	form := url.Values{"name": {"Dr. Who"}, "specialty": {"General"}, "email": {"who@clinic.test"}, "phone": {"0123456789"}, "password": {"secret1"}}
	rec := httptest.NewRecorder()
	h.CreateDoctor(rec, env.request("/adminDashboard/doctors", form, false))

	assertRedirect(t, rec, "/adminDashboard#add-doctor")
	if notice := env.flash(t); notice == nil || notice.Level != dto.NoticeError {
		t.Errorf("expected a validation error flash, got %+v", notice)
	}
}

func TestDoctorHandler_CreateDoctor(t *testing.T) {
	h, env := newDoctorHandler(t, &fakeDoctorUsecase{})

	form := url.Values{
		"name":         {"Dr. Who"},
		"specialty":    {"General"},
		"email":        {"who@clinic.test"},
		"phone":        {"0123456789"},
		"password":     {"secret1"},
		"availability": {"09:00-10:00"},
	}
	rec := httptest.NewRecorder()
	h.CreateDoctor(rec, env.request("/adminDashboard/doctors", form, false))

	assertRedirect(t, rec, "/adminDashboard")
	assertFlash(t, env, dto.NoticeSuccess, "Doctor added successfully!")
}

func TestDoctorHandler_PatientDashboardLoginForms(t *testing.T) {
	tests := []struct {
		role      entity.Role
		token     string
		filterURL string
	}{
		{entity.RolePatient, "", "/pages/patientDashboard/doctors"},
		{entity.RoleLoggedPatient, "tok", "/pages/loggedPatientDashboard/doctors"},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			env := newTestEnv(t, tt.role, tt.token)
			h := NewDoctorHandler(env.base, &fakeDoctorUsecase{})

			rec := httptest.NewRecorder()
			h.PatientDashboard(rec, env.request("/pages/patientDashboard", nil, false))

			body := rec.Body.String()
			if !strings.Contains(body, tt.filterURL) {
				t.Errorf("expected filter url %q in page", tt.filterURL)
			}
			hasLogin := strings.Contains(body, `id="patient-login"`)
			if hasLogin != (tt.role == entity.RolePatient) {
				t.Errorf("expected login form only for the anonymous patient, got %v", hasLogin)
			}
		})
	}
}
