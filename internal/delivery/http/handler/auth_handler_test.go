package handler

import (
	"context"
	"fmt"
	"net/http/httptest"
	"net/url"
	"testing"

	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/usecase"
)

type fakeAuthUsecase struct {
	loginErr  error
	signupErr error
	logouts   int
}

func (f *fakeAuthUsecase) LoginAdmin(ctx context.Context, session *entity.Session, req *dto.AdminLoginRequest) (string, error) {
	return "/adminDashboard", f.loginErr
}

func (f *fakeAuthUsecase) LoginDoctor(ctx context.Context, session *entity.Session, req *dto.LoginRequest) (string, error) {
	return "/doctorDashboard", f.loginErr
}

func (f *fakeAuthUsecase) LoginPatient(ctx context.Context, session *entity.Session, req *dto.LoginRequest) (string, error) {
	return "/pages/loggedPatientDashboard", f.loginErr
}

func (f *fakeAuthUsecase) SignupPatient(ctx context.Context, req *dto.PatientSignupRequest) (string, error) {
	return "Signup successful, please log in.", f.signupErr
}

func (f *fakeAuthUsecase) SelectRole(ctx context.Context, session *entity.Session, req *dto.SelectRoleRequest) (string, error) {
	return "/pages/patientDashboard", nil
}

func (f *fakeAuthUsecase) EnterRoot(ctx context.Context, session *entity.Session) error {
	return nil
}

func (f *fakeAuthUsecase) Logout(ctx context.Context, session *entity.Session) error {
	f.logouts++
	return nil
}

func (f *fakeAuthUsecase) LogoutPatient(ctx context.Context, session *entity.Session) (string, error) {
	return "/pages/patientDashboard", nil
}

func TestAuthHandler_LoginOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		location string
		notice   *dto.Notice
	}{
		{"success", nil, "/doctorDashboard", nil},
		{"invalid credentials", fmt.Errorf("%w: %w", usecase.ErrInvalidCredentials, &entity.APIError{Kind: entity.ErrorKindUnauthorized}), "/", dto.ErrorNotice("Invalid credentials!")},
		{"backend down", usecase.ErrLoginFailed, "/", dto.ErrorNotice("Login failed. Please try again later.")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, entity.RoleAbsent, "")
			h := NewAuthHandler(env.base, &fakeAuthUsecase{loginErr: tt.err})

			form := url.Values{"email": {"doc@clinic.test"}, "password": {"pw"}}
			rec := httptest.NewRecorder()
			h.LoginDoctor(rec, env.request("/login/doctor", form, false))

			assertRedirect(t, rec, tt.location)
			if tt.notice == nil {
				if got := env.flash(t); got != nil {
					t.Errorf("expected no flash, got %+v", got)
				}
				return
			}
			assertFlash(t, env, tt.notice.Level, tt.notice.Message)
		})
	}
}

func TestAuthHandler_PatientLoginValidationStaysOnDashboard(t *testing.T) {
	env := newTestEnv(t, entity.RolePatient, "")
	h := NewAuthHandler(env.base, &fakeAuthUsecase{})

	rec := httptest.NewRecorder()
	h.LoginPatient(rec, env.request("/login/patient", url.Values{"email": {"not-an-email"}}, false))

	assertRedirect(t, rec, "/pages/patientDashboard#patient-login")
	if notice := env.flash(t); notice == nil || notice.Level != dto.NoticeError {
		t.Errorf("expected validation flash, got %+v", notice)
	}
}

func TestAuthHandler_HTMXLoginUsesHXRedirect(t *testing.T) {
	env := newTestEnv(t, entity.RoleAbsent, "")
	h := NewAuthHandler(env.base, &fakeAuthUsecase{})

	rec := httptest.NewRecorder()
	h.LoginAdmin(rec, env.request("/login/admin", url.Values{"username": {"root"}, "password": {"pw"}}, true))

	if got := rec.Header().Get("HX-Redirect"); got != "/adminDashboard" {
		t.Errorf("expected HX-Redirect to /adminDashboard, got %q", got)
	}
}

func TestAuthHandler_SignupPatient(t *testing.T) {
	form := url.Values{
		"name":     {"Jane Doe"},
		"email":    {"jane@x.test"},
		"password": {"secret1"},
		"phone":    {"0123456789"},
		"address":  {"1 Main St"},
	}

	env := newTestEnv(t, entity.RolePatient, "")
	h := NewAuthHandler(env.base, &fakeAuthUsecase{})
	rec := httptest.NewRecorder()
	h.SignupPatient(rec, env.request("/signup/patient", form, false))
	assertRedirect(t, rec, "/pages/patientDashboard#patient-login")
	assertFlash(t, env, dto.NoticeSuccess, "Signup successful, please log in.")

	env = newTestEnv(t, entity.RolePatient, "")
	h = NewAuthHandler(env.base, &fakeAuthUsecase{signupErr: fmt.Errorf("%w: %w", usecase.ErrSignupFailed, &entity.APIError{Kind: entity.ErrorKindStatus, Status: 409, Message: "Email already registered"})})
	rec = httptest.NewRecorder()
	h.SignupPatient(rec, env.request("/signup/patient", form, false))
	assertRedirect(t, rec, "/pages/patientDashboard#patient-signup")
	assertFlash(t, env, dto.NoticeError, "Signup failed: Email already registered")
}

func TestAuthHandler_LogoLogsOut(t *testing.T) {
	env := newTestEnv(t, entity.RoleAdmin, "tok")
	uc := &fakeAuthUsecase{}
	h := NewAuthHandler(env.base, uc)

	rec := httptest.NewRecorder()
	h.Logo(rec, env.request("/logo", nil, false))
	assertRedirect(t, rec, "/")
	if uc.logouts != 1 {
		t.Errorf("expected one logout, got %d", uc.logouts)
	}
}
