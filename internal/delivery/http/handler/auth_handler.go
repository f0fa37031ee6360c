package handler

import (
	"errors"
	"net/http"

	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/usecase"
)

const (
	invalidCredentialsMessage = "Invalid credentials!"
	loginFailedMessage        = "Login failed. Please try again later."
	patientLoginPath          = "/pages/patientDashboard#patient-login"
	patientSignupPath         = "/pages/patientDashboard#patient-signup"
)

type AuthHandler struct {
	*Base
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(base *Base, authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		Base:        base,
		authUsecase: authUsecase,
	}
}

// Root is the role selection page. Entering it drops the current role.
func (h *AuthHandler) Root(w http.ResponseWriter, r *http.Request) {
	if err := h.authUsecase.EnterRoot(r.Context(), h.session(r)); err != nil {
		h.log.Warnf("Failed to reset role on root: %+v", err)
	}
	h.page(w, r, http.StatusOK, "root", "Select Role", dto.RootView{}, nil)
}

func (h *AuthHandler) SelectRole(w http.ResponseWriter, r *http.Request) {
	req := dto.SelectRoleRequest{Role: formValue(r, "role")}
	if err := h.validator.Validate(&req); err != nil {
		h.redirect(w, r, "/", dto.ErrorNotice("Please log in to continue with that role."))
		return
	}

	location, err := h.authUsecase.SelectRole(r.Context(), h.session(r), &req)
	if err != nil {
		h.redirect(w, r, "/", dto.ErrorNotice("Please log in to continue with that role."))
		return
	}
	h.redirect(w, r, location, nil)
}

func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	req := dto.AdminLoginRequest{
		Username: formValue(r, "username"),
		Password: r.FormValue("password"),
	}
	if err := h.validator.Validate(&req); err != nil {
		h.redirect(w, r, "/", h.validationNotice(err))
		return
	}

	location, err := h.authUsecase.LoginAdmin(r.Context(), h.session(r), &req)
	h.finishLogin(w, r, location, "/", err)
}

func (h *AuthHandler) LoginDoctor(w http.ResponseWriter, r *http.Request) {
	req := dto.LoginRequest{
		Email:    formValue(r, "email"),
		Password: r.FormValue("password"),
	}
	if err := h.validator.Validate(&req); err != nil {
		h.redirect(w, r, "/", h.validationNotice(err))
		return
	}

	location, err := h.authUsecase.LoginDoctor(r.Context(), h.session(r), &req)
	h.finishLogin(w, r, location, "/", err)
}

func (h *AuthHandler) LoginPatient(w http.ResponseWriter, r *http.Request) {
	req := dto.LoginRequest{
		Email:    formValue(r, "email"),
		Password: r.FormValue("password"),
	}
	if err := h.validator.Validate(&req); err != nil {
		h.redirect(w, r, patientLoginPath, h.validationNotice(err))
		return
	}

	location, err := h.authUsecase.LoginPatient(r.Context(), h.session(r), &req)
	h.finishLogin(w, r, location, patientLoginPath, err)
}

func (h *AuthHandler) SignupPatient(w http.ResponseWriter, r *http.Request) {
	req := dto.PatientSignupRequest{
		Name:     formValue(r, "name"),
		Email:    formValue(r, "email"),
		Password: r.FormValue("password"),
		Phone:    formValue(r, "phone"),
		Address:  formValue(r, "address"),
	}
	if err := h.validator.Validate(&req); err != nil {
		h.redirect(w, r, patientSignupPath, h.validationNotice(err))
		return
	}

	message, err := h.authUsecase.SignupPatient(r.Context(), &req)
	if err != nil {
		h.redirect(w, r, patientSignupPath, failureNotice("Signup failed", err))
		return
	}
	h.redirect(w, r, patientLoginPath, dto.SuccessNotice(message))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authUsecase.Logout(r.Context(), h.session(r)); err != nil {
		h.log.Errorf("Failed to log out: %+v", err)
	}
	h.redirect(w, r, "/", nil)
}

func (h *AuthHandler) LogoutPatient(w http.ResponseWriter, r *http.Request) {
	location, err := h.authUsecase.LogoutPatient(r.Context(), h.session(r))
	if err != nil {
		h.log.Errorf("Failed to log out patient: %+v", err)
		location = "/"
	}
	h.redirect(w, r, location, nil)
}

// Logo is the header logo link: it always ends the session and goes to root.
func (h *AuthHandler) Logo(w http.ResponseWriter, r *http.Request) {
	h.Logout(w, r)
}

func (h *AuthHandler) finishLogin(w http.ResponseWriter, r *http.Request, location, failurePath string, err error) {
	switch {
	case err == nil:
		h.redirect(w, r, location, nil)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		h.redirect(w, r, failurePath, dto.ErrorNotice(invalidCredentialsMessage))
	default:
		h.log.Warnf("Login failed: %+v", err)
		h.redirect(w, r, failurePath, dto.ErrorNotice(loginFailedMessage))
	}
}
