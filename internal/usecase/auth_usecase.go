package usecase

import (
	"context"
	"errors"
	"fmt"

	"hospital-cms-portal/internal/converter"
	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/domain/repository"
	"hospital-cms-portal/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginFailed        = errors.New("login failed")
	ErrSignupFailed       = errors.New("signup failed")
	ErrRoleNotSelectable  = errors.New("role cannot be selected without logging in")
	ErrTokenRequired      = errors.New("no auth token found, please log in again")
	ErrSessionWrite       = errors.New("failed to update session")
)

type AuthUsecase interface {
	LoginAdmin(ctx context.Context, session *entity.Session, req *dto.AdminLoginRequest) (string, error)
	LoginDoctor(ctx context.Context, session *entity.Session, req *dto.LoginRequest) (string, error)
	LoginPatient(ctx context.Context, session *entity.Session, req *dto.LoginRequest) (string, error)
	SignupPatient(ctx context.Context, req *dto.PatientSignupRequest) (string, error)
	SelectRole(ctx context.Context, session *entity.Session, req *dto.SelectRoleRequest) (string, error)
	EnterRoot(ctx context.Context, session *entity.Session) error
	Logout(ctx context.Context, session *entity.Session) error
	LogoutPatient(ctx context.Context, session *entity.Session) (string, error)
}

type authUsecase struct {
	log          *logrus.Logger
	sessions     *service.SessionStore
	auditService service.AuditService
	adminRepo    repository.AdminRepository
	doctorRepo   repository.DoctorRepository
	patientRepo  repository.PatientRepository
}

func NewAuthUsecase(
	log *logrus.Logger,
	sessions *service.SessionStore,
	auditService service.AuditService,
	adminRepo repository.AdminRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		sessions:     sessions,
		auditService: auditService,
		adminRepo:    adminRepo,
		doctorRepo:   doctorRepo,
		patientRepo:  patientRepo,
	}
}

// LoginAdmin returns the dashboard to redirect to.
func (u *authUsecase) LoginAdmin(ctx context.Context, session *entity.Session, req *dto.AdminLoginRequest) (string, error) {
	token, err := u.adminRepo.Login(ctx, req.Username, req.Password)
	if err != nil {
		u.auditService.LogFailure(ctx, entity.AuditActionAdminLogin, entity.RoleAdmin, "admin", "", err)
		return "", loginError(err)
	}
	u.auditService.LogSuccess(ctx, entity.AuditActionAdminLogin, entity.RoleAdmin, "admin", "")
	return u.startSession(ctx, session, entity.RoleAdmin, token)
}

func (u *authUsecase) LoginDoctor(ctx context.Context, session *entity.Session, req *dto.LoginRequest) (string, error) {
	token, err := u.doctorRepo.Login(ctx, req.Email, req.Password)
	if err != nil {
		u.auditService.LogFailure(ctx, entity.AuditActionDoctorLogin, entity.RoleDoctor, "doctor", "", err)
		return "", loginError(err)
	}
	u.auditService.LogSuccess(ctx, entity.AuditActionDoctorLogin, entity.RoleDoctor, "doctor", "")
	return u.startSession(ctx, session, entity.RoleDoctor, token)
}

func (u *authUsecase) LoginPatient(ctx context.Context, session *entity.Session, req *dto.LoginRequest) (string, error) {
	token, err := u.patientRepo.Login(ctx, req.Email, req.Password)
	if err != nil {
		u.auditService.LogFailure(ctx, entity.AuditActionPatientLogin, entity.RoleLoggedPatient, "patient", "", err)
		return "", loginError(err)
	}
	u.auditService.LogSuccess(ctx, entity.AuditActionPatientLogin, entity.RoleLoggedPatient, "patient", "")
	return u.startSession(ctx, session, entity.RoleLoggedPatient, token)
}

// SignupPatient registers a patient and returns the backend's confirmation message.
// The patient still has to log in afterwards.
func (u *authUsecase) SignupPatient(ctx context.Context, req *dto.PatientSignupRequest) (string, error) {
	message, err := u.patientRepo.Signup(ctx, converter.SignupRequestToEntity(req))
	if err != nil {
		u.log.Warnf("Failed to sign up patient: %+v", err)
		u.auditService.LogFailure(ctx, entity.AuditActionPatientSignup, entity.RolePatient, "patient", "", err)
		return "", fmt.Errorf("%w: %w", ErrSignupFailed, err)
	}
	u.auditService.LogSuccess(ctx, entity.AuditActionPatientSignup, entity.RolePatient, "patient", "")
	if message == "" {
		message = "Signup successful, please log in."
	}
	return message, nil
}

// SelectRole lets a visitor enter as an anonymous patient. Every other role is
// reached through its login.
func (u *authUsecase) SelectRole(ctx context.Context, session *entity.Session, req *dto.SelectRoleRequest) (string, error) {
	role := entity.ParseRole(req.Role)
	if role != entity.RolePatient {
		return "", ErrRoleNotSelectable
	}
	if err := u.sessions.SetRole(ctx, session, role); err != nil {
		return "", ErrSessionWrite
	}
	return converter.DashboardPath(role), nil
}

// EnterRoot drops the role so the landing page starts from role selection. The
// token is kept until an explicit logout.
func (u *authUsecase) EnterRoot(ctx context.Context, session *entity.Session) error {
	if session.Role == entity.RoleAbsent {
		return nil
	}
	if err := u.sessions.ClearRole(ctx, session); err != nil {
		return ErrSessionWrite
	}
	return nil
}

func (u *authUsecase) Logout(ctx context.Context, session *entity.Session) error {
	role := session.Role
	if err := u.sessions.Destroy(ctx, session); err != nil {
		return ErrSessionWrite
	}
	u.auditService.LogSuccess(ctx, entity.AuditActionLogout, role, "session", "")
	return nil
}

// LogoutPatient keeps the visitor browsing as an anonymous patient.
func (u *authUsecase) LogoutPatient(ctx context.Context, session *entity.Session) (string, error) {
	if err := u.sessions.ClearToken(ctx, session); err != nil {
		return "", ErrSessionWrite
	}
	if err := u.sessions.SetRole(ctx, session, entity.RolePatient); err != nil {
		return "", ErrSessionWrite
	}
	u.auditService.LogSuccess(ctx, entity.AuditActionLogout, entity.RoleLoggedPatient, "session", "")
	return converter.DashboardPath(entity.RolePatient), nil
}

// startSession stores the token before the role, so a concurrent request never
// observes a role that requires a token without one.
func (u *authUsecase) startSession(ctx context.Context, session *entity.Session, role entity.Role, token string) (string, error) {
	if err := u.sessions.SetToken(ctx, session, token); err != nil {
		return "", ErrSessionWrite
	}
	if err := u.sessions.SetRole(ctx, session, role); err != nil {
		return "", ErrSessionWrite
	}
	return converter.DashboardPath(role), nil
}

func loginError(err error) error {
	switch entity.ErrorKindOf(err) {
	case entity.ErrorKindUnauthorized, entity.ErrorKindNotFound:
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	return fmt.Errorf("%w: %w", ErrLoginFailed, err)
}

// requireToken is the one place page operations check for a backend token.
func requireToken(session *entity.Session) (string, error) {
	if !session.HasToken() {
		return "", ErrTokenRequired
	}
	return session.Token, nil
}
