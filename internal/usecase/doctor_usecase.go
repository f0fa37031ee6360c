package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"hospital-cms-portal/internal/converter"
	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/domain/repository"
	"hospital-cms-portal/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrLoadDoctorsFailed  = errors.New("failed to load doctors")
	ErrAddDoctorFailed    = errors.New("failed to add doctor")
	ErrDeleteNotConfirmed = errors.New("doctor deletion was not confirmed")
	ErrDeleteDoctorFailed = errors.New("failed to delete doctor")
)

const doctorFilterScope = "doctors"

type DoctorUsecase interface {
	ListCards(ctx context.Context, session *entity.Session) ([]dto.DoctorCard, error)
	FilterCards(ctx context.Context, session *entity.Session, query *dto.DoctorFilterQuery) ([]dto.DoctorCard, error)
	AddDoctor(ctx context.Context, session *entity.Session, req *dto.CreateDoctorRequest) (string, error)
	DeleteDoctor(ctx context.Context, session *entity.Session, req *dto.DeleteDoctorRequest) (string, error)
}

type doctorUsecase struct {
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	coordinator  *service.FilterCoordinator
	auditService service.AuditService
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	coordinator *service.FilterCoordinator,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		log:          log,
		doctorRepo:   doctorRepo,
		coordinator:  coordinator,
		auditService: auditService,
	}
}

func (u *doctorUsecase) ListCards(ctx context.Context, session *entity.Session) ([]dto.DoctorCard, error) {
	doctors, err := u.doctorRepo.List(ctx)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadDoctorsFailed, err)
	}
	return converter.DoctorsToCards(doctors, session.Role), nil
}

// FilterCards runs through the filter coordinator, so it returns service.ErrSuperseded
// when a newer filter from the same session overtook it.
func (u *doctorUsecase) FilterCards(ctx context.Context, session *entity.Session, query *dto.DoctorFilterQuery) ([]dto.DoctorCard, error) {
	filter := entity.NewDoctorFilter(query.Name, query.Time, query.Specialty)

	var doctors []entity.Doctor
	err := u.coordinator.Run(ctx, service.FilterKey(session.ID, doctorFilterScope), func(ctx context.Context) error {
		var err error
		doctors, err = u.doctorRepo.Filter(ctx, filter)
		return err
	})
	if err != nil {
		if errors.Is(err, service.ErrSuperseded) {
			return nil, err
		}
		u.log.Warnf("Failed to filter doctors: %+v", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadDoctorsFailed, err)
	}
	return converter.DoctorsToCards(doctors, session.Role), nil
}

func (u *doctorUsecase) AddDoctor(ctx context.Context, session *entity.Session, req *dto.CreateDoctorRequest) (string, error) {
	token, err := requireToken(session)
	if err != nil {
		return "", err
	}

	message, err := u.doctorRepo.Create(ctx, converter.DoctorRequestToEntity(req), token)
	if err != nil {
		u.log.Warnf("Failed to add doctor: %+v", err)
		u.auditService.LogFailure(ctx, entity.AuditActionDoctorCreate, session.Role, "doctor", "", err)
		return "", fmt.Errorf("%w: %w", ErrAddDoctorFailed, err)
	}

	u.auditService.LogSuccess(ctx, entity.AuditActionDoctorCreate, session.Role, "doctor", "")
	if message == "" {
		message = "Doctor added successfully!"
	}
	return message, nil
}

// DeleteDoctor sends nothing to the backend unless the deletion was confirmed.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, session *entity.Session, req *dto.DeleteDoctorRequest) (string, error) {
	if !req.Confirmed {
		return "", ErrDeleteNotConfirmed
	}
	token, err := requireToken(session)
	if err != nil {
		return "", err
	}

	id := strconv.FormatInt(req.ID, 10)
	message, err := u.doctorRepo.Delete(ctx, req.ID, token)
	if err != nil {
		u.log.Warnf("Failed to delete doctor %d: %+v", req.ID, err)
		u.auditService.LogFailure(ctx, entity.AuditActionDoctorDelete, session.Role, "doctor", id, err)
		return "", fmt.Errorf("%w: %w", ErrDeleteDoctorFailed, err)
	}

	u.auditService.LogSuccess(ctx, entity.AuditActionDoctorDelete, session.Role, "doctor", id)
	if message == "" {
		message = "Doctor deleted successfully."
	}
	return message, nil
}
