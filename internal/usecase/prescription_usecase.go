package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hospital-cms-portal/internal/converter"
	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/domain/repository"
	"hospital-cms-portal/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrSavePrescriptionFailed = errors.New("failed to save prescription")
	ErrPrescriptionReadOnly   = errors.New("prescription is view only for this appointment")
)

type PrescriptionUsecase interface {
	Form(ctx context.Context, session *entity.Session, query *dto.PrescriptionQuery) (*dto.PrescriptionView, error)
	Save(ctx context.Context, session *entity.Session, req *dto.SavePrescriptionRequest) (*dto.ActionResult, error)
}

type prescriptionUsecase struct {
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	auditService     service.AuditService
}

func NewPrescriptionUsecase(
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	auditService service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		log:              log,
		prescriptionRepo: prescriptionRepo,
		auditService:     auditService,
	}
}

// ResolvePrescriptionMode derives the page mode. A known appointment status always
// wins over the mode parameter; with neither, the page is read-only. Only a doctor
// ever gets the edit mode, Form enforces that on top.
func ResolvePrescriptionMode(status, mode string) entity.PrescriptionMode {
	if strings.TrimSpace(status) != "" {
		return entity.ModeForStatus(parseStatus(status))
	}
	if m, ok := entity.ParsePrescriptionMode(mode); ok {
		return m
	}
	return entity.ModeView
}

func (u *prescriptionUsecase) Form(ctx context.Context, session *entity.Session, query *dto.PrescriptionQuery) (*dto.PrescriptionView, error) {
	token, err := requireToken(session)
	if err != nil {
		return nil, err
	}

	appointmentID, err := parseID(query.AppointmentID)
	if err != nil {
		return nil, err
	}

	mode := ResolvePrescriptionMode(query.AppointmentStatus, query.Mode)
	if session.Role != entity.RoleDoctor {
		mode = entity.ModeView
	}
	view := &dto.PrescriptionView{
		Heading:       "View Prescription",
		Mode:          string(mode),
		Editable:      mode == entity.ModeEdit,
		AppointmentID: query.AppointmentID,
		PatientName:   query.PatientName,
		BackURL:       converter.DashboardPath(entity.RoleDoctor),
	}
	if session.Role == entity.RoleLoggedPatient {
		view.BackURL = "/pages/patientAppointments"
	}
	if view.Editable {
		view.Heading = "Add Prescription"
	}

	// A missing prescription, or one that cannot be loaded, leaves the form empty.
	prescriptions, err := u.prescriptionRepo.FindByAppointment(ctx, appointmentID, token)
	if err != nil {
		u.log.Warnf("Failed to load prescription for appointment %s: %+v", query.AppointmentID, err)
		return view, nil
	}
	if len(prescriptions) > 0 {
		existing := prescriptions[0]
		if existing.PatientName != "" {
			view.PatientName = existing.PatientName
		}
		view.Medication = existing.Medication
		view.Dosage = existing.Dosage
		view.DoctorNotes = existing.DoctorNotes
	}
	return view, nil
}

func (u *prescriptionUsecase) Save(ctx context.Context, session *entity.Session, req *dto.SavePrescriptionRequest) (*dto.ActionResult, error) {
	token, err := requireToken(session)
	if err != nil {
		return nil, err
	}
	if session.Role != entity.RoleDoctor {
		return nil, ErrPrescriptionReadOnly
	}
	appointmentID, err := parseID(req.AppointmentID)
	if err != nil {
		return nil, err
	}

	prescription := &entity.Prescription{
		PatientName:   strings.TrimSpace(req.PatientName),
		Medication:    strings.TrimSpace(req.Medication),
		Dosage:        strings.TrimSpace(req.Dosage),
		DoctorNotes:   strings.TrimSpace(req.DoctorNotes),
		AppointmentID: appointmentID,
	}

	message, err := u.prescriptionRepo.Save(ctx, prescription, token)
	if err != nil {
		u.log.Warnf("Failed to save prescription: %+v", err)
		u.auditService.LogFailure(ctx, entity.AuditActionPrescriptionCreate, session.Role, "appointment", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: %w", ErrSavePrescriptionFailed, err)
	}
	u.auditService.LogSuccess(ctx, entity.AuditActionPrescriptionCreate, session.Role, "appointment", req.AppointmentID)

	if message == "" {
		message = "Prescription saved successfully."
	}
	return &dto.ActionResult{Message: message, Redirect: converter.DashboardPath(entity.RoleDoctor)}, nil
}
