package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hospital-cms-portal/internal/converter"
	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/domain/repository"
	"hospital-cms-portal/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrLoadAppointmentsFailed  = errors.New("failed to load appointments")
	ErrUpdateAppointmentFailed = errors.New("failed to update appointment")
	ErrCancelNotConfirmed      = errors.New("appointment cancellation was not confirmed")
	ErrCancelNotAllowed        = errors.New("doctors cannot delete appointments")
	ErrCancelAppointmentFailed = errors.New("failed to delete appointment")
	ErrBookAppointmentFailed   = errors.New("failed to book appointment")
	ErrLoadPatientFailed       = errors.New("failed to fetch patient details")
	ErrInvalidID               = errors.New("invalid id")
)

const (
	doctorAppointmentsScope = "appointments"
	dateLayout              = "2006-01-02"

	loadAppointmentsErrorText = "Error loading appointments. Try again later."
)

type AppointmentUsecase interface {
	DoctorDashboard(ctx context.Context, session *entity.Session, query *dto.DoctorDashboardQuery) (*dto.DoctorDashboardView, error)
	FilterDoctorAppointments(ctx context.Context, session *entity.Session, query *dto.DoctorDashboardQuery) (*dto.AppointmentTable, error)
	PatientRecord(ctx context.Context, session *entity.Session, query *dto.PatientRecordQuery) (*dto.PatientRecordView, error)
	UpdateForm(ctx context.Context, session *entity.Session, query *dto.UpdateAppointmentQuery) (*dto.UpdateAppointmentView, error)
	UpdateAppointment(ctx context.Context, session *entity.Session, req *dto.UpdateAppointmentRequest) (*dto.ActionResult, error)
	CancelAppointment(ctx context.Context, session *entity.Session, req *dto.CancelAppointmentRequest) (*dto.ActionResult, error)
	BookingForm(ctx context.Context, session *entity.Session, query *dto.BookingQuery) (*dto.BookingView, error)
	BookAppointment(ctx context.Context, session *entity.Session, req *dto.BookingRequest) (*dto.ActionResult, error)
	PatientAppointments(ctx context.Context, session *entity.Session, query *dto.PatientAppointmentsQuery) (*dto.PatientAppointmentsView, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
	coordinator     *service.FilterCoordinator
	auditService    service.AuditService
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	coordinator *service.FilterCoordinator,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		coordinator:     coordinator,
		auditService:    auditService,
		now:             time.Now,
	}
}

// DoctorDashboard never fails on backend errors; they become the table's notice row.
func (u *appointmentUsecase) DoctorDashboard(ctx context.Context, session *entity.Session, query *dto.DoctorDashboardQuery) (*dto.DoctorDashboardView, error) {
	token, err := requireToken(session)
	if err != nil {
		return nil, err
	}

	resolved := u.resolveDashboardQuery(query)
	appointments, err := u.appointmentRepo.List(ctx, u.appointmentFilter(resolved), token)

	return &dto.DoctorDashboardView{
		Query:     resolved,
		FilterURL: "/doctorDashboard/appointments",
		Table:     u.appointmentTable(appointments, err),
	}, nil
}

// FilterDoctorAppointments returns service.ErrSuperseded when a newer search from
// the same session overtook this one.
func (u *appointmentUsecase) FilterDoctorAppointments(ctx context.Context, session *entity.Session, query *dto.DoctorDashboardQuery) (*dto.AppointmentTable, error) {
	token, err := requireToken(session)
	if err != nil {
		return nil, err
	}

	filter := u.appointmentFilter(u.resolveDashboardQuery(query))

	var appointments []entity.Appointment
	err = u.coordinator.Run(ctx, service.FilterKey(session.ID, doctorAppointmentsScope), func(ctx context.Context) error {
		var err error
		appointments, err = u.appointmentRepo.List(ctx, filter, token)
		return err
	})
	if errors.Is(err, service.ErrSuperseded) {
		return nil, err
	}

	table := u.appointmentTable(appointments, err)
	return &table, nil
}

func (u *appointmentUsecase) resolveDashboardQuery(query *dto.DoctorDashboardQuery) dto.DoctorDashboardQuery {
	resolved := *query
	if resolved.Today {
		resolved.Date = u.now().Format(dateLayout)
	}
	return resolved
}

func (u *appointmentUsecase) appointmentFilter(query dto.DoctorDashboardQuery) entity.AppointmentFilter {
	return entity.AppointmentFilter{
		PatientName: entity.NormalizeFilterValue(query.PatientName),
		Date:        entity.NormalizeFilterValue(query.Date),
	}
}

func (u *appointmentUsecase) appointmentTable(appointments []entity.Appointment, err error) dto.AppointmentTable {
	if err != nil {
		u.log.Warnf("Failed to load appointments: %+v", err)
		return dto.AppointmentTable{Notice: dto.ErrorNotice(loadAppointmentsErrorText)}
	}
	if len(appointments) == 0 {
		return dto.AppointmentTable{Empty: true}
	}
	return dto.AppointmentTable{Rows: converter.AppointmentsToPatientRows(appointments)}
}

func (u *appointmentUsecase) PatientRecord(ctx context.Context, session *entity.Session, query *dto.PatientRecordQuery) (*dto.PatientRecordView, error) {
	token, err := requireToken(session)
	if err != nil {
		return nil, err
	}

	view := &dto.PatientRecordView{
		PatientID: query.ID,
		DoctorID:  query.DoctorID,
		Rows:      []dto.RecordRow{},
	}

	patientID, err := parseID(query.ID)
	if err != nil {
		return nil, err
	}

	var appointments []entity.Appointment
	switch session.Role {
	case entity.RolePatient:
		appointments, err = u.patientRepo.Appointments(ctx, patientID, token)
	case entity.RoleDoctor:
		var all []entity.Appointment
		all, err = u.appointmentRepo.List(ctx, entity.AppointmentFilter{PatientName: entity.NormalizeFilterValue(query.Name)}, token)
		want := strconv.FormatInt(patientID, 10)
		for _, appointment := range all {
			if appointment.PatientIDValue() == want {
				appointments = append(appointments, appointment)
			}
		}
	default:
		u.log.Warnf("Unsupported role for patient record: %q", session.Role)
		return view, nil
	}
	if err != nil {
		u.log.Warnf("Failed to load patient record: %+v", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadAppointmentsFailed, err)
	}

	view.Rows = converter.AppointmentsToRecordRows(appointments, session.Role)
	return view, nil
}

// UpdateForm gates fields by the session role. The role in the query is echoed
// back for links but never trusted.
func (u *appointmentUsecase) UpdateForm(ctx context.Context, session *entity.Session, query *dto.UpdateAppointmentQuery) (*dto.UpdateAppointmentView, error) {
	if _, err := requireToken(session); err != nil {
		return nil, err
	}

	doctorID, err := parseID(query.DoctorID)
	if err != nil {
		return nil, err
	}
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	patientName := query.PatientName
	if patientName == "" {
		patientName = "You"
	}
	doctorName := query.DoctorName
	if doctorName == "" {
		doctorName = doctor.Name
	}

	view := &dto.UpdateAppointmentView{
		AppointmentID:   query.AppointmentID,
		PatientID:       query.PatientID,
		PatientName:     patientName,
		DoctorID:        query.DoctorID,
		DoctorName:      doctorName,
		AppointmentDate: query.AppointmentDate,
		AppointmentTime: query.AppointmentTime,
		Status:          query.AppointmentStatus,
		Role:            session.Role.String(),
		TimeOptions:     doctor.AvailableTimes,
		StatusOptions:   statusOptions(query.AppointmentStatus),
		DateEditable:    true,
		TimeEditable:    true,
		StatusEditable:  true,
		CanDelete:       true,
		BackURL:         updateRedirect(session.Role, query.PatientID, query.DoctorID),
	}

	switch session.Role {
	case entity.RoleLoggedPatient:
		view.StatusEditable = false
	case entity.RoleDoctor:
		view.DateEditable = false
		view.TimeEditable = false
		view.CanDelete = false
	}
	return view, nil
}

// UpdateAppointment enforces the same role gating as UpdateForm: a doctor keeps the
// original date and time, a logged patient keeps the original status.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, session *entity.Session, req *dto.UpdateAppointmentRequest) (*dto.ActionResult, error) {
	token, err := requireToken(session)
	if err != nil {
		return nil, err
	}

	date, timeRange, status := req.Date, req.Time, req.Status
	switch session.Role {
	case entity.RoleDoctor:
		date, timeRange = req.OriginalDate, req.OriginalTime
	case entity.RoleLoggedPatient:
		status = req.OriginalStatus
	}
	if status == "" {
		status = req.OriginalStatus
	}

	ids, err := parseIDs(req.AppointmentID, req.DoctorID, req.PatientID)
	if err != nil {
		return nil, err
	}

	appointmentTime, err := entity.CanonicalAppointmentTime(date, timeRange)
	if err != nil {
		return nil, err
	}

	update := &entity.AppointmentUpdate{
		ID:              ids[0],
		Doctor:          entity.ReferenceByID{ID: ids[1]},
		Patient:         entity.ReferenceByID{ID: ids[2]},
		AppointmentTime: appointmentTime,
		Status:          parseStatus(status),
	}

	message, err := u.appointmentRepo.Update(ctx, update, token)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", req.AppointmentID, err)
		u.auditService.LogFailure(ctx, entity.AuditActionAppointmentUpdate, session.Role, "appointment", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: %w", ErrUpdateAppointmentFailed, err)
	}
	u.auditService.LogSuccess(ctx, entity.AuditActionAppointmentUpdate, session.Role, "appointment", req.AppointmentID)

	if message == "" {
		message = "Appointment updated successfully!"
	}
	return &dto.ActionResult{
		Message:  message,
		Redirect: updateRedirect(session.Role, req.PatientID, req.DoctorID),
	}, nil
}

// CancelAppointment sends nothing unless confirmed, and never for a doctor.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, session *entity.Session, req *dto.CancelAppointmentRequest) (*dto.ActionResult, error) {
	if !req.Confirmed {
		return nil, ErrCancelNotConfirmed
	}
	if session.Role == entity.RoleDoctor {
		return nil, ErrCancelNotAllowed
	}
	token, err := requireToken(session)
	if err != nil {
		return nil, err
	}
	appointmentID, err := parseID(req.AppointmentID)
	if err != nil {
		return nil, err
	}

	message, err := u.appointmentRepo.Cancel(ctx, appointmentID, token)
	if err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", req.AppointmentID, err)
		u.auditService.LogFailure(ctx, entity.AuditActionAppointmentCancel, session.Role, "appointment", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: %w", ErrCancelAppointmentFailed, err)
	}
	u.auditService.LogSuccess(ctx, entity.AuditActionAppointmentCancel, session.Role, "appointment", req.AppointmentID)

	if message == "" {
		message = "Appointment deleted successfully!"
	}
	return &dto.ActionResult{Message: message, Redirect: "/pages/patientAppointments"}, nil
}

func (u *appointmentUsecase) BookingForm(ctx context.Context, session *entity.Session, query *dto.BookingQuery) (*dto.BookingView, error) {
	token, err := requireToken(session)
	if err != nil {
		return nil, err
	}
	doctorID, err := parseID(query.DoctorID)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientRepo.FindByToken(ctx, token)
	if err != nil {
		u.log.Warnf("Failed to fetch patient details: %+v", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadPatientFailed, err)
	}

	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	return &dto.BookingView{
		DoctorID:     doctor.ID,
		DoctorName:   doctor.Name,
		Specialty:    doctor.Specialty,
		PatientID:    patient.ID,
		PatientName:  patient.Name,
		PatientEmail: patient.Email,
		TimeOptions:  doctor.AvailableTimes,
		MinDate:      u.now().Format(dateLayout),
	}, nil
}

func (u *appointmentUsecase) BookAppointment(ctx context.Context, session *entity.Session, req *dto.BookingRequest) (*dto.ActionResult, error) {
	token, err := requireToken(session)
	if err != nil {
		return nil, err
	}

	ids, err := parseIDs(req.DoctorID, req.PatientID)
	if err != nil {
		return nil, err
	}

	appointmentTime, err := entity.CanonicalAppointmentTime(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	booking := &entity.AppointmentUpdate{
		Doctor:          entity.ReferenceByID{ID: ids[0]},
		Patient:         entity.ReferenceByID{ID: ids[1]},
		AppointmentTime: appointmentTime,
	}

	message, err := u.appointmentRepo.Book(ctx, booking, token)
	if err != nil {
		u.log.Warnf("Failed to book appointment: %+v", err)
		u.auditService.LogFailure(ctx, entity.AuditActionAppointmentBook, session.Role, "doctor", req.DoctorID, err)
		return nil, fmt.Errorf("%w: %w", ErrBookAppointmentFailed, err)
	}
	u.auditService.LogSuccess(ctx, entity.AuditActionAppointmentBook, session.Role, "doctor", req.DoctorID)

	if message == "" {
		message = "Appointment booked successfully"
	}
	return &dto.ActionResult{Message: message, Redirect: "/pages/patientAppointments"}, nil
}

func (u *appointmentUsecase) PatientAppointments(ctx context.Context, session *entity.Session, query *dto.PatientAppointmentsQuery) (*dto.PatientAppointmentsView, error) {
	token, err := requireToken(session)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientRepo.FindByToken(ctx, token)
	if err != nil {
		u.log.Warnf("Failed to fetch patient details: %+v", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadPatientFailed, err)
	}

	filter := entity.PatientAppointmentFilter{
		Condition:  entity.NormalizeFilterValue(query.Condition),
		DoctorName: entity.NormalizeFilterValue(query.Name),
	}

	var appointments []entity.Appointment
	if filter.Condition == "" && filter.DoctorName == "" {
		appointments, err = u.patientRepo.Appointments(ctx, patient.ID, token)
	} else {
		appointments, err = u.patientRepo.FilterAppointments(ctx, filter, token)
	}
	if err != nil {
		u.log.Warnf("Failed to load patient appointments: %+v", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadAppointmentsFailed, err)
	}

	for i := range appointments {
		if appointments[i].PatientID == nil && appointments[i].Patient == nil {
			id := patient.ID
			appointments[i].PatientID = &id
		}
	}

	return &dto.PatientAppointmentsView{
		PatientName: patient.Name,
		Rows:        converter.AppointmentsToRecordRows(appointments, session.Role),
		Filter:      *query,
	}, nil
}

func (u *appointmentUsecase) findDoctor(ctx context.Context, id int64) (*entity.Doctor, error) {
	doctors, err := u.doctorRepo.List(ctx)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadDoctorsFailed, err)
	}
	for i := range doctors {
		if doctors[i].ID == id {
			return &doctors[i], nil
		}
	}
	return nil, ErrDoctorNotFound
}

func updateRedirect(role entity.Role, patientID, doctorID string) string {
	switch role {
	case entity.RoleLoggedPatient:
		return "/pages/patientAppointments"
	case entity.RoleDoctor:
		return "/pages/patientRecord?" + url.Values{"id": {patientID}, "doctorId": {doctorID}}.Encode()
	}
	return converter.DashboardPath(role)
}

func statusOptions(current string) []dto.StatusOption {
	options := make([]dto.StatusOption, 0, len(dto.StatusLabels)+1)
	found := false
	for _, option := range dto.StatusLabels {
		option.Selected = option.Value == current
		found = found || option.Selected
		options = append(options, option)
	}
	if !found && current != "" {
		options = append(options, dto.StatusOption{Value: current, Label: "Status " + current, Selected: true})
	}
	return options
}

// parseID accepts only positive decimal ids written with digits.
func parseID(s string) (int64, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

func parseIDs(values ...string) ([]int64, error) {
	ids := make([]int64, len(values))
	for i, v := range values {
		id, err := parseID(v)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func parseStatus(s string) int {
	status, _ := strconv.Atoi(s)
	return status
}
