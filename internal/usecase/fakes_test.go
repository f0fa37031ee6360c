package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/repository"
	"hospital-cms-portal/internal/service"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestSessions() *service.SessionStore {
	return service.NewSessionStore(repository.NewMemorySessionRepository(), newTestLogger())
}

func newTestCoordinator(t *testing.T) *service.FilterCoordinator {
	t.Helper()
	c := service.NewFilterCoordinator(0, newTestLogger())
	t.Cleanup(c.Stop)
	return c
}

func newTestAudit() service.AuditService {
	return service.NewAuditService(newTestLogger())
}

// loadSession returns a persisted session so store writes are mirrored onto it.
func loadSession(t *testing.T, sessions *service.SessionStore, role entity.Role, token string) *entity.Session {
	t.Helper()
	ctx := context.Background()
	session, err := sessions.Load(ctx, "sid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "" {
		sessions.SetToken(ctx, session, token)
	}
	if role != entity.RoleAbsent {
		sessions.SetRole(ctx, session, role)
	}
	return session
}

func unauthorized(message string) error {
	return &entity.APIError{Kind: entity.ErrorKindUnauthorized, Status: 401, Message: message}
}

func transportFailure() error {
	return &entity.APIError{Kind: entity.ErrorKindTransport, Message: "connection refused"}
}

type fakeAdminRepo struct {
	token string
	err   error
}

func (f *fakeAdminRepo) Login(ctx context.Context, username, password string) (string, error) {
	return f.token, f.err
}

type fakeDoctorRepo struct {
	doctors   []entity.Doctor
	listErr   error
	filters   []entity.DoctorFilter
	created   []*entity.Doctor
	createErr error
	deleted   []int64
	deleteErr error
	tokens    []string
	loginTok  string
	loginErr  error
}

func (f *fakeDoctorRepo) List(ctx context.Context) ([]entity.Doctor, error) {
	return f.doctors, f.listErr
}

func (f *fakeDoctorRepo) Filter(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	f.filters = append(f.filters, filter)
	return f.doctors, f.listErr
}

func (f *fakeDoctorRepo) Create(ctx context.Context, doctor *entity.Doctor, token string) (string, error) {
	f.created = append(f.created, doctor)
	f.tokens = append(f.tokens, token)
	return "", f.createErr
}

func (f *fakeDoctorRepo) Delete(ctx context.Context, id int64, token string) (string, error) {
	f.deleted = append(f.deleted, id)
	f.tokens = append(f.tokens, token)
	return "", f.deleteErr
}

func (f *fakeDoctorRepo) Login(ctx context.Context, email, password string) (string, error) {
	return f.loginTok, f.loginErr
}

type fakeAppointmentRepo struct {
	appointments []entity.Appointment
	listErr      error
	filters      []entity.AppointmentFilter
	booked       []*entity.AppointmentUpdate
	updated      []*entity.AppointmentUpdate
	updateErr    error
	canceled     []int64
	cancelErr    error
}

func (f *fakeAppointmentRepo) List(ctx context.Context, filter entity.AppointmentFilter, token string) ([]entity.Appointment, error) {
	f.filters = append(f.filters, filter)
	return f.appointments, f.listErr
}

func (f *fakeAppointmentRepo) Book(ctx context.Context, appointment *entity.AppointmentUpdate, token string) (string, error) {
	f.booked = append(f.booked, appointment)
	return "", nil
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, appointment *entity.AppointmentUpdate, token string) (string, error) {
	f.updated = append(f.updated, appointment)
	return "", f.updateErr
}

func (f *fakeAppointmentRepo) Cancel(ctx context.Context, id int64, token string) (string, error) {
	f.canceled = append(f.canceled, id)
	return "", f.cancelErr
}

type fakePatientRepo struct {
	patient      *entity.Patient
	findErr      error
	appointments []entity.Appointment
	listedFor    []int64
	filters      []entity.PatientAppointmentFilter
	loginTok     string
	loginErr     error
	signupMsg    string
	signupErr    error
}

func (f *fakePatientRepo) FindByToken(ctx context.Context, token string) (*entity.Patient, error) {
	return f.patient, f.findErr
}

func (f *fakePatientRepo) Appointments(ctx context.Context, patientID int64, token string) ([]entity.Appointment, error) {
	f.listedFor = append(f.listedFor, patientID)
	return f.appointments, nil
}

func (f *fakePatientRepo) FilterAppointments(ctx context.Context, filter entity.PatientAppointmentFilter, token string) ([]entity.Appointment, error) {
	f.filters = append(f.filters, filter)
	return f.appointments, nil
}

func (f *fakePatientRepo) Login(ctx context.Context, email, password string) (string, error) {
	return f.loginTok, f.loginErr
}

func (f *fakePatientRepo) Signup(ctx context.Context, patient *entity.Patient) (string, error) {
	return f.signupMsg, f.signupErr
}

type fakePrescriptionRepo struct {
	existing []entity.Prescription
	findErr  error
	saved    []*entity.Prescription
	saveErr  error
}

func (f *fakePrescriptionRepo) FindByAppointment(ctx context.Context, appointmentID int64, token string) ([]entity.Prescription, error) {
	return f.existing, f.findErr
}

func (f *fakePrescriptionRepo) Save(ctx context.Context, prescription *entity.Prescription, token string) (string, error) {
	f.saved = append(f.saved, prescription)
	return "", f.saveErr
}

func fixedClock(value string) func() time.Time {
	return func() time.Time {
		t, _ := time.Parse("2006-01-02", value)
		return t
	}
}
