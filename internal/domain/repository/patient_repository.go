package repository

import (
	"context"

	"hospital-cms-portal/internal/domain/entity"
)

type PatientRepository interface {
	FindByToken(ctx context.Context, token string) (*entity.Patient, error)
	Appointments(ctx context.Context, patientID int64, token string) ([]entity.Appointment, error)
	FilterAppointments(ctx context.Context, filter entity.PatientAppointmentFilter, token string) ([]entity.Appointment, error)
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, patient *entity.Patient) (string, error)
}
