package repository

import (
	"context"

	"hospital-cms-portal/internal/domain/entity"
)

type PrescriptionRepository interface {
	// FindByAppointment returns a nil slice and no error when none exists.
	FindByAppointment(ctx context.Context, appointmentID int64, token string) ([]entity.Prescription, error)
	Save(ctx context.Context, prescription *entity.Prescription, token string) (string, error)
}
