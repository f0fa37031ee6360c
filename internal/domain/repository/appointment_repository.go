package repository

import (
	"context"

	"hospital-cms-portal/internal/domain/entity"
)

type AppointmentRepository interface {
	List(ctx context.Context, filter entity.AppointmentFilter, token string) ([]entity.Appointment, error)
	Book(ctx context.Context, appointment *entity.AppointmentUpdate, token string) (string, error)
	Update(ctx context.Context, appointment *entity.AppointmentUpdate, token string) (string, error)
	Cancel(ctx context.Context, id int64, token string) (string, error)
}
