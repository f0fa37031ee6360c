package repository

import (
	"context"

	"hospital-cms-portal/internal/domain/entity"
)

type DoctorRepository interface {
	List(ctx context.Context) ([]entity.Doctor, error)
	Filter(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error)
	Create(ctx context.Context, doctor *entity.Doctor, token string) (string, error)
	Delete(ctx context.Context, id int64, token string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}
