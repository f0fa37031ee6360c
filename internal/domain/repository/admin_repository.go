package repository

import "context"

type AdminRepository interface {
	Login(ctx context.Context, username, password string) (string, error)
}
