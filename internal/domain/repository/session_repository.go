package repository

import (
	"context"

	"hospital-cms-portal/internal/domain/entity"
)

// SessionRepository persists session keys one at a time so every write is visible
// to the next request immediately.
type SessionRepository interface {
	// Find returns an empty session with the given id when nothing is stored.
	Find(ctx context.Context, id string) (*entity.Session, error)
	Set(ctx context.Context, id, key, value string) error
	Unset(ctx context.Context, id string, keys ...string) error
	Delete(ctx context.Context, id string) error
}
