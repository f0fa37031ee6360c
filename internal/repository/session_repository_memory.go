package repository

import (
	"context"
	"sync"

	"hospital-cms-portal/internal/domain/entity"
	domainRepo "hospital-cms-portal/internal/domain/repository"
)

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewMemorySessionRepository keeps sessions in process memory. Sessions are lost on
// restart and are not shared between replicas.
func NewMemorySessionRepository() domainRepo.SessionRepository {
	return &memorySessionRepository{sessions: make(map[string]map[string]string)}
}

func (r *memorySessionRepository) Find(ctx context.Context, id string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sessionFromValues(id, r.sessions[id]), nil
}

func (r *memorySessionRepository) Set(ctx context.Context, id, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, ok := r.sessions[id]
	if !ok {
		values = make(map[string]string)
		r.sessions[id] = values
	}
	values[key] = value
	return nil
}

func (r *memorySessionRepository) Unset(ctx context.Context, id string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, ok := r.sessions[id]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(values, key)
	}
	if len(values) == 0 {
		delete(r.sessions, id)
	}
	return nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
