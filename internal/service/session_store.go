package service

import (
	"context"

	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// SessionStore is the only writer of session state. Every mutation is persisted
// before it returns and is mirrored onto the caller's *entity.Session.
type SessionStore struct {
	repo repository.SessionRepository
	log  *logrus.Logger
}

func NewSessionStore(repo repository.SessionRepository, log *logrus.Logger) *SessionStore {
	return &SessionStore{repo: repo, log: log}
}

func (s *SessionStore) Load(ctx context.Context, id string) (*entity.Session, error) {
	session, err := s.repo.Find(ctx, id)
	if err != nil {
		s.log.Warnf("Failed to load session: %+v", err)
		return nil, err
	}
	return session, nil
}

func (s *SessionStore) SetRole(ctx context.Context, session *entity.Session, role entity.Role) error {
	if role == entity.RoleAbsent {
		return s.ClearRole(ctx, session)
	}
	if err := s.repo.Set(ctx, session.ID, entity.SessionKeyRole, role.String()); err != nil {
		s.log.Warnf("Failed to set session role: %+v", err)
		return err
	}
	session.Role = role
	return nil
}

func (s *SessionStore) SetToken(ctx context.Context, session *entity.Session, token string) error {
	if token == "" {
		return s.ClearToken(ctx, session)
	}
	if err := s.repo.Set(ctx, session.ID, entity.SessionKeyToken, token); err != nil {
		s.log.Warnf("Failed to set session token: %+v", err)
		return err
	}
	session.Token = token
	return nil
}

func (s *SessionStore) ClearRole(ctx context.Context, session *entity.Session) error {
	if err := s.repo.Unset(ctx, session.ID, entity.SessionKeyRole); err != nil {
		s.log.Warnf("Failed to clear session role: %+v", err)
		return err
	}
	session.Role = entity.RoleAbsent
	return nil
}

func (s *SessionStore) ClearToken(ctx context.Context, session *entity.Session) error {
	if err := s.repo.Unset(ctx, session.ID, entity.SessionKeyToken); err != nil {
		s.log.Warnf("Failed to clear session token: %+v", err)
		return err
	}
	session.Token = ""
	return nil
}

// Destroy removes the whole stored session, flash included.
func (s *SessionStore) Destroy(ctx context.Context, session *entity.Session) error {
	if err := s.repo.Delete(ctx, session.ID); err != nil {
		s.log.Warnf("Failed to delete session: %+v", err)
		return err
	}
	session.Role = entity.RoleAbsent
	session.Token = ""
	session.Flash = ""
	return nil
}

func (s *SessionStore) SetFlash(ctx context.Context, session *entity.Session, message string) error {
	if err := s.repo.Set(ctx, session.ID, entity.SessionKeyFlash, message); err != nil {
		s.log.Warnf("Failed to set flash: %+v", err)
		return err
	}
	session.Flash = message
	return nil
}

// PopFlash returns the pending flash, if any, and removes it.
func (s *SessionStore) PopFlash(ctx context.Context, session *entity.Session) string {
	message := session.Flash
	if message == "" {
		return ""
	}
	if err := s.repo.Unset(ctx, session.ID, entity.SessionKeyFlash); err != nil {
		s.log.Warnf("Failed to clear flash: %+v", err)
	}
	session.Flash = ""
	return message
}
