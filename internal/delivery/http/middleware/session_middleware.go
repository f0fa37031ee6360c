package middleware

import (
	"context"
	"net/http"

	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/service"
	"hospital-cms-portal/pkg/jwt"
	"hospital-cms-portal/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const SessionKey contextKey = "session"

// SessionExpiredMessage is shown after the session check sends a visitor back to root.
const SessionExpiredMessage = "Session expired or invalid login. Please log in again."

type SessionMiddleware struct {
	jwtService *jwt.JWTService
	sessions   *service.SessionStore
	cookieName string
	secure     bool
	log        *logrus.Logger
}

func NewSessionMiddleware(jwtService *jwt.JWTService, sessions *service.SessionStore, cookieName string, secure bool, log *logrus.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
		cookieName: cookieName,
		secure:     secure,
		log:        log,
	}
}

// Load resolves the session cookie, issuing a new session when it is missing or
// fails verification, and puts the session on the request context.
func (m *SessionMiddleware) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := m.sessionID(r)
		if !ok {
			id, signed, err := m.jwtService.NewSession()
			if err != nil {
				m.log.Errorf("Failed to issue session: %+v", err)
				response.InternalServerError(w, "Failed to start session")
				return
			}
			sessionID = id
			m.setCookie(w, signed)
		}

		session, err := m.sessions.Load(r.Context(), sessionID)
		if err != nil {
			response.InternalServerError(w, "Failed to load session")
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Guard is the only centralized session-validity check. Outside the root page, a
// role that needs a token without one is cleared and the visitor sent back to root.
func (m *SessionMiddleware) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSessionFromContext(r.Context())
		if !ok || r.URL.Path == "/" || session.Valid() {
			next.ServeHTTP(w, r)
			return
		}

		m.log.WithFields(logrus.Fields{"path": r.URL.Path, "role": session.Role.String()}).Info("Session without token, resetting role")
		if err := m.sessions.ClearRole(r.Context(), session); err != nil {
			response.InternalServerError(w, "Failed to reset session")
			return
		}
		m.sessions.SetFlash(r.Context(), session, dto.EncodeFlash(dto.ErrorNotice(SessionExpiredMessage)))
		response.Redirect(w, r, "/")
	})
}

func (m *SessionMiddleware) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	id, err := m.jwtService.Validate(cookie.Value)
	if err != nil {
		m.log.Debugf("Rejected session cookie: %v", err)
		return "", false
	}
	return id, true
}

func (m *SessionMiddleware) setCookie(w http.ResponseWriter, value string) {
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl := m.jwtService.TTL(); ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)
}

// GetSessionFromContext extracts the session from context
func GetSessionFromContext(ctx context.Context) (*entity.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*entity.Session)
	return session, ok && session != nil
}

// WithSession puts a session on ctx, the way Load does.
func WithSession(ctx context.Context, session *entity.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}
