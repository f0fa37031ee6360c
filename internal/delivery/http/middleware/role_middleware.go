package middleware

import (
	"net/http"

	"hospital-cms-portal/internal/converter"
	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/service"
	"hospital-cms-portal/pkg/response"
)

const roleDeniedMessage = "You don't have permission to access this page."

type RoleMiddleware struct {
	sessions *service.SessionStore
}

func NewRoleMiddleware(sessions *service.SessionStore) *RoleMiddleware {
	return &RoleMiddleware{sessions: sessions}
}

// RequireRole creates a middleware that checks if the session has any of the allowed roles.
// Anyone else is sent to their own dashboard, or to root without a role.
func (m *RoleMiddleware) RequireRole(allowed ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionFromContext(r.Context())
			if !ok {
				response.Redirect(w, r, "/")
				return
			}

			for _, role := range allowed {
				if session.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			m.sessions.SetFlash(r.Context(), session, dto.EncodeFlash(dto.ErrorNotice(roleDeniedMessage)))
			response.Redirect(w, r, converter.DashboardPath(session.Role))
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only pages
func (m *RoleMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(entity.RoleAdmin)(next)
}

// RequireDoctor is a convenience middleware for doctor-only pages
func (m *RoleMiddleware) RequireDoctor(next http.Handler) http.Handler {
	return m.RequireRole(entity.RoleDoctor)(next)
}

// RequireLoggedPatient is a convenience middleware for pages of a logged-in patient
func (m *RoleMiddleware) RequireLoggedPatient(next http.Handler) http.Handler {
	return m.RequireRole(entity.RoleLoggedPatient)(next)
}
