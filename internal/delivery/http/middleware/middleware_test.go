package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hospital-cms-portal/config"
	"hospital-cms-portal/internal/domain/entity"
	"hospital-cms-portal/internal/repository"
	"hospital-cms-portal/internal/service"
	"hospital-cms-portal/pkg/jwt"

	"github.com/sirupsen/logrus"
)

const testCookie = "portal_session"

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestSessions() *service.SessionStore {
	return service.NewSessionStore(repository.NewMemorySessionRepository(), newTestLogger())
}

// sessionFor stores role and token and returns a persisted session.
func sessionFor(t *testing.T, sessions *service.SessionStore, role entity.Role, token string) *entity.Session {
	t.Helper()
	ctx := context.Background()
	session, err := sessions.Load(ctx, "sid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "" {
		sessions.SetToken(ctx, session, token)
	}
	if role != entity.RoleAbsent {
		sessions.SetRole(ctx, session, role)
	}
	return session
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionMiddleware_LoadIssuesCookie(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", time.Hour)
	m := NewSessionMiddleware(jwtService, newTestSessions(), testCookie, false, newTestLogger())

	var seen *entity.Session
	handler := m.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetSessionFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == nil || seen.ID == "" {
		t.Fatal("expected a session on the request context")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != testCookie {
		t.Fatalf("expected one session cookie, got %v", cookies)
	}
	if !cookies[0].HttpOnly || cookies[0].MaxAge != 3600 {
		t.Errorf("expected HttpOnly cookie with max age 3600, got %+v", cookies[0])
	}
	id, err := jwtService.Validate(cookies[0].Value)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != seen.ID {
		t.Errorf("expected cookie for %q, got %q", seen.ID, id)
	}
}

func TestSessionMiddleware_LoadReusesValidCookie(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", time.Hour)
	sessions := newTestSessions()
	m := NewSessionMiddleware(jwtService, sessions, testCookie, false, newTestLogger())

	id, signed, err := jwtService.NewSession()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := sessions.Load(context.Background(), id)
	sessions.SetRole(context.Background(), stored, entity.RolePatient)

	var seen *entity.Session
	handler := m.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/pages/patientDashboard", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: signed})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no new cookie for a valid session")
	}
	if seen.ID != id || seen.Role != entity.RolePatient {
		t.Errorf("expected stored patient session, got %+v", seen)
	}
}

func TestSessionMiddleware_LoadReplacesForgedCookie(t *testing.T) {
	m := NewSessionMiddleware(jwt.NewJWTService("secret", time.Hour), newTestSessions(), testCookie, false, newTestLogger())
	_, forged, _ := jwt.NewJWTService("other", time.Hour).NewSession()

	handler := m.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: forged})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if len(rec.Result().Cookies()) != 1 {
		t.Error("expected a fresh cookie for a forged session")
	}
}

func TestSessionMiddleware_GuardResetsRoleWithoutToken(t *testing.T) {
	sessions := newTestSessions()
	m := NewSessionMiddleware(jwt.NewJWTService("secret", time.Hour), sessions, testCookie, false, newTestLogger())
	session := sessionFor(t, sessions, entity.RoleDoctor, "")

	var called bool
	req := httptest.NewRequest(http.MethodGet, "/doctorDashboard", nil)
	req = req.WithContext(WithSession(req.Context(), session))
	rec := httptest.NewRecorder()
	m.Guard(okHandler(&called)).ServeHTTP(rec, req)

	if called {
		t.Error("expected the page not to be served")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	reloaded, _ := sessions.Load(context.Background(), "sid")
	if reloaded.Role != entity.RoleAbsent {
		t.Errorf("expected role cleared, got %q", reloaded.Role)
	}
	if !strings.Contains(reloaded.Flash, SessionExpiredMessage) {
		t.Errorf("expected session expired flash, got %q", reloaded.Flash)
	}
}

func TestSessionMiddleware_GuardPassesValidAndRoot(t *testing.T) {
	sessions := newTestSessions()
	m := NewSessionMiddleware(jwt.NewJWTService("secret", time.Hour), sessions, testCookie, false, newTestLogger())

	tests := []struct {
		name  string
		path  string
		role  entity.Role
		token string
	}{
		{"anonymous patient", "/pages/patientDashboard", entity.RolePatient, ""},
		{"doctor with token", "/doctorDashboard", entity.RoleDoctor, "tok"},
		{"root is never guarded", "/", entity.RoleAdmin, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &entity.Session{ID: "sid", Role: tt.role, Token: tt.token}
			var called bool
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req = req.WithContext(WithSession(req.Context(), session))
			m.Guard(okHandler(&called)).ServeHTTP(httptest.NewRecorder(), req)
			if !called {
				t.Error("expected the request to pass")
			}
		})
	}
}

func TestRoleMiddleware_RequireRole(t *testing.T) {
	sessions := newTestSessions()
	m := NewRoleMiddleware(sessions)

	tests := []struct {
		name     string
		role     entity.Role
		htmx     bool
		wantPass bool
		wantLoc  string
	}{
		{"allowed", entity.RoleAdmin, false, true, ""},
		{"other role goes home", entity.RoleDoctor, false, false, "/doctorDashboard"},
		{"no role goes to root", entity.RoleAbsent, false, false, "/"},
		{"htmx gets HX-Redirect", entity.RolePatient, true, false, "/pages/patientDashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &entity.Session{ID: "sid", Role: tt.role, Token: "tok"}
			var called bool
			req := httptest.NewRequest(http.MethodGet, "/adminDashboard", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			req = req.WithContext(WithSession(req.Context(), session))
			rec := httptest.NewRecorder()
			m.RequireAdmin(okHandler(&called)).ServeHTTP(rec, req)

			if called != tt.wantPass {
				t.Fatalf("expected pass=%v, got %v", tt.wantPass, called)
			}
			if tt.wantPass {
				return
			}
			location := rec.Header().Get("Location")
			if tt.htmx {
				location = rec.Header().Get("HX-Redirect")
			}
			if location != tt.wantLoc {
				t.Errorf("expected redirect to %q, got %q", tt.wantLoc, location)
			}
			if session.Flash == "" {
				t.Error("expected a permission flash")
			}
		})
	}
}

func TestRequireRole_MultipleRoles(t *testing.T) {
	m := NewRoleMiddleware(newTestSessions())
	guard := m.RequireRole(entity.RoleDoctor, entity.RoleLoggedPatient)

	for _, role := range []entity.Role{entity.RoleDoctor, entity.RoleLoggedPatient} {
		var called bool
		req := httptest.NewRequest(http.MethodGet, "/pages/updateAppointment", nil)
		req = req.WithContext(WithSession(req.Context(), &entity.Session{ID: "sid", Role: role, Token: "tok"}))
		guard(okHandler(&called)).ServeHTTP(httptest.NewRecorder(), req)
		if !called {
			t.Errorf("expected %s to pass", role)
		}
	}
}

func TestSecurityMiddleware(t *testing.T) {
	var called bool
	handler := NewSecurityMiddleware().Handle(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatal("expected request to reach handler")
	}
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s: expected %q, got %q", header, want, got)
		}
	}

	called = false
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	if called || rec.Code != http.StatusNoContent {
		t.Errorf("expected preflight to stop with 204, got %d (called=%v)", rec.Code, called)
	}
}

func TestRateLimitMiddleware_DisabledWithoutRedis(t *testing.T) {
	m := NewRateLimitMiddleware(config.RateLimitConfig{LoginLimit: 1, LoginWindow: time.Minute}, nil, newTestSessions(), newTestLogger())

	var calls int
	handler := m.LimitLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/login/admin", nil))
	}
	if calls != 3 {
		t.Errorf("expected every request to pass, got %d", calls)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login/admin", nil)
	req.RemoteAddr = "10.0.0.9:5123"
	if got := clientIP(req); got != "10.0.0.9" {
		t.Errorf("expected connection address, got %q", got)
	}

	req.Header.Set("X-Real-IP", "10.0.0.5")
	if got := clientIP(req); got != "10.0.0.5" {
		t.Errorf("expected X-Real-IP, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Errorf("expected first forwarded hop, got %q", got)
	}
}

func TestLoginReturnPath(t *testing.T) {
	if got := loginReturnPath("/login/patient"); got != "/pages/patientDashboard" {
		t.Errorf("expected patient dashboard, got %q", got)
	}
	if got := loginReturnPath("/login/doctor"); got != "/" {
		t.Errorf("expected root, got %q", got)
	}
}
