package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hospital-cms-portal/config"
	"hospital-cms-portal/internal/delivery/dto"
	"hospital-cms-portal/internal/service"
	"hospital-cms-portal/pkg/response"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisLoginRateKeyPrefix namespaces the per-client login counters.
const RedisLoginRateKeyPrefix = "ratelimit:login:"

const tooManyLoginsMessage = "Too many login attempts. Please wait a moment and try again."

// fixedWindowScript counts a hit and starts the window on the first one.
// Returns the hit count and the window's remaining TTL in milliseconds.
var fixedWindowScript = redis.NewScript(`
	local hits = redis.call('INCR', KEYS[1])
	if hits == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	return { hits, ttl }
`)

type RateLimitMiddleware struct {
	cfg         config.RateLimitConfig
	redisClient *redis.Client
	sessions    *service.SessionStore
	log         *logrus.Logger
}

// NewRateLimitMiddleware limits login attempts per client IP. A nil redisClient or
// a non-positive limit disables it.
func NewRateLimitMiddleware(cfg config.RateLimitConfig, redisClient *redis.Client, sessions *service.SessionStore, log *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{cfg: cfg, redisClient: redisClient, sessions: sessions, log: log}
}

func (m *RateLimitMiddleware) LimitLogin(next http.Handler) http.Handler {
	if m.redisClient == nil || m.cfg.LoginLimit <= 0 || m.cfg.LoginWindow <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := RedisLoginRateKeyPrefix + clientIP(r)

		vals, err := fixedWindowScript.Run(r.Context(), m.redisClient, []string{key}, m.cfg.LoginWindow.Milliseconds()).Int64Slice()
		if err != nil || len(vals) != 2 {
			// Fail open on Redis errors.
			m.log.Warnf("Failed to check login rate limit: %+v", err)
			next.ServeHTTP(w, r)
			return
		}

		hits, ttlMs := vals[0], vals[1]
		remaining := int64(m.cfg.LoginLimit) - hits
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.cfg.LoginLimit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if hits <= int64(m.cfg.LoginLimit) {
			next.ServeHTTP(w, r)
			return
		}

		retry := time.Duration(ttlMs) * time.Millisecond
		secs := int((retry + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		m.log.WithFields(logrus.Fields{"path": r.URL.Path, "retry_after": secs}).Warn("Login rate limit exceeded")

		session, ok := GetSessionFromContext(r.Context())
		if !ok || response.IsHTMX(r) {
			response.TooManyRequests(w, tooManyLoginsMessage)
			return
		}
		m.sessions.SetFlash(r.Context(), session, dto.EncodeFlash(dto.ErrorNotice(tooManyLoginsMessage)))
		http.Redirect(w, r, loginReturnPath(r.URL.Path), http.StatusSeeOther)
	})
}

// loginReturnPath is the page that holds the form for a login route.
func loginReturnPath(path string) string {
	if path == "/login/patient" {
		return "/pages/patientDashboard"
	}
	return "/"
}

// clientIP prefers the first X-Forwarded-For hop, then the connection address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
