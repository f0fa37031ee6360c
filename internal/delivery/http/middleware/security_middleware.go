package middleware

import "net/http"

// SecurityMiddleware sets the response headers every portal page carries. Pages
// show patient data, so nothing is cached.
type SecurityMiddleware struct {
}

func NewSecurityMiddleware() *SecurityMiddleware {
	return &SecurityMiddleware{}
}

func (m *SecurityMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		w.Header().Set("Cache-Control", "no-store")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
