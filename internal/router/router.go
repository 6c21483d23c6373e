package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/autofault/service-diagnostics-go/internal/account"
	"github.com/autofault/service-diagnostics-go/internal/admin"
	"github.com/autofault/service-diagnostics-go/internal/request"
	"github.com/autofault/service-diagnostics-go/internal/token"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Deps carries the handlers and the token issuer the routes are built from.
type Deps struct {
	Requests *request.Handler
	Accounts *account.Handler
	Admin    *admin.Handler
	Issuer   *token.Issuer
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
func RegisterRoutes(logger *zap.SugaredLogger, d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /diagnostics-api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// public: submission (owner attached when a member token is present) and
	// status lookup by id
	mux.HandleFunc("POST /diagnostics-api/requests",
		token.Optional(d.Issuer, token.RoleMember, d.Requests.Submit))
	mux.HandleFunc("GET /diagnostics-api/requests/{id}", d.Requests.Status)
	mux.HandleFunc("POST /diagnostics-api/requests/{id}/files", d.Requests.Attach)
	mux.HandleFunc("GET /diagnostics-api/uploads/{id}/{name}", d.Requests.Download)

	// members
	mux.HandleFunc("POST /diagnostics-api/accounts", d.Accounts.Signup)
	mux.HandleFunc("POST /diagnostics-api/login", d.Accounts.Login)
	mux.HandleFunc("GET /diagnostics-api/my/requests",
		token.Require(d.Issuer, token.RoleMember, d.Requests.Mine))

	// experts
	mux.HandleFunc("POST /diagnostics-api/expert/login", d.Admin.ExpertLogin)
	mux.HandleFunc("GET /diagnostics-api/requests",
		token.Require(d.Issuer, token.RoleExpert, d.Requests.Pending))
	mux.HandleFunc("POST /diagnostics-api/requests/{id}/response",
		token.Require(d.Issuer, token.RoleExpert, d.Requests.Respond))

	// admin
	mux.HandleFunc("POST /diagnostics-api/admin/login", d.Admin.AdminLogin)
	mux.HandleFunc("GET /diagnostics-api/admin/metrics",
		token.Require(d.Issuer, token.RoleAdmin, d.Admin.DashboardMetrics))
	mux.HandleFunc("POST /diagnostics-api/accounts/{email}/status",
		token.Require(d.Issuer, token.RoleAdmin, d.Accounts.SetStatus))
	mux.HandleFunc("DELETE /diagnostics-api/accounts/{email}",
		token.Require(d.Issuer, token.RoleAdmin, d.Accounts.Delete))

	// wrap with security headers middleware then logging middleware
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux))
	return handler
}
