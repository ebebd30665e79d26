package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/prayerpartner/service-web-go/internal/web"
	"github.com/prayerpartner/service-web-go/pkg/utilities"
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

// LoggingMiddleware returns a middleware that logs requests at debug level
// with a per-request KSUID.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := utilities.NewKSUID()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", requestID,
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

// SecurityHeadersMiddleware returns a middleware that sets common HTTP
// security headers. Conservative defaults that work for server-rendered pages.
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

// RegisterRoutes mounts the application routes on a standard library
// http.ServeMux and wraps them in the shared middleware.
func RegisterRoutes(logger *zap.SugaredLogger, h *web.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Home)
	mux.Handle("GET /public/", http.StripPrefix("/public/", h.Static()))

	// account
	mux.HandleFunc("GET /users/signin", h.SigninForm)
	mux.HandleFunc("POST /users/signin", h.Signin)
	mux.HandleFunc("POST /users/signout", h.Signout)
	mux.HandleFunc("GET /users/createaccount", h.NewAccountForm)
	mux.HandleFunc("POST /users/createaccount", h.CreateAccount)
	mux.HandleFunc("GET /users/edit", h.RequireAuth(h.EditAccountForm))
	mux.HandleFunc("POST /users/edit", h.RequireAuth(h.EditAccount))
	mux.HandleFunc("POST /users/delete", h.RequireAuth(h.DeleteAccount))

	// categories
	mux.HandleFunc("GET /categories", h.RequireAuth(h.Categories))
	mux.HandleFunc("POST /categories", h.RequireAuth(h.CreateCategory))
	mux.HandleFunc("GET /categories/new", h.RequireAuth(h.NewCategoryForm))
	mux.HandleFunc("GET /categories/{categoryId}", h.RequireAuth(h.Category))
	mux.HandleFunc("GET /categories/{categoryId}/answered", h.RequireAuth(h.AnsweredPrayerRequests))
	mux.HandleFunc("GET /categories/{categoryId}/edit", h.RequireAuth(h.EditCategoryForm))
	mux.HandleFunc("POST /categories/{categoryId}/edit", h.RequireAuth(h.EditCategory))
	mux.HandleFunc("POST /categories/{categoryId}/delete", h.RequireAuth(h.DeleteCategory))

	// prayer requests
	mux.HandleFunc("POST /categories/{categoryId}/prayerrequests", h.RequireAuth(h.CreatePrayerRequest))
	mux.HandleFunc("GET /categories/{categoryId}/prayerrequests/{prayerRequestId}/edit", h.RequireAuth(h.EditPrayerRequestForm))
	mux.HandleFunc("POST /categories/{categoryId}/prayerrequests/{prayerRequestId}/edit", h.RequireAuth(h.EditPrayerRequest))
	mux.HandleFunc("POST /categories/{categoryId}/prayerrequests/{prayerRequestId}/answer", h.RequireAuth(h.AnswerPrayerRequest))
	mux.HandleFunc("POST /categories/{categoryId}/prayerrequests/{prayerRequestId}/delete", h.RequireAuth(h.DeletePrayerRequest))
	mux.HandleFunc("POST /categories/{categoryId}/prayerrequests/{prayerRequestId}/deleteanswered", h.RequireAuth(h.DeleteAnsweredPrayerRequest))

	return LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux))
}
