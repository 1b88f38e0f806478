package httpapi

import (
	"net/http"
	"time"

	"InvestSuggest/internal/advisor"
	"InvestSuggest/internal/trace"
)

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// TraceMiddleware attaches a trace ID to each request and logs its outcome.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := trace.New(r.Context())
		w.Header().Set("X-Trace-Id", trace.TraceID(ctx))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))
		trace.Log(ctx, "[INFO] %s %s -> %d (%v)", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

// NewRouter wires the API routes. limiter may be nil to disable rate limiting
// on the computation endpoints.
func NewRouter(a *advisor.Advisor, limiter *RateLimiter) http.Handler {
	h := NewHandler(a)
	limit := func(route string, f http.HandlerFunc) http.Handler {
		if limiter == nil {
			return f
		}
		return RateLimitMiddleware(limiter, route, f)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /api/v1/banks", h.Banks)
	mux.Handle("POST /api/v1/deposit", limit("deposit", h.Deposit))
	mux.Handle("POST /api/v1/analysis", limit("analysis", h.Analysis))
	mux.Handle("POST /api/v1/forecast", limit("forecast", h.Forecast))
	return TraceMiddleware(mux)
}
