package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"realestate-marketplace/internal/common/logger"
	"realestate-marketplace/internal/common/metrics"
	"realestate-marketplace/internal/common/observability"
)

const HeaderXRequestID = "X-Request-Id"

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// RequestID propagates or assigns X-Request-Id and stores a request-scoped
// logger in the context.
func RequestID(base logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(HeaderXRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(HeaderXRequestID, reqID)

			ctx := r.Context()
			ctx = contextWithRequestID(ctx, reqID)
			ctx = logger.IntoContext(ctx, base.With(map[string]interface{}{"requestId": reqID}))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// AccessLog logs one line per request.
func AccessLog(base logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(sw, r)

			logger.FromContext(r.Context(), base).Info("http_request", map[string]interface{}{
				"method":    r.Method,
				"path":      r.URL.Path,
				"status":    sw.code(),
				"bytes":     sw.bytes,
				"latencyMs": time.Since(start).Milliseconds(),
				"remoteIp":  r.RemoteAddr,
			})
		})
	}
}

// Tracing opens a server span per request and adds its trace id to the
// request-scoped logger.
func Tracing(obs *observability.Observability, base logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := obs.StartRequest(r)
			if id := observability.TraceID(ctx); id != "" {
				ctx = logger.IntoContext(ctx, logger.FromContext(ctx, base).With(map[string]interface{}{"traceId": id}))
			}
			sw := &statusWriter{ResponseWriter: w}
			r = r.WithContext(ctx)

			next.ServeHTTP(sw, r)

			observability.EndRequest(span, routePattern(r), sw.code())
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// Metrics records Prometheus and OpenTelemetry request metrics keyed by the
// matched chi route pattern.
func Metrics(obs *observability.Observability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(sw, r)

			route := routePattern(r)
			elapsed := time.Since(start)
			metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(sw.code())).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
			obs.RecordRequest(r.Context(), route, sw.code(), elapsed)
		})
	}
}
