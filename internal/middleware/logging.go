package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			userAgent := r.Header.Get("User-Agent")
			next.ServeHTTP(w, r)
			fields := log.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"ua":       userAgent,
				"duration": time.Since(start).String(),
			}
			if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
				fields["trace_id"] = sc.TraceID().String()
			}
			log.WithFields(fields).Trace(" ====> request")
		})
	}
}
