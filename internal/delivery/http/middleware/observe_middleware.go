package middleware

import (
	"net/http"
	"strconv"
	"time"

	"medtour-backend/pkg/metrics"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// statusRecorder remembers the status code written by the next handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// routeTemplate keeps metric labels bounded by using the mux path template.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type ObserveMiddleware struct {
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewObserveMiddleware(log *logrus.Logger, m *metrics.Metrics) *ObserveMiddleware {
	return &ObserveMiddleware{log: log, metrics: m}
}

// Handle writes one access log line and the request metrics per request.
func (m *ObserveMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		if m.metrics != nil {
			m.metrics.RequestsInFlight.WithLabelValues(r.Method).Inc()
			defer m.metrics.RequestsInFlight.WithLabelValues(r.Method).Dec()
		}

		next.ServeHTTP(rec, r)

		took := time.Since(start)
		route := routeTemplate(r)
		if m.metrics != nil {
			m.metrics.ObserveRequest(r.Method, route, strconv.Itoa(rec.code()), took)
		}

		entry := m.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"route":       route,
			"status":      rec.code(),
			"bytes":       rec.bytes,
			"duration_ms": took.Milliseconds(),
			"remote_addr": r.RemoteAddr,
		})
		if rec.code() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request handled")
	})
}
