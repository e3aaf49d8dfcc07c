package obs

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	gateSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifelink_gate_submissions_total",
			Help: "Login form submissions by requested role and outcome.",
		},
		[]string{"role", "outcome"},
	)

	sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lifelink_sessions_active",
		Help: "Session holders currently kept in memory.",
	})

	dashboardRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifelink_dashboard_renders_total",
			Help: "Dashboards built, by role.",
		},
		[]string{"role"},
	)

	readyGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lifelink_ready",
		Help: "1 when the service reports ready, 0 otherwise.",
	})

	initOnce sync.Once
)

// Init registers the metrics in the default registry. Safe to call more than
// once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight, httpRequestsTotal, httpRequestDuration,
			gateSubmissions, sessionsActive, dashboardRenders, readyGauge,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveGateSubmission counts one login attempt.
func ObserveGateSubmission(role, outcome string) {
	if role == "" {
		role = "none"
	}
	gateSubmissions.WithLabelValues(role, outcome).Inc()
}

// SetSessionsActive records the size of the session store.
func SetSessionsActive(n int) {
	sessionsActive.Set(float64(n))
}

// ObserveDashboardRender counts one dashboard build.
func ObserveDashboardRender(role string) {
	dashboardRenders.WithLabelValues(role).Inc()
}

// SetReady flips the readiness gauge.
func SetReady(ok bool) {
	if ok {
		readyGauge.Set(1)
		return
	}
	readyGauge.Set(0)
}

// Instrument records request count, latency and in-flight gauge.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		defer httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	})
}

// CanonicalPath collapses variable path segments so metric label
// cardinality stays bounded.
func CanonicalPath(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	switch {
	case strings.HasPrefix(p, "/v1/actions/"):
		if strings.Count(p, "/") == 3 {
			return "/v1/actions/:action"
		}
	case strings.HasPrefix(p, "/assets/"):
		return "/assets/*"
	}
	return p
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
