// Package metrics exposes the dashboard's Prometheus collectors.
package metrics

import (
	goerrors "errors"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics owns a registry and every collector the server reports.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight    prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	gateDecisions   *prometheus.CounterVec
	accessDenied    *prometheus.CounterVec
	authEvents      *prometheus.CounterVec
	liveStores      prometheus.GaugeFunc
	sessionEventsIn *prometheus.CounterVec
}

// Options configures New.
type Options struct {
	// LiveStores reports the number of live session stores, if set.
	LiveStores func() int
	// RuntimeCollectors adds the Go and process collectors.
	RuntimeCollectors bool
}

// New builds a Metrics with its own registry.
func New(opts Options) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clinic_http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clinic_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_gate_decisions_total",
			Help: "Top-level gate screens selected, by gate.",
		}, []string{"gate"}),
		accessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_access_denied_total",
			Help: "Views rendered as the no-permission placeholder, by view.",
		}, []string{"view"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_auth_events_total",
			Help: "Authentication operations by event and result.",
		}, []string{"event", "result", "error_class"}),
		sessionEventsIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_session_events_received_total",
			Help: "Session-change notifications dispatched to live stores, by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.httpInFlight, m.httpRequests, m.httpDuration,
		m.gateDecisions, m.accessDenied, m.authEvents, m.sessionEventsIn)
	if opts.LiveStores != nil {
		m.liveStores = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "clinic_session_stores_live",
			Help: "Session stores currently held in memory.",
		}, func() float64 { return float64(opts.LiveStores()) })
		m.registry.MustRegister(m.liveStores)
	}
	if opts.RuntimeCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument records in-flight requests, request counts and latency.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		path := CanonicalPath(r.URL.Path)
		status := strconv.Itoa(sw.code)
		m.httpDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		m.httpRequests.WithLabelValues(r.Method, path, status).Inc()
	})
}

// ObserveGate counts a gate decision.
func (m *Metrics) ObserveGate(gate string) {
	if m == nil {
		return
	}
	m.gateDecisions.WithLabelValues(gate).Inc()
}

// ObserveAccessDenied counts a view rendered as the no-permission placeholder.
func (m *Metrics) ObserveAccessDenied(view string) {
	if m == nil {
		return
	}
	m.accessDenied.WithLabelValues(view).Inc()
}

// ObserveAuth counts an authentication operation. err selects the error result.
func (m *Metrics) ObserveAuth(event string, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.authEvents.WithLabelValues(event, result, Classify(err)).Inc()
}

// ObserveSessionEvent counts a session-change notification delivered to this process.
func (m *Metrics) ObserveSessionEvent(kind string) {
	if m == nil {
		return
	}
	m.sessionEventsIn.WithLabelValues(kind).Inc()
}

//nolint:gochecknoglobals // compiled once
var uuidSegment = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// CanonicalPath collapses identifiers in a request path so label cardinality stays bounded.
// UUID segments become ":id"; static assets collapse to "/static/*".
func CanonicalPath(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if strings.HasPrefix(p, "/static/") {
		return "/static/*"
	}
	segs := strings.Split(p, "/")
	for i, s := range segs {
		if uuidSegment.MatchString(s) {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}

// Classify returns a short label for err: the AppError code when there is one,
// otherwise the innermost concrete error type in snake_case-ish form.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	return strings.ReplaceAll(name, ".", "_")
}

type statusWriter struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.code = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
