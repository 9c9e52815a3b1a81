package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
)

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":          "/",
		"/":         "/",
		"/patients": "/patients",
		"/patients/2b1e4c1a-8d0f-4e8e-9f3a-1c2d3e4f5a6b/notes": "/patients/:id/notes",
		"/stock/2b1e4c1a-8d0f-4e8e-9f3a-1c2d3e4f5a6b/edit":     "/stock/:id/edit",
		"/static/css/app.css":                                  "/static/*",
		"/financial?start=2026-01-01":                          "/financial",
		"/patients/not-a-uuid":                                 "/patients/not-a-uuid",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalPath(in), in)
	}
}

type customErr struct{}

func (customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	assert.Empty(t, Classify(nil))
	assert.Equal(t, "validation", Classify(apperrors.Validation("x")))
	assert.Equal(t, "metrics_customerr", Classify(fmt.Errorf("wrap: %w", customErr{})))
	assert.Equal(t, "errors_errorstring", Classify(errors.New("plain")))
}

func TestInstrumentCountsRequests(t *testing.T) {
	m := New(Options{})
	h := m.Instrument(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.InDelta(t, 1, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/stock", "418")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.httpInFlight), 0)
}

func TestObservers(t *testing.T) {
	live := 3
	m := New(Options{LiveStores: func() int { return live }})

	m.ObserveGate("pending")
	m.ObserveGate("pending")
	m.ObserveAccessDenied("financial")
	m.ObserveAuth("sign_in", nil)
	m.ObserveAuth("sign_in", apperrors.Unauthorized("nope"))
	m.ObserveSessionEvent("user_updated")

	assert.InDelta(t, 2, testutil.ToFloat64(m.gateDecisions.WithLabelValues("pending")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.accessDenied.WithLabelValues("financial")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.authEvents.WithLabelValues("sign_in", ResultSuccess, "")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.authEvents.WithLabelValues("sign_in", ResultError, "unauthorized")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.liveStores), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.sessionEventsIn.WithLabelValues("user_updated")), 0)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(Options{})
	m.ObserveGate("route")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `clinic_gate_decisions_total{gate="route"} 1`))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGate("route")
		m.ObserveAuth("sign_in", errors.New("x"))
		m.ObserveAccessDenied("stock")
		m.ObserveSessionEvent("signed_in")
	})
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, m.Instrument(next))
}
