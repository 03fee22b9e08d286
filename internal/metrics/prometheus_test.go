package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorderCounts(t *testing.T) {
	recorder, err := NewPrometheusRecorder()
	require.NoError(t, err)

	recorder.RegimeStarted("timer")
	recorder.RegimeStarted("timer")
	recorder.RegimeStopped("timer", ReasonCompleted)
	recorder.NotificationSent("pomodoro", "work_complete")
	recorder.Polled("pomodoro")
	recorder.Polled("pomodoro")

	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.started.WithLabelValues("timer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.stopped.WithLabelValues("timer", ReasonCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.notifications.WithLabelValues("pomodoro", "work_complete")))
	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.polls.WithLabelValues("pomodoro")))
}

func TestPrometheusRecorderActiveGauge(t *testing.T) {
	recorder, err := NewPrometheusRecorder()
	require.NoError(t, err)

	recorder.SetActive("pomodoro")
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.active.WithLabelValues("pomodoro")))
	assert.Equal(t, 0.0, testutil.ToFloat64(recorder.active.WithLabelValues("timer")))

	recorder.SetActive("")
	assert.Equal(t, 0.0, testutil.ToFloat64(recorder.active.WithLabelValues("pomodoro")))
}

func TestPrometheusRecorderHandler(t *testing.T) {
	recorder, err := NewPrometheusRecorder()
	require.NoError(t, err)
	recorder.RegimeStarted("timer")

	rr := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `pomobell_regimes_started_total{regime="timer"} 1`)
}

func TestNewDisabled(t *testing.T) {
	recorder, handler, err := New(false)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, recorder)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
