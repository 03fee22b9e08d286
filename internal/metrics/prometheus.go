package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pomobell"

var regimes = []string{"timer", "pomodoro"}

// PrometheusRecorder implements Recorder with Prometheus vectors.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	started       *prometheus.CounterVec
	stopped       *prometheus.CounterVec
	notifications *prometheus.CounterVec
	polls         *prometheus.CounterVec
	active        *prometheus.GaugeVec
}

// NewPrometheusRecorder registers the pomobell_* metrics on a fresh registry.
func NewPrometheusRecorder() (*PrometheusRecorder, error) {
	registry := prometheus.NewRegistry()

	recorder := &PrometheusRecorder{
		registry: registry,
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regimes_started_total",
			Help:      "Number of started regimes.",
		}, []string{"regime"}),
		stopped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regimes_stopped_total",
			Help:      "Number of stopped regimes by reason.",
		}, []string{"regime", "reason"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Number of delivered notifications.",
		}, []string{"regime", "kind"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Number of scheduler polls.",
		}, []string{"regime"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_regime",
			Help:      "1 for the regime currently running.",
		}, []string{"regime"}),
	}

	collectors := []prometheus.Collector{
		recorder.started,
		recorder.stopped,
		recorder.notifications,
		recorder.polls,
		recorder.active,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	for _, regime := range regimes {
		recorder.active.WithLabelValues(regime).Set(0)
	}

	return recorder, nil
}

func (recorder *PrometheusRecorder) RegimeStarted(regime string) {
	recorder.started.WithLabelValues(regime).Inc()
}

func (recorder *PrometheusRecorder) RegimeStopped(regime, reason string) {
	recorder.stopped.WithLabelValues(regime, reason).Inc()
}

func (recorder *PrometheusRecorder) NotificationSent(regime, kind string) {
	recorder.notifications.WithLabelValues(regime, kind).Inc()
}

func (recorder *PrometheusRecorder) Polled(regime string) {
	recorder.polls.WithLabelValues(regime).Inc()
}

func (recorder *PrometheusRecorder) SetActive(regime string) {
	for _, known := range regimes {
		value := 0.0
		if known == regime {
			value = 1
		}
		recorder.active.WithLabelValues(known).Set(value)
	}
}

// Handler serves the registry in the Prometheus text format.
func (recorder *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(recorder.registry, promhttp.HandlerOpts{})
}

// Registry exposes the registry for tests.
func (recorder *PrometheusRecorder) Registry() *prometheus.Registry {
	return recorder.registry
}
