// Package metrics records scheduler activity.
//
// PrometheusRecorder keeps its own registry and exposes it over HTTP;
// Nop is used when metrics are disabled.
package metrics

import "net/http"

// Stop reasons reported to RegimeStopped.
const (
	ReasonReset     = "reset"
	ReasonCompleted = "completed"
	ReasonReplaced  = "replaced"
)

// Recorder receives scheduler activity.
type Recorder interface {
	RegimeStarted(regime string)
	RegimeStopped(regime, reason string)
	NotificationSent(regime, kind string)
	Polled(regime string)
	// SetActive marks regime as the active one; an empty regime means none.
	SetActive(regime string)
}

// New returns a PrometheusRecorder when enabled, Nop otherwise.
func New(enabled bool) (Recorder, http.Handler, error) {
	if !enabled {
		return Nop{}, http.NotFoundHandler(), nil
	}
	recorder, err := NewPrometheusRecorder()
	if err != nil {
		return nil, nil, err
	}
	return recorder, recorder.Handler(), nil
}
