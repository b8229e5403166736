// Package telemetry exposes the engine's state to the outside: a JSON
// snapshot endpoint, a WebSocket event stream fed by the bus, and
// Prometheus metrics for the frame loop.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects frame-loop and link health metrics.
type Metrics struct {
	registry *prometheus.Registry

	tickDuration prometheus.Histogram
	framesDrawn  prometheus.Counter
	transitions  *prometheus.CounterVec
	linkUp       *prometheus.GaugeVec
}

// NewMetrics creates and registers the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cortexface",
			Name:      "tick_duration_seconds",
			Help:      "Work time of one frame tick.",
			Buckets:   []float64{.0005, .001, .002, .005, .01, .02, .033, .05, .1},
		}),
		framesDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cortexface",
			Name:      "mouth_frames_drawn_total",
			Help:      "Mouth frames rendered (mood and talk).",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cortexface",
			Name:      "speech_transitions_total",
			Help:      "Speech state transitions by entered state.",
		}, []string{"state"}),
		linkUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cortexface",
			Name:      "link_up",
			Help:      "Link connectivity by link name (1 up, 0 down).",
		}, []string{"link"}),
	}
	m.registry.MustRegister(m.tickDuration, m.framesDrawn, m.transitions, m.linkUp)
	return m
}

// ObserveTick records one frame's work duration.
func (m *Metrics) ObserveTick(d time.Duration) {
	m.tickDuration.Observe(d.Seconds())
}

// FrameDrawn counts one rendered mouth frame.
func (m *Metrics) FrameDrawn() {
	m.framesDrawn.Inc()
}

// Transition counts a speech state change.
func (m *Metrics) Transition(state string) {
	m.transitions.WithLabelValues(state).Inc()
}

// SetLinkUp records link connectivity.
func (m *Metrics) SetLinkUp(link string, up bool) {
	v := 0.0
	if up {
		v = 1.0
	}
	m.linkUp.WithLabelValues(link).Set(v)
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
