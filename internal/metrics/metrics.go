// Package metrics exposes Prometheus counters for maze sessions.
//
// A nil *Collector is valid and records nothing, so frontends can take one
// unconditionally.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "maze"

// Collector owns the maze metrics and the registry they live in.
type Collector struct {
	registry *prometheus.Registry

	sessionsTotal   prometheus.Counter
	sessionsActive  prometheus.Gauge
	framesRendered  prometheus.Counter
	commands        *prometheus.CounterVec
	exitsReached    *prometheus.CounterVec
	sessionDuration prometheus.Histogram
}

// New creates a collector with its own registry, so tests and multiple
// servers in one process never collide on the default registerer.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Sessions started.",
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently running.",
		}),
		framesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      "Frames cast and composed.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Player commands by outcome.",
		}, []string{"outcome"}),
		exitsReached: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exits_reached_total",
			Help:      "Runs that reached an exit, by map.",
		}, []string{"map"}),
		sessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Wall-clock length of sessions.",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1800},
		}),
	}

	c.registry.MustRegister(
		c.sessionsTotal,
		c.sessionsActive,
		c.framesRendered,
		c.commands,
		c.exitsReached,
		c.sessionDuration,
	)
	return c
}

// Registry returns the registry the metrics are registered in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// SessionStarted records a new session. Call the returned func when it ends.
func (c *Collector) SessionStarted() (done func()) {
	if c == nil {
		return func() {}
	}
	start := time.Now()
	c.sessionsTotal.Inc()
	c.sessionsActive.Inc()
	return func() {
		c.sessionsActive.Dec()
		c.sessionDuration.Observe(time.Since(start).Seconds())
	}
}

// FrameRendered counts one frame.
func (c *Collector) FrameRendered() {
	if c == nil {
		return
	}
	c.framesRendered.Inc()
}

// Command counts one command with its outcome label.
func (c *Collector) Command(outcome string) {
	if c == nil {
		return
	}
	c.commands.WithLabelValues(outcome).Inc()
}

// ExitReached counts a completed run on mapID.
func (c *Collector) ExitReached(mapID string) {
	if c == nil {
		return
	}
	c.exitsReached.WithLabelValues(mapID).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
