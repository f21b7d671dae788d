// Package metrics exposes the dashboard's Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every dashboard metric on its own registry.
type Collector struct {
	registry *prometheus.Registry

	messagesReceived  prometheus.Counter
	messagesMalformed prometheus.Counter
	samplesCollected  prometheus.Counter
	connectAttempts   prometheus.Counter
	exports           *prometheus.CounterVec

	connectionState prometheus.Gauge
	bufferSize      prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		messagesReceived: f.NewCounter(prometheus.CounterOpts{
			Name: "rf2dash_messages_received_total",
			Help: "Telemetry messages received",
		}),
		messagesMalformed: f.NewCounter(prometheus.CounterOpts{
			Name: "rf2dash_messages_malformed_total",
			Help: "Telemetry messages dropped as malformed",
		}),
		samplesCollected: f.NewCounter(prometheus.CounterOpts{
			Name: "rf2dash_samples_collected_total",
			Help: "Complete samples added to the session buffer",
		}),
		connectAttempts: f.NewCounter(prometheus.CounterOpts{
			Name: "rf2dash_connection_attempts_total",
			Help: "Telemetry connection attempts",
		}),
		exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rf2dash_exports_total",
			Help: "Export attempts by outcome",
		}, []string{"outcome"}),
		connectionState: f.NewGauge(prometheus.GaugeOpts{
			Name: "rf2dash_connection_state",
			Help: "Telemetry connection state (0 connecting, 1 connected, 2 disconnected)",
		}),
		bufferSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "rf2dash_buffer_size",
			Help: "Samples in the session buffer",
		}),
	}
}

func (c *Collector) MessageReceived()  { c.messagesReceived.Inc() }
func (c *Collector) MessageMalformed() { c.messagesMalformed.Inc() }
func (c *Collector) SampleCollected()  { c.samplesCollected.Inc() }
func (c *Collector) ConnectAttempt()   { c.connectAttempts.Inc() }

func (c *Collector) Export(outcome string) {
	c.exports.WithLabelValues(outcome).Inc()
}

func (c *Collector) SetConnectionState(state int) {
	c.connectionState.Set(float64(state))
}

func (c *Collector) SetBufferSize(n int) {
	c.bufferSize.Set(float64(n))
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
