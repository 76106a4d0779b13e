// Package observability holds the prometheus collectors for the delivery
// subsystem. One Metrics instance is created in the composition root and
// injected wherever a component reports an operational signal.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the subsystem's collectors behind the small interfaces the
// command handlers and streams expect.
type Metrics struct {
	registry *prometheus.Registry

	unassignedOrders prometheus.Gauge
	workerRuns       *prometheus.CounterVec
	workerAlerts     *prometheus.CounterVec
	retryBacklog     prometheus.Gauge
	openStreams      *prometheus.GaugeVec
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		unassignedOrders: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "kopikurir",
			Name:      "unassigned_orders",
			Help:      "Delivery orders waiting for a courier after the last assignment sweep.",
		}),
		workerRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kopikurir",
			Name:      "worker_runs_total",
			Help:      "Reliability worker cycles by outcome.",
		}, []string{"outcome"}),
		workerAlerts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kopikurir",
			Name:      "worker_alerts_total",
			Help:      "Ops alerts raised by worker threshold evaluation, by reason.",
		}, []string{"reason"}),
		retryBacklog: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "kopikurir",
			Name:      "message_retry_backlog",
			Help:      "Outbound messages currently scheduled for a resend.",
		}),
		openStreams: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "kopikurir",
			Name:      "open_streams",
			Help:      "Live tracking stream connections by channel.",
		}, []string{"channel"}),
	}
}

// Handler serves the registry for the /metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetUnassignedOrders publishes the leftover count of an assignment sweep.
func (m *Metrics) SetUnassignedOrders(count int) {
	m.unassignedOrders.Set(float64(count))
}

// ObserveWorkerRun counts one reliability worker cycle.
func (m *Metrics) ObserveWorkerRun(succeeded bool) {
	outcome := "success"
	if !succeeded {
		outcome = "failure"
	}
	m.workerRuns.WithLabelValues(outcome).Inc()
}

// ObserveWorkerAlert counts one threshold alert raised after a worker cycle.
func (m *Metrics) ObserveWorkerAlert(reason string) {
	m.workerAlerts.WithLabelValues(reason).Inc()
}

// SetRetryBacklog publishes the current resend backlog size.
func (m *Metrics) SetRetryBacklog(count int64) {
	m.retryBacklog.Set(float64(count))
}

// StreamOpened records a tracking stream connection opening.
func (m *Metrics) StreamOpened(channel string) {
	m.openStreams.WithLabelValues(channel).Inc()
}

// StreamClosed records a tracking stream connection closing.
func (m *Metrics) StreamClosed(channel string) {
	m.openStreams.WithLabelValues(channel).Dec()
}
