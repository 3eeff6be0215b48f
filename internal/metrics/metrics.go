// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "downlog_"

// Metrics are the monitor's collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	deviceUp         prometheus.Gauge
	downtimeMinutes  prometheus.Gauge
	outages          prometheus.Counter
	recordsCompleted prometheus.Counter
	storeErrors      prometheus.Counter
	polls            *prometheus.CounterVec
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		deviceUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "device_up",
			Help: "1 if the monitored device answered the last probe",
		}),
		downtimeMinutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "downtime_minutes",
			Help: "Downtime minutes accumulated in the in-progress record",
		}),
		outages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "outages_total",
			Help: "Outages observed since start",
		}),
		recordsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "records_completed_total",
			Help: "Records finalized in the log since start",
		}),
		storeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "store_errors_total",
			Help: "Failed record store operations",
		}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "polls_total",
			Help: "Probe results by outcome",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.deviceUp,
		m.downtimeMinutes,
		m.outages,
		m.recordsCompleted,
		m.storeErrors,
		m.polls,
	)
	return m
}

// Handler serves the collectors of g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) Poll(up bool) {
	if m == nil {
		return
	}
	if up {
		m.deviceUp.Set(1)
		m.polls.WithLabelValues("up").Inc()
		return
	}
	m.deviceUp.Set(0)
	m.polls.WithLabelValues("down").Inc()
}

func (m *Metrics) OutageStarted() {
	if m == nil {
		return
	}
	m.outages.Inc()
}

func (m *Metrics) Downtime(minutes uint16) {
	if m == nil {
		return
	}
	m.downtimeMinutes.Set(float64(minutes))
}

func (m *Metrics) RecordCompleted() {
	if m == nil {
		return
	}
	m.recordsCompleted.Inc()
	m.downtimeMinutes.Set(0)
}

func (m *Metrics) StoreError() {
	if m == nil {
		return
	}
	m.storeErrors.Inc()
}
