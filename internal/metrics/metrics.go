package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angeloszaimis/simple-observability/pkg/dashboard"
)

const namespace = "dashboard"

// Load results used as the result label of the loads counter.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the Prometheus instruments describing the dashboard
// configuration of the process.
type Metrics struct {
	loads           *prometheus.CounterVec
	services        *prometheus.GaugeVec
	environments    prometheus.Gauge
	refreshInterval prometheus.Gauge
	defaultTimeout  prometheus.Gauge
	lastLoad        prometheus.Gauge
}

// NewMetrics creates the instruments and registers them with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_loads_total",
			Help:      "Dashboard configuration load attempts by result.",
		}, []string{"result"}),
		services: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "services",
			Help:      "Configured services by environment and enabled flag.",
		}, []string{"environment", "enabled"}),
		environments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "environments",
			Help:      "Distinct environments in the current configuration.",
		}),
		refreshInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refresh_interval_seconds",
			Help:      "Refresh interval of the current configuration.",
		}),
		defaultTimeout: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "timeout_seconds",
			Help:      "Default health check timeout of the current configuration.",
		}),
		lastLoad: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "config_last_load_timestamp_seconds",
			Help:      "Unix time of the last successful configuration load.",
		}),
	}

	registry.MustRegister(
		m.loads,
		m.services,
		m.environments,
		m.refreshInterval,
		m.defaultTimeout,
		m.lastLoad,
	)

	// Both result series are exported from the start.
	m.loads.WithLabelValues(ResultSuccess)
	m.loads.WithLabelValues(ResultFailure)

	return m
}

func (m *Metrics) RecordFailure() {
	m.loads.WithLabelValues(ResultFailure).Inc()
}

// RecordConfiguration counts a successful load and replaces the gauges with
// the values of cfg.
func (m *Metrics) RecordConfiguration(cfg dashboard.Configuration, at time.Time) {
	m.loads.WithLabelValues(ResultSuccess).Inc()

	m.services.Reset()
	for _, group := range cfg.Groups() {
		counts := map[bool]int{}
		for _, s := range group.Services {
			counts[s.Enabled]++
		}
		for enabled, n := range counts {
			m.services.WithLabelValues(group.Name, strconv.FormatBool(enabled)).Set(float64(n))
		}
	}

	m.environments.Set(float64(len(cfg.Environments())))
	m.refreshInterval.Set(float64(cfg.RefreshIntervalSeconds))
	m.defaultTimeout.Set(float64(cfg.TimeoutSeconds))
	m.lastLoad.Set(float64(at.Unix()))
}
