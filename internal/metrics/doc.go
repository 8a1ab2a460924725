// Package metrics exports the dashboard configuration of the process as
// Prometheus metrics.
//
// A Collector is a dashboard.Observer: every load attempt of a dashboard.Store
// is queued as an event and applied to the metrics by a dedicated goroutine,
// so reloads never wait on metric updates.
//
// Example usage:
//
//	collector := metrics.NewCollector(100, logger)
//	collector.Start(ctx)
//
//	store, err := dashboard.NewStore(source, "", logger, collector)
//
//	mux.Handle("/metrics", collector.Handler())
//
// Exported series:
//   - dashboard_config_loads_total{result}
//   - dashboard_services{environment,enabled}
//   - dashboard_environments
//   - dashboard_refresh_interval_seconds
//   - dashboard_timeout_seconds
//   - dashboard_config_last_load_timestamp_seconds
package metrics
