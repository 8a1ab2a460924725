package main

import (
	"net/http"

	"github.com/angeloszaimis/simple-observability/internal/metrics"
	"github.com/angeloszaimis/simple-observability/pkg/health"
)

func setupRouter(metricsCollector *metrics.Collector, report func() health.Metadata) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", health.Handler(report))
	mux.Handle("GET /metrics", metricsCollector.Handler())

	return mux
}
