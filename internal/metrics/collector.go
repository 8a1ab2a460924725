package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angeloszaimis/simple-observability/pkg/dashboard"
)

type EventType string

const (
	EventLoadSucceeded EventType = "load_succeeded"
	EventLoadFailed    EventType = "load_failed"
)

type MetricEvent struct {
	Type          EventType
	Timestamp     time.Time
	Configuration dashboard.Configuration
	Err           error
}

// Collector turns configuration load events into Prometheus metrics. Events
// are processed on the goroutine started by Start.
type Collector struct {
	eventCh  chan MetricEvent
	metrics  *Metrics
	registry *prometheus.Registry
	logger   *slog.Logger
}

// NewCollector returns a collector with its own registry. The registry also
// carries the Go runtime and process collectors.
func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		eventCh:  make(chan MetricEvent, bufferSize),
		metrics:  NewMetrics(registry),
		registry: registry,
		logger:   logger,
	}
}

// EventChannel returns the send side of the event queue.
func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

// Registry returns the registry served by Handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveLoad implements dashboard.Observer. It never blocks: when the buffer
// is full the event is dropped and a warning logged.
func (c *Collector) ObserveLoad(cfg dashboard.Configuration, err error) {
	event := MetricEvent{
		Type:          EventLoadSucceeded,
		Timestamp:     time.Now(),
		Configuration: cfg,
	}
	if err != nil {
		event.Type = EventLoadFailed
		event.Err = err
	}

	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("Metrics buffer full, dropping event", slog.String("type", string(event.Type)))
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventLoadSucceeded:
		c.metrics.RecordConfiguration(event.Configuration, event.Timestamp)

	case EventLoadFailed:
		c.metrics.RecordFailure()
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
		ErrorLog:          slog.NewLogLogger(c.logger.Handler(), slog.LevelError),
	})
}
