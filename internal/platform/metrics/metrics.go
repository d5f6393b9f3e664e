package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "smarttrack"

// Metrics holds the collectors for refresh cycles, backend fetches and
// user-facing notifications. Each instance owns its registry.
type Metrics struct {
	Registry *prometheus.Registry

	CyclesTotal    *prometheus.CounterVec
	CycleDuration  *prometheus.HistogramVec
	FetchesTotal   *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	Notifications  *prometheus.CounterVec
	LastCycleEpoch prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_cycles_total",
			Help:      "Refresh cycles by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)
	m.CycleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_cycle_duration_seconds",
			Help:      "Wall time of a refresh cycle",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"trigger"},
	)
	m.FetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_fetches_total",
			Help:      "Backend requests by endpoint and outcome",
		},
		[]string{"method", "path", "outcome"},
	)
	m.FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_fetch_duration_seconds",
			Help:      "Latency of backend requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications shown to the user by level",
		},
		[]string{"level"},
	)
	m.LastCycleEpoch = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_successful_refresh_timestamp_seconds",
			Help:      "Unix time of the last refresh cycle that updated every panel",
		},
	)

	m.Registry.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.FetchesTotal,
		m.FetchDuration,
		m.Notifications,
		m.LastCycleEpoch,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveFetch satisfies apiclient.Observer.
func (m *Metrics) ObserveFetch(method, path, outcome string, elapsed time.Duration) {
	m.FetchesTotal.WithLabelValues(method, path, outcome).Inc()
	m.FetchDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	}
}
