// Package metrics exposes Prometheus collectors for sessions, rewards and
// HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "arcade"

// Metrics owns its registry so several servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	SessionsStarted   *prometheus.CounterVec
	SessionsFinished  *prometheus.CounterVec
	SessionsAbandoned *prometheus.CounterVec
	SessionsActive    prometheus.Gauge
	Rewards           *prometheus.CounterVec
	Points            *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SessionsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Sessions moved from intro to playing.",
		}, []string{"variant"}),
		SessionsFinished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished_total",
			Help:      "Sessions that reached the finished phase.",
		}, []string{"variant"}),
		SessionsAbandoned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_abandoned_total",
			Help:      "Sessions closed before finishing.",
		}, []string{"variant"}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently hosted.",
		}),
		Rewards: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rewards_total",
			Help:      "Reward dispatch results.",
		}, []string{"result"}),
		Points: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Points credited to the ledger.",
		}, []string{"variant"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// PointsAwarded implements ledger.Recorder.
func (m *Metrics) PointsAwarded(variant string, amount int) {
	m.Points.WithLabelValues(variant).Add(float64(amount))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware observes request latency keyed by the chi route pattern, so
// path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
