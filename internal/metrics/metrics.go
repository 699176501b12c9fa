package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"shareit/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shareit"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by component, route and status.",
		},
		[]string{"component", "route", "method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"component", "route"},
	)

	domainEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_total",
			Help:      "Booking transitions and comments by event type.",
		},
		[]string{"type"},
	)

	throttled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_throttled_total",
			Help:      "Requests rejected by the per-user rate limit.",
		},
	)

	limiterFallback = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ratelimit_fallback_active",
			Help:      "1 while the rate limiter runs on its in-memory fallback.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, domainEvents, throttled, limiterFallback)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one served request.
func ObserveHTTP(component, route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(component, route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(component, route).Observe(elapsed.Seconds())
}

func IncThrottled() {
	throttled.Inc()
}

func SetLimiterFallback(active bool) {
	if active {
		limiterFallback.Set(1)
		return
	}
	limiterFallback.Set(0)
}

// SubscribeDomainEvents counts booking and comment events published on bus.
func SubscribeDomainEvents(bus *events.EventBus) {
	count := func(e *events.Event) error {
		domainEvents.WithLabelValues(e.Type).Inc()
		return nil
	}
	bus.Subscribe(count, events.BookingEvents...)
	bus.Subscribe(count, events.EventCommentAdded)
}
