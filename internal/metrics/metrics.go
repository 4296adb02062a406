package metrics

import (
	"FreshTrack/pkg/cache"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	CacheResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freshtrack_listing_cache_total",
			Help: "Inventory listing cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error, bypass
	)

	Mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freshtrack_food_mutations_total",
			Help: "Successful food item mutations by operation",
		},
		[]string{"op"},
	)

	FreshnessClassified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freshtrack_freshness_classified_total",
			Help: "Food items classified per freshness status",
		},
		[]string{"status"},
	)

	RemindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "freshtrack_expiry_reminders_sent_total",
			Help: "Expiry digest emails delivered",
		},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "freshtrack_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		CacheResults,
		Mutations,
		FreshnessClassified,
		RemindersSent,
		RequestDuration,
	)
}

// RegisterCacheStats exposes the listing cache counters as gauges read at
// scrape time. Registering a second source is a no-op.
func RegisterCacheStats(source interface{ Stats() cache.StatsSnapshot }) error {
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "freshtrack_listing_cache_hit_rate_percent",
			Help: "Share of listing cache reads that hit",
		}, func() float64 { return source.Stats().HitRate }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "freshtrack_listing_cache_errors",
			Help: "Listing cache operations that failed since start",
		}, func() float64 { return float64(source.Stats().Errors) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "freshtrack_listing_cache_deleted_keys",
			Help: "Listing cache keys removed since start",
		}, func() float64 { return float64(source.Stats().Deletes) }),
	}

	for _, g := range gauges {
		if err := Registry.Register(g); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request latency labelled by the matched route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		RequestDuration.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}
