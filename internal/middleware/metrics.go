package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpix_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallpix_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	draftCreateCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpix_draft_creates_total",
			Help: "Total number of draft create attempts by outcome",
		},
		[]string{"outcome"},
	)

	shareResolveCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpix_share_resolves_total",
			Help: "Total number of share token resolutions by outcome",
		},
		[]string{"outcome"},
	)

	upgradeDecisionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpix_upgrade_decisions_total",
			Help: "Total number of upgrade request decisions",
		},
		[]string{"decision"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestCounter)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(draftCreateCounter)
	prometheus.MustRegister(shareResolveCounter)
	prometheus.MustRegister(upgradeDecisionCounter)
}

// Metrics records a counter and a duration histogram per request.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		labels := prometheus.Labels{
			"route":  c.Route().Path,
			"method": c.Method(),
			"status": strconv.Itoa(c.Response().StatusCode()),
		}
		httpRequestCounter.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// MetricsHandler exposes the prometheus registry on a fiber route.
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func RecordDraftCreate(outcome string) {
	draftCreateCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func RecordShareResolve(outcome string) {
	shareResolveCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func RecordUpgradeDecision(decision string) {
	upgradeDecisionCounter.With(prometheus.Labels{"decision": decision}).Inc()
}
