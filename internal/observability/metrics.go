package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TripsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "camino", Name: "trips_created_total", Help: "Trips created by service type"},
		[]string{"type"},
	)
	TripStatusTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "camino", Name: "trip_status_transitions_total", Help: "Trip status transitions"},
		[]string{"to"},
	)
	OffersSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "camino", Name: "offers_submitted_total", Help: "Offers submitted by drivers"},
	)
	OffersAcceptedTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "camino", Name: "offers_accepted_total", Help: "Offers accepted by passengers"},
	)
	AcceptConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "camino", Name: "accept_conflicts_total", Help: "Offer accepts lost to a concurrent winner"},
	)
	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{Namespace: "camino", Name: "websocket_clients", Help: "Connected websocket clients"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "camino", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "camino",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// GinMiddleware records request counts and latencies per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
