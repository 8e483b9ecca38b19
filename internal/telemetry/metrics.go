// Package telemetry exposes Prometheus metrics for the HTTP API.
package telemetry

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// requestsTotal counts handled requests by route, method and status.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quotation_http_requests_total",
		Help: "Total number of HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	// requestDuration tracks request latency per route.
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quotation_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
	}, []string{"route"})

	// notificationsDropped counts notifications lost to a full queue.
	notificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quotation_notifications_dropped_total",
		Help: "Total number of notifications dropped because the queue was full",
	})

	// exportsTotal counts generated export workbooks by kind.
	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quotation_exports_total",
		Help: "Total number of export workbooks generated by kind",
	}, []string{"kind"})
)

// Middleware records request count and latency per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// NotificationDropped records a notification lost to a full queue
func NotificationDropped() {
	notificationsDropped.Inc()
}

// ExportGenerated records a generated export workbook
func ExportGenerated(kind string) {
	exportsTotal.WithLabelValues(kind).Inc()
}
