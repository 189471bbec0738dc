package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CreationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_creations_created_total",
			Help: "Slideshows successfully created",
		},
	)

	CreationsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_creations_deleted_total",
			Help: "Slideshows deleted",
		},
	)

	// AssetCleanupFailures считает ресурсы, которые не удалось убрать после удаления или отката
	AssetCleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_asset_cleanup_failures_total",
			Help: "Assets that could not be removed during best-effort cleanup",
		},
	)

	OrphansSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slideshow_orphans_swept_total",
			Help: "Asset folders removed by the sweeper because no record references them",
		},
	)
)
