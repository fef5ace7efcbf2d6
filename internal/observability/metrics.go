package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FaceSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentinela",
		Name:      "face_searches_total",
		Help:      "Total number of face similarity searches",
	}, []string{"outcome"})

	EmbeddingExtractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentinela",
		Name:      "embedding_extractions_total",
		Help:      "Total number of embedding extraction calls",
	}, []string{"outcome"})

	EmbeddingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sentinela",
		Name:      "embedding_extraction_duration_seconds",
		Help:      "Duration of embedding extraction calls",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	MediaIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentinela",
		Name:      "media_ingested_total",
		Help:      "Total number of media ingest tasks processed",
	}, []string{"outcome"})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sentinela",
		Name:      "ingest_queue_depth",
		Help:      "Number of pending media ingest tasks in queue",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sentinela",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sentinela",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
