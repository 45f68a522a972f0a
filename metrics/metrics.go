package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registrations counts finished registration attempts by outcome
	// (created, invalid, conflict, failed).
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubeback_registrations_total",
			Help: "Registration attempts by outcome.",
		},
		[]string{"outcome"},
	)

	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubeback_media_uploads_total",
			Help: "Media uploads by asset and result.",
		},
		[]string{"asset", "result"},
	)

	UploadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubeback_media_upload_duration_seconds",
			Help:    "Time spent converting and storing one asset.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"asset"},
	)
)
