package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	natsPushEventsReceivedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "nats_push_events_received_total",
			Help:      "Total number of push events received from NATS.",
		},
		[]string{"subject_pattern"},
	)

	pushEventsAppliedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "push_events_applied_total",
			Help:      "Total number of push events applied to the projection.",
		},
		[]string{"event_type", "outcome"}, // outcome: "applied", "skipped_unknown", "error_refresh"
	)

	contactListRefreshCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "contact_list_refreshes_total",
			Help:      "Total number of contact-list refreshes triggered by push events.",
		},
		[]string{"status"}, // "success", "error"
	)

	timelineRefreshCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "timeline_refreshes_total",
			Help:      "Total number of scoped timeline refreshes.",
		},
		[]string{"status"}, // "success", "stale_discarded", "error"
	)

	eventApplyDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pulse",
			Name:      "push_event_apply_duration_seconds",
			Help:      "Duration of applying one push event to the projection.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"event_type"},
	)
)
