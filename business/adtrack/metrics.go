package adtrack

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	adEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_events_total",
			Help: "Count of recorded ad lifecycle events by event type.",
		},
		[]string{"event_type"},
	)
)

func init() {
	prometheus.MustRegister(adEventsTotal)
}
