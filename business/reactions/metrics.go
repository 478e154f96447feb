package reactions

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	reactionUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaction_updates_total",
			Help: "Count of reaction updates by kind and action (set, switch, clear).",
		},
		[]string{"kind", "action"},
	)
)

func init() {
	prometheus.MustRegister(reactionUpdatesTotal)
}
