package metrics

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engagement_request_duration_seconds",
		Help:    "Latency of engagement API handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

func Init() {
	prometheus.MustRegister(RequestDuration)
}

// Middleware times every request against its route template.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			RequestDuration.WithLabelValues(c.Path(), c.Request().Method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
