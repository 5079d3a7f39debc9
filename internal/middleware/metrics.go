package middleware

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"

	"yt-summarizer/internal/metrics"
)

// Metrics records request duration and in-flight requests.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			snoop := httpsnoop.CaptureMetrics(next, w, r)
			m.RequestDuration.
				WithLabelValues(routeName(r), r.Method, strconv.Itoa(snoop.Code)).
				Observe(snoop.Duration.Seconds())
		})
	}
}
