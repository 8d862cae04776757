package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics counts requests and observes their duration in set, labelled by
// method, chi route pattern and status. Durations use VictoriaMetrics
// histograms, exported as vmrange buckets. Unmatched routes share one label
// so arbitrary paths cannot grow the series count.
func Metrics(set *metrics.Set) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}
			labels := joinQuote("{method=", r.Method, ",path=", route, ",status=", strconv.Itoa(ww.status), "}")
			set.GetOrCreateCounter("http_requests_total" + labels).Inc()
			set.GetOrCreateHistogram("http_request_duration_seconds" + labels).UpdateDuration(start)
		})
	}
}

// joinQuote is [strings.Join] with " as separator.
func joinQuote(elems ...string) string { return strings.Join(elems, `"`) }
