// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status_code"},
	)

	// Business metrics
	enquirySubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enquiry_submissions_total",
			Help: "Total number of accepted enquiry submissions",
		},
		[]string{"kind"}, // enquiry, service_enquiry
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"status"}, // success, failure
	)

	testimonialMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testimonial_mutations_total",
			Help: "Total number of testimonial changes",
		},
		[]string{"operation"}, // create, update, delete, toggle
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enquiry_notifications_total",
			Help: "Total number of new-enquiry notifications attempted",
		},
		[]string{"status"}, // sent, failed
	)
)

// Enquiry kinds used as label values.
const (
	KindEnquiry        = "enquiry"
	KindServiceEnquiry = "service_enquiry"
)

// Middleware records request count and latency by chi route pattern, so ids
// in paths never become label values.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)

		httpRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
	})
}

// RecordEnquirySubmission records an accepted submission of the given kind.
func RecordEnquirySubmission(kind string) {
	enquirySubmissionsTotal.WithLabelValues(kind).Inc()
}

// RecordAuthAttempt records an admin login attempt
func RecordAuthAttempt(success bool) {
	authAttemptsTotal.WithLabelValues(outcome(success, "success", "failure")).Inc()
}

func RecordTestimonialMutation(operation string) {
	testimonialMutationsTotal.WithLabelValues(operation).Inc()
}

func RecordNotification(sent bool) {
	notificationsTotal.WithLabelValues(outcome(sent, "sent", "failed")).Inc()
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
