package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/southville8b/student-portal/internal/health"
)

var (
	// Auth metrics

	LoginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentportal",
		Name:      "login_attempts_total",
		Help:      "Password login attempts, by outcome.",
	}, []string{"outcome"})

	OTPIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentportal",
		Name:      "otp_issued_total",
		Help:      "One-time codes issued, by trigger (request/resend).",
	}, []string{"trigger"})

	OTPVerifyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentportal",
		Name:      "otp_verify_total",
		Help:      "OTP verification attempts, by result.",
	}, []string{"result"})

	RateLimitRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentportal",
		Name:      "rate_limit_rejections_total",
		Help:      "Requests rejected by the sliding-window limiter, by scope.",
	}, []string{"scope"})

	// Sweep metrics

	SweepReclaimedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentportal",
		Name:      "sweep_reclaimed_total",
		Help:      "Entries reclaimed by background sweeps, by store.",
	}, []string{"store"})

	// Upload metrics

	DocumentUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentportal",
		Name:      "document_uploads_total",
		Help:      "Document uploads, by outcome.",
	}, []string{"outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "studentportal",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentportal",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		LoginAttemptsTotal,
		OTPIssuedTotal,
		OTPVerifyTotal,
		RateLimitRejectionsTotal,
		SweepReclaimedTotal,
		DocumentUploadsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer exposes /metrics plus liveness and readiness probes on the
// internal port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
