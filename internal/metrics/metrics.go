// Package metrics holds the prometheus collectors for the feed bot.
package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsfeed_page_fetches_total",
			Help: "Recommendation page fetches by result",
		},
		[]string{"result"}, // "full", "short", "error"
	)

	InteractionReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsfeed_interaction_reports_total",
			Help: "Interaction reports by type and result",
		},
		[]string{"type", "result"}, // result: "ok", "error", "dropped"
	)

	OnboardingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsfeed_onboarding_transitions_total",
			Help: "Onboarding phase transitions by target phase",
		},
		[]string{"to"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsfeed_active_sessions",
			Help: "Feed sessions currently held in memory",
		},
	)

	ReportQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsfeed_report_queue_depth",
			Help: "Interaction reports waiting for a dispatcher worker",
		},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "newsfeed_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)
)

// Router serves /metrics and /healthz
func Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}
