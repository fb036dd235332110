package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce         sync.Once
	apiRequestsTotal     *prometheus.CounterVec
	apiLatencySeconds    *prometheus.HistogramVec
	apiErrorsTotal       *prometheus.CounterVec
	submissionsScored    *prometheus.CounterVec
	rankingsFoldedTotal  prometheus.Counter
	rankingPassDurationS prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the API and
// the ranking recalculation task.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "challenges_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "challenges_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "challenges_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsScored = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "challenges_submissions_scored_total",
			Help: "Total number of submissions scored, by correctness.",
		}, []string{"correct"})

		rankingsFoldedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "challenges_rankings_folded_total",
			Help: "Total number of submissions folded into season standings.",
		})

		rankingPassDurationS = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "challenges_ranking_pass_duration_seconds",
			Help:    "Duration of ranking recalculation passes.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			submissionsScored,
			rankingsFoldedTotal,
			rankingPassDurationS,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// SubmissionsScored exposes the counter for scored submissions.
func SubmissionsScored() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsScored
}

// RankingsFolded exposes the counter for standings folds.
func RankingsFolded() prometheus.Counter {
	RegisterMetrics()
	return rankingsFoldedTotal
}

// RankingPassDuration exposes the recalculation pass duration histogram.
func RankingPassDuration() prometheus.Histogram {
	RegisterMetrics()
	return rankingPassDurationS
}

// MetricsHandler exposes the Prometheus scrape endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	scrape := promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return adaptor.HTTPHandler(scrape)
}
