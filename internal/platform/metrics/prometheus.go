package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed metrics
	FeedCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fantasy_feed_calls_total",
			Help: "Total number of player feed calls",
		},
		[]string{"status"},
	)

	FeedCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fantasy_feed_call_duration_seconds",
			Help:    "Duration of player feed calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	FeedCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fantasy_feed_circuit_open",
			Help: "1 when the named circuit breaker is open or half open",
		},
		[]string{"breaker"},
	)

	// Job metrics
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fantasy_job_runs_total",
			Help: "Total number of job runs by outcome",
		},
		[]string{"job", "trigger", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fantasy_job_duration_seconds",
			Help:    "Duration of job runs in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"job"},
	)

	SyncedPlayersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fantasy_synced_players_total",
			Help: "Total number of per-player sync outcomes",
		},
		[]string{"status"},
	)

	RankedManagers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fantasy_ranked_managers",
			Help: "Number of managers ranked by the last ranking run",
		},
	)

	// Roster metrics
	RosterMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fantasy_roster_mutations_total",
			Help: "Total number of roster mutations by outcome",
		},
		[]string{"outcome"},
	)

	RosterConflictRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fantasy_roster_conflict_retries_total",
			Help: "Total number of roster writes retried after a version conflict",
		},
	)
)

func RecordFeedCall(status string, start time.Time) {
	FeedCallsTotal.WithLabelValues(status).Inc()
	FeedCallDuration.Observe(time.Since(start).Seconds())
}

func RecordJobRun(job, trigger, status string, elapsed time.Duration) {
	JobRunsTotal.WithLabelValues(job, trigger, status).Inc()
	JobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}

func SetCircuitOpen(breaker string, open bool) {
	v := 0.0
	if open {
		v = 1
	}
	FeedCircuitState.WithLabelValues(breaker).Set(v)
}
