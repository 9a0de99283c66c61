// Package metrics defines the prometheus collectors shared across the
// tournament server's subsystems, grounded on the package-level
// promauto var block in
// other_examples/c13d1be6_MOHCentral-opm-stats-api__internal-worker-pool.go.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TickDuration observes how long one game's SimulateTick call took.
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tournament_tick_duration_seconds",
		Help:    "Time spent simulating a single game tick.",
		Buckets: prometheus.DefBuckets,
	})

	// OpenGames tracks the number of currently running game instances.
	OpenGames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tournament_open_games",
		Help: "Number of currently open game instances.",
	})

	// ConnectedCompetitors tracks live TCP competitor connections.
	ConnectedCompetitors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tournament_connected_competitors",
		Help: "Number of currently open competitor TCP connections.",
	})

	// ConnectedSpectators tracks live WebSocket spectator connections.
	ConnectedSpectators = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tournament_connected_spectators",
		Help: "Number of currently open spectator WebSocket connections.",
	})

	// AuthOutcomes counts authentication attempts by outcome.
	AuthOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tournament_auth_outcomes_total",
		Help: "Authentication attempts, partitioned by outcome.",
	}, []string{"outcome"})

	// ScoreWriteFailures counts best-effort high-score persistence
	// failures (§7: backend failures log and return, server stays up).
	ScoreWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tournament_score_write_failures_total",
		Help: "Failed bulk_update_high_scores_if_higher calls.",
	})
)

// Handler returns the HTTP handler to mount at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
