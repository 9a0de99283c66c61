// Package scorekeeper persists live in-game scores to the user store
// as a best-effort, batched background task, decoupled from the
// orchestrator's hot loop. Grounded on
// original_source/tournament/src/score.rs's dedicated score-persister
// actor, which the original keeps as its own task specifically so a
// slow database never stalls tick processing.
package scorekeeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisdewar/pacman-tournament/internal/events"
	"github.com/louisdewar/pacman-tournament/internal/metrics"
	"github.com/louisdewar/pacman-tournament/internal/userstore"
)

// flushInterval is how often accumulated scores are written to the
// store.
const flushInterval = 5 * time.Second

// Manager accumulates the most recently observed score for every user
// across all games and flushes it to the store on a timer.
type Manager struct {
	store  userstore.Store
	log    zerolog.Logger
	inbox  chan events.ScoreUpdate
	latest map[int]uint32
}

// New creates a Manager writing through store.
func New(store userstore.Store, log zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		log:    log.With().Str("component", "scorekeeper").Logger(),
		inbox:  make(chan events.ScoreUpdate, 256),
		latest: make(map[int]uint32),
	}
}

// Submit enqueues one game's per-tick score snapshot. Never blocks the
// caller for longer than it takes to enqueue: the channel is sized
// generously and a full channel drops the update with a log, matching
// §7's "best-effort" framing for score writes.
func (m *Manager) Submit(update events.ScoreUpdate) {
	select {
	case m.inbox <- update:
	default:
		m.log.Warn().Int("game_id", update.GameID).Msg("score update queue full, dropping")
	}
}

// Run drives the accumulate-then-flush loop until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-m.inbox:
			for _, ps := range update.PlayerScores {
				m.latest[ps.UserID] = ps.Score
			}
		case <-ticker.C:
			m.flush(ctx)
		}
	}
}

func (m *Manager) flush(ctx context.Context) {
	if len(m.latest) == 0 {
		return
	}
	batch := make([]userstore.ScoreUpdate, 0, len(m.latest))
	for userID, score := range m.latest {
		batch = append(batch, userstore.ScoreUpdate{UserID: userID, Score: score})
	}
	m.latest = make(map[int]uint32)

	if err := m.store.BulkUpdateHighScoresIfHigher(ctx, batch); err != nil {
		metrics.ScoreWriteFailures.Inc()
		m.log.Error().Err(err).Int("count", len(batch)).Msg("bulk high score update failed")
	}
}
