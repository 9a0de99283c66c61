// Package auth resolves AuthenticationRequests against the user
// store off the event-loop thread, grounded on
// original_source/tournament/src/authentication.rs for the outcome
// enum and on
// other_examples/c13d1be6_MOHCentral-opm-stats-api__internal-worker-pool.go
// for the job-channel-plus-worker-goroutine shape (here sized to one
// worker, since auth lookups are low-volume compared to the batch
// writes that example pool was built for).
package auth

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisdewar/pacman-tournament/internal/events"
	"github.com/louisdewar/pacman-tournament/internal/metrics"
	"github.com/louisdewar/pacman-tournament/internal/userstore"
)

// lookupTimeout bounds a single credential lookup so a wedged database
// connection cannot pin a worker forever.
const lookupTimeout = 5 * time.Second

// Manager off-loads the blocking userstore.Store.LookupByUsername call
// to a worker goroutine and routes the outcome to whichever downstream
// consumer is responsible for it.
type Manager struct {
	store userstore.Store
	log   zerolog.Logger

	inbox          chan events.AuthenticationRequest
	toCompetitor   chan<- events.AuthRejected
	toOrchestrator chan<- events.Authenticated
}

// New creates a Manager. toCompetitor receives rejections the
// authentication manager alone can determine (bad credentials,
// disabled account); toOrchestrator receives passing attempts, which
// still must be checked for an already-in-game duplicate there.
func New(store userstore.Store, toCompetitor chan<- events.AuthRejected, toOrchestrator chan<- events.Authenticated, log zerolog.Logger) *Manager {
	return &Manager{
		store:          store,
		log:            log.With().Str("component", "auth").Logger(),
		inbox:          make(chan events.AuthenticationRequest, 64),
		toCompetitor:   toCompetitor,
		toOrchestrator: toOrchestrator,
	}
}

// Submit enqueues an authentication request from the competitor
// manager.
func (m *Manager) Submit(req events.AuthenticationRequest) {
	m.inbox <- req
}

// Run drains the inbox, handling one request at a time on this single
// worker, until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-m.inbox:
			m.handle(ctx, req)
		}
	}
}

func (m *Manager) handle(parent context.Context, req events.AuthenticationRequest) {
	ctx, cancel := context.WithTimeout(parent, lookupTimeout)
	defer cancel()

	user, ok, err := m.store.LookupByUsername(ctx, req.Username)
	if err != nil {
		m.log.Error().Err(err).Str("username", req.Username).Msg("user store lookup failed")
		m.reject(req.TemporaryID, events.PlayerNotFound)
		return
	}
	if !ok {
		m.reject(req.TemporaryID, events.PlayerNotFound)
		return
	}
	if user.Code != req.Code {
		m.reject(req.TemporaryID, events.BadCode)
		return
	}
	if !user.Enabled {
		m.reject(req.TemporaryID, events.PlayerNotEnabled)
		return
	}

	metrics.AuthOutcomes.WithLabelValues("authenticated").Inc()
	m.toOrchestrator <- events.Authenticated{
		Username:    user.Username,
		UserID:      user.ID,
		TemporaryID: req.TemporaryID,
		HighScore:   user.HighScore,
	}
}

func (m *Manager) reject(temporaryID int, reason events.AuthFailureReason) {
	metrics.AuthOutcomes.WithLabelValues(reason.String()).Inc()
	m.toCompetitor <- events.AuthRejected{TemporaryID: temporaryID, Reason: reason}
}
