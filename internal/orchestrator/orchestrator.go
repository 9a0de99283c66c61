// Package orchestrator implements the GlobalManager: it owns every
// open game instance, decides which game a newly-authenticated user
// lands in, and fans each game's tick events out to the competitor
// manager, the spectator broadcaster, and the score keeper. Grounded
// on original_source/tournament/src/game.rs's GlobalManager and the
// teacher's World.GameLoop select-driven event loop (world.go),
// generalized from one shared world to many independently-ticking
// game instances.
package orchestrator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisdewar/pacman-tournament/internal/bucket"
	"github.com/louisdewar/pacman-tournament/internal/events"
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
	"github.com/louisdewar/pacman-tournament/internal/localgame"
	"github.com/louisdewar/pacman-tournament/internal/metrics"
)

// playerRecord is what the orchestrator remembers about a user who is
// either queued to spawn or already playing. InGamePlayerID is the 0
// sentinel while spawning (spec §4.3).
type playerRecord struct {
	username       string
	highScore      uint32
	gameID         int
	inGamePlayerID int
}

// competitorNotifier is the slice of *competitor.Manager the
// orchestrator drives directly. Kept as an interface so the event-loop
// logic can be tested without a live TCP listener.
type competitorNotifier interface {
	HandleAuthConfirmed(events.AuthConfirmed)
	HandleAuthRejected(events.AuthRejected)
	HandlePlayerSpawned(events.PlayerSpawned)
	HandleProcessTick(events.ProcessTick)
	HandlePlayerDied(events.PlayerDied)
}

// scoreSubmitter is the slice of *scorekeeper.Manager the orchestrator
// drives directly.
type scoreSubmitter interface {
	Submit(events.ScoreUpdate)
}

// Manager is the GlobalManager.
type Manager struct {
	log zerolog.Logger

	mapData      *gamemap.Map
	tickInterval time.Duration

	games           *bucket.Bucket[*localgame.Manager]
	ingamePlayers   map[int]playerRecord // user id -> record
	spawningPlayers map[int]playerRecord

	fromCompetitor   <-chan events.CompetitorEvent
	fromAuth         <-chan events.Authenticated
	fromAuthRejected <-chan events.AuthRejected

	competitorMgr competitorNotifier
	scorekeeper   scoreSubmitter
	toSpectator   chan<- events.SpectatorEvent
}

// New creates a Manager. The three inbound channels and the three
// outbound dependencies are all constructed by the caller (cmd/tournament/main.go)
// so every subsystem's wiring is visible in one place.
func New(
	mapData *gamemap.Map,
	tickInterval time.Duration,
	fromCompetitor <-chan events.CompetitorEvent,
	fromAuth <-chan events.Authenticated,
	fromAuthRejected <-chan events.AuthRejected,
	competitorMgr competitorNotifier,
	scorekeeperMgr scoreSubmitter,
	toSpectator chan<- events.SpectatorEvent,
	log zerolog.Logger,
) *Manager {
	return &Manager{
		log:              log.With().Str("component", "orchestrator").Logger(),
		mapData:          mapData,
		tickInterval:     tickInterval,
		games:            bucket.New[*localgame.Manager](),
		ingamePlayers:    make(map[int]playerRecord),
		spawningPlayers:  make(map[int]playerRecord),
		fromCompetitor:   fromCompetitor,
		fromAuth:         fromAuth,
		fromAuthRejected: fromAuthRejected,
		competitorMgr:    competitorMgr,
		scorekeeper:      scorekeeperMgr,
		toSpectator:      toSpectator,
	}
}

// Run is the GlobalManager's single event loop (spec §4.3/§5): it
// multiplexes the tick timer and the three inbound event sources,
// running every tick to completion before processing the next message.
func (o *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(o.tickInterval)
	defer ticker.Stop()

	o.log.Info().Dur("tick_interval", o.tickInterval).Msg("orchestrator started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.tickAllGames()
		case ev, ok := <-o.fromCompetitor:
			if !ok {
				return
			}
			o.handleCompetitorEvent(ev)
		case ev, ok := <-o.fromAuth:
			if !ok {
				return
			}
			o.handleAuthenticated(ev)
		case ev, ok := <-o.fromAuthRejected:
			if !ok {
				return
			}
			o.competitorMgr.HandleAuthRejected(ev)
		}
	}
}

func (o *Manager) handleCompetitorEvent(ev events.CompetitorEvent) {
	switch e := ev.(type) {
	case events.Action:
		o.handleAction(e)
	case events.PlayerDisconnected:
		o.handlePlayerDisconnected(e)
	default:
		o.log.Warn().Msg("unrecognized competitor event")
	}
}

// handleAuthenticated implements spec §4.3 point 2: reject duplicate
// sessions, otherwise confirm and place the user into a game.
func (o *Manager) handleAuthenticated(ev events.Authenticated) {
	if _, inGame := o.ingamePlayers[ev.UserID]; inGame {
		o.competitorMgr.HandleAuthRejected(events.AuthRejected{TemporaryID: ev.TemporaryID, Reason: events.PlayerInGame})
		return
	}
	if _, spawning := o.spawningPlayers[ev.UserID]; spawning {
		o.competitorMgr.HandleAuthRejected(events.AuthRejected{TemporaryID: ev.TemporaryID, Reason: events.PlayerInGame})
		return
	}

	o.competitorMgr.HandleAuthConfirmed(events.AuthConfirmed{TemporaryID: ev.TemporaryID, UserID: ev.UserID})
	o.placeIntoGame(ev.UserID, ev.Username, ev.HighScore)
}

// placeIntoGame tries every existing game before opening a fresh one
// (spec §4.3).
func (o *Manager) placeIntoGame(userID int, username string, highScore uint32) {
	gameID, ok := -1, false
	o.games.Each(func(id int, g *localgame.Manager) {
		if ok {
			return
		}
		if g.TrySpawnPlayer(userID, username) {
			gameID, ok = id, true
		}
	})

	if !ok {
		g := localgame.New(o.mapData)
		gameID = o.games.Add(g)
		g.TrySpawnPlayer(userID, username)
		o.toSpectator <- events.GameOpened{GameID: gameID, GameData: g.Data().Snapshot()}
		metrics.OpenGames.Set(float64(o.games.Len()))
		o.log.Info().Int("game_id", gameID).Msg("opened new game")
	}

	o.spawningPlayers[userID] = playerRecord{username: username, highScore: highScore, gameID: gameID}
}

// handleAction forwards a queued action to the player's current game,
// tolerating an unknown player (spec §4.3 point 3). An action whose
// tick does not equal the game's current tick is dropped here, since
// model.Model.PlayerAction leaves tick filtering to the orchestrator.
func (o *Manager) handleAction(ev events.Action) {
	record, ok := o.ingamePlayers[ev.UserID]
	if !ok {
		return
	}
	g, ok := o.games.Get(record.gameID)
	if !ok {
		return
	}
	if ev.Tick != g.Tick() {
		return
	}
	g.PlayAction(record.inGamePlayerID, ev.Action, ev.Tick)
}

func (o *Manager) handlePlayerDisconnected(ev events.PlayerDisconnected) {
	g, ok := o.games.Get(ev.GameID)
	if ok {
		g.RemoveClient(ev.InGamePlayerID)
	}
	delete(o.ingamePlayers, ev.UserID)
	o.toSpectator <- events.SpectatorPlayerLeft{UserID: ev.UserID, InGamePlayerID: ev.InGamePlayerID, GameID: ev.GameID}
}

// tickAllGames runs one simulation step on every open game, fans out
// the resulting events, then closes any game left with no players.
func (o *Manager) tickAllGames() {
	var toClose []int

	o.games.Each(func(gameID int, g *localgame.Manager) {
		sink := &localgame.SliceSink{}
		g.SimulateTick(sink)

		for _, ev := range sink.Events {
			o.handleGameEvent(gameID, g, ev)
		}

		if g.ShouldClose() {
			toClose = append(toClose, gameID)
		}
	})

	for _, gameID := range toClose {
		o.games.Remove(gameID)
		o.toSpectator <- events.GameClosed{GameID: gameID}
		o.log.Info().Int("game_id", gameID).Msg("closed empty game")
	}
	metrics.OpenGames.Set(float64(o.games.Len()))
}

func (o *Manager) handleGameEvent(gameID int, g *localgame.Manager, ev localgame.Event) {
	switch e := ev.(type) {
	case localgame.PlayerSpawned:
		o.handlePlayerSpawned(gameID, e)
	case localgame.ProcessTick:
		o.handleProcessTick(gameID, e)
	case localgame.PlayerDied:
		o.handlePlayerDied(e)
	}
}

func (o *Manager) handlePlayerSpawned(gameID int, e localgame.PlayerSpawned) {
	record, ok := o.spawningPlayers[e.UserID]
	if !ok {
		// The connection disconnected while queued (spec is silent on
		// this case, §4.4); the player still occupies a slot in the
		// game but nobody is listening for it.
		record = playerRecord{gameID: gameID}
	}
	delete(o.spawningPlayers, e.UserID)
	record.inGamePlayerID = e.InGamePlayerID
	record.gameID = gameID
	o.ingamePlayers[e.UserID] = record

	o.competitorMgr.HandlePlayerSpawned(events.PlayerSpawned{UserID: e.UserID, InGamePlayerID: e.InGamePlayerID, GameID: gameID})
	o.toSpectator <- events.SpectatorPlayerSpawned{
		UserID:         e.UserID,
		InGamePlayerID: e.InGamePlayerID,
		GameID:         gameID,
		Username:       record.username,
		PrevHighScore:  record.highScore,
	}
}

func (o *Manager) handleProcessTick(gameID int, e localgame.ProcessTick) {
	metrics.TickDuration.Observe(e.Duration.Seconds())

	var playerScores []events.PlayerScore
	for inGameID, userID := range e.IDMap {
		if p, ok := e.GameData.Players.Get(inGameID); ok {
			playerScores = append(playerScores, events.PlayerScore{UserID: userID, Score: p.Score})
		}
	}
	o.scorekeeper.Submit(events.ScoreUpdate{GameID: gameID, PlayerScores: playerScores})

	o.competitorMgr.HandleProcessTick(events.ProcessTick{
		GameID:   gameID,
		GameData: e.GameData,
		Tick:     e.Tick,
		IDMap:    e.IDMap,
		Duration: e.Duration,
	})
	o.toSpectator <- events.Tick{GameID: gameID, GameData: e.GameData.Snapshot()}
}

func (o *Manager) handlePlayerDied(e localgame.PlayerDied) {
	record, ok := o.ingamePlayers[e.UserID]
	delete(o.ingamePlayers, e.UserID)

	o.competitorMgr.HandlePlayerDied(events.PlayerDied{UserID: e.UserID, FinalScore: e.FinalScore})
	if ok {
		o.toSpectator <- events.SpectatorPlayerLeft{UserID: e.UserID, InGamePlayerID: record.inGamePlayerID, GameID: record.gameID}
	}
}
