// Package events holds the cross-subsystem message types that flow
// over the channels connecting the competitor manager, the
// authentication manager, the orchestrator, the spectator broadcaster,
// and the score keeper. Centralizing them here (rather than having
// each subsystem import another's event type, as the original source's
// per-module enums did) avoids import cycles between those five
// packages while keeping the same "typed channel of an event enum"
// shape the source uses throughout tournament/src/*.rs.
package events

import (
	"time"

	"github.com/louisdewar/pacman-tournament/internal/model"
)

// AuthFailureReason is why an authentication attempt was rejected.
type AuthFailureReason int

const (
	PlayerNotFound AuthFailureReason = iota
	BadCode
	PlayerNotEnabled
	PlayerInGame
)

// String returns a short label suitable for a metrics label value.
func (r AuthFailureReason) String() string {
	switch r {
	case PlayerNotFound:
		return "player_not_found"
	case BadCode:
		return "bad_code"
	case PlayerNotEnabled:
		return "player_not_enabled"
	case PlayerInGame:
		return "player_in_game"
	default:
		return "unknown"
	}
}

// Message renders the reason the way the client-facing "error" envelope
// does (spec §7, grounded on
// original_source/tournament/src/authentication.rs's to_message).
func (r AuthFailureReason) Message() string {
	switch r {
	case PlayerNotFound:
		return "Your username does not exist"
	case BadCode:
		return "The code does not match your username"
	case PlayerNotEnabled:
		return "Your account is not enabled"
	case PlayerInGame:
		return "You are already in a game, or waiting to spawn in one"
	default:
		return "Unknown authentication failure"
	}
}

// AuthenticationRequest is sent by the competitor manager to the
// authentication manager on the first message of a new connection.
type AuthenticationRequest struct {
	Username    string
	Code        string
	TemporaryID int
}

// Authenticated is sent by the authentication manager to the
// orchestrator once a request passes credential checks. The
// orchestrator still has to verify the user isn't already in a game.
type Authenticated struct {
	Username    string
	UserID      int
	TemporaryID int
	HighScore   uint32
}

// AuthRejected reports a failed authentication. The authentication
// manager sends it for reasons it can determine itself; the
// orchestrator's event loop relays those to the competitor manager,
// and raises PlayerInGame rejections of its own.
type AuthRejected struct {
	TemporaryID int
	Reason      AuthFailureReason
}

// CompetitorEvent is produced by the competitor manager for the
// orchestrator.
type CompetitorEvent interface{ isCompetitorEvent() }

// Action is a player's queued move for a specific tick.
type Action struct {
	UserID int
	Action model.Action
	Tick   uint64
}

// PlayerDisconnected is raised when an in-game connection drops.
type PlayerDisconnected struct {
	UserID         int
	GameID         int
	InGamePlayerID int
}

func (Action) isCompetitorEvent()             {}
func (PlayerDisconnected) isCompetitorEvent() {}

// GameEvent is produced by the orchestrator for the competitor
// manager: authentication outcomes it alone can determine (duplicate
// session) plus the three per-game lifecycle events rewritten into
// user-id terms.
type GameEvent interface{ isGameEvent() }

// AuthConfirmed tells the competitor manager to move a connection from
// unauthenticated to spawning.
type AuthConfirmed struct {
	TemporaryID int
	UserID      int
}

// PlayerSpawned is forwarded once a spawning user gets an in-game slot.
type PlayerSpawned struct {
	UserID         int
	InGamePlayerID int
	GameID         int
}

// ProcessTick carries one game's tick snapshot plus the id map needed
// to build each player's egocentric view.
type ProcessTick struct {
	GameID   int
	GameData *model.GameData
	Tick     uint64
	IDMap    map[int]int // in-game player id -> user id
	Duration time.Duration
}

// PlayerDied is forwarded once a live player's health reaches 0.
type PlayerDied struct {
	UserID     int
	FinalScore uint32
}

func (AuthRejected) isGameEvent()    {}
func (AuthConfirmed) isGameEvent()   {}
func (PlayerSpawned) isGameEvent()   {}
func (ProcessTick) isGameEvent()     {}
func (PlayerDied) isGameEvent()      {}

// SpectatorEvent is produced by the orchestrator for the spectator
// broadcaster.
type SpectatorEvent interface{ isSpectatorEvent() }

// GameOpened announces a freshly created game instance.
type GameOpened struct {
	GameID   int
	GameData *model.GameData
}

// GameClosed announces a game instance being torn down.
type GameClosed struct {
	GameID int
}

// SpectatorPlayerSpawned records the in-game-id -> user-id mapping for
// a freshly spawned player, so the broadcaster can tag future deltas
// with the player's static metadata (§4.6).
type SpectatorPlayerSpawned struct {
	UserID         int
	InGamePlayerID int
	GameID         int
	Username       string
	PrevHighScore  uint32
}

// SpectatorPlayerLeft retires a mapping entry.
type SpectatorPlayerLeft struct {
	UserID         int
	InGamePlayerID int
	GameID         int
}

// Tick carries the new GameData snapshot for delta computation.
type Tick struct {
	GameID   int
	GameData *model.GameData
}

func (GameOpened) isSpectatorEvent()             {}
func (GameClosed) isSpectatorEvent()             {}
func (SpectatorPlayerSpawned) isSpectatorEvent() {}
func (SpectatorPlayerLeft) isSpectatorEvent()    {}
func (Tick) isSpectatorEvent()                   {}

// ScoreUpdate batches one game's live scores for the score keeper.
type ScoreUpdate struct {
	GameID       int
	PlayerScores []PlayerScore
}

// PlayerScore pairs a user id with their current live score.
type PlayerScore struct {
	UserID int
	Score  uint32
}
