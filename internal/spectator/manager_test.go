package spectator

import (
	"context"
	"testing"

	"github.com/louisdewar/pacman-tournament/internal/events"
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
	"github.com/louisdewar/pacman-tournament/internal/model"
	"github.com/louisdewar/pacman-tournament/internal/userstore"
	"github.com/rs/zerolog"
)

func newTestManager(t *testing.T) (*Manager, chan events.SpectatorEvent) {
	t.Helper()
	inbox := make(chan events.SpectatorEvent, 32)
	store := userstore.NewFakeStore()
	m := New(store, inbox, zerolog.Nop())
	return m, inbox
}

func TestHandleGameOpenedTracksGameState(t *testing.T) {
	m, _ := newTestManager(t)
	data := newEmptyData(t)

	m.handleEvent(events.GameOpened{GameID: 1, GameData: data})

	if _, ok := m.games[1]; !ok {
		t.Fatalf("expected game 1 to be tracked after GameOpened")
	}
}

func TestHandleGameClosedForgetsGameState(t *testing.T) {
	m, _ := newTestManager(t)
	data := newEmptyData(t)
	m.handleEvent(events.GameOpened{GameID: 1, GameData: data})

	m.handleEvent(events.GameClosed{GameID: 1})

	if _, ok := m.games[1]; ok {
		t.Fatalf("expected game 1 to be forgotten after GameClosed")
	}
}

func TestHandlePlayerSpawnedPopulatesIDMap(t *testing.T) {
	m, _ := newTestManager(t)
	data := newEmptyData(t)
	m.handleEvent(events.GameOpened{GameID: 1, GameData: data})

	m.handleEvent(events.SpectatorPlayerSpawned{
		UserID: 42, InGamePlayerID: 0, GameID: 1, Username: "dave", PrevHighScore: 5,
	})

	entry, ok := m.games[1].idMap[0]
	if !ok {
		t.Fatalf("expected idMap entry for in-game id 0")
	}
	if entry.userID != 42 || entry.username != "dave" || entry.prevHighScore != 5 {
		t.Fatalf("unexpected idMap entry: %+v", entry)
	}
}

func TestHandlePlayerLeftRemovesIDMapEntry(t *testing.T) {
	m, _ := newTestManager(t)
	data := newEmptyData(t)
	m.handleEvent(events.GameOpened{GameID: 1, GameData: data})
	m.handleEvent(events.SpectatorPlayerSpawned{UserID: 42, InGamePlayerID: 0, GameID: 1})

	m.handleEvent(events.SpectatorPlayerLeft{UserID: 42, InGamePlayerID: 0, GameID: 1})

	if _, ok := m.games[1].idMap[0]; ok {
		t.Fatalf("expected idMap entry to be removed after SpectatorPlayerLeft")
	}
}

func TestHandleTickAdvancesLastData(t *testing.T) {
	m, _ := newTestManager(t)
	oldData := newEmptyData(t)
	m.handleEvent(events.GameOpened{GameID: 1, GameData: oldData})

	newData := newEmptyData(t)
	newData.Players.Insert(0, &model.Player{Position: gamemap.Point{X: 1, Y: 1}})
	m.handleEvent(events.Tick{GameID: 1, GameData: newData})

	if m.games[1].lastData != newData {
		t.Fatalf("expected lastData to advance to the new tick's snapshot")
	}
}

func TestHandleTickForUnknownGameIsIgnored(t *testing.T) {
	m, _ := newTestManager(t)
	data := newEmptyData(t)

	// No GameOpened seen yet; must not panic.
	m.handleEvent(events.Tick{GameID: 99, GameData: data})

	if _, ok := m.games[99]; ok {
		t.Fatalf("unexpected game state for an unopened game")
	}
}

func TestBroadcastLeaderboardQueriesStore(t *testing.T) {
	inbox := make(chan events.SpectatorEvent, 1)
	store := userstore.NewFakeStore()
	store.Seed(userstore.User{ID: 1, Username: "alice", HighScore: 100, Enabled: true})
	m := New(store, inbox, zerolog.Nop())

	sendCh := make(chan string, 1)
	m.clients["c1"] = &client{id: "c1", filter: AllGames(), send: sendCh}

	m.broadcastLeaderboard(context.Background())

	select {
	case msg := <-sendCh:
		if len(msg) == 0 || msg[0] != 'l' {
			t.Fatalf("expected a leaderboard frame starting with 'l', got %q", msg)
		}
	default:
		t.Fatalf("expected a leaderboard message to be enqueued")
	}
}
