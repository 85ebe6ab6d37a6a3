package watcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lcu-companion/internal/domain/lobby"
)

type fakeLobbyAPI struct {
	lobby    lobby.Lobby
	lobbyErr error
	state    lobby.SearchState
	phase    string
}

func (f *fakeLobbyAPI) Lobby(ctx context.Context) (lobby.Lobby, error) {
	return f.lobby, f.lobbyErr
}

func (f *fakeLobbyAPI) SearchState(ctx context.Context) (lobby.SearchState, error) {
	return f.state, nil
}

func (f *fakeLobbyAPI) GameflowPhase(ctx context.Context) (string, error) {
	return f.phase, nil
}

func collectLobbyEvents(w *LobbyWatcher, sink *[]LobbyEvent) {
	w.handler = func(ev LobbyEvent) { *sink = append(*sink, ev) }
}

func kinds(events []LobbyEvent) []LobbyEventKind {
	out := make([]LobbyEventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func hasKind(events []LobbyEvent, kind LobbyEventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

func countKind(events []LobbyEvent, kind LobbyEventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestLobbyWatcherEdgeTriggered(t *testing.T) {
	api := &fakeLobbyAPI{
		lobby: lobby.Lobby{PartyID: "p1", Members: []lobby.Member{{SummonerID: 1}}},
		phase: "Lobby",
	}
	var events []LobbyEvent
	w := NewLobbyWatcher(api, time.Second, zerolog.Nop(), nil)
	collectLobbyEvents(w, &events)

	w.cycle(context.Background())
	if !hasKind(events, EventLobbyCreated) {
		t.Fatalf("no LOBBY_CREATED on first sight: %v", kinds(events))
	}
	if !hasKind(events, EventSolo) {
		t.Errorf("single member should raise SOLO: %v", kinds(events))
	}

	// Steady state: no repeats.
	events = events[:0]
	w.cycle(context.Background())
	if len(events) != 0 {
		t.Fatalf("steady state emitted %v", kinds(events))
	}

	// Second member joins.
	api.lobby.Members = append(api.lobby.Members, lobby.Member{SummonerID: 2})
	events = events[:0]
	w.cycle(context.Background())
	if !hasKind(events, EventMembersChanged) || !hasKind(events, EventNotSolo) {
		t.Fatalf("member join events missing: %v", kinds(events))
	}
	if hasKind(events, EventLobbyCreated) {
		t.Errorf("lobby id did not change, got LOBBY_CREATED again")
	}

	// Lobby disappears.
	api.lobby = lobby.Lobby{}
	api.lobbyErr = errors.New("404")
	events = events[:0]
	w.cycle(context.Background())
	if !hasKind(events, EventLobbyLeft) {
		t.Fatalf("no LOBBY_LEFT: %v", kinds(events))
	}
}

func TestLobbyWatcherMatchmakingAndAcceptWindow(t *testing.T) {
	api := &fakeLobbyAPI{
		lobby: lobby.Lobby{PartyID: "p1", Members: []lobby.Member{{SummonerID: 1}}},
		phase: "Lobby",
	}
	var events []LobbyEvent
	w := NewLobbyWatcher(api, time.Second, zerolog.Nop(), nil)
	collectLobbyEvents(w, &events)
	w.cycle(context.Background())

	api.state = lobby.SearchState{AltState: "Searching"}
	api.phase = "Matchmaking"
	events = events[:0]
	w.cycle(context.Background())
	if !hasKind(events, EventMatchmakingStarted) {
		t.Fatalf("no MATCHMAKING_STARTED: %v", kinds(events))
	}
	if !hasKind(events, EventSearchState) {
		t.Errorf("no SEARCH_STATE: %v", kinds(events))
	}

	api.phase = "ReadyCheck"
	events = events[:0]
	w.cycle(context.Background())
	if !hasKind(events, EventAcceptWindow) {
		t.Fatalf("no ACCEPT_WINDOW on ReadyCheck transition: %v", kinds(events))
	}

	// Staying in ReadyCheck must not reopen the window.
	events = events[:0]
	w.cycle(context.Background())
	if countKind(events, EventAcceptWindow) != 0 {
		t.Fatalf("ACCEPT_WINDOW repeated: %v", kinds(events))
	}

	api.state = lobby.SearchState{}
	api.phase = "ChampSelect"
	events = events[:0]
	w.cycle(context.Background())
	if !hasKind(events, EventMatchmakingStopped) {
		t.Fatalf("no MATCHMAKING_STOPPED: %v", kinds(events))
	}
}
