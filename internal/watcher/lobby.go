package watcher

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"lcu-companion/internal/domain/lobby"
)

// LobbyEventKind labels a single observed lobby or queue transition.
type LobbyEventKind string

const (
	EventLobbyCreated       LobbyEventKind = "LOBBY_CREATED"
	EventLobbyLeft          LobbyEventKind = "LOBBY_LEFT"
	EventMembersChanged     LobbyEventKind = "MEMBERS_CHANGED"
	EventSolo               LobbyEventKind = "SOLO"
	EventNotSolo            LobbyEventKind = "NOT_SOLO"
	EventMatchmakingStarted LobbyEventKind = "MATCHMAKING_STARTED"
	EventMatchmakingStopped LobbyEventKind = "MATCHMAKING_STOPPED"
	EventSearchState        LobbyEventKind = "SEARCH_STATE"
	EventPhaseChanged       LobbyEventKind = "PHASE"
	EventAcceptWindow       LobbyEventKind = "ACCEPT_WINDOW"
)

// LobbyEvent is one edge-triggered observation. Each event carries exactly
// one changed field, never a combined diff.
type LobbyEvent struct {
	Kind   LobbyEventKind
	Detail string
}

// LobbyEventHandler consumes lobby/queue events.
type LobbyEventHandler func(LobbyEvent)

// LobbyAPI is the slice of the domain client the lobby watcher needs.
type LobbyAPI interface {
	Lobby(ctx context.Context) (lobby.Lobby, error)
	SearchState(ctx context.Context) (lobby.SearchState, error)
	GameflowPhase(ctx context.Context) (string, error)
}

// LobbyWatcher diffs lobby id, member count, solo flag, matchmaking state,
// search state, and game-flow phase against the previous poll, emitting one
// labeled event per changed scalar.
type LobbyWatcher struct {
	runner
	api     LobbyAPI
	handler LobbyEventHandler

	lastLobbyID     string
	lastMemberCount int
	lastSolo        *bool
	lastSearching   *bool
	lastSearchState string
	lastPhase       *string
}

// NewLobbyWatcher creates a lobby/queue watcher. A nil handler logs events.
func NewLobbyWatcher(api LobbyAPI, interval time.Duration, log zerolog.Logger, handler LobbyEventHandler) *LobbyWatcher {
	w := &LobbyWatcher{
		runner:          newRunner(interval, log.With().Str("component", "lobby-watcher").Logger()),
		api:             api,
		handler:         handler,
		lastMemberCount: -1,
	}
	if w.handler == nil {
		w.handler = func(ev LobbyEvent) {
			w.log.Info().Str("event", string(ev.Kind)).Str("detail", ev.Detail).Msg("lobby event")
		}
	}
	return w
}

// Start begins polling.
func (w *LobbyWatcher) Start(ctx context.Context) { w.start(ctx, w.cycle) }

// Stop shuts the watcher down.
func (w *LobbyWatcher) Stop() { w.stop() }

func (w *LobbyWatcher) cycle(ctx context.Context) {
	lob, err := w.api.Lobby(ctx)
	if err != nil {
		lob = lobby.Lobby{}
	}

	var lobbyID string
	if lob.Exists() {
		lobbyID = lob.SyntheticID()
	}

	if lobbyID != "" && lobbyID != w.lastLobbyID {
		w.emit(EventLobbyCreated, lobbyID)
		w.lastLobbyID = lobbyID
	}
	if lobbyID == "" && w.lastLobbyID != "" {
		w.emit(EventLobbyLeft, "")
		w.lastLobbyID = ""
	}

	memberCount := len(lob.Members)
	if memberCount != w.lastMemberCount {
		w.emit(EventMembersChanged, strconv.Itoa(memberCount))
		w.lastMemberCount = memberCount
	}

	solo := memberCount == 1
	if w.lastSolo == nil || solo != *w.lastSolo {
		if solo {
			w.emit(EventSolo, "")
		} else {
			w.emit(EventNotSolo, "")
		}
		w.lastSolo = &solo
	}

	state := ""
	if ss, err := w.api.SearchState(ctx); err == nil {
		state = ss.Value()
	}
	phase, err := w.api.GameflowPhase(ctx)
	if err != nil {
		phase = ""
	}

	searching := lobby.Searching(state, phase)
	if w.lastSearching == nil || searching != *w.lastSearching {
		if searching {
			w.emit(EventMatchmakingStarted, "")
		} else {
			w.emit(EventMatchmakingStopped, "")
		}
		w.lastSearching = &searching
	}

	if state != "" && state != w.lastSearchState {
		w.emit(EventSearchState, state)
		w.lastSearchState = state
	}

	if w.lastPhase == nil || phase != *w.lastPhase {
		w.emit(EventPhaseChanged, phase)
		w.lastPhase = &phase
		if phase == "ReadyCheck" {
			// the accept window just opened
			w.emit(EventAcceptWindow, "")
		}
	}
}

func (w *LobbyWatcher) emit(kind LobbyEventKind, detail string) {
	w.handler(LobbyEvent{Kind: kind, Detail: detail})
}
