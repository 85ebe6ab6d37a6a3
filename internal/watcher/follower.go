package watcher

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lcu-companion/internal/domain/chat"
	"lcu-companion/internal/domain/lobby"
	"lcu-companion/internal/settings"
)

// FollowerAPI is the slice of the domain client the lobby-chat follower
// needs.
type FollowerAPI interface {
	Lobby(ctx context.Context) (lobby.Lobby, error)
	IsPartyLeader(ctx context.Context) bool
	GroupConversations(ctx context.Context) ([]chat.Conversation, error)
	Participants(ctx context.Context, conversationID string) ([]chat.Participant, error)
	Send(ctx context.Context, conversationID, body string) error
}

// Follower tracks which chat group belongs to the current lobby by
// intersecting lobby member PUUIDs with group participants, and points the
// group watcher at it. On taking over a new group it announces the command
// help line once, leader only.
type Follower struct {
	runner
	api      FollowerAPI
	settings *settings.Settings
	active   *ActiveGroup

	announced map[string]struct{}
}

// NewFollower creates a lobby-chat follower.
func NewFollower(api FollowerAPI, s *settings.Settings, active *ActiveGroup, interval time.Duration, log zerolog.Logger) *Follower {
	return &Follower{
		runner:    newRunner(interval, log.With().Str("component", "lobby-chat-follower").Logger()),
		api:       api,
		settings:  s,
		active:    active,
		announced: make(map[string]struct{}),
	}
}

// Start begins polling.
func (f *Follower) Start(ctx context.Context) { f.start(ctx, f.cycle) }

// Stop shuts the follower down.
func (f *Follower) Stop() { f.stop() }

func (f *Follower) cycle(ctx context.Context) {
	lob, err := f.api.Lobby(ctx)
	if err != nil || !lob.Exists() {
		f.active.Set("")
		return
	}
	puuids := lob.MemberPUUIDs()
	if len(puuids) == 0 {
		return
	}
	// Small parties share a group the moment one member shows up in it.
	// Bigger ones need two matches to avoid latching onto an unrelated
	// group that happens to contain a single party member.
	threshold := 2
	if len(lob.Members) <= 2 {
		threshold = 1
	}

	groups, err := f.api.GroupConversations(ctx)
	if err != nil {
		return
	}
	for _, g := range groups {
		participants, err := f.api.Participants(ctx, g.ID)
		if err != nil {
			continue
		}
		matches := 0
		for _, p := range participants {
			if _, ok := puuids[participantPUUID(p)]; ok {
				matches++
			}
		}
		if matches < threshold {
			continue
		}
		if f.active.Get() != g.ID {
			f.active.Set(g.ID)
			f.log.Info().Str("conversation", g.ID).Int("matches", matches).Msg("following lobby chat group")
			f.announce(ctx, g.ID)
		}
		return
	}
}

// announce sends the command help line to a newly followed group, once per
// conversation, and only when the local player leads the party.
func (f *Follower) announce(ctx context.Context, conversationID string) {
	if !f.settings.Announce() {
		return
	}
	if _, done := f.announced[conversationID]; done {
		return
	}
	if !f.api.IsPartyLeader(ctx) {
		return
	}
	f.announced[conversationID] = struct{}{}
	const help = "Komutlar: BASLAT | DURDUR | PICKLIST <ad,ad> | PICK ON|OFF | LOCK ON|OFF | GEO | ODADEVRET"
	if err := f.api.Send(ctx, conversationID, help); err != nil {
		f.log.Debug().Err(err).Msg("help announce failed")
	}
}

// participantPUUID derives a puuid from a chat participant key. Keys come
// as "<puuid>@pvp.net" jids or bare puuids.
func participantPUUID(p chat.Participant) string {
	key := p.Key()
	if i := strings.IndexByte(key, '@'); i >= 0 {
		key = key[:i]
	}
	return strings.ToLower(strings.TrimSpace(key))
}
