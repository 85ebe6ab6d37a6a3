package watcher

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lcu-companion/internal/config"
	"lcu-companion/internal/domain/chat"
	"lcu-companion/internal/domain/lobby"
	"lcu-companion/internal/settings"
)

type fakeFollowerAPI struct {
	lobby        lobby.Lobby
	leader       bool
	groups       []chat.Conversation
	participants map[string][]chat.Participant
	sent         map[string][]string
}

func (f *fakeFollowerAPI) Lobby(ctx context.Context) (lobby.Lobby, error) { return f.lobby, nil }
func (f *fakeFollowerAPI) IsPartyLeader(ctx context.Context) bool         { return f.leader }

func (f *fakeFollowerAPI) GroupConversations(ctx context.Context) ([]chat.Conversation, error) {
	return f.groups, nil
}

func (f *fakeFollowerAPI) Participants(ctx context.Context, id string) ([]chat.Participant, error) {
	return f.participants[id], nil
}

func (f *fakeFollowerAPI) Send(ctx context.Context, id, body string) error {
	if f.sent == nil {
		f.sent = make(map[string][]string)
	}
	f.sent[id] = append(f.sent[id], body)
	return nil
}

func followerSettings(announce bool) *settings.Settings {
	return settings.FromConfig(&config.Config{AnnounceCommands: announce})
}

func partyOf(puuids ...string) lobby.Lobby {
	members := make([]lobby.Member, len(puuids))
	for i, p := range puuids {
		members[i] = lobby.Member{PUUID: p}
	}
	return lobby.Lobby{PartyID: "p1", Members: members}
}

func TestFollowerMatchesLobbyGroup(t *testing.T) {
	api := &fakeFollowerAPI{
		lobby:  partyOf("p-1", "p-2", "p-3"),
		leader: true,
		groups: []chat.Conversation{
			{ID: "other", Type: chat.TypeGroup},
			{ID: "ours", Type: chat.TypeGroup},
		},
		participants: map[string][]chat.Participant{
			// One shared member is not enough for a three-player party.
			"other": {{Pid: "p-1@pvp.net"}, {Pid: "x@pvp.net"}},
			"ours":  {{Pid: "p-1@pvp.net"}, {Pid: "P-2@pvp.net"}},
		},
	}
	active := &ActiveGroup{}
	f := NewFollower(api, followerSettings(true), active, time.Second, zerolog.Nop())

	f.cycle(context.Background())
	if got := active.Get(); got != "ours" {
		t.Fatalf("followed %q, want ours", got)
	}
}

func TestFollowerDuoThreshold(t *testing.T) {
	api := &fakeFollowerAPI{
		lobby:  partyOf("p-1", "p-2"),
		groups: []chat.Conversation{{ID: "duo", Type: chat.TypeGroup}},
		participants: map[string][]chat.Participant{
			"duo": {{Pid: "p-2@pvp.net"}},
		},
	}
	active := &ActiveGroup{}
	f := NewFollower(api, followerSettings(false), active, time.Second, zerolog.Nop())

	f.cycle(context.Background())
	if active.Get() != "duo" {
		t.Error("a single match must be enough for a party of two")
	}
}

func TestFollowerClearsWhenLobbyGone(t *testing.T) {
	api := &fakeFollowerAPI{lobby: lobby.Lobby{}}
	active := &ActiveGroup{}
	active.Set("stale")
	f := NewFollower(api, followerSettings(false), active, time.Second, zerolog.Nop())

	f.cycle(context.Background())
	if active.Get() != "" {
		t.Error("stale group kept after the lobby disappeared")
	}
}

func TestFollowerAnnouncesOncePerGroup(t *testing.T) {
	api := &fakeFollowerAPI{
		lobby:  partyOf("p-1", "p-2"),
		leader: true,
		groups: []chat.Conversation{{ID: "g", Type: chat.TypeGroup}},
		participants: map[string][]chat.Participant{
			"g": {{Pid: "p-1@pvp.net"}, {Pid: "p-2@pvp.net"}},
		},
	}
	active := &ActiveGroup{}
	f := NewFollower(api, followerSettings(true), active, time.Second, zerolog.Nop())

	f.cycle(context.Background())
	f.cycle(context.Background())
	if len(api.sent["g"]) != 1 {
		t.Fatalf("help announced %d times, want 1", len(api.sent["g"]))
	}
}

func TestFollowerNonLeaderStaysQuiet(t *testing.T) {
	api := &fakeFollowerAPI{
		lobby:  partyOf("p-1", "p-2"),
		leader: false,
		groups: []chat.Conversation{{ID: "g", Type: chat.TypeGroup}},
		participants: map[string][]chat.Participant{
			"g": {{Pid: "p-1@pvp.net"}},
		},
	}
	active := &ActiveGroup{}
	f := NewFollower(api, followerSettings(true), active, time.Second, zerolog.Nop())

	f.cycle(context.Background())
	if active.Get() != "g" {
		t.Fatal("group not followed")
	}
	if len(api.sent["g"]) != 0 {
		t.Error("non-leader must not announce")
	}
}
