package command

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcu-companion/internal/config"
	"lcu-companion/internal/domain/chat"
	"lcu-companion/internal/domain/lobby"
	"lcu-companion/internal/settings"
)

type fakeLobbyAPI struct {
	lobby  lobby.Lobby
	leader bool

	started  int
	stopped  int
	kicked   []int64
	promoted []int64

	catalog map[string]int
	friends map[string]chat.Friend
}

func (f *fakeLobbyAPI) Lobby(ctx context.Context) (lobby.Lobby, error) { return f.lobby, nil }
func (f *fakeLobbyAPI) IsPartyLeader(ctx context.Context) bool         { return f.leader }
func (f *fakeLobbyAPI) StartMatchmaking(ctx context.Context) error     { f.started++; return nil }
func (f *fakeLobbyAPI) StopMatchmaking(ctx context.Context) error      { f.stopped++; return nil }

func (f *fakeLobbyAPI) KickMember(ctx context.Context, id int64) error {
	f.kicked = append(f.kicked, id)
	return nil
}

func (f *fakeLobbyAPI) PromoteMember(ctx context.Context, id int64) error {
	f.promoted = append(f.promoted, id)
	return nil
}

func (f *fakeLobbyAPI) GeoSummary(ctx context.Context) string { return "region=tr1 country=TR" }

func (f *fakeLobbyAPI) ResolvePickList(ctx context.Context, names []string) ([]int, []string) {
	var ids []int
	var unresolved []string
	for _, n := range names {
		if id, ok := f.catalog[strings.ToLower(n)]; ok {
			ids = append(ids, id)
		} else {
			unresolved = append(unresolved, n)
		}
	}
	return ids, unresolved
}

func (f *fakeLobbyAPI) FriendByKey(ctx context.Context, key string) (chat.Friend, bool) {
	fr, ok := f.friends[key]
	return fr, ok
}

func testLobby() lobby.Lobby {
	return lobby.Lobby{
		PartyID: "p1",
		Members: []lobby.Member{
			{SummonerID: 1, SummonerName: "Kaptan", PUUID: "puuid-1", IsLeader: true},
			{SummonerID: 2, SummonerName: "Dost", PUUID: "puuid-2"},
		},
	}
}

func newTestDispatcher(api *fakeLobbyAPI, approver Approver) (*Dispatcher, *settings.Settings) {
	s := settings.FromConfig(&config.Config{AnnounceCommands: true})
	return New(api, s, approver, zerolog.Nop()), s
}

func dispatch(t *testing.T, d *Dispatcher, req Request) []string {
	t.Helper()
	var replies []string
	req.Reply = func(text string) { replies = append(replies, text) }
	d.Dispatch(context.Background(), req)
	return replies
}

func TestStartFromGroupByLeader(t *testing.T) {
	api := &fakeLobbyAPI{lobby: testLobby(), leader: true}
	d, _ := newTestDispatcher(api, nil)

	replies := dispatch(t, d, Request{Context: ContextGroup, SenderName: "Dost", Body: "baslat"})

	assert.Equal(t, 1, api.started)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "baslatildi")
}

func TestStartRefusedWhenNotLeader(t *testing.T) {
	api := &fakeLobbyAPI{lobby: testLobby(), leader: false}
	d, _ := newTestDispatcher(api, nil)

	replies := dispatch(t, d, Request{Context: ContextGroup, SenderName: "Dost", Body: "start"})

	assert.Zero(t, api.started)
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "lideri degilim")
}

func TestStartFromDMRequiresLobbyMembership(t *testing.T) {
	api := &fakeLobbyAPI{lobby: testLobby(), leader: true}
	d, _ := newTestDispatcher(api, nil)

	replies := dispatch(t, d, Request{
		Context:    ContextDM,
		SenderKey:  "stranger-puuid",
		SenderName: "Yabanci",
		Body:       "/l",
	})
	assert.Zero(t, api.started, "non-member start must be refused")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Lobide degilsin")

	replies = dispatch(t, d, Request{
		Context:    ContextDM,
		SenderKey:  "puuid-2",
		SenderName: "Dost",
		Body:       "/l",
	})
	assert.Equal(t, 1, api.started)
	require.NotEmpty(t, replies)
}

func TestStartFromDMGoesThroughApprover(t *testing.T) {
	api := &fakeLobbyAPI{
		lobby:  testLobby(),
		leader: true,
		friends: map[string]chat.Friend{
			"puuid-2": {Name: "Dost", Availability: "chat"},
		},
	}

	var grant func(bool)
	approver := func(ctx context.Context, requester, availability string, g func(bool)) {
		assert.Equal(t, "Dost", requester)
		assert.Equal(t, "chat", availability)
		grant = g
	}
	d, _ := newTestDispatcher(api, approver)

	replies := dispatch(t, d, Request{
		Context:    ContextDM,
		SenderKey:  "puuid-2",
		SenderName: "Dost",
		Body:       "baslat",
	})
	require.NotNil(t, grant, "approver was not consulted")
	assert.Zero(t, api.started, "matchmaking started before approval")
	assert.Contains(t, replies[0], "Onay")

	grant(true)
	assert.Equal(t, 1, api.started)
}

func TestStopCommand(t *testing.T) {
	api := &fakeLobbyAPI{lobby: testLobby(), leader: true}
	d, _ := newTestDispatcher(api, nil)

	dispatch(t, d, Request{Context: ContextGroup, SenderName: "Dost", Body: "durdur"})
	assert.Equal(t, 1, api.stopped)
}

func TestBanKicksNamedMember(t *testing.T) {
	api := &fakeLobbyAPI{lobby: testLobby(), leader: true}
	d, _ := newTestDispatcher(api, nil)

	replies := dispatch(t, d, Request{Context: ContextGroup, SenderName: "Kaptan", Body: "ban dost"})
	require.Len(t, api.kicked, 1)
	assert.Equal(t, int64(2), api.kicked[0])
	assert.Contains(t, replies[0], "Dost")

	replies = dispatch(t, d, Request{Context: ContextGroup, SenderName: "Kaptan", Body: "ban hayalet"})
	assert.Len(t, api.kicked, 1)
	assert.Contains(t, replies[0], "bulunamadi")
}

func TestPromoteDefaultsToSender(t *testing.T) {
	api := &fakeLobbyAPI{lobby: testLobby(), leader: true}
	d, _ := newTestDispatcher(api, nil)

	dispatch(t, d, Request{Context: ContextGroup, SenderName: "Dost", Body: "odadevret"})
	require.Len(t, api.promoted, 1)
	assert.Equal(t, int64(2), api.promoted[0])

	dispatch(t, d, Request{Context: ContextGroup, SenderName: "Dost", Body: "promote Kaptan"})
	require.Len(t, api.promoted, 2)
	assert.Equal(t, int64(1), api.promoted[1])
}

func TestPickListResolution(t *testing.T) {
	api := &fakeLobbyAPI{
		lobby:   testLobby(),
		leader:  true,
		catalog: map[string]int{"ahri": 103, "zed": 238},
	}
	d, s := newTestDispatcher(api, nil)

	replies := dispatch(t, d, Request{
		Context:    ContextGroup,
		SenderName: "Dost",
		Body:       "picklist Ahri, Zed, Unknownchamp",
	})

	assert.Equal(t, []int{103, 238}, s.PickIDs())
	assert.Equal(t, []string{"Ahri", "Zed"}, s.PickList())
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Ahri, Zed")
	assert.Contains(t, replies[0], "Unknownchamp")
}

func TestPickAndLockToggles(t *testing.T) {
	api := &fakeLobbyAPI{lobby: testLobby(), leader: true}
	d, s := newTestDispatcher(api, nil)

	dispatch(t, d, Request{Context: ContextGroup, SenderName: "Dost", Body: "pick on"})
	assert.True(t, s.AutoPickEnabled())
	dispatch(t, d, Request{Context: ContextGroup, SenderName: "Dost", Body: "pick off"})
	assert.False(t, s.AutoPickEnabled())

	dispatch(t, d, Request{Context: ContextGroup, SenderName: "Dost", Body: "lock on"})
	assert.True(t, s.AutoPickLock())
}

func TestGeoCommand(t *testing.T) {
	api := &fakeLobbyAPI{lobby: testLobby(), leader: false}
	d, _ := newTestDispatcher(api, nil)

	replies := dispatch(t, d, Request{Context: ContextDM, SenderKey: "puuid-2", SenderName: "Dost", Body: "bolge"})
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "tr1")
}

func TestSilentGroupSuppressesGroupReplies(t *testing.T) {
	api := &fakeLobbyAPI{lobby: testLobby(), leader: true}
	d, s := newTestDispatcher(api, nil)
	s.SetSilentGroup(true)

	replies := dispatch(t, d, Request{Context: ContextGroup, SenderName: "Dost", Body: "baslat"})
	assert.Equal(t, 1, api.started, "command still executes")
	assert.Empty(t, replies, "group reply must be suppressed")

	replies = dispatch(t, d, Request{Context: ContextDM, SenderKey: "puuid-2", SenderName: "Dost", Body: "durdur"})
	assert.NotEmpty(t, replies, "dm replies are unaffected by silent-group")
}

func TestQuietSuppressesAllReplies(t *testing.T) {
	api := &fakeLobbyAPI{lobby: testLobby(), leader: true}
	d, s := newTestDispatcher(api, nil)
	s.SetQuiet(true)

	replies := dispatch(t, d, Request{Context: ContextDM, SenderKey: "puuid-2", SenderName: "Dost", Body: "geo"})
	assert.Empty(t, replies)
}

func TestUnknownAndEmptyInput(t *testing.T) {
	api := &fakeLobbyAPI{lobby: testLobby(), leader: true}
	d, _ := newTestDispatcher(api, nil)

	assert.False(t, d.Dispatch(context.Background(), Request{Context: ContextGroup, Body: "selam nasilsin"}))
	assert.False(t, d.Dispatch(context.Background(), Request{Context: ContextGroup, Body: "   "}))
	assert.True(t, d.Dispatch(context.Background(), Request{Context: ContextGroup, Body: "DURDUR"}))
}
