// Package command parses chat messages into lobby commands and executes
// them against the client. The grammar accepts both Turkish and English
// command words so party members can use either.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"lcu-companion/internal/domain/chat"
	"lcu-companion/internal/domain/lobby"
	"lcu-companion/internal/settings"
)

// Context identifies where a command arrived from.
const (
	ContextDM    = "dm"
	ContextGroup = "group"
)

// LobbyAPI is the slice of the domain client the dispatcher drives.
type LobbyAPI interface {
	Lobby(ctx context.Context) (lobby.Lobby, error)
	IsPartyLeader(ctx context.Context) bool
	StartMatchmaking(ctx context.Context) error
	StopMatchmaking(ctx context.Context) error
	KickMember(ctx context.Context, summonerID int64) error
	PromoteMember(ctx context.Context, summonerID int64) error
	GeoSummary(ctx context.Context) string
	ResolvePickList(ctx context.Context, names []string) (ids []int, unresolved []string)
	FriendByKey(ctx context.Context, key string) (chat.Friend, bool)
}

// Approver asks an out-of-band operator whether a start request from a
// direct message should go through. availability is the requester's chat
// presence at the time of the request. grant is invoked at most once.
type Approver func(ctx context.Context, requesterName, availability string, grant func(approved bool))

// Request carries one inbound chat message to dispatch.
type Request struct {
	Context    string
	SenderKey  string
	SenderName string
	Body       string
	Reply      func(text string)
}

// Dispatcher executes chat commands.
type Dispatcher struct {
	api      LobbyAPI
	settings *settings.Settings
	approver Approver
	log      zerolog.Logger
}

// New creates a dispatcher. approver may be nil, in which case direct
// start requests run without out-of-band confirmation.
func New(api LobbyAPI, s *settings.Settings, approver Approver, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		api:      api,
		settings: s,
		approver: approver,
		log:      log.With().Str("component", "command-dispatcher").Logger(),
	}
}

// Dispatch parses and executes one message. It reports whether the message
// matched a known command.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) bool {
	fields := strings.Fields(strings.TrimSpace(req.Body))
	if len(fields) == 0 {
		return false
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	reply := d.replyFunc(req)

	switch verb {
	case "baslat", "start", "/l":
		d.handleStart(ctx, req, reply)
	case "durdur", "stop":
		d.handleStop(ctx, req, reply)
	case "ban":
		d.handleBan(ctx, req, args, reply)
	case "odadevret", "promote":
		d.handlePromote(ctx, req, args, reply)
	case "geo", "bolge":
		d.handleGeo(ctx, reply)
	case "picklist":
		d.handlePickList(ctx, req, args, reply)
	case "pick":
		d.handleToggle(args, reply, "pick", d.settings.SetAutoPickEnabled)
	case "lock":
		d.handleToggle(args, reply, "lock", d.settings.SetAutoPickLock)
	default:
		return false
	}
	d.log.Info().
		Str("context", req.Context).
		Str("sender", req.SenderName).
		Str("command", verb).
		Msg("command dispatched")
	return true
}

// replyFunc wraps the request reply sink with the silence settings. Group
// replies honor the silent-group flag, and the quiet flag mutes everything.
func (d *Dispatcher) replyFunc(req Request) func(string) {
	return func(text string) {
		if req.Reply == nil || d.settings.Quiet() {
			return
		}
		if req.Context == ContextGroup && d.settings.SilentGroup() {
			return
		}
		req.Reply(text)
	}
}

func (d *Dispatcher) handleStart(ctx context.Context, req Request, reply func(string)) {
	if !d.api.IsPartyLeader(ctx) {
		reply("Oda lideri degilim, baslatamam.")
		return
	}
	if req.Context == ContextDM {
		lob, err := d.api.Lobby(ctx)
		if err != nil || !lob.Exists() || !lob.HasPUUID(req.SenderKey) {
			reply("Lobide degilsin, baslatamam.")
			return
		}
		if d.approver != nil {
			d.requestApprovedStart(ctx, req, reply)
			return
		}
	}
	d.startMatchmaking(ctx, reply)
}

// requestApprovedStart defers the start to the operator. The grant callback
// may arrive much later, from another goroutine, so it re-checks nothing
// beyond the approval itself; matchmaking start failures are still reported.
func (d *Dispatcher) requestApprovedStart(ctx context.Context, req Request, reply func(string)) {
	reply("Onay bekleniyor...")
	availability := ""
	if f, ok := d.api.FriendByKey(ctx, req.SenderKey); ok {
		availability = f.Availability
	}
	d.approver(ctx, req.SenderName, availability, func(approved bool) {
		if !approved {
			reply("Istek reddedildi.")
			return
		}
		d.startMatchmaking(ctx, reply)
	})
}

func (d *Dispatcher) startMatchmaking(ctx context.Context, reply func(string)) {
	if err := d.api.StartMatchmaking(ctx); err != nil {
		d.log.Warn().Err(err).Msg("start matchmaking failed")
		reply("Baslatma basarisiz.")
		return
	}
	reply("Eslesme baslatildi.")
}

func (d *Dispatcher) handleStop(ctx context.Context, req Request, reply func(string)) {
	if !d.api.IsPartyLeader(ctx) {
		reply("Oda lideri degilim, durduramam.")
		return
	}
	if err := d.api.StopMatchmaking(ctx); err != nil {
		d.log.Warn().Err(err).Msg("stop matchmaking failed")
		reply("Durdurma basarisiz.")
		return
	}
	reply("Eslesme durduruldu.")
}

func (d *Dispatcher) handleBan(ctx context.Context, req Request, args []string, reply func(string)) {
	if len(args) == 0 {
		reply("Kullanim: ban <isim>")
		return
	}
	if !d.api.IsPartyLeader(ctx) {
		reply("Oda lideri degilim.")
		return
	}
	name := strings.Join(args, " ")
	member, ok := d.findMember(ctx, name)
	if !ok {
		reply(fmt.Sprintf("Lobide bulunamadi: %s", name))
		return
	}
	if err := d.api.KickMember(ctx, member.SummonerID); err != nil {
		d.log.Warn().Err(err).Str("member", member.SummonerName).Msg("kick failed")
		reply("Atma basarisiz.")
		return
	}
	reply(fmt.Sprintf("Atildi: %s", member.SummonerName))
}

func (d *Dispatcher) handlePromote(ctx context.Context, req Request, args []string, reply func(string)) {
	if !d.api.IsPartyLeader(ctx) {
		reply("Oda lideri degilim.")
		return
	}
	// With no argument, leadership goes to whoever asked for it.
	name := req.SenderName
	if len(args) > 0 {
		name = strings.Join(args, " ")
	}
	member, ok := d.findMember(ctx, name)
	if !ok {
		reply(fmt.Sprintf("Lobide bulunamadi: %s", name))
		return
	}
	if err := d.api.PromoteMember(ctx, member.SummonerID); err != nil {
		d.log.Warn().Err(err).Str("member", member.SummonerName).Msg("promote failed")
		reply("Devir basarisiz.")
		return
	}
	reply(fmt.Sprintf("Oda lideri: %s", member.SummonerName))
}

func (d *Dispatcher) handleGeo(ctx context.Context, reply func(string)) {
	summary := d.api.GeoSummary(ctx)
	if summary == "" {
		reply("Bolge bilgisi alinamadi.")
		return
	}
	reply(summary)
}

func (d *Dispatcher) handlePickList(ctx context.Context, req Request, args []string, reply func(string)) {
	raw := strings.Join(args, " ")
	names := settings.SplitList(raw)
	if len(names) == 0 {
		reply("Kullanim: picklist <sampiyon, sampiyon, ...>")
		return
	}
	ids, unresolved := d.api.ResolvePickList(ctx, names)
	if len(ids) == 0 {
		reply(fmt.Sprintf("Hicbiri taninmadi: %s", strings.Join(unresolved, ", ")))
		return
	}
	resolved := make([]string, 0, len(names))
	for _, n := range names {
		if !contains(unresolved, n) {
			resolved = append(resolved, n)
		}
	}
	d.settings.SetPickList(resolved, ids)
	msg := fmt.Sprintf("Pick listesi: %s", strings.Join(resolved, ", "))
	if len(unresolved) > 0 {
		msg += fmt.Sprintf(" (taninmadi: %s)", strings.Join(unresolved, ", "))
	}
	reply(msg)
}

func (d *Dispatcher) handleToggle(args []string, reply func(string), label string, set func(bool)) {
	if len(args) == 0 {
		reply(fmt.Sprintf("Kullanim: %s on|off", label))
		return
	}
	value, ok := settings.ParseToggle(args[0])
	if !ok {
		reply(fmt.Sprintf("Kullanim: %s on|off", label))
		return
	}
	set(value)
	state := "kapali"
	if value {
		state = "acik"
	}
	reply(fmt.Sprintf("%s: %s", label, state))
}

func (d *Dispatcher) findMember(ctx context.Context, name string) (lobby.Member, bool) {
	lob, err := d.api.Lobby(ctx)
	if err != nil || !lob.Exists() {
		return lobby.Member{}, false
	}
	return lob.MemberByName(name)
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}
