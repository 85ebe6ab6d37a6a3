// Package cli implements the interactive operator console read from stdin.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"lcu-companion/internal/domain/chat"
	"lcu-companion/internal/lcu"
	"lcu-companion/internal/settings"
	"lcu-companion/internal/watcher"
)

// Console reads operator commands line by line and executes them against
// the client. quit, exit and stop cancel the root context, which shuts the
// whole process down.
type Console struct {
	api      *lcu.Client
	settings *settings.Settings
	active   *watcher.ActiveGroup
	identity chat.Identity
	cancel   context.CancelFunc
	out      io.Writer
	log      zerolog.Logger

	selectedGroup string
}

// New creates a console writing its output to out.
func New(api *lcu.Client, s *settings.Settings, active *watcher.ActiveGroup, identity chat.Identity, cancel context.CancelFunc, out io.Writer, log zerolog.Logger) *Console {
	return &Console{
		api:      api,
		settings: s,
		active:   active,
		identity: identity,
		cancel:   cancel,
		out:      out,
		log:      log.With().Str("component", "console").Logger(),
	}
}

// Run consumes lines from in until EOF or a quit command. It blocks the
// calling goroutine.
func (c *Console) Run(ctx context.Context, in io.Reader) {
	c.printf("Konsol hazir. Komutlar icin: help")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !c.execute(ctx, line) {
			return
		}
	}
	c.log.Debug().Msg("stdin closed")
}

// execute runs one console line and reports whether the loop should keep
// going.
func (c *Console) execute(ctx context.Context, line string) bool {
	verb, rest := splitCommand(line)
	switch verb {
	case "quit", "exit", "stop":
		c.printf("Kapatiliyor.")
		c.cancel()
		return false
	case "help":
		c.printHelp()
	case "status":
		c.printStatus(ctx)
	case "/friends":
		c.printFriends(ctx, nil)
	case "/online-friend":
		c.printFriends(ctx, func(f chat.Friend) bool { return f.Online() })
	case "/offline-friend":
		c.printFriends(ctx, func(f chat.Friend) bool { return !f.Online() })
	case "/chat-groups":
		c.printGroups(ctx)
	case "/chat-group":
		c.selectGroup(ctx, rest)
	case "/group-log":
		c.printGroupLog(ctx)
	case "/sayg":
		c.sayGroup(ctx, c.selectedGroup, rest)
	case "/sayl":
		c.sayGroup(ctx, c.active.Get(), rest)
	case "/dm":
		c.sendDM(ctx, rest)
	case "/dm-log":
		c.printDMLog(ctx, rest)
	case "/geo":
		c.printf("%s", c.api.GeoSummary(ctx))
	case "/geo-json":
		c.printGeoJSON(ctx)
	case "/bench":
		c.printBench(ctx)
	case "/bench-pick":
		c.benchPick(ctx, rest)
	case "/auto-ready":
		c.toggle("auto-ready", c.settings.AutoReady, c.settings.SetAutoReady)
	case "/auto-pick":
		c.toggle("auto-pick", c.settings.AutoPickEnabled, c.settings.SetAutoPickEnabled)
	case "/auto-pick-lock":
		c.toggle("auto-pick-lock", c.settings.AutoPickLock, c.settings.SetAutoPickLock)
	case "/announce":
		c.toggle("announce", c.settings.Announce, c.settings.SetAnnounce)
	case "/silent-group":
		c.toggle("silent-group", c.settings.SilentGroup, c.settings.SetSilentGroup)
	case "/quiet":
		c.toggle("quiet", c.settings.Quiet, c.settings.SetQuiet)
	default:
		if !c.settings.Quiet() {
			c.printf("Bilinmeyen komut: %s (help yazin)", verb)
		}
	}
	return true
}

func (c *Console) printHelp() {
	c.printf(strings.Join([]string{
		"/friends /online-friend /offline-friend",
		"/chat-groups /chat-group <id> /group-log /sayg <mesaj> /sayl <mesaj>",
		"/dm <isim> <mesaj> /dm-log <isim>",
		"/geo /geo-json /bench /bench-pick <sampiyon>",
		"/auto-ready /auto-pick /auto-pick-lock /announce /silent-group /quiet",
		"status help quit",
	}, "\n"))
}

func (c *Console) printStatus(ctx context.Context) {
	avail, _ := c.api.MyAvailability(ctx)
	phase, _ := c.api.GameflowPhase(ctx)
	c.printf("Hesap: %s %s", c.identity.DisplayName, chat.AvailabilityTag(avail))
	c.printf("Faz: %s", phase)
	c.printf("auto-ready=%v fallback-click=%v auto-pick=%v lock=%v",
		c.settings.AutoReady(), c.settings.FallbackClick(),
		c.settings.AutoPickEnabled(), c.settings.AutoPickLock())
	c.printf("announce=%v silent-group=%v quiet=%v",
		c.settings.Announce(), c.settings.SilentGroup(), c.settings.Quiet())
	if list := c.settings.PickList(); len(list) > 0 {
		c.printf("picklist: %s", strings.Join(list, ", "))
	}
	if id := c.active.Get(); id != "" {
		c.printf("takip edilen grup: %s", id)
	}
}

func (c *Console) printFriends(ctx context.Context, keep func(chat.Friend) bool) {
	friends, err := c.api.Friends(ctx)
	if err != nil {
		c.printf("Arkadas listesi alinamadi: %v", err)
		return
	}
	shown := 0
	for _, f := range friends {
		if keep != nil && !keep(f) {
			continue
		}
		tag := "[OFF]"
		if f.Online() {
			tag = "[ON]"
		}
		c.printf("%s %s (%s)", tag, f.DisplayName(), f.Key())
		shown++
	}
	if shown == 0 {
		c.printf("(bos)")
	}
}

func (c *Console) printGroups(ctx context.Context) {
	groups, err := c.api.GroupConversations(ctx)
	if err != nil {
		c.printf("Gruplar alinamadi: %v", err)
		return
	}
	if len(groups) == 0 {
		c.printf("(grup yok)")
		return
	}
	for _, g := range groups {
		marker := " "
		if g.ID == c.selectedGroup {
			marker = "*"
		}
		c.printf("%s %s", marker, g.ID)
	}
}

func (c *Console) selectGroup(ctx context.Context, id string) {
	if id == "" {
		c.printf("Kullanim: /chat-group <id>")
		return
	}
	c.selectedGroup = id
	c.printf("Secilen grup: %s", id)
	participants, err := c.api.Participants(ctx, id)
	if err != nil {
		return
	}
	for _, p := range participants {
		c.printf("  %s", p.DisplayName())
	}
}

func (c *Console) printGroupLog(ctx context.Context) {
	id := c.selectedGroup
	if id == "" {
		id = c.active.Get()
	}
	if id == "" {
		c.printf("Grup secilmedi.")
		return
	}
	messages, err := c.api.Messages(ctx, id, 20)
	if err != nil {
		c.printf("Mesajlar alinamadi: %v", err)
		return
	}
	for _, m := range messages {
		c.printf("[%s] %s: %s", m.EventTime().Format("15:04:05"), m.SenderName(), m.NormalizedBody())
	}
}

func (c *Console) sayGroup(ctx context.Context, id, text string) {
	if id == "" {
		c.printf("Grup yok.")
		return
	}
	if text == "" {
		c.printf("Mesaj bos.")
		return
	}
	if err := c.api.Send(ctx, id, text); err != nil {
		c.printf("Gonderilemedi: %v", err)
		return
	}
	c.printf("Gonderildi.")
}

func (c *Console) sendDM(ctx context.Context, rest string) {
	name, text := splitCommand(rest)
	if name == "" || text == "" {
		c.printf("Kullanim: /dm <isim> <mesaj>")
		return
	}
	if !c.api.SendDirect(ctx, name, text) {
		c.printf("Gonderilemedi: %s", name)
		return
	}
	c.printf("Gonderildi: %s", name)
}

func (c *Console) printDMLog(ctx context.Context, name string) {
	if name == "" {
		c.printf("Kullanim: /dm-log <isim>")
		return
	}
	friend, ok := c.api.FindFriend(ctx, name)
	if !ok {
		c.printf("Bulunamadi: %s", name)
		return
	}
	conv, ok := c.api.EnsureDirectConversation(ctx, friend)
	if !ok {
		c.printf("Konusma acilamadi: %s", friend.DisplayName())
		return
	}
	messages, err := c.api.Messages(ctx, conv.ID, 20)
	if err != nil {
		c.printf("Mesajlar alinamadi: %v", err)
		return
	}
	for _, m := range messages {
		who := friend.DisplayName()
		if c.identity.IsFromSelf(m) {
			who = "ben"
		}
		c.printf("[%s] %s: %s", m.EventTime().Format("15:04:05"), who, m.NormalizedBody())
	}
}

func (c *Console) printGeoJSON(ctx context.Context) {
	info, err := c.api.GeoInfo(ctx)
	if err != nil {
		c.printf("Bolge bilgisi alinamadi: %v", err)
		return
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		c.printf("%v", err)
		return
	}
	c.printf("%s", data)
}

func (c *Console) printBench(ctx context.Context) {
	session, err := c.api.ChampSelectSession(ctx)
	if err != nil || !session.Exists() {
		c.printf("Sampiyon secimi aktif degil.")
		return
	}
	ids := session.BenchIDs()
	if len(ids) == 0 {
		c.printf("(bench bos)")
		return
	}
	catalog, err := c.api.Catalog(ctx)
	for _, id := range ids {
		name := fmt.Sprintf("#%d", id)
		if err == nil {
			if n := catalog.NameOf(id); n != "" {
				name = n
			}
		}
		c.printf("  %s", name)
	}
}

func (c *Console) benchPick(ctx context.Context, name string) {
	if name == "" {
		c.printf("Kullanim: /bench-pick <sampiyon>")
		return
	}
	id, ok := c.api.ChampionID(ctx, name)
	if !ok {
		c.printf("Taninmadi: %s", name)
		return
	}
	if err := c.api.BenchSwap(ctx, id); err != nil {
		c.printf("Takas basarisiz: %v", err)
		return
	}
	c.printf("Benchten alindi: %s", name)
}

func (c *Console) toggle(label string, get func() bool, set func(bool)) {
	next := !get()
	set(next)
	state := "kapali"
	if next {
		state = "acik"
	}
	c.printf("%s: %s", label, state)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// splitCommand separates the first whitespace-delimited token from the
// remainder of the line.
func splitCommand(line string) (verb, rest string) {
	line = strings.TrimSpace(line)
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}
