package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lcu-companion/internal/bridge"
	"lcu-companion/internal/cli"
	"lcu-companion/internal/clicker"
	"lcu-companion/internal/command"
	"lcu-companion/internal/config"
	"lcu-companion/internal/lcu"
	"lcu-companion/internal/lockfile"
	"lcu-companion/internal/logger"
	"lcu-companion/internal/settings"
	"lcu-companion/internal/watcher"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "League client companion - chat watcher, lobby commands and Telegram bridge",
	Long: `companion attaches to a running League of Legends client and watches its
chat and lobby state.

It dispatches chat commands (start/stop matchmaking, kick, promote, pick
list), auto-accepts ready checks, auto-picks champions, and optionally
bridges direct messages to a Telegram bot.

Examples:
  companion run
  AUTO_READY=true AUTO_PICK=Ahri,Zed companion run`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Attach to the League client and start all watchers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run() error {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := lockfile.NewProvider(cfg.LockfilePath, log)
	client := lcu.NewClient(provider, log)

	identity, err := client.RefreshIdentity(ctx)
	for err != nil {
		log.Warn().Err(err).Msg("league client not reachable, retrying")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(3 * time.Second):
		}
		identity, err = client.RefreshIdentity(ctx)
	}
	log.Info().Str("summoner", identity.DisplayName).Msg("attached to league client")

	st := settings.FromConfig(cfg)
	hydratePickList(ctx, client, st, cfg.AutoPickList, log)

	var br *bridge.Bridge
	if cfg.BridgeConfigured() {
		br, err = bridge.New(cfg, client, log)
		if err != nil {
			if cfg.BridgeRequired {
				return err
			}
			log.Warn().Err(err).Msg("telegram bridge unavailable, continuing without it")
			br = nil
		}
	}
	if br != nil {
		go br.Run(ctx)
	}

	var approver command.Approver
	if br != nil {
		approver = br.RequestApproval
	}
	dispatcher := command.New(client, st, approver, log)

	dmHandlers := []watcher.DMHandler{
		func(key, name, body string, self bool) {
			if self {
				return
			}
			dispatcher.Dispatch(ctx, command.Request{
				Context:    command.ContextDM,
				SenderKey:  key,
				SenderName: name,
				Body:       body,
				Reply:      func(text string) { client.SendDirect(ctx, key, text) },
			})
		},
	}
	if br != nil {
		dmHandlers = append(dmHandlers, br.OnDirectMessage)
	}

	active := &watcher.ActiveGroup{}
	groupHandler := func(conversationID, sender, body string, self bool) {
		dispatcher.Dispatch(ctx, command.Request{
			Context:    command.ContextGroup,
			SenderName: sender,
			Body:       body,
			Reply:      func(text string) { client.Send(ctx, conversationID, text) },
		})
	}

	watchers := []interface {
		Start(context.Context)
		Stop()
	}{
		watcher.NewDMWatcher(client, identity, cfg.DMPollInterval, cfg.DMRecentWindow, log, dmHandlers...),
		watcher.NewGroupWatcher(client, identity, active, cfg.GroupPollInterval, cfg.GroupIncludeSelf, log, groupHandler),
		watcher.NewLobbyWatcher(client, cfg.LobbyPollInterval, log, nil),
		watcher.NewReadyCheckWatcher(client, st, clicker.Noop{}, cfg.ReadyCheckPollInterval, log),
		watcher.NewChampSelectWatcher(client, st, cfg.ChampSelectInterval, log),
		watcher.NewFollower(client, st, active, cfg.FollowerInterval, log),
	}
	for _, w := range watchers {
		w.Start(ctx)
	}

	console := cli.New(client, st, active, identity, stop, os.Stdout, log)
	go console.Run(ctx, os.Stdin)

	<-ctx.Done()
	log.Info().Msg("shutting down")
	for _, w := range watchers {
		w.Stop()
	}
	if br != nil {
		br.Stop()
	}
	return nil
}

// hydratePickList resolves the configured champion preference list against
// the game catalog so the champ-select watcher starts with usable ids.
func hydratePickList(ctx context.Context, client *lcu.Client, st *settings.Settings, raw string, log zerolog.Logger) {
	names := settings.SplitList(raw)
	if len(names) == 0 {
		return
	}
	ids, unresolved := client.ResolvePickList(ctx, names)
	if len(unresolved) > 0 {
		log.Warn().Strs("names", unresolved).Msg("pick list entries not recognized")
	}
	if len(ids) == 0 {
		return
	}
	resolved := make([]string, 0, len(names))
	for _, n := range names {
		known := false
		for _, u := range unresolved {
			if strings.EqualFold(u, n) {
				known = true
				break
			}
		}
		if !known {
			resolved = append(resolved, n)
		}
	}
	st.SetPickList(resolved, ids)
	log.Info().Strs("picks", resolved).Msg("pick list configured")
}
