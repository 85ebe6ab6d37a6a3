package watcher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"lcu-companion/internal/domain/champselect"
	"lcu-companion/internal/settings"
)

// ChampSelectAPI is the slice of the domain client the champ-select watcher
// needs.
type ChampSelectAPI interface {
	GameflowPhase(ctx context.Context) (string, error)
	ChampSelectSession(ctx context.Context) (champselect.Session, error)
	PickableIDs(ctx context.Context) (map[int]struct{}, error)
	Hover(ctx context.Context, actionID int64, championID int) error
	Lock(ctx context.Context, actionID int64, championID int) error
	BenchSwap(ctx context.Context, championID int) error
}

const actionRetrySpacing = 800 * time.Millisecond

// ChampSelectWatcher hovers or locks the first available champion from the
// configured preference list once the local pick action opens. Bench
// champions win over pickable ones so ARAM rerolls are claimed before they
// disappear.
type ChampSelectWatcher struct {
	runner
	api      ChampSelectAPI
	settings *settings.Settings

	lastPhase    string
	lastActionID int64
	lastAttempt  time.Time
}

// NewChampSelectWatcher creates a champ-select watcher.
func NewChampSelectWatcher(api ChampSelectAPI, s *settings.Settings, interval time.Duration, log zerolog.Logger) *ChampSelectWatcher {
	return &ChampSelectWatcher{
		runner:   newRunner(interval, log.With().Str("component", "champ-select-watcher").Logger()),
		api:      api,
		settings: s,
	}
}

// Start begins polling.
func (w *ChampSelectWatcher) Start(ctx context.Context) { w.start(ctx, w.cycle) }

// Stop shuts the watcher down.
func (w *ChampSelectWatcher) Stop() { w.stop() }

func (w *ChampSelectWatcher) cycle(ctx context.Context) {
	phase, err := w.api.GameflowPhase(ctx)
	if err != nil {
		return
	}
	if phase != w.lastPhase {
		w.lastPhase = phase
		w.lastActionID = 0
	}
	if phase != "ChampSelect" || !w.settings.AutoPickEnabled() {
		return
	}

	outcome, reason := w.tryPick(ctx)
	switch {
	case outcome != "":
		w.log.Info().Str("outcome", outcome).Msg("auto pick")
	case reason != "" && reason != "not_my_turn" && reason != "not_in_progress":
		w.log.Debug().Str("reason", reason).Msg("auto pick skipped")
	}
}

// tryPick runs one pick attempt and reports either the outcome of an action
// taken or the reason nothing was done.
func (w *ChampSelectWatcher) tryPick(ctx context.Context) (outcome, reason string) {
	session, err := w.api.ChampSelectSession(ctx)
	if err != nil || !session.Exists() {
		return "", "not_in_progress"
	}
	action, ok := session.MyPickAction()
	if !ok {
		return "", "not_my_turn"
	}
	if !action.IsInProgress {
		return "", "not_in_progress"
	}
	if action.ID == w.lastActionID && time.Since(w.lastAttempt) < actionRetrySpacing {
		return "", ""
	}
	w.lastActionID = action.ID
	w.lastAttempt = time.Now()

	bench := make(map[int]struct{})
	for _, id := range session.BenchIDs() {
		bench[id] = struct{}{}
	}
	pickable, err := w.api.PickableIDs(ctx)
	if err != nil {
		pickable = nil
	}

	for _, id := range w.settings.PickIDs() {
		if _, onBench := bench[id]; onBench {
			if err := w.api.BenchSwap(ctx, id); err != nil {
				w.log.Debug().Err(err).Int("champion", id).Msg("bench swap failed")
				continue
			}
			if !w.settings.AutoPickLock() {
				return "bench_swapped", ""
			}
			// The swap replaces the hovered champion, so the pick action
			// has to be re-read before completing it.
			session, err := w.api.ChampSelectSession(ctx)
			if err == nil {
				if act, ok := session.MyPickAction(); ok {
					if err := w.api.Lock(ctx, act.ID, id); err == nil {
						return "bench_locked", ""
					}
				}
			}
			return "bench_swapped", ""
		}
		if _, pickOK := pickable[id]; pickOK {
			if err := w.api.Hover(ctx, action.ID, id); err != nil {
				w.log.Debug().Err(err).Int("champion", id).Msg("hover failed")
				continue
			}
			if !w.settings.AutoPickLock() {
				return "hovered", ""
			}
			if err := w.api.Lock(ctx, action.ID, id); err != nil {
				return "hovered", ""
			}
			return "locked", ""
		}
	}
	return "", "no_candidate"
}
