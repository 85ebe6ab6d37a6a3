package watcher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"lcu-companion/internal/clicker"
	"lcu-companion/internal/lcu"
	"lcu-companion/internal/settings"
)

// ReadyCheckAPI is the slice of the domain client the ready-check watcher
// needs.
type ReadyCheckAPI interface {
	GameflowPhase(ctx context.Context) (string, error)
	ReadyCheck(ctx context.Context) (lcu.ReadyCheckStatus, error)
	AcceptReadyCheck(ctx context.Context) (ok bool, status int, body string)
}

const (
	acceptCooldown     = 1 * time.Second
	fallbackFailStreak = 3
	fallbackBurst      = 6 * time.Second
	fallbackPoll       = 250 * time.Millisecond
)

// ReadyCheckWatcher auto-accepts ready checks. Accept fires only while the
// phase is ReadyCheck, the check is in progress, the local player has not
// responded, and the cooldown since the last attempt has elapsed. After a
// run of failed accepts it activates the configured clicking fallback for a
// bounded burst.
type ReadyCheckWatcher struct {
	runner
	api      ReadyCheckAPI
	settings *settings.Settings
	fallback clicker.Clicker

	burstWindow time.Duration
	burstPoll   time.Duration

	lastPhase   string
	lastState   string
	lastAttempt time.Time
	failStreak  int
}

// NewReadyCheckWatcher creates a ready-check watcher.
func NewReadyCheckWatcher(api ReadyCheckAPI, s *settings.Settings, fallback clicker.Clicker, interval time.Duration, log zerolog.Logger) *ReadyCheckWatcher {
	if fallback == nil {
		fallback = clicker.Noop{}
	}
	return &ReadyCheckWatcher{
		runner:      newRunner(interval, log.With().Str("component", "ready-check-watcher").Logger()),
		api:         api,
		settings:    s,
		fallback:    fallback,
		burstWindow: fallbackBurst,
		burstPoll:   fallbackPoll,
	}
}

// Start begins polling.
func (w *ReadyCheckWatcher) Start(ctx context.Context) { w.start(ctx, w.cycle) }

// Stop shuts the watcher down.
func (w *ReadyCheckWatcher) Stop() { w.stop() }

func (w *ReadyCheckWatcher) cycle(ctx context.Context) {
	phase, err := w.api.GameflowPhase(ctx)
	if err != nil {
		w.log.Debug().Err(err).Msg("phase read failed, skipping cycle")
		return
	}
	if phase != w.lastPhase {
		w.log.Info().Str("phase", phase).Msg("phase changed")
		w.lastPhase = phase
	}

	status, err := w.api.ReadyCheck(ctx)
	if err != nil {
		return
	}
	if status.State != "" && status.State != w.lastState {
		w.log.Info().
			Str("state", status.State).
			Str("response", status.PlayerResponse).
			Msg("ready-check state")
		w.lastState = status.State
	}

	if !w.settings.AutoReady() {
		return
	}
	if phase != "ReadyCheck" || !status.InProgress() || !status.Unanswered() {
		return
	}
	if time.Since(w.lastAttempt) < acceptCooldown {
		return
	}
	w.lastAttempt = time.Now()

	ok, code, body := w.api.AcceptReadyCheck(ctx)
	if ok {
		w.log.Info().Msg("ready check accepted")
		w.failStreak = 0
		return
	}

	w.failStreak++
	w.log.Warn().Int("status", code).Str("body", body).Int("streak", w.failStreak).Msg("ready-check accept failed")

	if w.failStreak >= fallbackFailStreak && w.settings.FallbackClick() && w.fallback.Available() {
		w.runFallbackBurst(ctx)
		w.failStreak = 0
	}
}

// runFallbackBurst activates the external clicker for a bounded window,
// deactivating as soon as the phase leaves ReadyCheck or a response is
// recorded.
func (w *ReadyCheckWatcher) runFallbackBurst(ctx context.Context) {
	w.log.Warn().Dur("window", w.burstWindow).Msg("activating click fallback")
	w.fallback.Activate()
	defer w.fallback.Deactivate()

	deadline := time.Now().Add(w.burstWindow)
	for time.Now().Before(deadline) {
		if !w.sleep(ctx, w.burstPoll) {
			return
		}
		phase, err := w.api.GameflowPhase(ctx)
		if err != nil || phase != "ReadyCheck" {
			return
		}
		status, err := w.api.ReadyCheck(ctx)
		if err == nil && !status.Unanswered() {
			return
		}
	}
}
