package watcher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"lcu-companion/internal/domain/chat"
)

// DMHandler receives one direct-message event, exactly once per message.
type DMHandler func(participantKey, displayName, body string, self bool)

// DMChatAPI is the slice of the domain client the DM watcher needs.
type DMChatAPI interface {
	DirectConversations(ctx context.Context) ([]chat.Conversation, error)
	Messages(ctx context.Context, conversationID string, limit int) ([]chat.Message, error)
	FriendDisplayName(ctx context.Context, key string) string
}

const dmFetchLimit = 30

// DMWatcher polls direct conversations and fires handlers for messages
// newer than the per-conversation cursor.
type DMWatcher struct {
	runner
	api      DMChatAPI
	identity chat.Identity
	window   time.Duration
	handlers []DMHandler

	// cursors maps conversation id to the last dispatched event time.
	cursors map[string]time.Time
}

// NewDMWatcher creates a DM watcher. window is the recency floor: messages
// older than now-window are never replayed, even for conversations seen for
// the first time. window <= 0 disables the floor.
func NewDMWatcher(api DMChatAPI, identity chat.Identity, interval, window time.Duration, log zerolog.Logger, handlers ...DMHandler) *DMWatcher {
	return &DMWatcher{
		runner:   newRunner(interval, log.With().Str("component", "dm-watcher").Logger()),
		api:      api,
		identity: identity,
		window:   window,
		handlers: handlers,
		cursors:  make(map[string]time.Time),
	}
}

// Start begins polling.
func (w *DMWatcher) Start(ctx context.Context) { w.start(ctx, w.cycle) }

// Stop shuts the watcher down.
func (w *DMWatcher) Stop() { w.stop() }

func (w *DMWatcher) cycle(ctx context.Context) {
	var floor time.Time
	if w.window > 0 {
		floor = time.Now().Add(-w.window)
	}

	convs, err := w.api.DirectConversations(ctx)
	if err != nil {
		w.log.Debug().Err(err).Msg("listing direct conversations failed, skipping cycle")
		return
	}

	for _, conv := range convs {
		if conv.ID == "" {
			continue
		}
		w.scanConversation(ctx, conv, floor)
	}
}

func (w *DMWatcher) scanConversation(ctx context.Context, conv chat.Conversation, floor time.Time) {
	msgs, err := w.api.Messages(ctx, conv.ID, dmFetchLimit)
	if err != nil {
		w.log.Debug().Err(err).Str("conversation", conv.ID).Msg("fetching messages failed")
		return
	}

	last := w.cursors[conv.ID]
	// A cursor behind the recency floor snaps forward so a stale or
	// never-seen conversation does not replay its history.
	if !floor.IsZero() && last.Before(floor) {
		last = floor
	}

	for _, m := range msgs {
		ts := m.EventTime()
		if !floor.IsZero() && ts.Before(floor) {
			continue
		}
		if !ts.After(last) {
			continue
		}

		self := w.identity.IsFromSelf(m)
		key := conv.ParticipantKey()
		name := w.api.FriendDisplayName(ctx, key)
		w.dispatch(key, name, m.NormalizedBody(), self)

		if ts.After(last) {
			last = ts
		}
	}

	w.cursors[conv.ID] = last
}

func (w *DMWatcher) dispatch(key, name, body string, self bool) {
	for _, handler := range w.handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					w.log.Error().Interface("panic", r).Msg("dm handler panicked")
				}
			}()
			handler(key, name, body, self)
		}()
	}
}
