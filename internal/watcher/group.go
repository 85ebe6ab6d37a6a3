package watcher

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lcu-companion/internal/domain/chat"
)

// GroupHandler receives one group-message event.
type GroupHandler func(conversationID, senderName, body string, self bool)

// GroupChatAPI is the slice of the domain client the group watcher needs.
type GroupChatAPI interface {
	GroupConversations(ctx context.Context) ([]chat.Conversation, error)
	Messages(ctx context.Context, conversationID string, limit int) ([]chat.Message, error)
}

const groupFetchLimit = 50

// groupCursor remembers the newest dispatched message per conversation.
// Timestamp ties are disambiguated by message id so a second message in the
// same instant is neither replayed nor starved.
type groupCursor struct {
	eventTime time.Time
	messageID string
}

// GroupWatcher polls group conversations and dispatches new messages. When
// an active group is selected only that conversation is tracked, otherwise
// all group conversations are.
type GroupWatcher struct {
	runner
	api         GroupChatAPI
	identity    chat.Identity
	active      *ActiveGroup
	includeSelf bool
	handlers    []GroupHandler

	cursors map[string]groupCursor
}

// NewGroupWatcher creates a group watcher. includeSelf keeps dispatching
// self-originated messages, needed when the operator is alone in a lobby
// and issues commands to themselves.
func NewGroupWatcher(api GroupChatAPI, identity chat.Identity, active *ActiveGroup, interval time.Duration, includeSelf bool, log zerolog.Logger, handlers ...GroupHandler) *GroupWatcher {
	return &GroupWatcher{
		runner:      newRunner(interval, log.With().Str("component", "group-watcher").Logger()),
		api:         api,
		identity:    identity,
		active:      active,
		includeSelf: includeSelf,
		handlers:    handlers,
		cursors:     make(map[string]groupCursor),
	}
}

// Start begins polling.
func (w *GroupWatcher) Start(ctx context.Context) { w.start(ctx, w.cycle) }

// Stop shuts the watcher down.
func (w *GroupWatcher) Stop() { w.stop() }

func (w *GroupWatcher) cycle(ctx context.Context) {
	var tracked []string
	if id := w.active.Get(); id != "" {
		tracked = []string{id}
	} else {
		groups, err := w.api.GroupConversations(ctx)
		if err != nil {
			w.log.Debug().Err(err).Msg("listing group conversations failed, skipping cycle")
			return
		}
		for _, g := range groups {
			if g.ID != "" {
				tracked = append(tracked, g.ID)
			}
		}
	}

	for _, id := range tracked {
		w.scanConversation(ctx, id)
	}
}

func (w *GroupWatcher) scanConversation(ctx context.Context, conversationID string) {
	msgs, err := w.api.Messages(ctx, conversationID, groupFetchLimit)
	if err != nil {
		w.log.Debug().Err(err).Str("conversation", conversationID).Msg("fetching messages failed")
		return
	}

	// Source ordering is not guaranteed; sort by event time, then id, so
	// the cursor comparison below is a strict total order and a message
	// is dispatched at most once across cycles.
	sort.SliceStable(msgs, func(i, j int) bool {
		ti, tj := msgs[i].EventTime(), msgs[j].EventTime()
		if ti.Equal(tj) {
			return msgs[i].ID < msgs[j].ID
		}
		return ti.Before(tj)
	})

	cur := w.cursors[conversationID]

	for _, m := range msgs {
		ts := m.EventTime()

		newer := ts.After(cur.eventTime)
		tie := ts.Equal(cur.eventTime) && m.ID > cur.messageID
		if !newer && !tie {
			continue
		}

		self := w.identity.IsFromSelf(m)
		if !w.includeSelf && self {
			continue
		}

		body := strings.TrimSpace(m.NormalizedBody())
		if body == "" {
			continue
		}

		w.log.Debug().
			Str("conversation", conversationID).
			Str("from", m.SenderName()).
			Bool("self", self).
			Str("body", body).
			Msg("group message")

		w.dispatch(conversationID, m.SenderName(), body, self)

		// The cursor only moves forward, never backward.
		cur = groupCursor{eventTime: ts, messageID: m.ID}
	}

	w.cursors[conversationID] = cur
}

func (w *GroupWatcher) dispatch(conversationID, sender, body string, self bool) {
	for _, handler := range w.handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					w.log.Error().Interface("panic", r).Msg("group handler panicked")
				}
			}()
			handler(conversationID, sender, body, self)
		}()
	}
}
