// Package bridge relays League client direct messages to a Telegram bot
// and lets the bot owner answer them, pick conversation targets, and
// approve matchmaking requests from party members.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lcu-companion/internal/config"
	"lcu-companion/internal/domain/chat"
)

// ChatAPI is the slice of the domain client the bridge uses to reach
// friends.
type ChatAPI interface {
	Friends(ctx context.Context) ([]chat.Friend, error)
	FindFriend(ctx context.Context, nameOrKey string) (chat.Friend, bool)
	SendDirect(ctx context.Context, nameOrKey, text string) bool
}

type pendingApproval struct {
	requester string
	grant     func(approved bool)
}

// Bridge connects the companion to a Telegram bot. Only updates from the
// configured owner id are honored.
type Bridge struct {
	bot     *tgbotapi.BotAPI
	api     ChatAPI
	log     zerolog.Logger
	ownerID int64
	forumID int64
	topics  *TopicStore

	mu       sync.Mutex
	target   chat.Friend
	pending  map[string]pendingApproval
	stopOnce sync.Once
}

// New connects to the Telegram API and returns a ready bridge.
func New(cfg *config.Config, api ChatAPI, log zerolog.Logger) (*Bridge, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return &Bridge{
		bot:     bot,
		api:     api,
		log:     log.With().Str("component", "telegram-bridge").Logger(),
		ownerID: cfg.TelegramOwnerID,
		forumID: cfg.TelegramForumID,
		topics:  NewTopicStore(cfg.TopicsPath),
		pending: make(map[string]pendingApproval),
	}, nil
}

// Run consumes Telegram updates until the context is cancelled. The update
// stream is reopened under exponential backoff if it closes.
func (b *Bridge) Run(ctx context.Context) {
	b.log.Info().Str("bot", b.bot.Self.UserName).Msg("bridge started")
	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	_ = backoff.Retry(func() error {
		b.consume(ctx)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("update stream closed")
	}, policy)
	b.log.Info().Msg("bridge stopped")
}

// Stop closes the update stream, letting Run return.
func (b *Bridge) Stop() {
	b.stopOnce.Do(b.bot.StopReceivingUpdates)
}

func (b *Bridge) consume(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.bot.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.Stop()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bridge) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.ID != b.ownerID {
		return
	}
	text := strings.TrimSpace(msg.Text)
	switch {
	case text == "/start":
		b.sendOwner("Hazir. /friends ile hedef sec, /to <isim> ile degistir, duz mesaj hedefe gider.")
	case strings.HasPrefix(text, "/to "):
		b.selectTarget(ctx, strings.TrimSpace(strings.TrimPrefix(text, "/to ")))
	case text == "/who":
		b.reportTarget()
	case text == "/friends":
		b.sendFriendKeyboard(ctx)
	case text != "":
		b.relayToTarget(ctx, text)
	}
}

func (b *Bridge) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.From.ID != b.ownerID {
		return
	}
	ack := tgbotapi.NewCallback(cb.ID, "")
	defer func() { _, _ = b.bot.Request(ack) }()

	switch {
	case strings.HasPrefix(cb.Data, "to:"):
		b.selectTarget(ctx, strings.TrimPrefix(cb.Data, "to:"))
	case strings.HasPrefix(cb.Data, "approve:"):
		b.resolveApproval(strings.TrimPrefix(cb.Data, "approve:"), true)
	case strings.HasPrefix(cb.Data, "deny:"):
		b.resolveApproval(strings.TrimPrefix(cb.Data, "deny:"), false)
	}
}

func (b *Bridge) selectTarget(ctx context.Context, nameOrKey string) {
	friend, ok := b.api.FindFriend(ctx, nameOrKey)
	if !ok {
		b.sendOwner(fmt.Sprintf("Bulunamadi: %s", nameOrKey))
		return
	}
	b.mu.Lock()
	b.target = friend
	b.mu.Unlock()
	b.sendOwner(fmt.Sprintf("Hedef: %s", friend.DisplayName()))
}

func (b *Bridge) reportTarget() {
	b.mu.Lock()
	target := b.target
	b.mu.Unlock()
	if target.Key() == "" {
		b.sendOwner("Hedef secilmedi. /friends veya /to <isim>.")
		return
	}
	b.sendOwner(fmt.Sprintf("Hedef: %s", target.DisplayName()))
}

func (b *Bridge) sendFriendKeyboard(ctx context.Context) {
	friends, err := b.api.Friends(ctx)
	if err != nil || len(friends) == 0 {
		b.sendOwner("Arkadas listesi alinamadi.")
		return
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, f := range friends {
		if !f.Online() {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(f.DisplayName(), "to:"+f.Key()),
		))
	}
	if len(rows) == 0 {
		b.sendOwner("Cevrimici arkadas yok.")
		return
	}
	msg := tgbotapi.NewMessage(b.ownerID, "Hedef sec:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.bot.Send(msg); err != nil {
		b.log.Warn().Err(err).Msg("friend keyboard send failed")
	}
}

func (b *Bridge) relayToTarget(ctx context.Context, text string) {
	b.mu.Lock()
	target := b.target
	b.mu.Unlock()
	if target.Key() == "" {
		b.sendOwner("Hedef secilmedi. /friends veya /to <isim>.")
		return
	}
	if !b.api.SendDirect(ctx, target.Key(), text) {
		b.sendOwner(fmt.Sprintf("Gonderilemedi: %s", target.DisplayName()))
		return
	}
	b.sendOwner(fmt.Sprintf("[ME => %s] %s", target.DisplayName(), text))
}

// OnDirectMessage forwards a League direct message to Telegram. Messages
// the local player sent from the game client are mirrored too so the
// Telegram side shows the whole conversation.
func (b *Bridge) OnDirectMessage(key, name, body string, self bool) {
	label := fmt.Sprintf("[%s => ME]", name)
	if self {
		label = fmt.Sprintf("[ME => %s]", name)
	}
	b.sendThreaded(key, name, fmt.Sprintf("%s %s", label, body))
}

// RequestApproval asks the owner to approve a matchmaking start requested
// over direct message. grant fires at most once; unanswered requests stay
// pending until the process exits.
func (b *Bridge) RequestApproval(ctx context.Context, requesterName, availability string, grant func(approved bool)) {
	id := uuid.NewString()
	b.mu.Lock()
	b.pending[id] = pendingApproval{requester: requesterName, grant: grant}
	b.mu.Unlock()

	who := requesterName
	if availability != "" {
		who = fmt.Sprintf("%s (%s)", requesterName, availability)
	}
	msg := tgbotapi.NewMessage(b.ownerID, fmt.Sprintf("%s eslesme baslatmak istiyor.", who))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Onayla", "approve:"+id),
			tgbotapi.NewInlineKeyboardButtonData("Reddet", "deny:"+id),
		),
	)
	if _, err := b.bot.Send(msg); err != nil {
		b.log.Warn().Err(err).Msg("approval request send failed")
		b.resolveApproval(id, false)
	}
}

func (b *Bridge) resolveApproval(id string, approved bool) {
	b.mu.Lock()
	p, ok := b.pending[id]
	if ok {
		delete(b.pending, id)
	}
	b.mu.Unlock()
	if !ok {
		return
	}
	verdict := "reddedildi"
	if approved {
		verdict = "onaylandi"
	}
	b.sendOwner(fmt.Sprintf("%s: %s", p.requester, verdict))
	p.grant(approved)
}

func (b *Bridge) sendOwner(text string) {
	if _, err := b.bot.Send(tgbotapi.NewMessage(b.ownerID, text)); err != nil {
		b.log.Warn().Err(err).Msg("owner message send failed")
	}
}

// sendThreaded delivers a relayed message into the friend's forum topic
// when a forum group is configured, creating the topic on first use. The
// bundled client predates forum topics, so both createForumTopic and the
// threaded sendMessage go through raw API requests. Without a forum the
// message goes straight to the owner chat.
func (b *Bridge) sendThreaded(key, name, text string) {
	if b.forumID == 0 {
		b.sendOwner(text)
		return
	}
	topicID, ok := b.topics.Get(key)
	if !ok {
		created, err := b.createTopic(name)
		if err != nil {
			b.log.Warn().Err(err).Str("friend", name).Msg("topic create failed")
			b.sendOwner(text)
			return
		}
		topicID = created
		b.topics.Set(key, topicID)
	}
	params := tgbotapi.Params{
		"chat_id":           strconv.FormatInt(b.forumID, 10),
		"message_thread_id": strconv.FormatInt(topicID, 10),
		"text":              text,
	}
	if _, err := b.bot.MakeRequest("sendMessage", params); err != nil {
		b.log.Warn().Err(err).Msg("threaded send failed")
		b.sendOwner(text)
	}
}

func (b *Bridge) createTopic(name string) (int64, error) {
	params := tgbotapi.Params{
		"chat_id": strconv.FormatInt(b.forumID, 10),
		"name":    name,
	}
	resp, err := b.bot.MakeRequest("createForumTopic", params)
	if err != nil {
		return 0, err
	}
	var topic struct {
		MessageThreadID int64 `json:"message_thread_id"`
	}
	if err := json.Unmarshal(resp.Result, &topic); err != nil {
		return 0, err
	}
	if topic.MessageThreadID == 0 {
		return 0, fmt.Errorf("createForumTopic returned no thread id")
	}
	return topic.MessageThreadID, nil
}
