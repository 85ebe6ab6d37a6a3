package lcu

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"lcu-companion/internal/domain/chat"
)

// RefreshIdentity resolves the locally signed-in player. The richer
// summoner endpoint is tried first, the chat identity endpoint second.
func (c *Client) RefreshIdentity(ctx context.Context) (chat.Identity, error) {
	var summoner struct {
		DisplayName string `json:"displayName"`
		GameName    string `json:"gameName"`
		SummonerID  int64  `json:"summonerId"`
		PUUID       string `json:"puuid"`
	}
	if err := c.get(ctx, "/lol-summoner/v1/current-summoner", &summoner); err == nil {
		name := summoner.DisplayName
		if name == "" {
			name = summoner.GameName
		}
		return chat.Identity{
			DisplayName: name,
			SummonerID:  formatSummonerID(summoner.SummonerID),
			PUUID:       summoner.PUUID,
		}, nil
	}

	var me struct {
		Name       string `json:"name"`
		GameName   string `json:"gameName"`
		SummonerID int64  `json:"summonerId"`
		PUUID      string `json:"puuid"`
	}
	if err := c.get(ctx, "/lol-chat/v1/me", &me); err != nil {
		return chat.Identity{}, err
	}
	name := me.Name
	if name == "" {
		name = me.GameName
	}
	return chat.Identity{
		DisplayName: name,
		SummonerID:  formatSummonerID(me.SummonerID),
		PUUID:       me.PUUID,
	}, nil
}

func formatSummonerID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// Conversations lists all chat conversations.
func (c *Client) Conversations(ctx context.Context) ([]chat.Conversation, error) {
	var out []chat.Conversation
	if err := c.get(ctx, "/lol-chat/v1/conversations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DirectConversations lists one-to-one conversations.
func (c *Client) DirectConversations(ctx context.Context) ([]chat.Conversation, error) {
	return c.conversationsOfType(ctx, chat.Conversation.IsDirect)
}

// GroupConversations lists group conversations.
func (c *Client) GroupConversations(ctx context.Context) ([]chat.Conversation, error) {
	return c.conversationsOfType(ctx, chat.Conversation.IsGroup)
}

func (c *Client) conversationsOfType(ctx context.Context, match func(chat.Conversation) bool) ([]chat.Conversation, error) {
	all, err := c.Conversations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]chat.Conversation, 0, len(all))
	for _, conv := range all {
		if match(conv) {
			out = append(out, conv)
		}
	}
	return out, nil
}

// Messages fetches the last limit messages of a conversation.
func (c *Client) Messages(ctx context.Context, conversationID string, limit int) ([]chat.Message, error) {
	var out []chat.Message
	path := fmt.Sprintf("/lol-chat/v1/conversations/%s/messages", encodeConversationID(conversationID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// Send posts a message body into a conversation.
func (c *Client) Send(ctx context.Context, conversationID, text string) error {
	path := fmt.Sprintf("/lol-chat/v1/conversations/%s/messages", encodeConversationID(conversationID))
	return c.post(ctx, path, map[string]string{"body": text}, nil)
}

// Participants lists the participants of a conversation.
func (c *Client) Participants(ctx context.Context, conversationID string) ([]chat.Participant, error) {
	var out []chat.Participant
	path := fmt.Sprintf("/lol-chat/v1/conversations/%s/participants", encodeConversationID(conversationID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Friends lists the friends roster.
func (c *Client) Friends(ctx context.Context) ([]chat.Friend, error) {
	var out []chat.Friend
	if err := c.get(ctx, "/lol-chat/v1/friends", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyAvailability returns the local player's chat availability.
func (c *Client) MyAvailability(ctx context.Context) (string, error) {
	var me struct {
		Availability string `json:"availability"`
	}
	if err := c.get(ctx, "/lol-chat/v1/me", &me); err != nil {
		return "", err
	}
	return strings.ToLower(me.Availability), nil
}

// FriendByKey finds a friend by participant id or puuid.
func (c *Client) FriendByKey(ctx context.Context, key string) (chat.Friend, bool) {
	friends, err := c.Friends(ctx)
	if err != nil {
		return chat.Friend{}, false
	}
	for _, f := range friends {
		if key == chat.ParticipantKey(f.Pid) || key == f.PUUID {
			return f, true
		}
	}
	return chat.Friend{}, false
}

// FriendDisplayName resolves the display name for a participant key,
// falling back to the key itself.
func (c *Client) FriendDisplayName(ctx context.Context, key string) string {
	if f, ok := c.FriendByKey(ctx, key); ok {
		return f.DisplayName()
	}
	return key
}

// FindFriend resolves a friend by key, exact name, or name prefix; as a
// last resort it matches direct conversation names.
func (c *Client) FindFriend(ctx context.Context, nameOrKey string) (chat.Friend, bool) {
	needle := strings.TrimSpace(nameOrKey)
	if f, ok := c.FriendByKey(ctx, needle); ok {
		return f, true
	}

	low := strings.ToLower(needle)
	friends, err := c.Friends(ctx)
	if err != nil {
		return chat.Friend{}, false
	}
	for _, f := range friends {
		if strings.ToLower(f.DisplayName()) == low {
			return f, true
		}
	}
	for _, f := range friends {
		if strings.HasPrefix(strings.ToLower(f.DisplayName()), low) {
			return f, true
		}
	}

	convs, err := c.DirectConversations(ctx)
	if err != nil {
		return chat.Friend{}, false
	}
	for _, conv := range convs {
		name := strings.ToLower(conv.Name)
		if name == low || strings.HasPrefix(name, low) {
			return chat.Friend{Name: conv.Name, Pid: conv.ID}, true
		}
	}
	return chat.Friend{}, false
}

// EnsureDirectConversation returns the direct conversation for a friend,
// creating it through the chat plugin when it does not exist yet.
func (c *Client) EnsureDirectConversation(ctx context.Context, friend chat.Friend) (chat.Conversation, bool) {
	jid := friend.Pid
	if jid == "" && friend.PUUID != "" {
		jid = friend.PUUID + "@pvp.net"
	}
	if jid == "" {
		return chat.Conversation{}, false
	}

	if conv, ok := c.findDirectConversation(ctx, jid); ok {
		return conv, true
	}

	_ = c.post(ctx, "/lol-chat/v1/conversations", map[string]string{"id": jid, "type": chat.TypeDirect}, nil)

	return c.findDirectConversation(ctx, jid)
}

func (c *Client) findDirectConversation(ctx context.Context, jid string) (chat.Conversation, bool) {
	convs, err := c.DirectConversations(ctx)
	if err != nil {
		return chat.Conversation{}, false
	}
	for _, conv := range convs {
		if conv.ID == jid {
			return conv, true
		}
	}
	return chat.Conversation{}, false
}

// SendDirect resolves a friend by name or key and sends them a direct
// message.
func (c *Client) SendDirect(ctx context.Context, nameOrKey, text string) bool {
	friend, ok := c.FindFriend(ctx, nameOrKey)
	if !ok {
		return false
	}
	conv, ok := c.EnsureDirectConversation(ctx, friend)
	if !ok {
		return false
	}
	return c.Send(ctx, conv.ID, text) == nil
}
