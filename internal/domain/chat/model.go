package chat

import (
	"strconv"
	"strings"
	"time"
)

// ConversationType values as reported by the LCU chat plugin.
const (
	TypeDirect = "chat"
	TypeGroup  = "groupchat"
)

// Conversation is a chat channel owned by the LCU. The companion only
// reads and writes through it, it never creates state of its own here.
type Conversation struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// IsDirect reports whether the conversation is a one-to-one chat.
func (c Conversation) IsDirect() bool {
	return strings.EqualFold(c.Type, TypeDirect)
}

// IsGroup reports whether the conversation is a group chat (lobby chat).
func (c Conversation) IsGroup() bool {
	return strings.EqualFold(c.Type, TypeGroup)
}

// ParticipantKey extracts the participant id from a conversation id of the
// form "<participant-id>@domain".
func (c Conversation) ParticipantKey() string {
	return ParticipantKey(c.ID)
}

// ParticipantKey strips the "@domain" suffix from a jid-style identifier.
func ParticipantKey(id string) string {
	key, _, _ := strings.Cut(id, "@")
	return key
}

// Message is a single chat message as returned by the LCU.
type Message struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	Body             string `json:"body"`
	Timestamp        string `json:"timestamp"`
	FromSummonerID   int64  `json:"fromSummonerId"`
	FromSummonerName string `json:"fromSummonerName"`
	FromName         string `json:"fromName"`
	FromPid          string `json:"fromPid"`
	IsSelf           bool   `json:"isSelf"`
}

// EventTime parses the server-assigned ISO-8601 timestamp. Unparsable
// timestamps fall back to the current time so the message is still treated
// as fresh rather than silently dropped.
func (m Message) EventTime() time.Time {
	if m.Timestamp == "" {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, m.Timestamp); err == nil {
			return t
		}
	}
	return time.Now()
}

// SenderKey returns the participant id of the message sender, when present.
func (m Message) SenderKey() string {
	return ParticipantKey(m.FromPid)
}

// SenderName guesses a display name for the sender from the fields the LCU
// populates inconsistently across builds.
func (m Message) SenderName() string {
	switch {
	case m.FromSummonerName != "":
		return m.FromSummonerName
	case m.FromName != "":
		return m.FromName
	case m.SenderKey() != "":
		return m.SenderKey()
	case m.FromSummonerID != 0:
		return strconv.FormatInt(m.FromSummonerID, 10)
	}
	return "?"
}

// NormalizedBody collapses embedded line breaks to single spaces.
func (m Message) NormalizedBody() string {
	body := strings.ReplaceAll(m.Body, "\r\n", " ")
	body = strings.ReplaceAll(body, "\n", " ")
	return strings.ReplaceAll(body, "\r", " ")
}

// Identity is the locally signed-in player.
type Identity struct {
	DisplayName string
	SummonerID  string
	PUUID       string
}

// IsFromSelf classifies a message as self-originated. Precedence: the
// explicit isSelf flag, then the numeric summoner id, then the pid prefix.
func (id Identity) IsFromSelf(m Message) bool {
	if m.IsSelf {
		return true
	}
	if m.FromSummonerID != 0 && id.SummonerID != "" && strconv.FormatInt(m.FromSummonerID, 10) == id.SummonerID {
		return true
	}
	key := m.SenderKey()
	return key != "" && id.PUUID != "" && key == id.PUUID
}

// Friend is an entry from the friends roster.
type Friend struct {
	Name         string `json:"name"`
	GameName     string `json:"gameName"`
	Pid          string `json:"pid"`
	PUUID        string `json:"puuid"`
	Availability string `json:"availability"`
}

// DisplayName picks the best populated name field.
func (f Friend) DisplayName() string {
	switch {
	case f.Name != "":
		return f.Name
	case f.GameName != "":
		return f.GameName
	}
	return "Unknown"
}

// Key returns the preferred stable key for the friend: the pid's
// participant id, falling back to the puuid.
func (f Friend) Key() string {
	if key := ParticipantKey(f.Pid); key != "" {
		return key
	}
	return f.PUUID
}

// Online reports whether the friend can receive a chat message right now.
func (f Friend) Online() bool {
	switch strings.ToLower(f.Availability) {
	case "chat", "online", "mobile":
		return true
	}
	return false
}

// Participant is a member of a conversation.
type Participant struct {
	ID           string `json:"id"`
	Pid          string `json:"pid"`
	Name         string `json:"name"`
	GameName     string `json:"gameName"`
	SummonerName string `json:"summonerName"`
	Availability string `json:"availability"`
}

// DisplayName picks the best populated name field.
func (p Participant) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.GameName != "":
		return p.GameName
	case p.SummonerName != "":
		return p.SummonerName
	}
	return ""
}

// Key returns the participant id derived from the pid (falling back to the
// raw id field).
func (p Participant) Key() string {
	if key := ParticipantKey(p.Pid); key != "" {
		return key
	}
	return ParticipantKey(p.ID)
}

// AvailabilityTag maps an availability string to the console tag used in
// friend listings.
func AvailabilityTag(availability string) string {
	switch strings.ToLower(availability) {
	case "chat", "online", "available", "ingame", "in_game", "inchampselect", "inlobby", "in_lobby":
		return "[ON]"
	case "dnd", "busy", "away", "mobile":
		return "[BSY]"
	}
	return "[OFF]"
}
