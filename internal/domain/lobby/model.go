package lobby

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlexID decodes a JSON field that different client builds emit either as a
// string or as a number.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// Member is a lobby member.
type Member struct {
	SummonerID   int64  `json:"summonerId"`
	SummonerName string `json:"summonerName"`
	PUUID        string `json:"puuid"`
	IsLeader     bool   `json:"isLeader"`
}

// GameConfig is the subset of the lobby game configuration the companion
// reads.
type GameConfig struct {
	QueueID int `json:"queueId"`
}

// Lobby is the LCU lobby payload.
type Lobby struct {
	LobbyID     FlexID     `json:"lobbyId"`
	PartyID     FlexID     `json:"partyId"`
	ID          FlexID     `json:"id"`
	GameConfig  GameConfig `json:"gameConfig"`
	Members     []Member   `json:"members"`
	LocalMember Member     `json:"localMember"`
}

// Exists reports whether the payload describes an actual lobby.
func (l Lobby) Exists() bool {
	return l.LobbyID != "" || l.PartyID != "" || l.ID != "" || len(l.Members) > 0
}

// SyntheticID returns a stable identifier for the lobby. The LCU omits a
// canonical id on some queue types, so fall back to a composite of queue id
/// and member count: repeated polls of the same lobby stay stable, while a
// queue or size change still reads as a new lobby.
func (l Lobby) SyntheticID() string {
	for _, candidate := range []FlexID{l.LobbyID, l.PartyID, l.ID} {
		if candidate != "" {
			return string(candidate)
		}
	}
	return fmt.Sprintf("lobby:%d:%d", l.GameConfig.QueueID, len(l.Members))
}

// MemberByName finds a member by exact summoner name, case-insensitively.
func (l Lobby) MemberByName(name string) (Member, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, m := range l.Members {
		if strings.ToLower(m.SummonerName) == want {
			return m, true
		}
	}
	return Member{}, false
}

// HasPUUID reports whether the given player id is a lobby member.
func (l Lobby) HasPUUID(puuid string) bool {
	want := strings.ToLower(strings.TrimSpace(puuid))
	if want == "" {
		return false
	}
	for _, m := range l.Members {
		if strings.ToLower(strings.TrimSpace(m.PUUID)) == want {
			return true
		}
	}
	return false
}

// MemberPUUIDs returns the set of member player ids, lowercased.
func (l Lobby) MemberPUUIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(l.Members))
	for _, m := range l.Members {
		if p := strings.ToLower(strings.TrimSpace(m.PUUID)); p != "" {
			out[p] = struct{}{}
		}
	}
	return out
}

// SearchState is the matchmaking search-state payload. Older client builds
// report the field as "state", newer ones as "searchState".
type SearchState struct {
	State     string  `json:"state"`
	AltState  string  `json:"searchState"`
	InQueue   bool    `json:"isCurrentlyInQueue"`
	EstimateS float64 `json:"estimatedQueueTime"`
}

// Value returns whichever state field the client populated.
func (s SearchState) Value() string {
	if s.State != "" {
		return s.State
	}
	return s.AltState
}

// Searching interprets the search state together with the gameflow phase.
func Searching(state, phase string) bool {
	switch strings.ToLower(state) {
	case "in_progress", "searching":
		return true
	}
	return phase == "Matchmaking"
}
