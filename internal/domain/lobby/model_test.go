package lobby

import (
	"encoding/json"
	"testing"
)

func TestFlexIDUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want FlexID
	}{
		{"string", `"party-123"`, "party-123"},
		{"number", `123`, "123"},
		{"float", `123.0`, "123.0"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id FlexID
			if err := json.Unmarshal([]byte(tt.raw), &id); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.raw, err)
			}
			if id != tt.want {
				t.Errorf("got %q, want %q", id, tt.want)
			}
		})
	}
}

func TestSyntheticID(t *testing.T) {
	tests := []struct {
		name string
		lob  Lobby
		want string
	}{
		{"lobby id wins", Lobby{LobbyID: "a", PartyID: "b", ID: "c"}, "a"},
		{"party id next", Lobby{PartyID: "b", ID: "c"}, "b"},
		{"plain id next", Lobby{ID: "c"}, "c"},
		{
			"composite fallback",
			Lobby{GameConfig: GameConfig{QueueID: 450}, Members: []Member{{}, {}}},
			"lobby:450:2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lob.SyntheticID(); got != tt.want {
				t.Errorf("SyntheticID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSyntheticIDStableAcrossPolls(t *testing.T) {
	a := Lobby{GameConfig: GameConfig{QueueID: 450}, Members: []Member{{SummonerID: 1}, {SummonerID: 2}}}
	b := Lobby{GameConfig: GameConfig{QueueID: 450}, Members: []Member{{SummonerID: 1}, {SummonerID: 2}}}
	if a.SyntheticID() != b.SyntheticID() {
		t.Error("same lobby shape must produce the same synthetic id")
	}
	c := Lobby{GameConfig: GameConfig{QueueID: 450}, Members: []Member{{SummonerID: 1}}}
	if a.SyntheticID() == c.SyntheticID() {
		t.Error("member count change must produce a different synthetic id")
	}
}

func TestHasPUUID(t *testing.T) {
	lob := Lobby{Members: []Member{{PUUID: "AA-BB"}, {PUUID: "cc-dd"}}}
	if !lob.HasPUUID("aa-bb") {
		t.Error("lookup must be case-insensitive")
	}
	if lob.HasPUUID("") {
		t.Error("empty puuid never matches")
	}
	if lob.HasPUUID("ee-ff") {
		t.Error("unknown puuid must not match")
	}
}

func TestSearchStateValue(t *testing.T) {
	old := SearchState{State: "Searching"}
	if old.Value() != "Searching" {
		t.Errorf("Value() = %q", old.Value())
	}
	modern := SearchState{AltState: "Searching"}
	if modern.Value() != "Searching" {
		t.Errorf("Value() = %q", modern.Value())
	}
}

func TestSearching(t *testing.T) {
	tests := []struct {
		state string
		phase string
		want  bool
	}{
		{"Searching", "", true},
		{"searching", "Lobby", true},
		{"In_Progress", "", true},
		{"Invalid", "Matchmaking", true},
		{"Invalid", "Lobby", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := Searching(tt.state, tt.phase); got != tt.want {
			t.Errorf("Searching(%q, %q) = %v, want %v", tt.state, tt.phase, got, tt.want)
		}
	}
}
