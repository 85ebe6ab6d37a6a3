package chat

import (
	"testing"
	"time"
)

func TestIsFromSelfPrecedence(t *testing.T) {
	id := Identity{DisplayName: "Me", SummonerID: "42", PUUID: "my-puuid"}

	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{"explicit flag", Message{IsSelf: true}, true},
		{"flag wins over mismatched ids", Message{IsSelf: true, FromSummonerID: 7, FromPid: "other@pvp.net"}, true},
		{"summoner id match", Message{FromSummonerID: 42}, true},
		{"summoner id mismatch", Message{FromSummonerID: 7}, false},
		{"pid prefix match", Message{FromPid: "my-puuid@pvp.net"}, true},
		{"pid prefix mismatch", Message{FromPid: "other@pvp.net"}, false},
		{"nothing populated", Message{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := id.IsFromSelf(tt.msg); got != tt.want {
				t.Errorf("IsFromSelf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFromSelfEmptyIdentity(t *testing.T) {
	var id Identity
	if id.IsFromSelf(Message{FromSummonerID: 42, FromPid: "x@pvp.net"}) {
		t.Error("empty identity must not claim foreign messages")
	}
}

func TestEventTime(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		want      time.Time
	}{
		{"rfc3339 nano", "2025-03-01T10:20:30.5Z", time.Date(2025, 3, 1, 10, 20, 30, 500000000, time.UTC)},
		{"rfc3339", "2025-03-01T10:20:30Z", time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"no zone", "2025-03-01T10:20:30", time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Message{Timestamp: tt.timestamp}.EventTime()
			if !got.Equal(tt.want) {
				t.Errorf("EventTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventTimeUnparsableIsFresh(t *testing.T) {
	before := time.Now()
	got := Message{Timestamp: "yesterday"}.EventTime()
	if got.Before(before) {
		t.Errorf("unparsable timestamp should map to now, got %v", got)
	}
}

func TestSenderName(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"summoner name", Message{FromSummonerName: "Ali", FromName: "B"}, "Ali"},
		{"from name", Message{FromName: "B"}, "B"},
		{"pid fallback", Message{FromPid: "puuid-1@pvp.net"}, "puuid-1"},
		{"numeric fallback", Message{FromSummonerID: 9}, "9"},
		{"nothing", Message{}, "?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.SenderName(); got != tt.want {
				t.Errorf("SenderName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizedBody(t *testing.T) {
	m := Message{Body: "a\r\nb\nc\rd"}
	if got := m.NormalizedBody(); got != "a b c d" {
		t.Errorf("NormalizedBody() = %q", got)
	}
}

func TestFriendKey(t *testing.T) {
	f := Friend{Pid: "abc@pvp.net", PUUID: "fallback"}
	if got := f.Key(); got != "abc" {
		t.Errorf("Key() = %q, want abc", got)
	}
	f = Friend{PUUID: "fallback"}
	if got := f.Key(); got != "fallback" {
		t.Errorf("Key() = %q, want fallback", got)
	}
}

func TestAvailabilityTag(t *testing.T) {
	tests := []struct {
		availability string
		want         string
	}{
		{"chat", "[ON]"},
		{"inGame", "[ON]"},
		{"dnd", "[BSY]"},
		{"away", "[BSY]"},
		{"offline", "[OFF]"},
		{"", "[OFF]"},
	}
	for _, tt := range tests {
		if got := AvailabilityTag(tt.availability); got != tt.want {
			t.Errorf("AvailabilityTag(%q) = %q, want %q", tt.availability, got, tt.want)
		}
	}
}
