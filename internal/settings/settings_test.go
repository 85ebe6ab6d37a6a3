package settings

import (
	"reflect"
	"testing"

	"lcu-companion/internal/config"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"Ahri,Zed", []string{"Ahri", "Zed"}},
		{" Ahri , Zed , ", []string{"Ahri", "Zed"}},
		{"", []string{}},
		{",,", []string{}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseToggle(t *testing.T) {
	tests := []struct {
		raw   string
		value bool
		ok    bool
	}{
		{"on", true, true},
		{"ON", true, true},
		{"evet", true, true},
		{"ac", true, true},
		{"off", false, true},
		{"kapat", false, true},
		{"hayir", false, true},
		{"maybe", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		value, ok := ParseToggle(tt.raw)
		if value != tt.value || ok != tt.ok {
			t.Errorf("ParseToggle(%q) = (%v, %v), want (%v, %v)", tt.raw, value, ok, tt.value, tt.ok)
		}
	}
}

func TestFromConfigSeeds(t *testing.T) {
	s := FromConfig(&config.Config{
		AutoReady:        true,
		AutoPickLock:     true,
		AutoPickList:     "Ahri, Zed",
		AnnounceCommands: true,
		SilentGroup:      true,
	})
	if !s.AutoReady() || !s.AutoPickLock() || !s.Announce() || !s.SilentGroup() {
		t.Error("config seed lost")
	}
	if s.AutoPickEnabled() || s.Quiet() {
		t.Error("unset toggles must stay false")
	}
	if got := s.PickList(); !reflect.DeepEqual(got, []string{"Ahri", "Zed"}) {
		t.Errorf("PickList() = %v", got)
	}
	if len(s.PickIDs()) != 0 {
		t.Error("ids are only populated after catalog resolution")
	}
}
