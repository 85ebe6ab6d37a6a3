// Package settings holds the runtime feature toggles shared between the
// watchers, the command dispatcher, and the console. The dispatcher and the
// console are the only writers; watchers take plain-value reads.
package settings

import (
	"strings"
	"sync"

	"lcu-companion/internal/config"
)

// Settings is the mutable process-wide toggle set.
type Settings struct {
	mu sync.RWMutex

	autoReady       bool
	fallbackClick   bool
	autoPickEnabled bool
	autoPickLock    bool
	pickList        []string
	pickIDs         []int
	announce        bool
	silentGroup     bool
	quiet           bool
}

// FromConfig seeds runtime settings from the startup configuration.
func FromConfig(cfg *config.Config) *Settings {
	return &Settings{
		autoReady:       cfg.AutoReady,
		fallbackClick:   cfg.FallbackClick,
		autoPickEnabled: cfg.AutoPickEnabled,
		autoPickLock:    cfg.AutoPickLock,
		pickList:        SplitList(cfg.AutoPickList),
		announce:        cfg.AnnounceCommands,
		silentGroup:     cfg.SilentGroup,
		quiet:           cfg.Quiet,
	}
}

// SplitList splits a comma-separated name list, trimming blanks.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (s *Settings) AutoReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoReady
}

func (s *Settings) SetAutoReady(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoReady = v
}

func (s *Settings) FallbackClick() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallbackClick
}

func (s *Settings) SetFallbackClick(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallbackClick = v
}

func (s *Settings) AutoPickEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoPickEnabled
}

func (s *Settings) SetAutoPickEnabled(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoPickEnabled = v
}

func (s *Settings) AutoPickLock() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoPickLock
}

func (s *Settings) SetAutoPickLock(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoPickLock = v
}

// PickList returns the configured champion preference names.
func (s *Settings) PickList() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pickList
}

// PickIDs returns the resolved champion preference ids in order.
func (s *Settings) PickIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pickIDs
}

// SetPickList swaps the preference names and resolved ids as whole values.
func (s *Settings) SetPickList(names []string, ids []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickList = names
	s.pickIDs = ids
}

func (s *Settings) Announce() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.announce
}

func (s *Settings) SetAnnounce(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announce = v
}

func (s *Settings) SilentGroup() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.silentGroup
}

func (s *Settings) SetSilentGroup(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.silentGroup = v
}

func (s *Settings) Quiet() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quiet
}

func (s *Settings) SetQuiet(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiet = v
}

// ParseToggle interprets on/off style console arguments, accepting the
// localized spellings the chat grammar also takes.
func ParseToggle(raw string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes", "evet", "ac", "aç":
		return true, true
	case "off", "false", "0", "no", "hayir", "kapat", "kapali", "kapalı":
		return false, true
	}
	return false, false
}
