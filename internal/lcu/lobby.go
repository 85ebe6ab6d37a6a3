package lcu

import (
	"context"
	"fmt"
	"strings"

	"lcu-companion/internal/domain/lobby"
)

// Lobby fetches the current lobby. A missing lobby is reported through the
// error; callers treat it as "no lobby this cycle".
func (c *Client) Lobby(ctx context.Context) (lobby.Lobby, error) {
	var out lobby.Lobby
	if err := c.get(ctx, "/lol-lobby/v2/lobby", &out); err != nil {
		return lobby.Lobby{}, err
	}
	return out, nil
}

// IsPartyLeader reports whether the local player leads the current lobby.
func (c *Client) IsPartyLeader(ctx context.Context) bool {
	lob, err := c.Lobby(ctx)
	if err != nil {
		return false
	}
	return lob.LocalMember.IsLeader
}

// StartMatchmaking begins the matchmaking search.
func (c *Client) StartMatchmaking(ctx context.Context) error {
	return c.post(ctx, "/lol-lobby/v2/lobby/matchmaking/search", nil, nil)
}

// StopMatchmaking cancels the matchmaking search.
func (c *Client) StopMatchmaking(ctx context.Context) error {
	return c.delete(ctx, "/lol-lobby/v2/lobby/matchmaking/search")
}

// KickMember removes a member from the lobby.
func (c *Client) KickMember(ctx context.Context, summonerID int64) error {
	return c.delete(ctx, fmt.Sprintf("/lol-lobby/v2/lobby/members/%d", summonerID))
}

// PromoteMember transfers lobby leadership to a member.
func (c *Client) PromoteMember(ctx context.Context, summonerID int64) error {
	return c.post(ctx, fmt.Sprintf("/lol-lobby/v2/lobby/members/%d/promote", summonerID), nil, nil)
}

// SearchState fetches the matchmaking search state.
func (c *Client) SearchState(ctx context.Context) (lobby.SearchState, error) {
	var out lobby.SearchState
	if err := c.get(ctx, "/lol-lobby/v2/lobby/matchmaking/search-state", &out); err != nil {
		return lobby.SearchState{}, err
	}
	return out, nil
}

// GameflowPhase returns the current game-flow phase (Lobby, Matchmaking,
// ReadyCheck, ChampSelect, ...). The endpoint answers with a bare JSON
// string.
func (c *Client) GameflowPhase(ctx context.Context) (string, error) {
	var phase string
	if err := c.get(ctx, "/lol-gameflow/v1/gameflow-phase", &phase); err != nil {
		return "", err
	}
	return strings.Trim(phase, `"`), nil
}

// GeoInfo fetches the client region/country/locale record.
func (c *Client) GeoInfo(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/lol-geoinfo/v1/getlocation", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GeoSummary renders a short human-readable line out of the geo record.
func (c *Client) GeoSummary(ctx context.Context) string {
	info, err := c.GeoInfo(ctx)
	if err != nil {
		return ""
	}
	region := firstGeoField(info, "region", "webRegion", "regionId", "platformId")
	country := firstGeoField(info, "country", "countryCode", "ipCountry")
	locale := firstGeoField(info, "locale", "webLanguage", "displayLocale")
	shard := firstGeoField(info, "shard", "platform", "routing")

	summary := fmt.Sprintf("region=%s country=%s locale=%s", region, country, locale)
	if shard != "?" {
		summary += " shard=" + shard
	}
	return summary
}

func firstGeoField(info map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := info[key]; ok {
			if s := fmt.Sprintf("%v", v); s != "" && s != "<nil>" {
				return s
			}
		}
	}
	return "?"
}
