package lcu

import (
	"context"
	"fmt"

	"lcu-companion/internal/domain/champselect"
)

// ChampSelectSession fetches the current champion-select session.
func (c *Client) ChampSelectSession(ctx context.Context) (champselect.Session, error) {
	var out champselect.Session
	if err := c.get(ctx, "/lol-champ-select/v1/session", &out); err != nil {
		return champselect.Session{}, err
	}
	return out, nil
}

// PickableIDs returns the set of champion ids the local player may pick.
func (c *Client) PickableIDs(ctx context.Context) (map[int]struct{}, error) {
	var ids []int
	if err := c.get(ctx, "/lol-champ-select/v1/pickable-champion-ids", &ids); err != nil {
		return nil, err
	}
	out := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// Hover declares intent on a champion for the given action.
func (c *Client) Hover(ctx context.Context, actionID int64, championID int) error {
	path := fmt.Sprintf("/lol-champ-select/v1/session/actions/%d", actionID)
	return c.patch(ctx, path, map[string]int{"championId": championID})
}

// Lock finalizes the pick for the given action.
func (c *Client) Lock(ctx context.Context, actionID int64, championID int) error {
	path := fmt.Sprintf("/lol-champ-select/v1/session/actions/%d/complete", actionID)
	return c.post(ctx, path, map[string]int{"championId": championID}, nil)
}

// BenchSwap pulls a champion from the shared bench into the local player's
// seat.
func (c *Client) BenchSwap(ctx context.Context, championID int) error {
	path := fmt.Sprintf("/lol-champ-select/v1/session/bench/swap/%d", championID)
	return c.post(ctx, path, nil, nil)
}
