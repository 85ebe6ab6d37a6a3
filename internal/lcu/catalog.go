package lcu

import (
	"context"
	"strings"
)

// Champion is one entry of the champion catalog.
type Champion struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

// Catalog is the name/alias/id cross-index over the champion summary.
// Built once per process and safe for concurrent reads afterwards.
type Catalog struct {
	byName  map[string]int
	byAlias map[string]int
	byID    map[int]Champion
}

// IDFromText resolves a champion name or alias, case-insensitively.
func (c *Catalog) IDFromText(text string) (int, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return 0, false
	}
	if id, ok := c.byName[t]; ok {
		return id, true
	}
	id, ok := c.byAlias[t]
	return id, ok
}

// NameOf returns the display name of a champion id, or the empty string.
func (c *Catalog) NameOf(id int) string {
	return c.byID[id].Name
}

// Catalog returns the memoized champion catalog, fetching it on first use.
// The cache only latches on a successful fetch, so a start while the client
// is down does not poison later lookups.
func (c *Client) Catalog(ctx context.Context) (*Catalog, error) {
	c.catalogMu.Lock()
	defer c.catalogMu.Unlock()

	if c.catalog != nil {
		return c.catalog, nil
	}

	var raw []Champion
	if err := c.get(ctx, "/lol-game-data/assets/v1/champion-summary.json", &raw); err != nil {
		return nil, err
	}

	cat := &Catalog{
		byName:  make(map[string]int, len(raw)),
		byAlias: make(map[string]int, len(raw)),
		byID:    make(map[int]Champion, len(raw)),
	}
	for _, ch := range raw {
		// the summary starts with a {-1, "None"} placeholder
		if ch.ID <= 0 {
			continue
		}
		name := strings.TrimSpace(ch.Name)
		alias := strings.ToLower(strings.TrimSpace(ch.Alias))
		if name != "" {
			cat.byName[strings.ToLower(name)] = ch.ID
		}
		if alias != "" {
			cat.byAlias[alias] = ch.ID
		}
		cat.byID[ch.ID] = Champion{ID: ch.ID, Name: name, Alias: alias}
	}

	c.catalog = cat
	c.log.Debug().Int("champions", len(cat.byID)).Msg("champion catalog cached")
	return cat, nil
}

// ChampionID resolves a champion name or alias through the catalog.
func (c *Client) ChampionID(ctx context.Context, text string) (int, bool) {
	cat, err := c.Catalog(ctx)
	if err != nil {
		return 0, false
	}
	return cat.IDFromText(text)
}

// ResolvePickList resolves a list of champion names to ids, preserving
// order and dropping duplicates. Unresolved names are returned separately.
func (c *Client) ResolvePickList(ctx context.Context, names []string) (ids []int, unresolved []string) {
	seen := make(map[int]struct{})
	for _, name := range names {
		id, ok := c.ChampionID(ctx, name)
		if !ok {
			unresolved = append(unresolved, name)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, unresolved
}
