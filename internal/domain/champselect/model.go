package champselect

import "strings"

// Action is a single pick/ban action inside a champion-select session.
type Action struct {
	ID           int64  `json:"id"`
	ActorCellID  int64  `json:"actorCellId"`
	Type         string `json:"type"`
	IsInProgress bool   `json:"isInProgress"`
	Completed    bool   `json:"completed"`
	ChampionID   int    `json:"championId"`
}

// BenchChampion is an entry on the shared reroll bench.
type BenchChampion struct {
	ChampionID int `json:"championId"`
}

// Session is the LCU champion-select session payload.
type Session struct {
	LocalPlayerCellID int64           `json:"localPlayerCellId"`
	Actions           [][]Action      `json:"actions"`
	BenchEnabled      bool            `json:"benchEnabled"`
	BenchChampions    []BenchChampion `json:"benchChampions"`
}

// Exists reports whether the payload describes a live session.
func (s Session) Exists() bool {
	return len(s.Actions) > 0 || len(s.BenchChampions) > 0 || s.LocalPlayerCellID != 0
}

// MyPickAction returns the local player's current incomplete pick action.
func (s Session) MyPickAction() (Action, bool) {
	for _, row := range s.Actions {
		for _, act := range row {
			if act.ActorCellID == s.LocalPlayerCellID &&
				strings.EqualFold(act.Type, "pick") &&
				!act.Completed {
				return act, true
			}
		}
	}
	return Action{}, false
}

// BenchIDs returns the champion ids currently on the bench.
func (s Session) BenchIDs() []int {
	out := make([]int, 0, len(s.BenchChampions))
	for _, b := range s.BenchChampions {
		if b.ChampionID != 0 {
			out = append(out, b.ChampionID)
		}
	}
	return out
}
