package sqldb

import (
	"context"

	"github.com/riskibarqy/lol-dataset/internal/platform/sqlstore"
)

// Tables names the relational tables. Empty fields fall back to the defaults.
type Tables struct {
	Match           string
	Team            string
	PlayerMatch     string
	Player          string
	ChampionMastery string
	RuneStats       string
	ChampionStats   string
}

func DefaultTables() Tables {
	return Tables{
		Match:           "matches",
		Team:            "teams",
		PlayerMatch:     "player_matches",
		Player:          "players",
		ChampionMastery: "champion_mastery",
		RuneStats:       "rune_stats",
		ChampionStats:   "champion_stats",
	}
}

func (t Tables) withDefaults() Tables {
	d := DefaultTables()
	if t.Match == "" {
		t.Match = d.Match
	}
	if t.Team == "" {
		t.Team = d.Team
	}
	if t.PlayerMatch == "" {
		t.PlayerMatch = d.PlayerMatch
	}
	if t.Player == "" {
		t.Player = d.Player
	}
	if t.ChampionMastery == "" {
		t.ChampionMastery = d.ChampionMastery
	}
	if t.RuneStats == "" {
		t.RuneStats = d.RuneStats
	}
	if t.ChampionStats == "" {
		t.ChampionStats = d.ChampionStats
	}
	return t
}

// selectIfExists runs fn only when table exists; reads of an absent table yield nothing.
func selectIfExists(ctx context.Context, store *sqlstore.Store, table string, fn func() error) error {
	exists, err := store.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return fn()
}
