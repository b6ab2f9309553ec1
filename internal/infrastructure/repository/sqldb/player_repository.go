package sqldb

import (
	"context"
	"fmt"

	"github.com/riskibarqy/lol-dataset/internal/domain/player"
	qb "github.com/riskibarqy/lol-dataset/internal/platform/querybuilder"
	"github.com/riskibarqy/lol-dataset/internal/platform/sqlstore"
)

type playerTableModel struct {
	PUUID        string `db:"puuid"`
	SummonerID   string `db:"summoner_id"`
	Tier         string `db:"tier"`
	Rank         int    `db:"ladder_rank"`
	LeaguePoints int    `db:"league_points"`
	Wins         int    `db:"wins"`
	Losses       int    `db:"losses"`
	Veteran      bool   `db:"veteran"`
	HotStreak    bool   `db:"hot_streak"`
}

type PlayerRepository struct {
	store *sqlstore.Store
	table string
}

func NewPlayerRepository(store *sqlstore.Store, tables Tables) *PlayerRepository {
	return &PlayerRepository{store: store, table: tables.withDefaults().Player}
}

// Replace drops the roster table and writes players in rank order.
func (r *PlayerRepository) Replace(ctx context.Context, players []player.Player) error {
	if err := r.store.DropTable(ctx, r.table); err != nil {
		return err
	}

	rows := make([]playerTableModel, 0, len(players))
	for _, p := range players {
		rows = append(rows, playerTableModel{
			PUUID:        p.PUUID,
			SummonerID:   p.SummonerID,
			Tier:         p.Tier,
			Rank:         p.Rank,
			LeaguePoints: p.LeaguePoints,
			Wins:         p.Wins,
			Losses:       p.Losses,
			Veteran:      p.Veteran,
			HotStreak:    p.HotStreak,
		})
	}
	res, err := sqlstore.Insert(ctx, r.store, r.table, rows, "puuid")
	if err != nil {
		return fmt.Errorf("insert players: %w", err)
	}
	return res.Failures
}

func (r *PlayerRepository) ListPUUIDs(ctx context.Context) ([]string, error) {
	puuids := make([]string, 0)
	err := selectIfExists(ctx, r.store, r.table, func() error {
		return r.store.Select(ctx, &puuids, qb.Select("puuid").From(r.table).OrderBy("ladder_rank"))
	})
	if err != nil {
		return nil, fmt.Errorf("select player puuids: %w", err)
	}
	return puuids, nil
}
