package sqldb

import (
	"context"
	"fmt"

	"github.com/riskibarqy/lol-dataset/internal/domain/lookup"
	qb "github.com/riskibarqy/lol-dataset/internal/platform/querybuilder"
	"github.com/riskibarqy/lol-dataset/internal/platform/sqlstore"
)

type runeStatTableModel struct {
	ChampionID int     `db:"champion_id"`
	RuneID     int     `db:"rune_id"`
	WinRate    float64 `db:"win_rate"`
	PickRate   float64 `db:"pick_rate"`
}

type championStatTableModel struct {
	ChampionID int     `db:"champion_id"`
	Lane       string  `db:"lane"`
	WinRate    float64 `db:"win_rate"`
	PickRate   float64 `db:"pick_rate"`
}

type LookupRepository struct {
	store      *sqlstore.Store
	runeTable  string
	champTable string
}

func NewLookupRepository(store *sqlstore.Store, tables Tables) *LookupRepository {
	tables = tables.withDefaults()
	return &LookupRepository{store: store, runeTable: tables.RuneStats, champTable: tables.ChampionStats}
}

// ReplaceRuneStats drops and rebuilds the rune table.
func (r *LookupRepository) ReplaceRuneStats(ctx context.Context, items []lookup.RuneStat) error {
	if err := r.store.DropTable(ctx, r.runeTable); err != nil {
		return err
	}
	rows := make([]runeStatTableModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, runeStatTableModel{
			ChampionID: item.ChampionID,
			RuneID:     item.RuneID,
			WinRate:    item.WinRate,
			PickRate:   item.PickRate,
		})
	}
	res, err := sqlstore.Insert(ctx, r.store, r.runeTable, rows, "champion_id", "rune_id")
	if err != nil {
		return fmt.Errorf("insert rune stats: %w", err)
	}
	return res.Failures
}

// ReplaceLaneStats drops and rebuilds the champion lane table.
func (r *LookupRepository) ReplaceLaneStats(ctx context.Context, items []lookup.LaneStat) error {
	if err := r.store.DropTable(ctx, r.champTable); err != nil {
		return err
	}
	rows := make([]championStatTableModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, championStatTableModel{
			ChampionID: item.ChampionID,
			Lane:       item.Lane,
			WinRate:    item.WinRate,
			PickRate:   item.PickRate,
		})
	}
	res, err := sqlstore.Insert(ctx, r.store, r.champTable, rows, "champion_id", "lane")
	if err != nil {
		return fmt.Errorf("insert champion stats: %w", err)
	}
	return res.Failures
}

func (r *LookupRepository) ListRuneStatsByChampion(ctx context.Context, championID int) ([]lookup.RuneStat, error) {
	var rows []runeStatTableModel
	err := selectIfExists(ctx, r.store, r.runeTable, func() error {
		b := qb.Select("champion_id", "rune_id", "win_rate", "pick_rate").
			From(r.runeTable).
			Where(qb.Eq("champion_id", championID)).
			OrderBy("rune_id")
		return r.store.Select(ctx, &rows, b)
	})
	if err != nil {
		return nil, fmt.Errorf("select rune stats: %w", err)
	}

	out := make([]lookup.RuneStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, lookup.RuneStat{
			ChampionID: row.ChampionID,
			RuneID:     row.RuneID,
			WinRate:    row.WinRate,
			PickRate:   row.PickRate,
		})
	}
	return out, nil
}

func (r *LookupRepository) ListLaneStats(ctx context.Context) ([]lookup.LaneStat, error) {
	var rows []championStatTableModel
	err := selectIfExists(ctx, r.store, r.champTable, func() error {
		b := qb.Select("champion_id", "lane", "win_rate", "pick_rate").
			From(r.champTable).
			OrderBy("champion_id", "lane")
		return r.store.Select(ctx, &rows, b)
	})
	if err != nil {
		return nil, fmt.Errorf("select champion stats: %w", err)
	}

	out := make([]lookup.LaneStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, lookup.LaneStat{
			ChampionID: row.ChampionID,
			Lane:       row.Lane,
			WinRate:    row.WinRate,
			PickRate:   row.PickRate,
		})
	}
	return out, nil
}
