package sqldb

import (
	"context"
	"fmt"

	"github.com/riskibarqy/lol-dataset/internal/domain/mastery"
	qb "github.com/riskibarqy/lol-dataset/internal/platform/querybuilder"
	"github.com/riskibarqy/lol-dataset/internal/platform/sqlstore"
)

type championMasteryTableModel struct {
	PUUID                        string `db:"puuid"`
	ChampionID                   int    `db:"champion_id"`
	ChampionLevel                int64  `db:"champion_level"`
	ChampionPoints               int64  `db:"champion_points"`
	ChampionPointsSinceLastLevel int64  `db:"champion_points_since_last_level"`
	ChampionPointsUntilNextLevel int64  `db:"champion_points_until_next_level"`
	LastPlayTime                 int64  `db:"last_play_time"`
	TokensEarned                 int    `db:"tokens_earned"`
	MilestoneGrade               string `db:"milestone_grade"`
}

var championMasterySelectColumns = mustColumnNames(championMasteryTableModel{})

type MasteryRepository struct {
	store *sqlstore.Store
	table string
}

func NewMasteryRepository(store *sqlstore.Store, tables Tables) *MasteryRepository {
	return &MasteryRepository{store: store, table: tables.withDefaults().ChampionMastery}
}

func (r *MasteryRepository) ListPUUIDs(ctx context.Context) ([]string, error) {
	puuids := make([]string, 0)
	err := selectIfExists(ctx, r.store, r.table, func() error {
		return r.store.Select(ctx, &puuids, qb.SelectDistinct("puuid").From(r.table))
	})
	if err != nil {
		return nil, fmt.Errorf("select mastery puuids: %w", err)
	}
	return puuids, nil
}

func (r *MasteryRepository) ListByPUUID(ctx context.Context, puuid string) ([]mastery.ChampionMastery, error) {
	var rows []championMasteryTableModel
	err := selectIfExists(ctx, r.store, r.table, func() error {
		b := qb.Select(championMasterySelectColumns...).
			From(r.table).
			Where(qb.Eq("puuid", puuid)).
			OrderBy("champion_id")
		return r.store.Select(ctx, &rows, b)
	})
	if err != nil {
		return nil, fmt.Errorf("select mastery by puuid: %w", err)
	}

	out := make([]mastery.ChampionMastery, 0, len(rows))
	for _, row := range rows {
		out = append(out, mastery.ChampionMastery{
			PUUID:                        row.PUUID,
			ChampionID:                   row.ChampionID,
			ChampionLevel:                row.ChampionLevel,
			ChampionPoints:               row.ChampionPoints,
			ChampionPointsSinceLastLevel: row.ChampionPointsSinceLastLevel,
			ChampionPointsUntilNextLevel: row.ChampionPointsUntilNextLevel,
			LastPlayTime:                 row.LastPlayTime,
			TokensEarned:                 row.TokensEarned,
			MilestoneGrade:               row.MilestoneGrade,
		})
	}
	return out, nil
}

func (r *MasteryRepository) InsertMany(ctx context.Context, items []mastery.ChampionMastery) error {
	rows := make([]championMasteryTableModel, 0, len(items))
	for _, item := range items {
		rows = append(rows, championMasteryTableModel{
			PUUID:                        item.PUUID,
			ChampionID:                   item.ChampionID,
			ChampionLevel:                item.ChampionLevel,
			ChampionPoints:               item.ChampionPoints,
			ChampionPointsSinceLastLevel: item.ChampionPointsSinceLastLevel,
			ChampionPointsUntilNextLevel: item.ChampionPointsUntilNextLevel,
			LastPlayTime:                 item.LastPlayTime,
			TokensEarned:                 item.TokensEarned,
			MilestoneGrade:               item.MilestoneGrade,
		})
	}

	res, err := sqlstore.Insert(ctx, r.store, r.table, rows, "puuid", "champion_id")
	if err != nil {
		return fmt.Errorf("insert champion mastery: %w", err)
	}
	return res.Failures
}
