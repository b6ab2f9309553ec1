package sqldb

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/riskibarqy/lol-dataset/internal/domain/lookup"
	"github.com/riskibarqy/lol-dataset/internal/domain/mastery"
	"github.com/riskibarqy/lol-dataset/internal/domain/match"
	"github.com/riskibarqy/lol-dataset/internal/domain/player"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
	qb "github.com/riskibarqy/lol-dataset/internal/platform/querybuilder"
	"github.com/riskibarqy/lol-dataset/internal/platform/sqlstore"
)

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return sqlstore.New(db, qb.DialectSQLite, logging.NewNop())
}

func samplePlayerMatch(puuid, matchID string, participantID, teamID int, position string) match.PlayerMatch {
	return match.PlayerMatch{
		PUUID:              puuid,
		ParticipantID:      participantID,
		MatchID:            matchID,
		GameStartTimestamp: 1_700_000_000,
		TeamID:             teamID,
		IndividualPosition: position,
		TierRank:           match.Missing,
		Champion:           "Aatrox",
		ChampionID:         266,
		Kills:              4,
		KDA:                2.5,
		Perks:              match.Perks{Keystone: 8010, PrimaryRow1: 9111},
		Items:              [7]int{1, 2, 3, 4, 5, 6, 3340},
		Pings:              match.Pings{OnMyWay: 3},
	}
}

func TestMatchRepository_RoundTripAndIdempotentInsert(t *testing.T) {
	ctx := t.Context()
	repo := NewMatchRepository(newTestStore(t), Tables{})

	ids, err := repo.ListMatchIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "absent table reads as empty frontier")

	risk := 12.5
	m := match.Match{
		MatchID:            "BR1_1",
		Participants:       []string{"a", "b"},
		GameVersion:        "14.20.615.1",
		GameStartTimestamp: 1_700_000_000,
		GameEndTimestamp:   1_700_001_800,
		TimePlayed:         1800,
		CompRiskScore:      &risk,
	}
	require.NoError(t, repo.InsertMatch(ctx, m))
	require.NoError(t, repo.InsertMatch(ctx, m))

	teams := []match.Team{
		{MatchID: "BR1_1", TeamID: 100, Win: true, ChampionPicks: [5]int{1, 2, 3, 4, 5}, ChampionBans: [5]int{6, -1, -1, -1, -1}, DragonKills: 2, FirstTower: true},
		{MatchID: "BR1_1", TeamID: 200, FirstKill: true},
	}
	require.NoError(t, repo.InsertTeams(ctx, teams))
	require.NoError(t, repo.InsertTeams(ctx, teams))

	players := []match.PlayerMatch{
		samplePlayerMatch("a", "BR1_1", 1, 100, "TOP"),
		samplePlayerMatch("b", "BR1_1", 6, 200, "Invalid"),
	}
	require.NoError(t, repo.InsertPlayerMatches(ctx, players))
	require.NoError(t, repo.InsertPlayerMatches(ctx, players))

	ids, err = repo.ListMatchIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BR1_1"}, ids)

	matches, err := repo.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"a", "b"}, matches[0].Participants)
	require.NotNil(t, matches[0].CompRiskScore)
	assert.Equal(t, 12.5, *matches[0].CompRiskScore)
	assert.Nil(t, matches[0].CompWinRate)

	storedTeams, err := repo.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, storedTeams, 2)
	assert.Equal(t, teams[0], storedTeams[0])
	assert.True(t, storedTeams[1].FirstKill)

	storedPlayers, err := repo.ListPlayerMatches(ctx)
	require.NoError(t, err)
	require.Len(t, storedPlayers, 2)
	assert.Equal(t, players[0].Perks, storedPlayers[0].Perks)
	assert.Equal(t, players[0].Items, storedPlayers[0].Items)
	assert.Equal(t, 3, storedPlayers[0].Pings.OnMyWay)
	assert.False(t, storedPlayers[0].Enrichment.Done())
}

func TestMatchRepository_UpdateEnrichmentIsConditional(t *testing.T) {
	ctx := t.Context()
	repo := NewMatchRepository(newTestStore(t), Tables{PlayerMatch: "pm"})

	require.NoError(t, repo.InsertPlayerMatches(ctx, []match.PlayerMatch{
		samplePlayerMatch("a", "BR1_1", 1, 100, "TOP"),
		samplePlayerMatch("b", "BR1_1", 2, 100, "JUNGLE"),
	}))

	unenriched, err := repo.ListUnenriched(ctx)
	require.NoError(t, err)
	assert.Len(t, unenriched, 2)

	level, points := int64(7), int64(100)
	rate := 51.5
	enrichment := match.Enrichment{
		ChampionLevel:    &level,
		ChampionPoints:   &points,
		RuneWinRate:      &rate,
		RunePickRate:     &rate,
		ChampionWinRate:  &rate,
		ChampionPickRate: &rate,
	}
	changed, err := repo.UpdateEnrichment(ctx, []match.EnrichmentUpdate{
		{PUUID: "a", MatchID: "BR1_1", Enrichment: enrichment},
		{PUUID: "missing", MatchID: "BR1_1", Enrichment: enrichment},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	other := int64(1)
	changed, err = repo.UpdateEnrichment(ctx, []match.EnrichmentUpdate{
		{PUUID: "a", MatchID: "BR1_1", Enrichment: match.Enrichment{ChampionLevel: &other, ChampionPoints: &other, RuneWinRate: &rate, RunePickRate: &rate, ChampionWinRate: &rate, ChampionPickRate: &rate}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, changed, "enriched rows are never rewritten")

	unenriched, err = repo.ListUnenriched(ctx)
	require.NoError(t, err)
	require.Len(t, unenriched, 1)
	assert.Equal(t, "b", unenriched[0].PUUID)

	all, err := repo.ListPlayerMatches(ctx)
	require.NoError(t, err)
	require.NotNil(t, all[0].Enrichment.ChampionLevel)
	assert.Equal(t, int64(7), *all[0].Enrichment.ChampionLevel)
	assert.Equal(t, 4, all[0].Kills)
}

func TestMasteryRepository(t *testing.T) {
	ctx := t.Context()
	repo := NewMasteryRepository(newTestStore(t), Tables{})

	puuids, err := repo.ListPUUIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, puuids)

	items := []mastery.ChampionMastery{
		{PUUID: "a", ChampionID: 266, ChampionLevel: 7, ChampionPoints: 1000, MilestoneGrade: "S"},
		{PUUID: "a", ChampionID: 103, ChampionLevel: 2, MilestoneGrade: mastery.GradeMissing},
		{PUUID: "b", ChampionID: 266, ChampionLevel: 1},
	}
	require.NoError(t, repo.InsertMany(ctx, items))
	require.NoError(t, repo.InsertMany(ctx, items[:1]))

	puuids, err = repo.ListPUUIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, puuids)

	got, err := repo.ListByPUUID(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 103, got[0].ChampionID)
	assert.Equal(t, "S", got[1].MilestoneGrade)
}

func TestLookupRepository_Replace(t *testing.T) {
	ctx := t.Context()
	repo := NewLookupRepository(newTestStore(t), Tables{})

	require.NoError(t, repo.ReplaceRuneStats(ctx, []lookup.RuneStat{
		{ChampionID: 266, RuneID: 8010, WinRate: 51, PickRate: 20},
		{ChampionID: 103, RuneID: 8112, WinRate: -1, PickRate: -1},
	}))
	require.NoError(t, repo.ReplaceRuneStats(ctx, []lookup.RuneStat{
		{ChampionID: 266, RuneID: 8005, WinRate: 49, PickRate: 30},
	}))

	runes, err := repo.ListRuneStatsByChampion(ctx, 266)
	require.NoError(t, err)
	assert.Equal(t, []lookup.RuneStat{{ChampionID: 266, RuneID: 8005, WinRate: 49, PickRate: 30}}, runes)

	runes, err = repo.ListRuneStatsByChampion(ctx, 103)
	require.NoError(t, err)
	assert.Empty(t, runes)

	lanes, err := repo.ListLaneStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, lanes)

	require.NoError(t, repo.ReplaceLaneStats(ctx, []lookup.LaneStat{
		{ChampionID: 266, Lane: lookup.LaneTop, WinRate: 50.2, PickRate: 7.1},
	}))
	lanes, err = repo.ListLaneStats(ctx)
	require.NoError(t, err)
	require.Len(t, lanes, 1)
	assert.Equal(t, 50.2, lanes[0].WinRate)
}

func TestPlayerRepository_ReplaceDropsPreviousRoster(t *testing.T) {
	ctx := t.Context()
	repo := NewPlayerRepository(newTestStore(t), Tables{})

	require.NoError(t, repo.Replace(ctx, []player.Player{
		{PUUID: "old-1", Tier: player.TierChallenger, Rank: 1},
	}))
	require.NoError(t, repo.Replace(ctx, []player.Player{
		{PUUID: "new-2", Tier: player.TierMaster, Rank: 2},
		{PUUID: "new-1", Tier: player.TierChallenger, Rank: 1, HotStreak: true},
	}))

	puuids, err := repo.ListPUUIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-1", "new-2"}, puuids)
}

func TestReadOnlyStoreRejectsWrites(t *testing.T) {
	ctx := t.Context()
	store := newTestStore(t)
	writer := NewMatchRepository(store, Tables{})
	require.NoError(t, writer.InsertMatch(ctx, match.Match{MatchID: "BR1_1"}))

	reader := NewMatchRepository(store.ReadOnly(), Tables{})
	ids, err := reader.ListMatchIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BR1_1"}, ids)

	err = reader.InsertMatch(ctx, match.Match{MatchID: "BR1_2"})
	assert.ErrorIs(t, err, sqlstore.ErrReadOnly)
}
