package usecase

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/lol-dataset/internal/domain/match"
	"github.com/riskibarqy/lol-dataset/internal/infrastructure/repository/memory"
)

var datasetStart = time.Date(2024, time.October, 18, 23, 30, 0, 0, time.UTC)

func TestDatasetService_Build(t *testing.T) {
	repo := memory.NewMatchRepository()
	seedNormalizedMatch(t, repo, newRawMatch("M2", "14.20.1", datasetStart))

	// M1 has two blue TOP players and must not appear in the output.
	dup := newRawMatch("M1", "14.20.1", datasetStart)
	dup.Info.Participants[1].IndividualPosition = "TOP"
	seedNormalizedMatch(t, repo, dup)

	// M3 has an Invalid blue slot whose champion fills the missing blue UTILITY column.
	invalid := newRawMatch("M3", "14.20.1", datasetStart.Add(2*time.Hour))
	invalid.Info.Participants[4].IndividualPosition = ""
	invalid.Info.Teams[0].Win = false
	invalid.Info.Teams[1].Win = true
	seedNormalizedMatch(t, repo, invalid)

	svc := NewDatasetService(repo, DatasetConfig{}, nil)
	dataset, err := svc.Build(t.Context())
	require.NoError(t, err)

	require.Len(t, dataset.Rows, 2)
	ids := dataset.Column("match_id")
	assert.Contains(t, ids, "M2")
	assert.Contains(t, ids, "M3")
	assert.NotContains(t, ids, "M1")

	for _, col := range dataset.Columns {
		assert.NotContains(t, col, "Invalid")
	}
	assert.Equal(t, "game_start_date", dataset.Columns[len(dataset.Columns)-1])

	slotStart := slices.Index(dataset.Columns, "100_BOTTOM")
	require.GreaterOrEqual(t, slotStart, 0)
	assert.Equal(t, []string{
		"100_BOTTOM", "100_JUNGLE", "100_MIDDLE", "100_TOP", "100_UTILITY",
		"200_BOTTOM", "200_JUNGLE", "200_MIDDLE", "200_TOP", "200_UTILITY",
	}, dataset.Columns[slotStart:slotStart+10])

	assert.Equal(t, "Champ4", dataset.Column("100_UTILITY")["M3"])
	assert.Equal(t, "Champ0", dataset.Column("100_TOP")["M2"])
	assert.Equal(t, "Champ9", dataset.Column("200_UTILITY")["M2"])

	win := dataset.Column("win")
	assert.Equal(t, "true", win["M2"])
	assert.Equal(t, "false", win["M3"])

	assert.Equal(t, "3", dataset.Column("blue_side_dragon_kills")["M2"])
	assert.Equal(t, "1", dataset.Column("red_side_baron_kills")["M2"])
	// Kills are 0..4 on blue and 5..9 on red.
	assert.Equal(t, "10", dataset.Column("blue_side_total_kills")["M2"])
	assert.Equal(t, "35", dataset.Column("red_side_total_kills")["M2"])
	assert.Equal(t, "5000", dataset.Column("blue_side_total_gold_earned")["M2"])
	assert.Equal(t, "3.5", dataset.Column("blue_side_avg_kda")["M2"])
	// Unenriched rows leave mean columns empty.
	assert.Equal(t, "", dataset.Column("blue_side_avg_rune_win_rate")["M2"])

	assert.Equal(t, "2024-10-18", dataset.Column("game_start_date")["M2"])
	assert.Equal(t, "2024-10-19", dataset.Column("game_start_date")["M3"])
	assert.Equal(t, "1800", dataset.Column("time_played")["M2"])

	// Storage is untouched by the exclusion.
	ids2, err := repo.ListMatchIDs(t.Context())
	require.NoError(t, err)
	assert.Len(t, ids2, 3)
}

func TestBuildDataset_SideColumnOrder(t *testing.T) {
	dataset, ambiguous := BuildDataset(nil, nil, nil)
	assert.Empty(t, dataset.Rows)
	assert.Empty(t, ambiguous)

	blue := slices.Index(dataset.Columns, "blue_side_baron_kills")
	require.GreaterOrEqual(t, blue, 0)
	assert.Equal(t, "red_side_baron_kills", dataset.Columns[blue+1])
	assert.Equal(t, "blue_side_champion_kills", dataset.Columns[blue+2])
}

func TestBuildDataset_MeansIncludeSentinels(t *testing.T) {
	lvl := func(v int64) *int64 { return &v }
	m := match.Match{MatchID: "M1", GameStartTimestamp: datasetStart.Unix()}
	players := []match.PlayerMatch{
		{MatchID: "M1", PUUID: "a", TeamID: 100, IndividualPosition: "TOP", Champion: "Aatrox", Enrichment: match.Enrichment{ChampionLevel: lvl(7)}},
		{MatchID: "M1", PUUID: "b", TeamID: 100, IndividualPosition: "JUNGLE", Champion: "Vi", Enrichment: match.Enrichment{ChampionLevel: lvl(-1)}},
		{MatchID: "M1", PUUID: "c", TeamID: 200, IndividualPosition: "TOP", Champion: "Jax"},
	}

	dataset, _ := BuildDataset([]match.Match{m}, nil, players)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "3", dataset.Column("blue_side_avg_champion_level")["M1"])
	assert.Equal(t, "", dataset.Column("red_side_avg_champion_level")["M1"])
	assert.Equal(t, "", dataset.Column("win")["M1"])
	assert.Equal(t, "", dataset.Column("200_JUNGLE")["M1"])
}

func TestDatasetService_Export(t *testing.T) {
	repo := memory.NewMatchRepository()
	seedNormalizedMatch(t, repo, newRawMatch("M1", "14.20.1", datasetStart))

	dir := filepath.Join(t.TempDir(), "docs")
	svc := NewDatasetService(repo, DatasetConfig{DocsPath: dir, FileName: "data.csv"}, nil)

	path, err := svc.Export(t.Context())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.csv"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "match_id", records[0][0])
	assert.Equal(t, "M1", records[1][0])
	assert.Equal(t, len(records[0]), len(records[1]))
}
