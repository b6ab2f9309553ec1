package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/lol-dataset/internal/config"
	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
	"github.com/riskibarqy/lol-dataset/internal/usecase"
)

func TestNewPipeline_SQLiteStore(t *testing.T) {
	cfg := config.Config{
		StoreDriver:       config.StoreDriverSQLite,
		DBURL:             "sqlite://:memory:",
		GameVersion:       "14.20",
		QueueID:           420,
		LeagueQueue:       "RANKED_SOLO_5x5",
		PlayerAmount:      10,
		MatchesPerPlayer:  5,
		RecencyWindowDays: 7,
		DocsPath:          t.TempDir(),
		DatasetFile:       "data.csv",
	}

	pipeline, closeFn, err := NewPipeline(t.Context(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	// Enrichment and export only touch the store, so they run offline on an empty database.
	result, err := pipeline.Run(t.Context(), usecase.StageEnrich, usecase.StageDataset)
	require.NoError(t, err)
	require.Len(t, result.Stages, 2)
	assert.NotEmpty(t, result.RunID)
}

func TestNewPipeline_MemoryStore(t *testing.T) {
	cfg := config.Config{StoreDriver: config.StoreDriverMemory, DocsPath: t.TempDir()}

	pipeline, closeFn, err := NewPipeline(t.Context(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, pipeline)
	assert.NoError(t, closeFn())
}

func TestOpenDB_RejectsUnknownDriver(t *testing.T) {
	_, _, err := openDB(t.Context(), config.Config{StoreDriver: "oracle"})
	assert.Error(t, err)
}
