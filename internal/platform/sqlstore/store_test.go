package sqlstore

import (
	"context"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/riskibarqy/lol-dataset/internal/platform/logging"
	qb "github.com/riskibarqy/lol-dataset/internal/platform/querybuilder"
)

type teamRow struct {
	MatchID   string   `db:"match_id"`
	TeamID    int      `db:"team_id"`
	Win       bool     `db:"win"`
	RiskScore *float64 `db:"risk_score"`
}

type teamScoreRow struct {
	MatchID   string   `db:"match_id"`
	TeamID    int      `db:"team_id"`
	RiskScore *float64 `db:"risk_score"`
}

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, qb.DialectSQLite, logging.NewNop())
}

func TestInsert_CreatesTableAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	exists, err := store.TableExists(ctx, "teams")
	require.NoError(t, err)
	assert.False(t, exists)

	rows := []teamRow{
		{MatchID: "BR1_1", TeamID: 100, Win: true},
		{MatchID: "BR1_1", TeamID: 200, Win: false},
	}
	res, err := Insert(ctx, store, "teams", rows, "match_id", "team_id")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Affected)
	assert.Equal(t, 0, res.Failed)

	res, err = Insert(ctx, store, "teams", rows, "match_id", "team_id")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Affected)
	assert.Equal(t, 2, res.Skipped)

	var got []teamRow
	require.NoError(t, store.Select(ctx, &got, qb.Select("match_id", "team_id", "win", "risk_score").From("teams").OrderBy("team_id")))
	require.Len(t, got, 2)
	assert.True(t, got[0].Win)
	assert.False(t, got[1].Win)
	assert.Nil(t, got[0].RiskScore)
}

func TestUpdate_ConditionalAndNeverInserts(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	_, err := Insert(ctx, store, "teams", []teamRow{{MatchID: "BR1_1", TeamID: 100}}, "match_id", "team_id")
	require.NoError(t, err)

	score := 0.42
	updates := []teamScoreRow{
		{MatchID: "BR1_1", TeamID: 100, RiskScore: &score},
		{MatchID: "BR1_9", TeamID: 100, RiskScore: &score},
	}
	res, err := Update(ctx, store, "teams", updates, []string{"match_id", "team_id"}, qb.IsNull("risk_score"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Affected)
	assert.Equal(t, 1, res.Skipped)

	res, err = Update(ctx, store, "teams", updates[:1], []string{"match_id", "team_id"}, qb.IsNull("risk_score"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Affected, "second update must not match already-filled rows")

	var got []teamRow
	require.NoError(t, store.Select(ctx, &got, qb.Select("match_id", "team_id", "win", "risk_score").From("teams")))
	require.Len(t, got, 1)
	require.NotNil(t, got[0].RiskScore)
	assert.InDelta(t, 0.42, *got[0].RiskScore, 1e-9)
}

func TestInsert_RowFailureDoesNotAbortBatch(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	// The CHECK constraint rejects the middle row only.
	_, err := store.db.ExecContext(ctx, "CREATE TABLE teams (match_id TEXT NOT NULL, team_id INTEGER NOT NULL CHECK (team_id IN (100, 200)), win INTEGER NOT NULL, risk_score REAL)")
	require.NoError(t, err)

	rows := []teamRow{
		{MatchID: "BR1_1", TeamID: 100},
		{MatchID: "BR1_1", TeamID: 300},
		{MatchID: "BR1_1", TeamID: 200},
	}
	res, err := Insert(ctx, store, "teams", rows)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Affected)
	assert.Equal(t, 1, res.Failed)
	assert.True(t, crerr.Is(res.Failures, ErrStoreWrite))
}

func TestReadOnly_RefusesSchemaChanges(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t).ReadOnly()

	cols, err := qb.ColumnsFromModel(teamRow{})
	require.NoError(t, err)
	require.NoError(t, store.CreateTable(ctx, "teams", cols))

	exists, err := store.TableExists(ctx, "teams")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = Insert(ctx, store, "teams", []teamRow{{MatchID: "BR1_1", TeamID: 100}})
	assert.True(t, crerr.Is(err, ErrReadOnly))
	assert.True(t, crerr.Is(store.DropTable(ctx, "teams"), ErrReadOnly))
}

func TestDropTable_ForgetsKnownTable(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	_, err := Insert(ctx, store, "teams", []teamRow{{MatchID: "BR1_1", TeamID: 100}})
	require.NoError(t, err)
	require.NoError(t, store.DropTable(ctx, "teams"))

	exists, err := store.TableExists(ctx, "teams")
	require.NoError(t, err)
	assert.False(t, exists)
}
