package querybuilder

import (
	"strings"
	"testing"
)

type sampleRow struct {
	MatchID  string   `db:"match_id"`
	TeamID   int      `db:"team_id"`
	Win      bool     `db:"win"`
	Rate     *float64 `db:"rate"`
	internal string
	Ignored  string `db:"-"`
}

func TestColumnsFromModel(t *testing.T) {
	cols, err := ColumnsFromModel(sampleRow{})
	if err != nil {
		t.Fatalf("columns from model: %v", err)
	}
	want := []ColumnDef{
		{Name: "match_id", Type: ColumnText},
		{Name: "team_id", Type: ColumnInteger},
		{Name: "win", Type: ColumnBoolean},
		{Name: "rate", Type: ColumnFloat, Nullable: true},
	}
	if len(cols) != len(want) {
		t.Fatalf("unexpected columns: %+v", cols)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("column %d: want %+v got %+v", i, want[i], cols[i])
		}
	}
}

func TestCreateTableByDialect(t *testing.T) {
	cols, err := ColumnsFromModel(&sampleRow{})
	if err != nil {
		t.Fatalf("columns from model: %v", err)
	}

	pg, err := CreateTable(DialectPostgres, "teams", cols, "match_id", "team_id")
	if err != nil {
		t.Fatalf("create postgres table: %v", err)
	}
	wantPG := "CREATE TABLE teams (match_id TEXT NOT NULL, team_id BIGINT NOT NULL, win BOOLEAN NOT NULL, rate DOUBLE PRECISION, PRIMARY KEY (match_id, team_id))"
	if pg != wantPG {
		t.Fatalf("unexpected postgres ddl:\nwant: %s\ngot:  %s", wantPG, pg)
	}

	lite, err := CreateTable(DialectSQLite, "teams", cols)
	if err != nil {
		t.Fatalf("create sqlite table: %v", err)
	}
	if !strings.Contains(lite, "win INTEGER NOT NULL") || strings.Contains(lite, "PRIMARY KEY") {
		t.Fatalf("unexpected sqlite ddl: %s", lite)
	}

	if _, err := CreateTable(DialectSQLite, "teams", cols, "missing"); err == nil {
		t.Fatalf("expected error for unknown primary key column")
	}
}

func TestInsertAndUpdateModel(t *testing.T) {
	rate := 50.5
	row := sampleRow{MatchID: "BR1_1", TeamID: 100, Win: true, Rate: &rate}

	query, args, err := InsertModel("teams", row, "match_id", "team_id")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	wantInsert := "INSERT INTO teams (match_id, team_id, win, rate) VALUES (?, ?, ?, ?) ON CONFLICT (match_id, team_id) DO NOTHING"
	if query != wantInsert || len(args) != 4 {
		t.Fatalf("unexpected insert: %s %+v", query, args)
	}

	query, args, err = UpdateModel("teams", row, []string{"match_id", "team_id"}, IsNull("rate"))
	if err != nil {
		t.Fatalf("update model: %v", err)
	}
	wantUpdate := "UPDATE teams SET win = ?, rate = ? WHERE match_id = ? AND team_id = ? AND rate IS NULL"
	if query != wantUpdate {
		t.Fatalf("unexpected update:\nwant: %s\ngot:  %s", wantUpdate, query)
	}
	if len(args) != 4 || args[2] != "BR1_1" || args[3] != 100 {
		t.Fatalf("unexpected update args: %+v", args)
	}
}

func TestTableExistsQuery(t *testing.T) {
	query, args, err := TableExists(DialectSQLite, "matches")
	if err != nil {
		t.Fatalf("table exists: %v", err)
	}
	if query != "SELECT COUNT(1) FROM sqlite_master WHERE type = ? AND name = ?" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[1] != "matches" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
