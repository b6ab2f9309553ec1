package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("puuid", "match_id").
		From("player_matches").
		Where(Eq("team_id", 100), IsNull("champion_level")).
		OrderBy("match_id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT puuid, match_id FROM player_matches WHERE team_id = ? AND champion_level IS NULL ORDER BY match_id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != 100 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectDistinctWithIn(t *testing.T) {
	query, args, err := SelectDistinct("puuid").
		From("champion_mastery").
		Where(In("puuid", []any{"p1", "p2"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT DISTINCT puuid FROM champion_mastery WHERE puuid IN (?, ?)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("matches").
		Columns("match_id", "game_version").
		Values("BR1_1", "14.20.1").
		OnConflictDoNothing("match_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO matches (match_id, game_version) VALUES (?, ?) ON CONFLICT (match_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "BR1_1" || args[1] != "14.20.1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("player_matches").
		Set("champion_level", 7).
		SetExpr("rune_win_rate", "COALESCE(?, -1)", 51.2).
		Where(Eq("puuid", "p1"), IsNull("champion_level")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE player_matches SET champion_level = ?, rune_win_rate = COALESCE(?, -1) WHERE puuid = ? AND champion_level IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != 7 || args[1] != 51.2 || args[2] != "p1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilderRequiresConditions(t *testing.T) {
	if _, _, err := Update("player_matches").Set("champion_level", 1).ToSQL(); err == nil {
		t.Fatalf("expected error for unconditional update")
	}
}
