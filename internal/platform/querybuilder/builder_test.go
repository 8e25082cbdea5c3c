package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectToSQL(t *testing.T) {
	t.Parallel()

	sql, args, err := Select("id", "name").
		From("teams").
		Where(Eq("external_id", "auto:CD Rival"), Eq("is_target", false)).
		OrderBy("name ASC").
		Limit(5).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "SELECT id, name FROM teams WHERE external_id = $1 AND is_target = $2 ORDER BY name ASC LIMIT 5"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"auto:CD Rival", false}) {
		t.Fatalf("args = %v", args)
	}
}

func TestSelectRequiresTable(t *testing.T) {
	t.Parallel()

	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestInsertWithConflictSuffix(t *testing.T) {
	t.Parallel()

	sql, args, err := InsertInto("venues").
		Columns("name", "address").
		Values("Municipal", "").
		Suffix("ON CONFLICT (name) DO NOTHING RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "INSERT INTO venues (name, address) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING RETURNING id"
	if sql != want {
		t.Fatalf("sql = %q", sql)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v", args)
	}
}

func TestInsertRowArityMismatch(t *testing.T) {
	t.Parallel()

	_, _, err := InsertInto("venues").
		Columns("name", "address").
		Values("Municipal").
		ToSQL()
	if err == nil {
		t.Fatalf("expected arity error")
	}
}

func TestUpdateToSQL(t *testing.T) {
	t.Parallel()

	sql, args, err := Update("rounds").
		Set("round_date", "2025-12-14").
		Where(Eq("id", int64(3))).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "UPDATE rounds SET round_date = $1 WHERE id = $2"
	if sql != want {
		t.Fatalf("sql = %q", sql)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v", args)
	}
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	type row struct {
		Name    string `db:"name"`
		Address string `db:"address"`
		Ignored string `db:"-"`
	}

	sql, args, err := InsertModel("venues", row{Name: "Municipal"}, "")
	if err != nil {
		t.Fatalf("InsertModel: %v", err)
	}
	want := "INSERT INTO venues (name, address) VALUES ($1, $2)"
	if sql != want {
		t.Fatalf("sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{"Municipal", ""}) {
		t.Fatalf("args = %v", args)
	}
}
