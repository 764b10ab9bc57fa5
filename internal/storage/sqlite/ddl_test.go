package sqlite

import (
	"testing"

	"scrub/internal/frame"
	"scrub/internal/storage"
)

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	cols := []storage.ColumnDef{
		{Name: "age", Kind: frame.Numeric, Nullable: true},
		{Name: "name", Kind: frame.Text, Nullable: false},
		{Name: "active", Kind: frame.Bool, Nullable: true},
		{Name: "seen_at", Kind: frame.DateTime, Nullable: true},
	}

	got := BuildCreateTableSQL("clean_events", cols)
	want := `CREATE TABLE IF NOT EXISTS "clean_events" (
  "age" REAL,
  "name" TEXT NOT NULL,
  "active" INTEGER,
  "seen_at" TEXT
)`
	if got != want {
		t.Fatalf("sql = %s\nwant %s", got, want)
	}
}
