package sqlite

import (
	"fmt"
	"strings"

	"scrub/internal/frame"
	"scrub/internal/storage"
)

// mapType maps a frame kind to a SQLite storage class. Booleans use
// INTEGER per SQLite convention; datetimes use TEXT in the canonical
// layout.
var mapType = map[frame.Kind]string{
	frame.Numeric:  "REAL",
	frame.Text:     "TEXT",
	frame.Bool:     "INTEGER",
	frame.DateTime: "TEXT",
}

// BuildCreateTableSQL returns a SQLite CREATE TABLE IF NOT EXISTS statement
// for the given column definitions.
func BuildCreateTableSQL(table string, cols []storage.ColumnDef) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		typ, ok := mapType[c.Kind]
		if !ok {
			typ = "TEXT"
		}
		def := fmt.Sprintf("%s %s", quoteIdent(c.Name), typ)
		if !c.Nullable {
			def += " NOT NULL"
		}
		parts = append(parts, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", quoteIdent(table), strings.Join(parts, ",\n  "))
}
