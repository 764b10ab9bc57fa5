package clean

import (
	"log"
	"strings"

	"github.com/zeebo/xxh3"

	"scrub/internal/frame"
)

// RemoveDuplicates drops rows whose full cell contents repeat an earlier
// row, keeping the first occurrence and preserving the order of survivors.
// The operation is idempotent.
//
// Row identity is the 128-bit xxh3 hash of the canonical cell strings joined
// with an unlikely separator. Run this after type correction so values that
// coerce to the same cell ("1" vs 1) collapse to one identity.
func RemoveDuplicates(f *frame.Frame, rep *Report) int {
	rows := f.Rows()
	if rows == 0 {
		return 0
	}

	cols := f.Columns()
	seen := make(map[xxh3.Uint128]struct{}, rows)
	keep := make([]bool, rows)
	removed := 0

	var b strings.Builder
	for i := 0; i < rows; i++ {
		b.Reset()
		for j, c := range cols {
			if j > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(frame.CellString(c.Values[i]))
		}
		key := xxh3.Hash128([]byte(b.String()))
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		keep[i] = true
	}

	if removed > 0 {
		_ = f.Filter(keep)
	}
	rep.DuplicatesRemoved += removed
	log.Printf("dedup: removed %d duplicate rows", removed)
	return removed
}
