package clean

import (
	"reflect"
	"testing"

	"scrub/internal/frame"
)

func newFrame(t *testing.T, cols ...*frame.Column) *frame.Frame {
	t.Helper()
	f := frame.New()
	for _, c := range cols {
		if err := f.AddColumn(c); err != nil {
			t.Fatalf("add column %q: %v", c.Name, err)
		}
	}
	return f
}

func TestRemoveDuplicates_KeepsFirstOccurrence(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("id", frame.Numeric, []any{1.0, 2.0, 1.0, 3.0, 2.0}),
		frame.NewColumn("name", frame.Text, []any{"a", "b", "a", "c", "b"}),
	)
	rep := NewReport()

	if got := RemoveDuplicates(f, rep); got != 2 {
		t.Fatalf("removed = %d, want 2", got)
	}
	if rep.DuplicatesRemoved != 2 {
		t.Fatalf("report count = %d, want 2", rep.DuplicatesRemoved)
	}

	c, _ := f.Column("id")
	if got, want := c.Values, []any{1.0, 2.0, 3.0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("survivors = %v, want %v", got, want)
	}
}

// TestRemoveDuplicates_Idempotent verifies a second pass is a no-op.
func TestRemoveDuplicates_Idempotent(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Text, []any{"x", "x", "y"}),
	)
	rep := NewReport()

	RemoveDuplicates(f, rep)
	if got := RemoveDuplicates(f, rep); got != 0 {
		t.Fatalf("second pass removed %d rows, want 0", got)
	}
	if f.Rows() != 2 {
		t.Fatalf("rows = %d, want 2", f.Rows())
	}
}

func TestRemoveDuplicates_PartialMatchSurvives(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("a", frame.Text, []any{"x", "x"}),
		frame.NewColumn("b", frame.Text, []any{"1", "2"}),
	)
	rep := NewReport()

	if got := RemoveDuplicates(f, rep); got != 0 {
		t.Fatalf("removed = %d, want 0; rows differing in one cell are not duplicates", got)
	}
}

func TestRemoveDuplicates_EmptyFrame(t *testing.T) {
	f := frame.New()
	rep := NewReport()
	if got := RemoveDuplicates(f, rep); got != 0 {
		t.Fatalf("removed = %d, want 0", got)
	}
}
