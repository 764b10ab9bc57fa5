package frame

import (
	"context"
	"testing"
)

// TestInferTextKind_ThresholdIsStrict pins the conversion boundary: 3 of 4
// (75%) parseable values must not classify a column as numeric, while 5 of
// 6 (83%) must.
func TestInferTextKind_ThresholdIsStrict(t *testing.T) {
	t.Parallel()

	exactly75 := NewColumn("v", Text, []any{"1", "2", "3", "x"})
	if got := ProfileColumn(exactly75).Kind; got != Text {
		t.Fatalf("75%% parseable classified as %s, want text", got)
	}

	above80 := NewColumn("v", Text, []any{"1", "2", "3", "4", "5", "x"})
	if got := ProfileColumn(above80).Kind; got != Numeric {
		t.Fatalf("83%% parseable classified as %s, want numeric", got)
	}
}

func TestProfileColumn_NumericBeatsDateTime(t *testing.T) {
	t.Parallel()

	// Every value parses as a float; none as a date. Order of checks means
	// numeric wins whenever both would pass.
	c := NewColumn("v", Text, []any{"1", "2", "3"})
	if got := ProfileColumn(c).Kind; got != Numeric {
		t.Fatalf("kind = %s, want numeric", got)
	}

	d := NewColumn("v", Text, []any{"2024-01-01", "2024-01-02", "2024-01-03"})
	if got := ProfileColumn(d).Kind; got != DateTime {
		t.Fatalf("kind = %s, want datetime", got)
	}
}

func TestProfileColumn_NullStats(t *testing.T) {
	t.Parallel()

	c := NewColumn("v", Text, []any{"a", nil, nil, "b"})
	p := ProfileColumn(c)
	if p.Nulls != 2 || p.Rows != 4 {
		t.Fatalf("nulls/rows = %d/%d, want 2/4", p.Nulls, p.Rows)
	}
	if p.NullFraction != 0.5 {
		t.Fatalf("null fraction = %v, want 0.5", p.NullFraction)
	}
	if p.Kind != Text {
		t.Fatalf("kind = %s, want text", p.Kind)
	}
}

func TestProfileAll_PreservesColumnOrder(t *testing.T) {
	t.Parallel()

	f := New()
	_ = f.AddColumn(NewColumn("a", Text, []any{"1", "2"}))
	_ = f.AddColumn(NewColumn("b", Text, []any{"x", "y"}))
	_ = f.AddColumn(NewColumn("c", Numeric, []any{1.0, 2.0}))

	profiles, err := ProfileAll(context.Background(), f)
	if err != nil {
		t.Fatalf("ProfileAll: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("got %d profiles, want 3", len(profiles))
	}
	wantNames := []string{"a", "b", "c"}
	wantKinds := []Kind{Numeric, Text, Numeric}
	for i, p := range profiles {
		if p.Name != wantNames[i] || p.Kind != wantKinds[i] {
			t.Errorf("profile[%d] = %s/%s, want %s/%s", i, p.Name, p.Kind, wantNames[i], wantKinds[i])
		}
	}
}

func TestCoerceFraction_EmptyColumn(t *testing.T) {
	t.Parallel()

	c := NewColumn("v", Text, []any{nil, nil})
	if _, ok := CoerceFraction(c, func(any) bool { return true }); ok {
		t.Fatalf("expected ok=false for all-null column")
	}
}
