package frame

import (
	"reflect"
	"testing"
	"time"
)

func TestAddColumn_RejectsDuplicatesAndBadLengths(t *testing.T) {
	t.Parallel()

	f := New()
	if err := f.AddColumn(NewColumn("a", Numeric, []any{1.0, 2.0})); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := f.AddColumn(NewColumn("a", Text, []any{"x", "y"})); err == nil {
		t.Fatalf("expected duplicate column error")
	}
	if err := f.AddColumn(NewColumn("b", Text, []any{"x"})); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	if err := f.AddColumn(NewColumn("b", Text, []any{"x", "y"})); err != nil {
		t.Fatalf("add b: %v", err)
	}
	if got, want := f.Names(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestFilter_KeepsOrderAndShrinks(t *testing.T) {
	t.Parallel()

	f := New()
	_ = f.AddColumn(NewColumn("n", Numeric, []any{1.0, 2.0, 3.0, 4.0}))
	_ = f.AddColumn(NewColumn("s", Text, []any{"a", "b", "c", "d"}))

	if err := f.Filter([]bool{true, false, true, false}); err != nil {
		t.Fatalf("filter: %v", err)
	}
	if got := f.Rows(); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
	c, _ := f.Column("s")
	if got, want := c.Values, []any{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("s values = %v, want %v", got, want)
	}

	if err := f.Filter([]bool{true}); err == nil {
		t.Fatalf("expected mask length error")
	}
}

func TestDropColumn_ReindexesLookup(t *testing.T) {
	t.Parallel()

	f := New()
	_ = f.AddColumn(NewColumn("a", Text, []any{"1"}))
	_ = f.AddColumn(NewColumn("b", Text, []any{"2"}))
	_ = f.AddColumn(NewColumn("c", Text, []any{"3"}))

	if !f.DropColumn("b") {
		t.Fatalf("expected b to exist")
	}
	if f.DropColumn("b") {
		t.Fatalf("b should be gone")
	}
	c, ok := f.Column("c")
	if !ok || c.Values[0] != "3" {
		t.Fatalf("lookup of c after drop failed: %v %v", c, ok)
	}
	if got, want := f.Names(), []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	t.Parallel()

	f := New()
	_ = f.AddColumn(NewColumn("a", Numeric, []any{1.0, 2.0}))

	g := f.Clone()
	gc, _ := g.Column("a")
	gc.Values[0] = 9.0

	fc, _ := f.Column("a")
	if fc.Values[0] != 1.0 {
		t.Fatalf("clone shares cell storage with original")
	}
}

func TestParseFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 3.5 ", 3.5, true},
		{"-1e3", -1000, true},
		{3.14, 3.14, true},
		{true, 1, true},
		{false, 0, true},
		{"abc", 0, false},
		{nil, 0, false},
		// Non-finite tokens parse in strconv but are useless as
		// statistics inputs, so they must not count as numeric.
		{"NaN", 0, false},
		{"nan", 0, false},
		{"Inf", 0, false},
		{"+Inf", 0, false},
		{"-inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseFloat(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFloat(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseTime_AcceptsKnownLayouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2024-01-15", true, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15 10:30:00", true, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"01/15/2024", true, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15T10:30:00Z", true, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"not a date", false, time.Time{}},
		{"15", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := ParseTime(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseTime(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCellString_Canonical(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{1.0, "1"},
		{2.5, "2.5"},
		{true, "true"},
		{ts, "2024-01-15 10:30:00"},
	}
	for _, tt := range tests {
		if got := CellString(tt.in); got != tt.want {
			t.Errorf("CellString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
