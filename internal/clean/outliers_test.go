package clean

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"scrub/internal/frame"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestResolveOutliers_IQRCap(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{1.0, 2.0, 3.0, 4.0, 100.0}),
	)
	rep := NewReport()

	ResolveOutliers(f, MethodIQR, 1.5, ActionCap, rep)

	// q1=2, q3=4, iqr=2, bounds [-1, 7]; 100 caps to 7.
	c, _ := f.Column("v")
	got := c.Values[4].(float64)
	if !almostEqual(got, 7.0) {
		t.Fatalf("capped value = %v, want 7", got)
	}
	if rep.OutliersDetected != 1 {
		t.Fatalf("detected = %d, want 1", rep.OutliersDetected)
	}
	if rep.OutlierMethod != "IQR" || rep.OutlierAction != "cap" {
		t.Fatalf("report method/action = %q/%q", rep.OutlierMethod, rep.OutlierAction)
	}
}

// TestResolveOutliers_BoundaryValueIsNotOutlier pins the comparison: cells
// exactly on a bound stay put.
func TestResolveOutliers_BoundaryValueIsNotOutlier(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{1.0, 2.0, 3.0, 4.0, 7.0}),
	)
	rep := NewReport()

	ResolveOutliers(f, MethodIQR, 1.5, ActionCap, rep)

	if rep.OutliersDetected != 0 {
		t.Fatalf("detected = %d, want 0; upper bound is inclusive", rep.OutliersDetected)
	}
}

func TestResolveOutliers_ZScoreCap(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{1.0, 1.0, 1.0, 1.0, 10.0}),
	)
	rep := NewReport()

	ResolveOutliers(f, MethodZScore, 1.5, ActionCap, rep)

	// mean=2.8, population std=3.6, upper bound 2.8+1.5*3.6=8.2.
	c, _ := f.Column("v")
	got := c.Values[4].(float64)
	if !almostEqual(got, 8.2) {
		t.Fatalf("capped value = %v, want 8.2", got)
	}
	if rep.OutliersDetected != 1 {
		t.Fatalf("detected = %d, want 1", rep.OutliersDetected)
	}
}

func TestResolveOutliers_Remove(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{1.0, 2.0, 3.0, 4.0, 100.0}),
		frame.NewColumn("tag", frame.Text, []any{"a", "b", "c", "d", "e"}),
	)
	rep := NewReport()

	ResolveOutliers(f, MethodIQR, 1.5, ActionRemove, rep)

	if f.Rows() != 4 {
		t.Fatalf("rows = %d, want 4", f.Rows())
	}
	tag, _ := f.Column("tag")
	if got, want := tag.Values, []any{"a", "b", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("tag = %v, want %v", got, want)
	}
	if rep.OutliersDetected != 1 {
		t.Fatalf("detected = %d, want 1", rep.OutliersDetected)
	}
}

func TestResolveOutliers_FlagAppendsBoolColumn(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{1.0, 2.0, 3.0, 4.0, 100.0}),
	)
	rep := NewReport()

	ResolveOutliers(f, MethodIQR, 1.5, ActionFlag, rep)

	// Original values untouched.
	v, _ := f.Column("v")
	if v.Values[4] != 100.0 {
		t.Fatalf("flag action must not modify values, got %v", v.Values[4])
	}

	flag, ok := f.Column("v_outlier")
	if !ok {
		t.Fatalf("expected v_outlier column")
	}
	if flag.Kind != frame.Bool {
		t.Fatalf("flag kind = %s, want bool", flag.Kind)
	}
	if got, want := flag.Values, []any{false, false, false, false, true}; !reflect.DeepEqual(got, want) {
		t.Fatalf("flags = %v, want %v", got, want)
	}
}

func TestResolveOutliers_SkipsDegenerateColumns(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("few", frame.Numeric, []any{1.0, 2.0, 3.0}),
	)
	rep := NewReport()

	ResolveOutliers(f, MethodIQR, 1.5, ActionCap, rep)

	if rep.OutliersDetected != 0 {
		t.Fatalf("detected = %d, want 0", rep.OutliersDetected)
	}
	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "too few") {
		t.Fatalf("warnings = %v, want one about too few values", rep.Warnings)
	}
}

func TestResolveOutliers_ZeroVarianceWarns(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{5.0, 5.0, 5.0, 5.0}),
	)
	rep := NewReport()

	ResolveOutliers(f, MethodZScore, 1.5, ActionCap, rep)

	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "zero variance") {
		t.Fatalf("warnings = %v, want one about zero variance", rep.Warnings)
	}
}

func TestResolveOutliers_NoneIsNoOp(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{1.0, 1000.0}),
	)
	rep := NewReport()

	ResolveOutliers(f, MethodNone, 1.5, ActionCap, rep)

	c, _ := f.Column("v")
	if c.Values[1] != 1000.0 {
		t.Fatalf("method none must not touch values")
	}
	if rep.OutlierMethod != "" {
		t.Fatalf("method none must not set report fields, got %q", rep.OutlierMethod)
	}
}

func TestResolveOutliers_NullsNeverOutliers(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{1.0, 2.0, 3.0, 4.0, nil, 100.0}),
	)
	rep := NewReport()

	ResolveOutliers(f, MethodIQR, 1.5, ActionRemove, rep)

	c, _ := f.Column("v")
	// The null row survives; only the extreme value is removed.
	if got, want := c.Values, []any{1.0, 2.0, 3.0, 4.0, nil}; !reflect.DeepEqual(got, want) {
		t.Fatalf("values = %v, want %v", got, want)
	}
}
