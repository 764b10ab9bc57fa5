package standardize

import (
	"math"
	"strings"
	"testing"

	"scrub/internal/clean"
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

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNormalizeNumerical_MinMaxDefaultRange(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{10.0, 20.0, 30.0}),
	)
	rep := clean.NewReport()
	s := New(nil)

	s.NormalizeNumerical(f, ScaleMinMax, 0, 0, rep)

	c, _ := f.Column("v")
	want := []float64{0, 0.5, 1}
	for i, w := range want {
		if got := c.Values[i].(float64); !almostEqual(got, w) {
			t.Fatalf("value[%d] = %v, want %v", i, got, w)
		}
	}

	fit, ok := s.Registry().Scales["minmax"]
	if !ok {
		t.Fatalf("expected fit stored under minmax")
	}
	p := fit.Params["v"]
	if p.Min != 10 || p.Max != 30 {
		t.Fatalf("params = %+v, want min 10 max 30", p)
	}
}

func TestNormalizeNumerical_MinMaxCustomRange(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{0.0, 5.0, 10.0}),
	)
	rep := clean.NewReport()
	s := New(nil)

	s.NormalizeNumerical(f, ScaleMinMax, -1, 1, rep)

	c, _ := f.Column("v")
	want := []float64{-1, 0, 1}
	for i, w := range want {
		if got := c.Values[i].(float64); !almostEqual(got, w) {
			t.Fatalf("value[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestNormalizeNumerical_ZScore(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{2.0, 4.0, 6.0}),
	)
	rep := clean.NewReport()
	s := New(nil)

	s.NormalizeNumerical(f, ScaleZScore, 0, 1, rep)

	// mean=4, population std=sqrt(8/3).
	std := math.Sqrt(8.0 / 3.0)
	c, _ := f.Column("v")
	if got := c.Values[0].(float64); !almostEqual(got, -2/std) {
		t.Fatalf("value[0] = %v, want %v", got, -2/std)
	}
	if got := c.Values[1].(float64); !almostEqual(got, 0) {
		t.Fatalf("value[1] = %v, want 0", got)
	}
}

func TestNormalizeNumerical_NullsStayNull(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{1.0, nil, 3.0}),
	)
	rep := clean.NewReport()
	New(nil).NormalizeNumerical(f, ScaleMinMax, 0, 1, rep)

	c, _ := f.Column("v")
	if c.Values[1] != nil {
		t.Fatalf("null cell was scaled to %v", c.Values[1])
	}
}

func TestNormalizeNumerical_ZeroRangeSkipped(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("flat", frame.Numeric, []any{7.0, 7.0}),
		frame.NewColumn("ok", frame.Numeric, []any{1.0, 2.0}),
	)
	rep := clean.NewReport()
	s := New(nil)

	s.NormalizeNumerical(f, ScaleMinMax, 0, 1, rep)

	flat, _ := f.Column("flat")
	if flat.Values[0] != 7.0 {
		t.Fatalf("zero-range column must be untouched")
	}
	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "zero range") {
		t.Fatalf("warnings = %v", rep.Warnings)
	}
	fit := s.Registry().Scales["minmax"]
	if len(fit.Columns) != 1 || fit.Columns[0] != "ok" {
		t.Fatalf("fit columns = %v, want [ok]", fit.Columns)
	}
}

func TestInverseNumerical_RoundTrip(t *testing.T) {
	orig := []any{10.0, 20.0, 25.0, 30.0}
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, append([]any{}, orig...)),
	)
	rep := clean.NewReport()
	s := New(nil)

	for _, method := range []ScaleMethod{ScaleMinMax, ScaleZScore, ScaleRobust} {
		g := f.Clone()
		s.NormalizeNumerical(g, method, 0, 1, rep)
		if err := s.InverseNumerical(g, method); err != nil {
			t.Fatalf("%s inverse: %v", method, err)
		}
		c, _ := g.Column("v")
		for i, want := range orig {
			if got := c.Values[i].(float64); !almostEqual(got, want.(float64)) {
				t.Fatalf("%s roundtrip value[%d] = %v, want %v", method, i, got, want)
			}
		}
	}
}

func TestInverseNumerical_UnfittedMethodFails(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{1.0}),
	)
	s := New(nil)

	err := s.InverseNumerical(f, ScaleZScore)
	if err == nil {
		t.Fatalf("expected error for unfitted method")
	}
	if !strings.Contains(err.Error(), "no fitted parameters") {
		t.Fatalf("error = %v", err)
	}
}

func TestParseScaleMethod_StandardAlias(t *testing.T) {
	t.Parallel()

	got, err := ParseScaleMethod("standard")
	if err != nil || got != ScaleZScore {
		t.Fatalf("ParseScaleMethod(standard) = (%v, %v), want zscore", got, err)
	}
	if _, err := ParseScaleMethod("bogus"); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}
