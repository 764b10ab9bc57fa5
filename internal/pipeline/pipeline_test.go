package pipeline

import (
	"context"
	"math"
	"reflect"
	"testing"

	"scrub/internal/clean"
	"scrub/internal/config"
	"scrub/internal/frame"
	"scrub/internal/standardize"
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

func defaultOptions() Options {
	return Options{
		Job:                    "test",
		RemoveDuplicates:       true,
		HandleMissing:          true,
		MissingStrategy:        clean.StrategyAuto,
		OutlierMethod:          clean.MethodIQR,
		OutlierThreshold:       1.5,
		OutlierAction:          clean.ActionCap,
		StandardizeCategorical: true,
	}
}

// TestRun_FullCleaningPass drives a small dirty dataset through every stage
// and checks the combined effect: the age column is coerced to numeric, the
// duplicate row drops, the null imputes to the post-dedup median, and the
// extreme value caps to the IQR upper bound computed after imputation.
func TestRun_FullCleaningPass(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("age", frame.Text, []any{"25", "30", nil, "1000", "25"}),
		frame.NewColumn("name", frame.Text, []any{" Alice ", "BOB", "carol", "dave", " Alice "}),
	)

	r := NewRunner(defaultOptions(), nil)
	rep, err := r.Run(context.Background(), f)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if r.State() != StateDone {
		t.Fatalf("state = %s, want done", r.State())
	}
	if !rep.Finalized() {
		t.Fatalf("report must be finalized")
	}
	if rep.DuplicatesRemoved != 1 {
		t.Fatalf("duplicates = %d, want 1", rep.DuplicatesRemoved)
	}
	if rep.MissingHandled != 1 {
		t.Fatalf("missing = %d, want 1", rep.MissingHandled)
	}
	if rep.OutliersDetected != 1 {
		t.Fatalf("outliers = %d, want 1", rep.OutliersDetected)
	}

	age, _ := f.Column("age")
	if age.Kind != frame.Numeric {
		t.Fatalf("age kind = %s, want numeric", age.Kind)
	}
	// Post-dedup ages {25, 30, nil, 1000}; median of {25,30,1000} is 30.
	// After imputation {25,30,30,1000}: q1=28.75, q3=272.5, upper bound
	// 272.5 + 1.5*243.75 = 638.125.
	if got := age.Values[2].(float64); got != 30.0 {
		t.Fatalf("imputed age = %v, want 30", got)
	}
	if got := age.Values[3].(float64); math.Abs(got-638.125) > 1e-9 {
		t.Fatalf("capped age = %v, want 638.125", got)
	}

	name, _ := f.Column("name")
	if got, want := name.Values, []any{"alice", "bob", "carol", "dave"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestRun_ScalingAndEncoding(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("v", frame.Numeric, []any{10.0, 20.0, 30.0}),
		frame.NewColumn("color", frame.Text, []any{"red", "blue", "red"}),
	)

	opts := defaultOptions()
	opts.OutlierMethod = clean.MethodNone
	opts.NormalizeNumerical = true
	opts.ScaleMethod = standardize.ScaleMinMax
	opts.FeatureHi = 1
	opts.EncodeCategorical = true
	opts.EncodeMethod = standardize.EncodeOneHot

	reg := standardize.NewRegistry()
	r := NewRunner(opts, reg)
	rep, err := r.Run(context.Background(), f)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	v, _ := f.Column("v")
	if got := v.Values[1].(float64); got != 0.5 {
		t.Fatalf("scaled v[1] = %v, want 0.5", got)
	}
	if _, ok := reg.Scales["minmax"]; !ok {
		t.Fatalf("fit parameters must land in the caller's registry")
	}

	if _, ok := f.Column("color_red"); !ok {
		t.Fatalf("expected one-hot column color_red")
	}
	if got, want := rep.EncodedCols, []string{"color"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("encoded = %v, want %v", got, want)
	}
}

// TestRun_DateStandardization runs without encoding; with encoding enabled
// the freshly textified date column would be encoded like any other
// categorical, which is exercised separately.
func TestRun_DateStandardization(t *testing.T) {
	f := newFrame(t,
		frame.NewColumn("d", frame.DateTime, []any{
			mustTime(t, "2024-01-15"), mustTime(t, "2024-02-01"), mustTime(t, "2024-03-01"),
		}),
	)

	opts := defaultOptions()
	opts.OutlierMethod = clean.MethodNone
	opts.StandardizeCategorical = false
	opts.DateFormat = standardize.DateISO

	r := NewRunner(opts, nil)
	rep, err := r.Run(context.Background(), f)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	d, _ := f.Column("d")
	if d.Kind != frame.Text || d.Values[0] != "2024-01-15 00:00:00" {
		t.Fatalf("dates not standardized: kind=%s v0=%v", d.Kind, d.Values[0])
	}
	if got, want := rep.DatesStandardized, []string{"d"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("dates report = %v, want %v", got, want)
	}
}

func mustTime(t *testing.T, s string) any {
	t.Helper()
	ts, ok := frame.ParseTime(s)
	if !ok {
		t.Fatalf("bad time literal %q", s)
	}
	return ts
}

func TestRun_SecondRunFails(t *testing.T) {
	f := newFrame(t, frame.NewColumn("v", frame.Text, []any{"x"}))
	r := NewRunner(defaultOptions(), nil)
	if _, err := r.Run(context.Background(), f); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := r.Run(context.Background(), f); err == nil {
		t.Fatalf("second run must fail: a runner is single-use")
	}
}

func TestReport_CopyAfterDone(t *testing.T) {
	f := newFrame(t, frame.NewColumn("v", frame.Text, []any{"x", "x"}))
	r := NewRunner(defaultOptions(), nil)
	if _, err := r.Run(context.Background(), f); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := r.Report()
	got.DuplicatesRemoved = 99
	got.MissingActions["v"] = "tampered"

	again := r.Report()
	if again.DuplicatesRemoved == 99 || again.MissingActions["v"] == "tampered" {
		t.Fatalf("finalized report must not be mutable through Report(): %+v", again)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	f := newFrame(t, frame.NewColumn("v", frame.Text, []any{"x"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(defaultOptions(), nil)
	if _, err := r.Run(ctx, f); err == nil {
		t.Fatalf("expected context error")
	}
	if r.State() == StateDone {
		t.Fatalf("canceled run must not reach done")
	}
}

func TestOptionsFromConfig_ResolvesAndDefaults(t *testing.T) {
	t.Parallel()

	p := config.Pipeline{}
	p.Clean.MissingStrategy = "median"
	p.Clean.OutlierDetectionMethod = "zscore"
	p.Clean.OutlierAction = "flag"
	p.Standardize.NormalizationMethod = "standard"
	p.Standardize.FeatureRange = []float64{-1, 1}

	opts, err := OptionsFromConfig(p)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if opts.Job != "scrub" {
		t.Fatalf("job = %q, want default scrub", opts.Job)
	}
	if opts.MissingStrategy != clean.StrategyMedian {
		t.Fatalf("strategy = %v", opts.MissingStrategy)
	}
	if opts.OutlierMethod != clean.MethodZScore || opts.OutlierAction != clean.ActionFlag {
		t.Fatalf("outlier opts = %v/%v", opts.OutlierMethod, opts.OutlierAction)
	}
	if opts.ScaleMethod != standardize.ScaleZScore {
		t.Fatalf("scale = %v", opts.ScaleMethod)
	}
	if opts.FeatureLo != -1 || opts.FeatureHi != 1 {
		t.Fatalf("range = [%v, %v]", opts.FeatureLo, opts.FeatureHi)
	}
	if !opts.RemoveDuplicates || !opts.HandleMissing || !opts.StandardizeCategorical {
		t.Fatalf("cleaning toggles must default to enabled")
	}
}

func TestOptionsFromConfig_RejectsUnknownEnums(t *testing.T) {
	t.Parallel()

	p := config.Pipeline{}
	p.Clean.OutlierDetectionMethod = "mad"
	if _, err := OptionsFromConfig(p); err == nil {
		t.Fatalf("expected error for unknown outlier method")
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	if got := StateIdle.String(); got != "idle" {
		t.Errorf("idle = %q", got)
	}
	if got := StateDone.String(); got != "done" {
		t.Errorf("done = %q", got)
	}
	if got := State(99).String(); got != "state(99)" {
		t.Errorf("out of range = %q", got)
	}
}
