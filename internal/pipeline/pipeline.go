// Package pipeline composes the cleaning and standardization stages into
// one deterministic, strictly ordered pass over a dataset, accumulating a
// structured report of what changed.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"scrub/internal/clean"
	"scrub/internal/config"
	"scrub/internal/frame"
	"scrub/internal/metrics"
	"scrub/internal/standardize"
)

// State tracks the orchestrator's progress through the fixed stage order.
type State int

const (
	StateIdle State = iota
	StateExtracted
	StateTypeCorrected
	StateDuplicatesResolved
	StateMissingResolved
	StateOutlierResolved
	StateCategoricalNormalized
	StateStandardized
	StateDone
)

var stateNames = [...]string{
	"idle", "extracted", "type_corrected", "duplicates_resolved",
	"missing_resolved", "outlier_resolved", "categorical_normalized",
	"standardized", "done",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Options are the fully resolved knobs for one run. String-keyed config is
// parsed into closed enumerations exactly once, at this boundary.
type Options struct {
	Job string

	RemoveDuplicates bool

	HandleMissing   bool
	MissingStrategy clean.Strategy

	OutlierMethod    clean.Method
	OutlierThreshold float64
	OutlierAction    clean.Action

	StandardizeCategorical bool
	TokenMap               map[string]string

	NormalizeNumerical bool
	ScaleMethod        standardize.ScaleMethod
	FeatureLo          float64
	FeatureHi          float64

	EncodeCategorical bool
	EncodeMethod      standardize.EncodeMethod

	DateFormat standardize.DateFormat
}

// OptionsFromConfig resolves the config surface into Options, failing on
// any unknown enum value so a malformed config never starts a partial run.
func OptionsFromConfig(p config.Pipeline) (Options, error) {
	opts := Options{
		Job:                    p.Job,
		RemoveDuplicates:       p.Clean.RemoveDuplicatesEnabled(),
		HandleMissing:          p.Clean.HandleMissingEnabled(),
		OutlierThreshold:       p.Clean.OutlierThreshold,
		StandardizeCategorical: p.Clean.StandardizeCategoricalEnabled(),
		TokenMap:               p.Clean.TokenMap,
		NormalizeNumerical:     p.Standardize.NormalizeNumerical,
		EncodeCategorical:      p.Standardize.EncodeCategorical,
		FeatureLo:              0,
		FeatureHi:              1,
	}
	if opts.Job == "" {
		opts.Job = "scrub"
	}

	var err error
	if opts.MissingStrategy, err = clean.ParseStrategy(p.Clean.MissingStrategy); err != nil {
		return Options{}, err
	}
	if opts.OutlierMethod, err = clean.ParseMethod(p.Clean.OutlierDetectionMethod); err != nil {
		return Options{}, err
	}
	if opts.OutlierAction, err = clean.ParseAction(p.Clean.OutlierAction); err != nil {
		return Options{}, err
	}
	if opts.ScaleMethod, err = standardize.ParseScaleMethod(p.Standardize.NormalizationMethod); err != nil {
		return Options{}, err
	}
	if opts.EncodeMethod, err = standardize.ParseEncodeMethod(p.Standardize.EncodingMethod); err != nil {
		return Options{}, err
	}
	if opts.DateFormat, err = standardize.ParseDateFormat(p.Standardize.DateFormat); err != nil {
		return Options{}, err
	}
	if r := p.Standardize.FeatureRange; len(r) == 2 {
		opts.FeatureLo, opts.FeatureHi = r[0], r[1]
	}
	return opts, nil
}

// Runner executes one pipeline pass. A Runner is single-use: it owns one
// report and one state machine, both created fresh per run.
type Runner struct {
	opts   Options
	state  State
	report *clean.Report
	std    *standardize.Standardizer
}

// NewRunner constructs a Runner. The registry receives the fit parameters
// of any scaling/encoding performed; pass nil when standardization is off.
func NewRunner(opts Options, reg *standardize.Registry) *Runner {
	return &Runner{
		opts:   opts,
		state:  StateIdle,
		report: clean.NewReport(),
		std:    standardize.New(reg),
	}
}

// State returns the runner's current state.
func (r *Runner) State() State { return r.state }

// Report returns the run report. Once the run has finalized the report,
// callers get a copy, so the recorded outcome cannot drift after Done.
func (r *Runner) Report() *clean.Report {
	if r.report.Finalized() {
		return r.report.Clone()
	}
	return r.report
}

// Run executes the fixed stage order on f, mutating it in place:
//
//	type-correct -> dedup -> missing -> outliers -> categorical ->
//	dates -> [scale] -> [encode]
//
// Every stage except type correction is optional per configuration, but
// none may run out of order. Per-column failures inside a stage are
// recovered by the stage itself and surface as report warnings; Run only
// fails on structural errors (wrong state, canceled context).
func (r *Runner) Run(ctx context.Context, f *frame.Frame) (*clean.Report, error) {
	if r.state != StateIdle {
		return nil, fmt.Errorf("pipeline: run already started (state=%s)", r.state)
	}
	r.state = StateExtracted
	log.Printf("pipeline: starting cleaning on dataset with %d columns, %d rows", len(f.Names()), f.Rows())

	if err := r.stage(ctx, StateTypeCorrected, func() {
		clean.CorrectTypes(f, r.report)
	}); err != nil {
		return nil, err
	}

	if err := r.stage(ctx, StateDuplicatesResolved, func() {
		if r.opts.RemoveDuplicates {
			clean.RemoveDuplicates(f, r.report)
		}
	}); err != nil {
		return nil, err
	}

	if err := r.stage(ctx, StateMissingResolved, func() {
		if r.opts.HandleMissing {
			clean.ResolveMissing(f, r.opts.MissingStrategy, r.report)
		}
	}); err != nil {
		return nil, err
	}

	if err := r.stage(ctx, StateOutlierResolved, func() {
		clean.ResolveOutliers(f, r.opts.OutlierMethod, r.opts.OutlierThreshold, r.opts.OutlierAction, r.report)
	}); err != nil {
		return nil, err
	}

	if err := r.stage(ctx, StateCategoricalNormalized, func() {
		if r.opts.StandardizeCategorical {
			clean.StandardizeCategorical(f, r.opts.TokenMap, r.report)
		}
	}); err != nil {
		return nil, err
	}

	if err := r.stage(ctx, StateStandardized, func() {
		standardize.StandardizeDates(f, r.opts.DateFormat, r.report)
		if r.opts.NormalizeNumerical {
			r.std.NormalizeNumerical(f, r.opts.ScaleMethod, r.opts.FeatureLo, r.opts.FeatureHi, r.report)
		}
		if r.opts.EncodeCategorical {
			r.std.EncodeCategorical(f, r.opts.EncodeMethod, r.report)
		}
	}); err != nil {
		return nil, err
	}

	r.state = StateDone
	r.report.Finalize()
	log.Printf("pipeline: cleaning completed, final shape %d columns x %d rows", len(f.Names()), f.Rows())
	return r.report, nil
}

// stage runs fn and advances the state machine by exactly one step,
// recording duration and outcome in metrics.
func (r *Runner) stage(ctx context.Context, next State, fn func()) error {
	if next != r.state+1 {
		return fmt.Errorf("pipeline: illegal transition %s -> %s", r.state, next)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	fn()
	metrics.RecordStage(r.opts.Job, next.String(), nil, time.Since(start))
	r.state = next
	return nil
}

// Standardizer exposes the standardizer so callers can persist its registry
// or run inverse transforms after the pass.
func (r *Runner) Standardizer() *standardize.Standardizer { return r.std }
