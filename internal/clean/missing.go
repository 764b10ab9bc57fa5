package clean

import (
	"fmt"
	"log"

	"scrub/internal/frame"
)

// Strategy selects how missing values are resolved. It is parsed once at
// the configuration boundary, never re-interpreted per row.
type Strategy int

const (
	StrategyAuto Strategy = iota
	StrategyDrop
	StrategyMean
	StrategyMedian
	StrategyMode
)

// dropColumnFraction is the null fraction above which the auto strategy
// drops a column outright instead of imputing.
const dropColumnFraction = 0.5

// ParseStrategy resolves a config string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "auto":
		return StrategyAuto, nil
	case "drop":
		return StrategyDrop, nil
	case "mean":
		return StrategyMean, nil
	case "median":
		return StrategyMedian, nil
	case "mode":
		return StrategyMode, nil
	default:
		return 0, fmt.Errorf("unknown missing strategy %q", s)
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyDrop:
		return "drop"
	case StrategyMean:
		return "mean"
	case StrategyMedian:
		return "median"
	case StrategyMode:
		return "mode"
	default:
		return "auto"
	}
}

// ResolveMissing applies the strategy column by column, in column order.
//
// The report's missing-value counter is incremented by the total null count
// observed before resolution, even for columns the strategy ends up
// skipping. Each column's chosen action is recorded and logged.
func ResolveMissing(f *frame.Frame, strat Strategy, rep *Report) {
	observed := 0
	for _, c := range f.Columns() {
		observed += c.Nulls()
	}
	rep.MissingHandled += observed
	if observed == 0 {
		log.Printf("missing: no missing values found")
		return
	}
	log.Printf("missing: handling %d missing values (strategy=%s)", observed, strat)

	for _, c := range f.Columns() {
		nulls := c.Nulls()
		if nulls == 0 {
			continue
		}
		resolveColumn(f, c, nulls, strat, rep)
	}
}

func resolveColumn(f *frame.Frame, c *frame.Column, nulls int, strat Strategy, rep *Report) {
	switch strat {
	case StrategyAuto:
		frac := float64(nulls) / float64(len(c.Values))
		if frac > dropColumnFraction {
			f.DropColumn(c.Name)
			rep.ColumnsDropped = append(rep.ColumnsDropped, c.Name)
			rep.MissingActions[c.Name] = "dropped column"
			log.Printf("missing: dropped column %q (%.0f%% missing)", c.Name, frac*100)
			return
		}
		if c.Kind == frame.Numeric {
			fillNumericStat(c, "median", median, rep)
			return
		}
		fillMode(c, rep)

	case StrategyDrop:
		keep := make([]bool, len(c.Values))
		for i, v := range c.Values {
			keep[i] = v != nil
		}
		_ = f.Filter(keep)
		rep.MissingActions[c.Name] = "dropped rows"
		log.Printf("missing: dropped %d rows where %q is null", nulls, c.Name)

	case StrategyMean:
		if c.Kind != frame.Numeric {
			return
		}
		fillNumericStat(c, "mean", mean, rep)

	case StrategyMedian:
		if c.Kind != frame.Numeric {
			return
		}
		fillNumericStat(c, "median", median, rep)

	case StrategyMode:
		fillMode(c, rep)
	}
}

// fillNumericStat imputes nulls with the given statistic over the column's
// non-null values. An entirely null column has no statistic; it is left
// unchanged with a warning so downstream stages never see NaN cells.
func fillNumericStat(c *frame.Column, statName string, stat func([]float64) float64, rep *Report) {
	xs := numericValues(c)
	if len(xs) == 0 {
		rep.MissingActions[c.Name] = "skipped (no values)"
		rep.Warnf("column %q is entirely null, cannot impute %s", c.Name, statName)
		return
	}
	fill := stat(xs)
	for i, v := range c.Values {
		if v == nil {
			c.Values[i] = fill
		}
	}
	rep.MissingActions[c.Name] = "filled with " + statName
	log.Printf("missing: filled %q with %s", c.Name, statName)
}

func fillMode(c *frame.Column, rep *Report) {
	fill, ok := mode(c)
	if !ok {
		// Entirely null: nothing to fill with; leave unresolved.
		rep.MissingActions[c.Name] = "skipped (no mode)"
		return
	}
	for i, v := range c.Values {
		if v == nil {
			c.Values[i] = fill
		}
	}
	rep.MissingActions[c.Name] = "filled with mode"
	log.Printf("missing: filled %q with mode", c.Name)
}
