package clean

import (
	"fmt"
	"log"

	"scrub/internal/frame"
)

// Method selects the outlier detection algorithm.
type Method int

const (
	MethodNone Method = iota
	MethodIQR
	MethodZScore
)

// Action selects what happens to detected outliers. Actions are mutually
// exclusive per invocation.
type Action int

const (
	ActionCap Action = iota
	ActionRemove
	ActionFlag
)

// DefaultThreshold is used for both the IQR factor k and the z-score cutoff
// when the configuration does not override it.
const DefaultThreshold = 1.5

// ParseMethod resolves a config string into a Method. Matching is
// case-insensitive on the method names used by the config surface.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "none":
		return MethodNone, nil
	case "IQR", "iqr":
		return MethodIQR, nil
	case "zscore", "ZSCORE":
		return MethodZScore, nil
	default:
		return 0, fmt.Errorf("unknown outlier method %q", s)
	}
}

func (m Method) String() string {
	switch m {
	case MethodIQR:
		return "IQR"
	case MethodZScore:
		return "zscore"
	default:
		return "none"
	}
}

// ParseAction resolves a config string into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "", "cap":
		return ActionCap, nil
	case "remove":
		return ActionRemove, nil
	case "flag":
		return ActionFlag, nil
	default:
		return 0, fmt.Errorf("unknown outlier action %q", s)
	}
}

func (a Action) String() string {
	switch a {
	case ActionRemove:
		return "remove"
	case ActionFlag:
		return "flag"
	default:
		return "cap"
	}
}

// ResolveOutliers detects and handles outliers in every numeric column.
// Non-numeric columns are skipped silently. Columns with degenerate
// statistics (too few values, zero spread) are left unchanged with a
// warning. The per-column detection counts accumulate into the report's
// running total regardless of the action taken.
//
// Flag columns (<name>_outlier, Bool) are appended after all numeric
// columns have been processed so they never enter the same pass.
func ResolveOutliers(f *frame.Frame, method Method, threshold float64, action Action, rep *Report) {
	if method == MethodNone {
		return
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	rep.OutlierMethod = method.String()
	rep.OutlierAction = action.String()

	var flags []*frame.Column
	total := 0
	for _, c := range f.Columns() {
		if c.Kind != frame.Numeric {
			continue
		}
		n, flag := resolveColumnOutliers(f, c, method, threshold, action, rep)
		total += n
		if flag != nil {
			flags = append(flags, flag)
		}
	}
	for _, flag := range flags {
		if err := f.AddColumn(flag); err != nil {
			rep.Warnf("outliers: flag column %q: %v", flag.Name, err)
		}
	}

	rep.OutliersDetected += total
	log.Printf("outliers: detected and handled %d outliers using %s method", total, method)
}

// resolveColumnOutliers handles a single column and returns the detection
// count plus the flag column when action is flag.
func resolveColumnOutliers(f *frame.Frame, c *frame.Column, method Method, threshold float64, action Action, rep *Report) (int, *frame.Column) {
	xs := numericValues(c)

	var lower, upper float64
	switch method {
	case MethodIQR:
		if len(xs) < 4 {
			rep.Warnf("outliers: %q has %d values, too few for quartiles; skipped", c.Name, len(xs))
			return 0, nil
		}
		q1 := quantile(xs, 0.25)
		q3 := quantile(xs, 0.75)
		iqr := q3 - q1
		lower = q1 - threshold*iqr
		upper = q3 + threshold*iqr
	case MethodZScore:
		std := stddev(xs)
		if len(xs) == 0 || std == 0 {
			rep.Warnf("outliers: %q has zero variance; skipped", c.Name)
			return 0, nil
		}
		m := mean(xs)
		lower = m - threshold*std
		upper = m + threshold*std
	}

	// One detection pass; nulls are never outliers.
	out := make([]bool, len(c.Values))
	count := 0
	for i, v := range c.Values {
		if v == nil {
			continue
		}
		x, ok := frame.ParseFloat(v)
		if !ok {
			continue
		}
		if x < lower || x > upper {
			out[i] = true
			count++
		}
	}

	switch action {
	case ActionCap:
		for i, flagged := range out {
			if !flagged {
				continue
			}
			x, _ := frame.ParseFloat(c.Values[i])
			if x < lower {
				c.Values[i] = lower
			} else {
				c.Values[i] = upper
			}
		}
	case ActionRemove:
		if count > 0 {
			keep := make([]bool, len(out))
			for i, flagged := range out {
				keep[i] = !flagged
			}
			_ = f.Filter(keep)
		}
	case ActionFlag:
		vals := make([]any, len(out))
		for i, flagged := range out {
			vals[i] = flagged
		}
		return count, frame.NewColumn(c.Name+"_outlier", frame.Bool, vals)
	}
	return count, nil
}
