package standardize

import (
	"fmt"
	"log"
	"math"
	"sort"

	"scrub/internal/clean"
	"scrub/internal/frame"
)

// ScaleMethod selects the numeric rescaling formula.
type ScaleMethod int

const (
	ScaleMinMax ScaleMethod = iota
	ScaleZScore
	ScaleRobust
)

// ParseScaleMethod resolves a config string ("standard" is accepted as an
// alias for zscore, as in the original tooling).
func ParseScaleMethod(s string) (ScaleMethod, error) {
	switch s {
	case "", "minmax":
		return ScaleMinMax, nil
	case "zscore", "standard":
		return ScaleZScore, nil
	case "robust":
		return ScaleRobust, nil
	default:
		return 0, fmt.Errorf("unknown normalization method %q", s)
	}
}

func (m ScaleMethod) String() string {
	switch m {
	case ScaleZScore:
		return "zscore"
	case ScaleRobust:
		return "robust"
	default:
		return "minmax"
	}
}

// Standardizer applies scaling and encoding, retaining fit parameters in
// its registry for inverse transforms and reproducibility.
type Standardizer struct {
	reg *Registry
}

// New returns a Standardizer over the given registry (a fresh one when nil).
func New(reg *Registry) *Standardizer {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Standardizer{reg: reg}
}

// Registry exposes the fit registry, e.g. for persistence.
func (s *Standardizer) Registry() *Registry { return s.reg }

// NormalizeNumerical fit-transforms every numeric column with the given
// method, scaling min-max output into [lo, hi]. Fitted parameters replace
// any previous fit stored under the same method key. Columns with
// degenerate statistics are skipped with a warning and excluded from the
// fit. Null cells stay null.
func (s *Standardizer) NormalizeNumerical(f *frame.Frame, method ScaleMethod, lo, hi float64, rep *clean.Report) {
	if lo == 0 && hi == 0 {
		hi = 1
	}
	fit := ScaleFit{Method: method.String(), Lo: lo, Hi: hi, Params: map[string]ColumnParams{}}

	for _, c := range f.Columns() {
		if c.Kind != frame.Numeric {
			continue
		}
		params, ok := fitColumn(c, method, rep)
		if !ok {
			continue
		}
		applyScale(c, method, params, lo, hi)
		fit.Columns = append(fit.Columns, c.Name)
		fit.Params[c.Name] = params
		rep.NormalizedCols = append(rep.NormalizedCols, c.Name)
	}

	if len(fit.Columns) == 0 {
		log.Printf("scaler: no numerical columns found for normalization")
		return
	}
	s.reg.Scales[fit.Method] = fit
	log.Printf("scaler: applied %s scaling to %d columns", method, len(fit.Columns))
}

// InverseNumerical maps previously scaled columns back to their original
// scale using the parameters retained for method. It fails with a
// resolution error when no fit is stored under that method key.
func (s *Standardizer) InverseNumerical(f *frame.Frame, method ScaleMethod) error {
	fit, ok := s.reg.Scales[method.String()]
	if !ok {
		return fmt.Errorf("standardize: no fitted parameters for method %q", method)
	}
	for _, name := range fit.Columns {
		c, present := f.Column(name)
		if !present {
			continue
		}
		params := fit.Params[name]
		for i, v := range c.Values {
			if v == nil {
				continue
			}
			x, isNum := frame.ParseFloat(v)
			if !isNum {
				continue
			}
			switch method {
			case ScaleMinMax:
				span := fit.Hi - fit.Lo
				if span == 0 {
					span = 1
				}
				c.Values[i] = (x-fit.Lo)/span*(params.Max-params.Min) + params.Min
			case ScaleZScore:
				c.Values[i] = x*params.Std + params.Mean
			case ScaleRobust:
				c.Values[i] = x*params.IQR + params.Median
			}
		}
	}
	return nil
}

func fitColumn(c *frame.Column, method ScaleMethod, rep *clean.Report) (ColumnParams, bool) {
	xs := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if v == nil {
			continue
		}
		if x, ok := frame.ParseFloat(v); ok {
			xs = append(xs, x)
		}
	}
	if len(xs) == 0 {
		rep.Warnf("scaler: %q has no values; skipped", c.Name)
		return ColumnParams{}, false
	}

	switch method {
	case ScaleMinMax:
		minV, maxV := xs[0], xs[0]
		for _, x := range xs[1:] {
			minV = math.Min(minV, x)
			maxV = math.Max(maxV, x)
		}
		if maxV == minV {
			rep.Warnf("scaler: %q has zero range; skipped", c.Name)
			return ColumnParams{}, false
		}
		return ColumnParams{Min: minV, Max: maxV}, true

	case ScaleZScore:
		m, std := meanStd(xs)
		if std == 0 {
			rep.Warnf("scaler: %q has zero variance; skipped", c.Name)
			return ColumnParams{}, false
		}
		return ColumnParams{Mean: m, Std: std}, true

	default: // robust
		med, iqr := medianIQR(xs)
		if iqr == 0 {
			rep.Warnf("scaler: %q has zero IQR; skipped", c.Name)
			return ColumnParams{}, false
		}
		return ColumnParams{Median: med, IQR: iqr}, true
	}
}

func applyScale(c *frame.Column, method ScaleMethod, p ColumnParams, lo, hi float64) {
	for i, v := range c.Values {
		if v == nil {
			continue
		}
		x, ok := frame.ParseFloat(v)
		if !ok {
			continue
		}
		switch method {
		case ScaleMinMax:
			c.Values[i] = (x-p.Min)/(p.Max-p.Min)*(hi-lo) + lo
		case ScaleZScore:
			c.Values[i] = (x - p.Mean) / p.Std
		case ScaleRobust:
			c.Values[i] = (x - p.Median) / p.IQR
		}
	}
}

// meanStd returns the mean and population standard deviation.
func meanStd(xs []float64) (float64, float64) {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	m := sum / float64(len(xs))
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return m, math.Sqrt(ss / float64(len(xs)))
}

// medianIQR returns the median and interquartile range, interpolating
// between closest ranks.
func medianIQR(xs []float64) (float64, float64) {
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	q := func(p float64) float64 {
		pos := p * float64(len(s)-1)
		lo := int(math.Floor(pos))
		hi := int(math.Ceil(pos))
		if lo == hi {
			return s[lo]
		}
		frac := pos - float64(lo)
		return s[lo]*(1-frac) + s[hi]*frac
	}
	return q(0.5), q(0.75) - q(0.25)
}
