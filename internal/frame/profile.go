// Column profiling: null statistics and best-fit type inference. Profiling
// is a pure function of the column's current values and feeds the decisions
// made by the cleaning stages.
package frame

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TypeThreshold is the fraction of non-null values that must coerce for a
// text column to be classified numeric or datetime. The comparison is
// strict: 3 of 4 (75%) does not qualify.
const TypeThreshold = 0.8

// sampleLimit bounds the cheap pre-pass over a column before the full-column
// coercion attempt is committed to, keeping pathological parse input from
// dominating a run.
const sampleLimit = 200

// Profile summarizes one column.
type Profile struct {
	Name         string  `json:"name"`
	Rows         int     `json:"rows"`
	Nulls        int     `json:"nulls"`
	NullFraction float64 `json:"null_fraction"`
	Kind         Kind    `json:"-"`
	KindName     string  `json:"kind"`
}

// ProfileColumn computes null statistics and the best-fit kind for a column.
// Non-text columns keep their declared kind; text columns are classified by
// coercion success rate (numeric first, then datetime).
func ProfileColumn(c *Column) Profile {
	p := Profile{Name: c.Name, Rows: len(c.Values), Kind: c.Kind}
	for _, v := range c.Values {
		if v == nil {
			p.Nulls++
		}
	}
	if p.Rows > 0 {
		p.NullFraction = float64(p.Nulls) / float64(p.Rows)
	}
	if c.Kind == Text {
		p.Kind = inferTextKind(c)
	}
	p.KindName = p.Kind.String()
	return p
}

// ProfileAll profiles every column. Columns are independent and profiling is
// read-only, so the work is fanned out over a bounded errgroup; results come
// back in column order.
func ProfileAll(ctx context.Context, f *Frame) ([]Profile, error) {
	cols := f.Columns()
	out := make([]Profile, len(cols))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, c := range cols {
		g.Go(func() error {
			out[i] = ProfileColumn(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// inferTextKind classifies a text column as Numeric, DateTime, or Text.
func inferTextKind(c *Column) Kind {
	if frac, ok := CoerceFraction(c, func(v any) bool { _, ok := ParseFloat(v); return ok }); ok && frac > TypeThreshold {
		return Numeric
	}
	if frac, ok := CoerceFraction(c, func(v any) bool { _, ok := ParseTime(v); return ok }); ok && frac > TypeThreshold {
		return DateTime
	}
	return Text
}

// CoerceFraction reports the fraction of non-null cells accepted by parse.
// It first samples up to sampleLimit non-null cells; if fewer than half of
// the sample parses, the full scan is skipped and the sample fraction is
// returned. The second return is false when the column has no non-null
// cells.
func CoerceFraction(c *Column, parse func(any) bool) (float64, bool) {
	sampled, sampledOK := 0, 0
	for _, v := range c.Values {
		if v == nil {
			continue
		}
		sampled++
		if parse(v) {
			sampledOK++
		}
		if sampled == sampleLimit {
			break
		}
	}
	if sampled == 0 {
		return 0, false
	}
	if sampledOK*2 < sampled {
		return float64(sampledOK) / float64(sampled), true
	}

	nonNull, ok := 0, 0
	for _, v := range c.Values {
		if v == nil {
			continue
		}
		nonNull++
		if parse(v) {
			ok++
		}
	}
	return float64(ok) / float64(nonNull), true
}
