package clean

import (
	"math"
	"sort"

	"scrub/internal/frame"
)

// numericValues extracts the non-null cells of a column as float64s.
func numericValues(c *frame.Column) []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if v == nil {
			continue
		}
		if x, ok := frame.ParseFloat(v); ok {
			out = append(out, x)
		}
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the population standard deviation (matching the detection math
// of the zscore method).
func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// quantile computes the q-th quantile (0..1) with linear interpolation
// between closest ranks.
func quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)

	pos := q * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s[lo]
	}
	frac := pos - float64(lo)
	return s[lo]*(1-frac) + s[hi]*frac
}

func median(xs []float64) float64 { return quantile(xs, 0.5) }

// mode returns the most frequent non-null cell of a column, keyed by
// canonical string form. Ties break by first appearance. ok is false when
// the column has no non-null cells.
func mode(c *frame.Column) (any, bool) {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	values := map[string]any{}
	for i, v := range c.Values {
		if v == nil {
			continue
		}
		k := frame.CellString(v)
		if _, seen := counts[k]; !seen {
			firstSeen[k] = i
			values[k] = v
		}
		counts[k]++
	}
	best, bestCount, bestFirst := "", 0, 0
	for k, n := range counts {
		if n > bestCount || (n == bestCount && firstSeen[k] < bestFirst) {
			best, bestCount, bestFirst = k, n, firstSeen[k]
		}
	}
	if bestCount == 0 {
		return nil, false
	}
	return values[best], true
}
