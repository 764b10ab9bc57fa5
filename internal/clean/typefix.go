package clean

import (
	"fmt"
	"log"

	"scrub/internal/frame"
)

// CoerceOutcome is the explicit per-column result of a type-correction
// attempt. Skips carry an inspectable reason instead of being silently
// discarded.
type CoerceOutcome struct {
	Column  string
	Coerced bool
	Kind    frame.Kind
	Reason  string
}

// CorrectTypes attempts to coerce every text column, numeric first and
// datetime only if numeric fails. A column converts when strictly more than
// 80% of its non-null values coerce; cells that fail become null. At most
// one correction per column per pass.
func CorrectTypes(f *frame.Frame, rep *Report) []CoerceOutcome {
	outcomes := make([]CoerceOutcome, 0, len(f.Columns()))
	for _, c := range f.Columns() {
		if c.Kind != frame.Text {
			outcomes = append(outcomes, CoerceOutcome{Column: c.Name, Kind: c.Kind, Reason: "not a text column"})
			continue
		}
		outcomes = append(outcomes, correctColumn(c, rep))
	}
	return outcomes
}

func correctColumn(c *frame.Column, rep *Report) CoerceOutcome {
	numFrac, hasValues := frame.CoerceFraction(c, func(v any) bool { _, ok := frame.ParseFloat(v); return ok })
	if !hasValues {
		return CoerceOutcome{Column: c.Name, Kind: frame.Text, Reason: "no non-null values"}
	}
	if numFrac > frame.TypeThreshold {
		for i, v := range c.Values {
			if v == nil {
				continue
			}
			if x, ok := frame.ParseFloat(v); ok {
				c.Values[i] = x
			} else {
				c.Values[i] = nil
			}
		}
		c.Kind = frame.Numeric
		rep.TypesCorrected = append(rep.TypesCorrected, TypeCorrection{Column: c.Name, From: "text", To: "numeric"})
		log.Printf("typefix: converted %q to numeric", c.Name)
		return CoerceOutcome{Column: c.Name, Coerced: true, Kind: frame.Numeric}
	}

	dtFrac, _ := frame.CoerceFraction(c, func(v any) bool { _, ok := frame.ParseTime(v); return ok })
	if dtFrac > frame.TypeThreshold {
		for i, v := range c.Values {
			if v == nil {
				continue
			}
			if t, ok := frame.ParseTime(v); ok {
				c.Values[i] = t
			} else {
				c.Values[i] = nil
			}
		}
		c.Kind = frame.DateTime
		rep.TypesCorrected = append(rep.TypesCorrected, TypeCorrection{Column: c.Name, From: "text", To: "datetime"})
		log.Printf("typefix: converted %q to datetime", c.Name)
		return CoerceOutcome{Column: c.Name, Coerced: true, Kind: frame.DateTime}
	}

	return CoerceOutcome{
		Column: c.Name,
		Kind:   frame.Text,
		Reason: fmt.Sprintf("numeric %.0f%% and datetime %.0f%% below %.0f%% threshold",
			numFrac*100, dtFrac*100, frame.TypeThreshold*100),
	}
}
