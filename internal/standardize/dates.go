package standardize

import (
	"fmt"
	"log"
	"time"

	"scrub/internal/clean"
	"scrub/internal/frame"
)

// DateFormat selects the uniform output layout for datetime columns.
type DateFormat int

const (
	DateISO DateFormat = iota // 2006-01-02 15:04:05
	DateUS                    // 01/02/2006
	DateEU                    // 02/01/2006
)

// ParseDateFormat resolves a config string (case as documented: ISO/US/EU).
func ParseDateFormat(s string) (DateFormat, error) {
	switch s {
	case "", "ISO", "iso":
		return DateISO, nil
	case "US", "us":
		return DateUS, nil
	case "EU", "eu":
		return DateEU, nil
	default:
		return 0, fmt.Errorf("unknown date format %q", s)
	}
}

func (d DateFormat) layout() string {
	switch d {
	case DateUS:
		return "01/02/2006"
	case DateEU:
		return "02/01/2006"
	default:
		return "2006-01-02 15:04:05"
	}
}

// StandardizeDates rewrites every datetime column as text in the uniform
// layout. Null cells stay null; cells that are not time values are left
// untouched with a warning.
func StandardizeDates(f *frame.Frame, format DateFormat, rep *clean.Report) {
	layout := format.layout()
	for _, c := range f.Columns() {
		if c.Kind != frame.DateTime {
			continue
		}
		for i, v := range c.Values {
			if v == nil {
				continue
			}
			t, ok := v.(time.Time)
			if !ok {
				rep.Warnf("dates: %q row %d is not a datetime value; left unchanged", c.Name, i)
				continue
			}
			c.Values[i] = t.Format(layout)
		}
		c.Kind = frame.Text
		rep.DatesStandardized = append(rep.DatesStandardized, c.Name)
		log.Printf("dates: standardized column %q", c.Name)
	}
}
