// Package frame defines the in-memory tabular dataset the transform engine
// operates on: an ordered sequence of named, typed, nullable columns.
//
// Cell values are restricted to a small closed set:
//
//   - nil        (missing)
//   - float64    (numeric; integers are widened on ingest)
//   - time.Time  (datetime)
//   - string     (text / categorical)
//   - bool       (boolean, e.g. outlier flags and one-hot indicators)
//
// Column order is preserved on write. Row order is preserved by every
// operation except explicit row removal (Filter), which shrinks without
// reordering the survivors.
package frame

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind is the inferred semantic type of a column.
type Kind int

const (
	Text Kind = iota
	Numeric
	DateTime
	Bool
)

// String returns the lower-case name used in configs, logs, and DDL mapping.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case DateTime:
		return "datetime"
	case Bool:
		return "bool"
	default:
		return "text"
	}
}

// Column is a named, ordered sequence of nullable cells sharing one Kind.
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

// NewColumn constructs a column over the given cells.
func NewColumn(name string, kind Kind, values []any) *Column {
	return &Column{Name: name, Kind: kind, Values: values}
}

// Nulls counts nil cells.
func (c *Column) Nulls() int {
	n := 0
	for _, v := range c.Values {
		if v == nil {
			n++
		}
	}
	return n
}

// Frame is an ordered collection of equal-length columns with unique names.
type Frame struct {
	cols   []*Column
	byName map[string]int
}

// New returns an empty frame.
func New() *Frame {
	return &Frame{byName: map[string]int{}}
}

// AddColumn appends a column. The name must be unique and the length must
// match the frame's current row count (any length is accepted when the frame
// is empty).
func (f *Frame) AddColumn(c *Column) error {
	if _, dup := f.byName[c.Name]; dup {
		return fmt.Errorf("frame: duplicate column %q", c.Name)
	}
	if len(f.cols) > 0 && len(c.Values) != f.Rows() {
		return fmt.Errorf("frame: column %q has %d rows, frame has %d", c.Name, len(c.Values), f.Rows())
	}
	f.byName[c.Name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// Column returns the named column, or false if absent.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Columns returns the columns in order. The slice is a copy; the *Column
// values are shared.
func (f *Frame) Columns() []*Column {
	out := make([]*Column, len(f.cols))
	copy(out, f.cols)
	return out
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name
	}
	return out
}

// Rows returns the row count (0 for an empty frame).
func (f *Frame) Rows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Values)
}

// Row materializes row i as a cell slice in column order.
func (f *Frame) Row(i int) []any {
	out := make([]any, len(f.cols))
	for j, c := range f.cols {
		out[j] = c.Values[i]
	}
	return out
}

// DropColumn removes the named column, reporting whether it existed.
func (f *Frame) DropColumn(name string) bool {
	i, ok := f.byName[name]
	if !ok {
		return false
	}
	f.cols = append(f.cols[:i], f.cols[i+1:]...)
	delete(f.byName, name)
	for n, j := range f.byName {
		if j > i {
			f.byName[n] = j - 1
		}
	}
	return true
}

// Filter keeps only rows where keep[i] is true, preserving order. len(keep)
// must equal Rows().
func (f *Frame) Filter(keep []bool) error {
	if len(keep) != f.Rows() {
		return fmt.Errorf("frame: keep mask has %d entries, frame has %d rows", len(keep), f.Rows())
	}
	for _, c := range f.cols {
		kept := c.Values[:0]
		for i, v := range c.Values {
			if keep[i] {
				kept = append(kept, v)
			}
		}
		c.Values = kept
	}
	return nil
}

// Clone returns a deep copy: new columns, new cell slices. Cell values are
// immutable by convention, so they are shared.
func (f *Frame) Clone() *Frame {
	out := New()
	for _, c := range f.cols {
		vals := make([]any, len(c.Values))
		copy(vals, c.Values)
		_ = out.AddColumn(&Column{Name: c.Name, Kind: c.Kind, Values: vals})
	}
	return out
}

// timeLayouts are the datetime shapes accepted by ParseTime, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// ParseFloat coerces a cell to float64. Strings are trimmed and parsed;
// bools map to 0/1; nil and unparseable values report false.
func ParseFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		x, err := strconv.ParseFloat(trimSpace(t), 64)
		// strconv accepts "NaN" and "Inf" tokens; those are not usable
		// numbers for statistics, so they count as parse failures.
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	default:
		return 0, false
	}
}

// ParseTime coerces a cell to time.Time using the known layouts.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := trimSpace(t)
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

// CellString renders a cell canonically for hashing, CSV output, and row
// keys. nil renders as the empty string.
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(t)
	}
}
