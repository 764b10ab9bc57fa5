package standardize

import (
	"fmt"
	"log"

	"scrub/internal/clean"
	"scrub/internal/frame"
)

// EncodeMethod selects the categorical-to-numeric encoding.
type EncodeMethod int

const (
	EncodeLabel EncodeMethod = iota
	EncodeOneHot
)

// ParseEncodeMethod resolves a config string.
func ParseEncodeMethod(s string) (EncodeMethod, error) {
	switch s {
	case "", "label":
		return EncodeLabel, nil
	case "onehot":
		return EncodeOneHot, nil
	default:
		return 0, fmt.Errorf("unknown encoding method %q", s)
	}
}

func (m EncodeMethod) String() string {
	if m == EncodeOneHot {
		return "onehot"
	}
	return "label"
}

// EncodeCategorical encodes every text column.
//
// Label encoding maps each distinct category to a small integer assigned in
// first-seen order; the mapping is retained in the registry. The column
// becomes numeric. Null cells stay null.
//
// One-hot encoding replaces the column with one Bool column per distinct
// category, named <column>_<category> and appended at the end of the frame;
// null rows are false in every indicator.
func (s *Standardizer) EncodeCategorical(f *frame.Frame, method EncodeMethod, rep *clean.Report) {
	for _, c := range f.Columns() {
		if c.Kind != frame.Text {
			continue
		}
		switch method {
		case EncodeLabel:
			s.labelEncode(c)
			log.Printf("encoder: label encoded column %q", c.Name)
		case EncodeOneHot:
			if err := oneHotEncode(f, c); err != nil {
				rep.Warnf("encoder: one-hot %q: %v", c.Name, err)
				continue
			}
			log.Printf("encoder: one-hot encoded column %q", c.Name)
		}
		rep.EncodedCols = append(rep.EncodedCols, c.Name)
	}
}

func (s *Standardizer) labelEncode(c *frame.Column) {
	codes := map[string]int{}
	fit := LabelFit{Column: c.Name}
	for i, v := range c.Values {
		if v == nil {
			continue
		}
		cat := frame.CellString(v)
		code, seen := codes[cat]
		if !seen {
			code = len(fit.Categories)
			codes[cat] = code
			fit.Categories = append(fit.Categories, cat)
		}
		c.Values[i] = float64(code)
	}
	c.Kind = frame.Numeric
	s.reg.Encoders[c.Name] = fit
}

func oneHotEncode(f *frame.Frame, c *frame.Column) error {
	var categories []string
	seen := map[string]bool{}
	for _, v := range c.Values {
		if v == nil {
			continue
		}
		cat := frame.CellString(v)
		if !seen[cat] {
			seen[cat] = true
			categories = append(categories, cat)
		}
	}

	rows := len(c.Values)
	for _, cat := range categories {
		vals := make([]any, rows)
		for i, v := range c.Values {
			vals[i] = v != nil && frame.CellString(v) == cat
		}
		if err := f.AddColumn(frame.NewColumn(c.Name+"_"+cat, frame.Bool, vals)); err != nil {
			return err
		}
	}
	f.DropColumn(c.Name)
	return nil
}
