// Package csv parses CSV input into a frame of text columns, with optional,
// targeted on-the-fly scrubbing for known bad byte sequences in real-world
// data. Scrubbing streams with a small rolling carry and never buffers the
// whole input.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"scrub/internal/frame"
)

// Options configures the CSV parser behavior. All fields are optional;
// sensible defaults are applied when a field is zero.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	// Without a header, columns are named col_1..col_N.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// ExpectedFields, when > 0, enforces a fixed field count per record.
	// Rows with a different width are skipped (soft-fail) and counted.
	ExpectedFields int

	// HeaderMap maps source header names to canonical column names (e.g.,
	// localization to snake_case). Only applies when HasHeader is true.
	HeaderMap map[string]string

	// ScrubPattern/ScrubReplacement, when the pattern is non-empty, rewrite
	// every occurrence of the pattern before the bytes reach encoding/csv.
	// When enabled the reader runs in a lenient mode (LazyQuotes, variable
	// field count) and ExpectedFields is enforced after read.
	ScrubPattern     string
	ScrubReplacement string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads all of r into a frame. Every column is Text; empty cells
// become null. Header cells are BOM-stripped and mapped through HeaderMap.
func (p *Parser) Parse(r io.Reader) (*frame.Frame, error) {
	if p.opt.ScrubPattern != "" {
		r = newStreamingRewriter(r, []byte(p.opt.ScrubPattern), []byte(p.opt.ScrubReplacement))
	}

	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = p.opt.TrimSpace

	var names []string
	if p.opt.HasHeader {
		header, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("csv: read header: %w", err)
		}
		header = StripHeaderBOM(header)
		names = make([]string, len(header))
		for i, raw := range header {
			name := strings.TrimSpace(raw)
			if mapped, ok := p.opt.HeaderMap[name]; ok && mapped != "" {
				name = mapped
			}
			names[i] = name
		}
	}

	var (
		cols    [][]any
		rows    int
		skipped int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", rows+1, err)
		}
		if p.opt.ExpectedFields > 0 && len(rec) != p.opt.ExpectedFields {
			skipped++
			continue
		}
		if names == nil {
			names = make([]string, len(rec))
			for i := range rec {
				names[i] = fmt.Sprintf("col_%d", i+1)
			}
		}
		for len(cols) < len(names) {
			cols = append(cols, make([]any, rows))
		}
		for i := range names {
			var cell any
			if i < len(rec) {
				s := rec[i]
				if p.opt.TrimSpace {
					s = strings.TrimSpace(s)
				}
				if s != "" {
					cell = s
				}
			}
			cols[i] = append(cols[i], cell)
		}
		rows++
	}
	if skipped > 0 {
		log.Printf("csv: skipped %d rows with unexpected field count", skipped)
	}
	if names == nil {
		return nil, fmt.Errorf("csv: input contains no rows")
	}

	f := frame.New()
	for i, name := range names {
		if err := f.AddColumn(frame.NewColumn(name, frame.Text, cols[i])); err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
	}
	return f, nil
}
