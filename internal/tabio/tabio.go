// Package tabio reads and writes tabular files. It dispatches on the
// configured parser kind, falling back to the file extension, and keeps
// the format-specific code in the parser packages.
package tabio

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scrub/internal/config"
	"scrub/internal/frame"
	csvparser "scrub/internal/parser/csv"
	jsonparser "scrub/internal/parser/json"
)

// Load reads the file at path into a frame. The parser kind comes from cfg;
// when empty it is inferred from the extension (.csv, .ndjson, .json).
func Load(ctx context.Context, path string, cfg config.Parser) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kind := cfg.Kind
	if kind == "" {
		kind = kindFromExt(path)
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tabio: open %s: %w", path, err)
	}
	defer fh.Close()

	log.Printf("tabio: reading %s as %s", path, kind)
	switch kind {
	case "csv":
		p := csvparser.NewParser(csvOptions(cfg.Options))
		return p.Parse(fh)
	case "ndjson":
		return jsonparser.Parse(fh, jsonparser.FromConfigOptions(cfg.Options))
	default:
		return nil, fmt.Errorf("tabio: unsupported input format %q for %s", kind, path)
	}
}

// Save writes f to path, choosing the format from the extension.
func Save(ctx context.Context, f *frame.Frame, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch kind := kindFromExt(path); kind {
	case "csv":
		return saveCSV(f, path)
	case "ndjson":
		return saveNDJSON(f, path)
	default:
		return fmt.Errorf("tabio: unsupported output format %q for %s", kind, path)
	}
}

func kindFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".ndjson", ".jsonl", ".json":
		return "ndjson"
	default:
		return ""
	}
}

// csvOptions maps the generic options bag onto the csv parser knobs.
func csvOptions(o config.Options) csvparser.Options {
	return csvparser.Options{
		HasHeader:        o.Bool("has_header", true),
		Comma:            o.Rune("comma", ','),
		TrimSpace:        o.Bool("trim_space", true),
		ExpectedFields:   o.Int("expected_fields", 0),
		HeaderMap:        o.StringMap("header_map"),
		ScrubPattern:     o.String("scrub_pattern", ""),
		ScrubReplacement: o.String("scrub_replacement", ""),
	}
}

func saveCSV(f *frame.Frame, path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tabio: create %s: %w", path, err)
	}
	defer fh.Close()

	w := csv.NewWriter(fh)
	if err := w.Write(f.Names()); err != nil {
		return fmt.Errorf("tabio: write header: %w", err)
	}
	rec := make([]string, len(f.Names()))
	for i := 0; i < f.Rows(); i++ {
		for j, v := range f.Row(i) {
			rec[j] = frame.CellString(v)
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("tabio: write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("tabio: flush %s: %w", path, err)
	}
	log.Printf("tabio: wrote %d rows to %s", f.Rows(), path)
	return nil
}

func saveNDJSON(f *frame.Frame, path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tabio: create %s: %w", path, err)
	}
	defer fh.Close()

	names := f.Names()
	enc := json.NewEncoder(fh)
	for i := 0; i < f.Rows(); i++ {
		obj := make(map[string]any, len(names))
		for j, v := range f.Row(i) {
			obj[names[j]] = jsonCell(v)
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("tabio: write row %d: %w", i, err)
		}
	}
	log.Printf("tabio: wrote %d rows to %s", f.Rows(), path)
	return nil
}

// jsonCell keeps numbers and bools typed; times use the canonical layout.
func jsonCell(v any) any {
	switch x := v.(type) {
	case time.Time:
		return frame.CellString(x)
	default:
		return v
	}
}
