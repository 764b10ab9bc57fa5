// Package json implements an NDJSON parser that turns streams of JSON
// objects into a frame.
//
// It is deliberately simple and conservative:
//
//   - Supports newline-delimited JSON objects:
//     {"id":1,"name":"a"}
//     {"id":2,"name":"b"}
//   - Also supports multiple JSON objects in a stream (same as NDJSON).
//   - A top-level array of objects is accepted when allow_arrays is set.
//
// This matches a very common ETL pattern: NDJSON logs / exports.
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"scrub/internal/config"
	"scrub/internal/frame"
)

// Options mirrors the csv parser's options pattern. Knobs:
//
//   - "allow_arrays" (bool): when true, a top-level JSON array of objects
//     is accepted.
type Options struct {
	AllowArrays bool
}

// FromConfigOptions constructs JSON Options from a generic config.Options
// map (the same one used by the csv parser).
func FromConfigOptions(o config.Options) Options {
	return Options{
		AllowArrays: o.Bool("allow_arrays", false),
	}
}

// Decoder wraps encoding/json.Decoder to provide a simple object-oriented
// API over an NDJSON stream.
type Decoder struct {
	dec *json.Decoder
	opt Options
}

// NewDecoder constructs a Decoder from an io.Reader and JSON Options.
func NewDecoder(r io.Reader, opt Options) *Decoder {
	d := json.NewDecoder(r)
	// UseNumber so numeric precision survives until column typing.
	d.UseNumber()
	return &Decoder{dec: d, opt: opt}
}

// Next reads the next top-level JSON object from the stream. Non-object
// top-level values are skipped, which makes the decoder robust to junk
// lines. EOF is returned when the stream is exhausted.
func (d *Decoder) Next() (map[string]any, error) {
	for {
		var raw any
		if err := d.dec.Decode(&raw); err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("json parser: decode: %w", err)
		}

		switch m := raw.(type) {
		case map[string]any:
			return m, nil
		case []any:
			if d.opt.AllowArrays {
				return nil, fmt.Errorf("json parser: nested array expansion requires DecodeAll")
			}
			continue
		default:
			continue
		}
	}
}

// DecodeAll reads all objects from r and returns them as a slice of maps.
// If opt.AllowArrays is true and r starts with a top-level JSON array of
// objects, the array is expanded.
func DecodeAll(r io.Reader, opt Options) ([]map[string]any, error) {
	d := json.NewDecoder(r)
	d.UseNumber()

	var out []map[string]any
	for {
		var root any
		if err := d.Decode(&root); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return nil, fmt.Errorf("json parser: decode: %w", err)
		}

		switch v := root.(type) {
		case map[string]any:
			out = append(out, v)
		case []any:
			if !opt.AllowArrays {
				return nil, fmt.Errorf("json parser: top-level array encountered but allow_arrays=false")
			}
			for i, elem := range v {
				obj, ok := elem.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("json parser: element %d in array is not an object", i)
				}
				out = append(out, obj)
			}
		default:
			return nil, fmt.Errorf("json parser: unsupported top-level JSON type %T", v)
		}
	}
}

// ToFrame converts decoded objects into a frame. Column order is the order
// keys are first seen across the stream; missing keys become nulls. A
// column whose non-null values are all numbers becomes Numeric, all bools
// becomes Bool, otherwise Text (non-string scalars are stringified).
func ToFrame(objs []map[string]any) (*frame.Frame, error) {
	names := stableKeyOrder(objs)
	if len(names) == 0 {
		return nil, fmt.Errorf("json parser: input contains no objects")
	}

	f := frame.New()
	for _, name := range names {
		values := make([]any, len(objs))
		numeric, boolean := true, true
		nonNull := 0
		for i, obj := range objs {
			v, ok := obj[name]
			if !ok || v == nil {
				continue
			}
			nonNull++
			switch x := v.(type) {
			case json.Number:
				fv, err := x.Float64()
				if err != nil {
					return nil, fmt.Errorf("json parser: column %q: %w", name, err)
				}
				values[i] = fv
				boolean = false
			case bool:
				values[i] = x
				numeric = false
			case string:
				values[i] = x
				numeric, boolean = false, false
			default:
				raw, err := json.Marshal(x)
				if err != nil {
					return nil, fmt.Errorf("json parser: column %q: %w", name, err)
				}
				values[i] = string(raw)
				numeric, boolean = false, false
			}
		}

		kind := frame.Text
		switch {
		case nonNull > 0 && numeric:
			kind = frame.Numeric
		case nonNull > 0 && boolean:
			kind = frame.Bool
		default:
			for i, v := range values {
				switch x := v.(type) {
				case float64:
					values[i] = frame.CellString(x)
				case bool:
					values[i] = frame.CellString(x)
				}
			}
		}
		if err := f.AddColumn(frame.NewColumn(name, kind, values)); err != nil {
			return nil, fmt.Errorf("json parser: %w", err)
		}
	}
	return f, nil
}

// stableKeyOrder walks objects in stream order and records each key the
// first time it appears. Within one object Go's map order is random, so
// ties inside a single object are broken by re-scanning the earlier names
// first; in practice NDJSON exports repeat one schema and the first object
// fixes the order.
func stableKeyOrder(objs []map[string]any) []string {
	var names []string
	seen := map[string]bool{}
	for _, obj := range objs {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			if !seen[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			seen[k] = true
			names = append(names, k)
		}
	}
	return names
}

// Parse reads an NDJSON stream into a frame in one call.
func Parse(r io.Reader, opt Options) (*frame.Frame, error) {
	objs, err := DecodeAll(r, opt)
	if err != nil {
		return nil, err
	}
	return ToFrame(objs)
}
