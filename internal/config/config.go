// Package config defines the canonical, JSON-serializable configuration
// model for the cleaning pipeline. It is intentionally small, explicit, and
// dependency-free so that pipelines can be loaded from disk and passed
// through the program without additional glue code; decoding is performed
// by the standard library, with a light Options helper for typed access.
//
// Example (trimmed):
//
//	{
//	  "job":    "demo",
//	  "source": { "kind": "file", "file": { "path": "in.csv" } },
//	  "parser": { "kind": "csv", "options": { "has_header": true } },
//	  "clean":  { "missing_strategy": "auto", "outlier_detection_method": "IQR" },
//	  "sink":   { "kind": "file", "file": { "path": "out.csv" } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job identifies the run for logs and metrics labels.
	Job string `json:"job"`

	Source Source `json:"source"`
	Parser Parser `json:"parser"`

	// Clean configures the cleaning stages; zero value means all defaults.
	Clean Clean `json:"clean"`

	// Standardize configures the optional scaling/encoding stage.
	Standardize Standardize `json:"standardize"`

	Sink Sink `json:"sink"`
}

// Source identifies where the raw dataset comes from.
type Source struct {
	// Kind selects the source implementation: "file" or "table".
	Kind string `json:"kind"`

	File FileRef  `json:"file"`
	DB   DBConfig `json:"db"`
}

// Sink identifies where the cleaned dataset is written.
type Sink struct {
	// Kind selects the sink implementation: "file" or "table".
	Kind string `json:"kind"`

	File FileRef  `json:"file"`
	DB   DBConfig `json:"db"`
}

// FileRef holds configuration for the "file" kind; dispatch is by extension
// (.csv, .ndjson).
type FileRef struct {
	Path string `json:"path"`
}

// DBConfig configures a relational source or sink.
type DBConfig struct {
	// Kind selects the storage backend: "postgres", "sqlite", or "mysql".
	Kind string `json:"kind"`

	// DSN is the connection string for the backend's driver.
	DSN string `json:"dsn"`

	// Table is the (optionally schema-qualified) table name.
	Table string `json:"table"`

	// Columns restricts extraction to the named columns; empty means all.
	Columns []string `json:"columns"`

	// AutoCreateTable creates the destination table from the dataset's
	// inferred column types before loading.
	AutoCreateTable bool `json:"auto_create_table"`

	// BatchSize is the number of rows per bulk insert (default 1000).
	BatchSize int `json:"batch_size"`
}

// Parser selects how to parse a file source into rows/columns.
type Parser struct {
	// Kind selects the parser implementation: "csv" or "ndjson". Empty
	// defaults by file extension.
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser implementation.
	// For CSV, typical keys: has_header (bool), comma (string),
	// trim_space (bool), expected_fields (int), header_map (object).
	Options Options `json:"options"`
}

// Clean enumerates the cleaning knobs. The three booleans default to true
// when absent, matching the original tooling, hence the pointer types.
type Clean struct {
	RemoveDuplicates       *bool   `json:"remove_duplicates"`
	HandleMissingValues    *bool   `json:"handle_missing_values"`
	MissingStrategy        string  `json:"missing_strategy"`         // auto|drop|mean|median|mode
	OutlierDetectionMethod string  `json:"outlier_detection_method"` // IQR|zscore|none
	OutlierThreshold       float64 `json:"outlier_threshold"`
	OutlierAction          string  `json:"outlier_action"` // cap|remove|flag
	StandardizeCategorical *bool   `json:"standardize_categorical"`

	// TokenMap optionally canonicalizes boolean-like tokens after text
	// normalization, e.g. {"yes":"y","true":"y","no":"n"}.
	TokenMap map[string]string `json:"token_map"`
}

// Standardize enumerates the standardization knobs.
type Standardize struct {
	NormalizeNumerical  bool      `json:"normalize_numerical"`
	NormalizationMethod string    `json:"normalization_method"` // minmax|zscore|robust
	FeatureRange        []float64 `json:"feature_range"`        // min-max target, default [0,1]
	EncodeCategorical   bool      `json:"encode_categorical"`
	EncodingMethod      string    `json:"encoding_method"` // label|onehot
	DateFormat          string    `json:"date_format"`     // ISO|US|EU
}

// RemoveDuplicatesEnabled applies the default-true rule.
func (c Clean) RemoveDuplicatesEnabled() bool { return boolOr(c.RemoveDuplicates, true) }

// HandleMissingEnabled applies the default-true rule.
func (c Clean) HandleMissingEnabled() bool { return boolOr(c.HandleMissingValues, true) }

// StandardizeCategoricalEnabled applies the default-true rule.
func (c Clean) StandardizeCategoricalEnabled() bool { return boolOr(c.StandardizeCategorical, true) }

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Load decodes a pipeline file from disk.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var p Pipeline
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return p, nil
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns provided defaults when a key is absent
// or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so this accepts float64 and casts.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def. Useful for
// single-character parser settings such as a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON makes a missing or null "options" object decode to a
// non-nil, empty Options map, removing nil-checks at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
