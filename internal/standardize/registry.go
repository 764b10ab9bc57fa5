// Package standardize implements numeric rescaling, categorical encoding,
// and datetime reformatting, with reversible fit parameters held in an
// explicit registry owned by the caller (no global mutable state).
package standardize

import (
	"encoding/json"
	"fmt"
	"os"
)

// ColumnParams are the fitted per-column scaling parameters. Only the
// fields relevant to the fitted method are populated.
type ColumnParams struct {
	Min    float64 `json:"min,omitempty"`
	Max    float64 `json:"max,omitempty"`
	Mean   float64 `json:"mean,omitempty"`
	Std    float64 `json:"std,omitempty"`
	Median float64 `json:"median,omitempty"`
	IQR    float64 `json:"iqr,omitempty"`
}

// ScaleFit captures one fit-transform over a column set.
type ScaleFit struct {
	Method  string                  `json:"method"`
	Lo      float64                 `json:"lo"` // target range, min-max only
	Hi      float64                 `json:"hi"`
	Columns []string                `json:"columns"`
	Params  map[string]ColumnParams `json:"params"`
}

// LabelFit is the category-to-integer mapping for one label-encoded column.
// The code of a category is its index; order is first-seen, so the mapping
// is only stable across runs with identical input order.
type LabelFit struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
}

// Registry holds the fitted parameters of a Standardizer instance for the
// lifetime of that instance. It must be explicitly persisted to survive a
// process restart; the blob format is internal.
type Registry struct {
	Scales   map[string]ScaleFit `json:"scales"`   // keyed by method name
	Encoders map[string]LabelFit `json:"encoders"` // keyed by column name
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Scales: map[string]ScaleFit{}, Encoders: map[string]LabelFit{}}
}

// Save serializes the registry to path.
func (r *Registry) Save(path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("registry: marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("registry: write %s: %w", path, err)
	}
	return nil
}

// LoadRegistry reads a registry blob written by Save.
func LoadRegistry(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	r := NewRegistry()
	if err := json.Unmarshal(b, r); err != nil {
		return nil, fmt.Errorf("registry: decode %s: %w", path, err)
	}
	if r.Scales == nil {
		r.Scales = map[string]ScaleFit{}
	}
	if r.Encoders == nil {
		r.Encoders = map[string]LabelFit{}
	}
	return r, nil
}
