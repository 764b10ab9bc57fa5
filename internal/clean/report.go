// Package clean implements the column-wise cleaning stages of the transform
// engine: duplicate removal, missing-value resolution, outlier handling,
// type correction, and categorical normalization. Each stage mutates a
// frame in place and records what it did in a Report.
package clean

import (
	"fmt"
	"log"
)

// TypeCorrection records one column whose type was corrected in a pass.
type TypeCorrection struct {
	Column string `json:"column"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// Report accumulates the machine-auditable outcome of one pipeline run. It
// is owned by the orchestrator, created fresh per run, and immutable once
// finalized.
type Report struct {
	DuplicatesRemoved int              `json:"duplicates_removed"`
	MissingHandled    int              `json:"missing_values_handled"`
	OutliersDetected  int              `json:"outliers_detected"`
	OutlierMethod     string           `json:"outlier_method,omitempty"`
	OutlierAction     string           `json:"outlier_action,omitempty"`
	TypesCorrected    []TypeCorrection `json:"types_corrected,omitempty"`
	ColumnsDropped    []string         `json:"columns_dropped,omitempty"`
	MissingActions    map[string]string `json:"missing_actions,omitempty"`
	CategoricalCols   []string         `json:"categorical_standardized,omitempty"`
	NormalizedCols    []string         `json:"columns_normalized,omitempty"`
	EncodedCols       []string         `json:"columns_encoded,omitempty"`
	DatesStandardized []string         `json:"dates_standardized,omitempty"`
	Warnings          []string         `json:"warnings,omitempty"`

	finalized bool
}

// NewReport returns an empty, unfinalized report.
func NewReport() *Report {
	return &Report{MissingActions: map[string]string{}}
}

// Warnf records a recovered per-column problem and logs it. Warnings do not
// fail the run. Writing to a finalized report is a programming error and
// panics.
func (r *Report) Warnf(format string, a ...any) {
	if r.finalized {
		panic("clean: Warnf on finalized report")
	}
	msg := fmt.Sprintf(format, a...)
	r.Warnings = append(r.Warnings, msg)
	log.Printf("warn: %s", msg)
}

// Finalize freezes the report. Stages must not be handed a finalized report.
func (r *Report) Finalize() { r.finalized = true }

// Finalized reports whether the run has completed.
func (r *Report) Finalized() bool { return r.finalized }

// Clone returns a deep copy of the report. Mutating the copy's slices and
// map leaves the original untouched.
func (r *Report) Clone() *Report {
	cp := *r
	cp.TypesCorrected = append([]TypeCorrection(nil), r.TypesCorrected...)
	cp.ColumnsDropped = append([]string(nil), r.ColumnsDropped...)
	cp.CategoricalCols = append([]string(nil), r.CategoricalCols...)
	cp.NormalizedCols = append([]string(nil), r.NormalizedCols...)
	cp.EncodedCols = append([]string(nil), r.EncodedCols...)
	cp.DatesStandardized = append([]string(nil), r.DatesStandardized...)
	cp.Warnings = append([]string(nil), r.Warnings...)
	cp.MissingActions = make(map[string]string, len(r.MissingActions))
	for k, v := range r.MissingActions {
		cp.MissingActions[k] = v
	}
	return &cp
}
