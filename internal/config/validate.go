// Static validation / linting for Pipeline values. It performs checks over
// a decoded Pipeline and returns a list of issues (errors and warnings)
// that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced but does not
	// block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "clean.missing_strategy").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements error so an Issue can stand alone where one is expected.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics and logs will use a generic label",
		})
	}
	issues = append(issues, validateEndpoint("source", p.Source.Kind, p.Source.File, p.Source.DB)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateClean(p.Clean)...)
	issues = append(issues, validateStandardize(p.Standardize)...)
	issues = append(issues, validateEndpoint("sink", p.Sink.Kind, p.Sink.File, p.Sink.DB)...)

	return issues
}

// validateEndpoint checks a source or sink block; both share one shape.
func validateEndpoint(path, kind string, file FileRef, db DBConfig) []Issue {
	var issues []Issue

	switch kind {
	case "":
		issues = append(issues, Issue{SeverityError, path + ".kind", "must be \"file\" or \"table\""})
	case "file":
		if strings.TrimSpace(file.Path) == "" {
			issues = append(issues, Issue{SeverityError, path + ".file.path", "file endpoint requires a non-empty path"})
		}
	case "table":
		if strings.TrimSpace(db.DSN) == "" {
			issues = append(issues, Issue{SeverityError, path + ".db.dsn", "table endpoint requires a DSN"})
		}
		if strings.TrimSpace(db.Table) == "" {
			issues = append(issues, Issue{SeverityError, path + ".db.table", "table endpoint requires a table name"})
		}
		if _, ok := knownBackends[db.Kind]; !ok {
			issues = append(issues, Issue{SeverityError, path + ".db.kind",
				fmt.Sprintf("unknown storage kind %q (want postgres, sqlite, or mysql)", db.Kind)})
		}
		if db.BatchSize < 0 {
			issues = append(issues, Issue{SeverityError, path + ".db.batch_size", "batch_size must be >= 0"})
		}
	default:
		issues = append(issues, Issue{SeverityWarning, path + ".kind",
			fmt.Sprintf("unknown kind %q; ensure a matching implementation exists", kind)})
	}

	return issues
}

var knownBackends = map[string]struct{}{
	"postgres": {},
	"sqlite":   {},
	"mysql":    {},
}

func validateParser(p Parser) []Issue {
	var issues []Issue
	switch p.Kind {
	case "", "csv", "ndjson":
	default:
		issues = append(issues, Issue{SeverityWarning, "parser.kind",
			fmt.Sprintf("unknown parser kind %q; ensure a matching implementation exists", p.Kind)})
	}
	if n := p.Options.Int("expected_fields", 0); n < 0 {
		issues = append(issues, Issue{SeverityError, "parser.options.expected_fields", "must be >= 0"})
	}
	return issues
}

// enum membership tables; kept local so the config layer stays free of
// engine imports.
var (
	knownStrategies     = map[string]struct{}{"": {}, "auto": {}, "drop": {}, "mean": {}, "median": {}, "mode": {}}
	knownOutlierMethods = map[string]struct{}{"": {}, "none": {}, "IQR": {}, "iqr": {}, "zscore": {}, "ZSCORE": {}}
	knownOutlierActions = map[string]struct{}{"": {}, "cap": {}, "remove": {}, "flag": {}}
	knownScaleMethods   = map[string]struct{}{"": {}, "minmax": {}, "zscore": {}, "standard": {}, "robust": {}}
	knownEncodeMethods  = map[string]struct{}{"": {}, "label": {}, "onehot": {}}
	knownDateFormats    = map[string]struct{}{"": {}, "ISO": {}, "iso": {}, "US": {}, "us": {}, "EU": {}, "eu": {}}
)

func validateClean(c Clean) []Issue {
	var issues []Issue
	if _, ok := knownStrategies[c.MissingStrategy]; !ok {
		issues = append(issues, Issue{SeverityError, "clean.missing_strategy",
			fmt.Sprintf("unknown strategy %q (want auto, drop, mean, median, or mode)", c.MissingStrategy)})
	}
	if _, ok := knownOutlierMethods[c.OutlierDetectionMethod]; !ok {
		issues = append(issues, Issue{SeverityError, "clean.outlier_detection_method",
			fmt.Sprintf("unknown method %q (want IQR, zscore, or none)", c.OutlierDetectionMethod)})
	}
	if _, ok := knownOutlierActions[c.OutlierAction]; !ok {
		issues = append(issues, Issue{SeverityError, "clean.outlier_action",
			fmt.Sprintf("unknown action %q (want cap, remove, or flag)", c.OutlierAction)})
	}
	if c.OutlierThreshold < 0 {
		issues = append(issues, Issue{SeverityError, "clean.outlier_threshold", "must be >= 0"})
	}
	return issues
}

func validateStandardize(s Standardize) []Issue {
	var issues []Issue
	if _, ok := knownScaleMethods[s.NormalizationMethod]; !ok {
		issues = append(issues, Issue{SeverityError, "standardize.normalization_method",
			fmt.Sprintf("unknown method %q (want minmax, zscore, or robust)", s.NormalizationMethod)})
	}
	if _, ok := knownEncodeMethods[s.EncodingMethod]; !ok {
		issues = append(issues, Issue{SeverityError, "standardize.encoding_method",
			fmt.Sprintf("unknown method %q (want label or onehot)", s.EncodingMethod)})
	}
	if _, ok := knownDateFormats[s.DateFormat]; !ok {
		issues = append(issues, Issue{SeverityError, "standardize.date_format",
			fmt.Sprintf("unknown format %q (want ISO, US, or EU)", s.DateFormat)})
	}
	switch len(s.FeatureRange) {
	case 0:
	case 2:
		if s.FeatureRange[0] >= s.FeatureRange[1] {
			issues = append(issues, Issue{SeverityError, "standardize.feature_range", "range min must be < max"})
		}
	default:
		issues = append(issues, Issue{SeverityError, "standardize.feature_range", "must be [min, max]"})
	}
	return issues
}
