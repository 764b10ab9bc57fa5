package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"scrub/internal/config"
	"scrub/internal/frame"
	"scrub/internal/metrics"
	"scrub/internal/pipeline"
	"scrub/internal/standardize"
	"scrub/internal/storage"
	"scrub/internal/tabio"
)

// run executes one full pipeline pass: extract, profile, clean and
// standardize, load, and emit the report on stdout. When paramsPath is
// non-empty the fitted scaling/encoding parameters are written there.
func run(ctx context.Context, p config.Pipeline, paramsPath string) error {
	opts, err := pipeline.OptionsFromConfig(p)
	if err != nil {
		return fmt.Errorf("resolve options: %w", err)
	}

	f, err := extract(ctx, p)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	metrics.RecordRows(opts.Job, "extracted", int64(f.Rows()))

	profiles, err := frame.ProfileAll(ctx, f)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	for _, pr := range profiles {
		log.Printf("profile: column=%q kind=%s nulls=%d null_fraction=%.2f",
			pr.Name, pr.KindName, pr.Nulls, pr.NullFraction)
	}

	runner := pipeline.NewRunner(opts, standardize.NewRegistry())
	rep, err := runner.Run(ctx, f)
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	metrics.RecordRows(opts.Job, "duplicates_removed", int64(rep.DuplicatesRemoved))
	metrics.RecordRows(opts.Job, "missing_handled", int64(rep.MissingHandled))
	metrics.RecordRows(opts.Job, "outliers_detected", int64(rep.OutliersDetected))

	loaded, err := load(ctx, p, f)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	metrics.RecordRows(opts.Job, "loaded", loaded)

	if paramsPath != "" {
		if err := runner.Standardizer().Registry().Save(paramsPath); err != nil {
			return fmt.Errorf("save params: %w", err)
		}
		log.Printf("params: wrote fitted parameters to %s", paramsPath)
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// extract reads the source into a frame, from a file or a database table.
func extract(ctx context.Context, p config.Pipeline) (*frame.Frame, error) {
	switch p.Source.Kind {
	case "file":
		return tabio.Load(ctx, p.Source.File.Path, p.Parser)
	case "table":
		repo, err := storage.New(ctx, storageConfig(p.Source.DB))
		if err != nil {
			return nil, err
		}
		defer repo.Close()
		names, rows, err := repo.Query(ctx)
		if err != nil {
			return nil, err
		}
		return storage.FrameFromRows(names, rows)
	default:
		return nil, fmt.Errorf("unsupported source.kind=%q", p.Source.Kind)
	}
}

// load writes the cleaned frame to the sink and returns the row count.
func load(ctx context.Context, p config.Pipeline, f *frame.Frame) (int64, error) {
	switch p.Sink.Kind {
	case "file":
		if err := tabio.Save(ctx, f, p.Sink.File.Path); err != nil {
			return 0, err
		}
		return int64(f.Rows()), nil
	case "table":
		repo, err := storage.New(ctx, storageConfig(p.Sink.DB))
		if err != nil {
			return 0, err
		}
		defer repo.Close()
		if p.Sink.DB.AutoCreateTable {
			defs := storage.ColumnDefsFromFrame(f)
			if err := storage.EnsureTable(ctx, p.Sink.DB.Kind, repo, p.Sink.DB.Table, defs); err != nil {
				return 0, fmt.Errorf("ensure table: %w", err)
			}
		}
		return storage.LoadFrame(ctx, repo, f, p.Sink.DB.BatchSize)
	default:
		return 0, fmt.Errorf("unsupported sink.kind=%q", p.Sink.Kind)
	}
}

func storageConfig(db config.DBConfig) storage.Config {
	return storage.Config{
		Kind:    db.Kind,
		DSN:     db.DSN,
		Table:   db.Table,
		Columns: db.Columns,
	}
}
