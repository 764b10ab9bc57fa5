// Generic, batched loader: drains typed rows from a channel and invokes a
// provided bulk-insert function (CopyFn) per batch.
//
// Backends can implement CopyFn using their most efficient primitives
// (Postgres COPY, multi-row INSERT in a transaction, etc).
//
// Logging: on every successful flush, a concise progress line is emitted
// with running totals and instantaneous rows/sec since the previous flush.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"scrub/internal/frame"
)

// DefaultBatchSize is used when the config leaves batch_size at zero.
const DefaultBatchSize = 1000

// CopyFn abstracts a backend's bulk insert capability. Implementations
// should insert the provided rows (aligned to the columns order) and return
// the number of rows reported as inserted, canceling promptly when ctx is
// done.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains rows from in, groups them into batches of batchSize,
// and calls copyFn for each non-empty batch. It returns the total number of
// rows reported by copyFn and the first error encountered.
//
// Cancellation: returns (total, ctx.Err()) when canceled. Progress is
// logged on each successful flush.
func LoadBatches(
	ctx context.Context,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total       int64
		batches     int64
		batch       = make([][]any, 0, batchSize)
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n

		// Reuse allocated slice; keep capacity to avoid churn.
		batch = batch[:0]

		if err != nil {
			log.Printf("loader: copy failed after=%d total=%d err=%v", n, total, err)
			return err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		insertedSinceLast := total - lastTotal
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(insertedSinceLast) / sinceLast.Seconds()
		}
		log.Printf(
			"batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s since_last=%s",
			batches,
			rps,
			n,
			total,
			now.Sub(start).Truncate(time.Millisecond),
			sinceLast.Truncate(time.Millisecond),
		)
		lastFlushTS = now
		lastTotal = total

		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case row, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, err
				}
				log.Printf("loader: input closed, total_inserted=%d", total)
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}

// LoadFrame streams all rows of f through LoadBatches. Frame cells (nil,
// float64, bool, string, time.Time) are values every supported driver can
// encode directly.
func LoadFrame(ctx context.Context, repo Repository, f *frame.Frame, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	in := make(chan []any, batchSize)
	go func() {
		defer close(in)
		for i := 0; i < f.Rows(); i++ {
			select {
			case in <- f.Row(i):
			case <-ctx.Done():
				return
			}
		}
	}()
	return LoadBatches(ctx, f.Names(), in, batchSize, repo.CopyFrom)
}

// FrameFromRows rebuilds a frame from a table read. All columns come back
// as Text; the profiler and type correction recover richer kinds.
func FrameFromRows(names []string, rows [][]any) (*frame.Frame, error) {
	f := frame.New()
	for j, name := range names {
		values := make([]any, len(rows))
		for i, row := range rows {
			if j >= len(row) || row[j] == nil {
				continue
			}
			if b, ok := row[j].([]byte); ok {
				values[i] = string(b)
				continue
			}
			values[i] = frame.CellString(row[j])
		}
		if err := f.AddColumn(frame.NewColumn(name, frame.Text, values)); err != nil {
			return nil, err
		}
	}
	return f, nil
}
