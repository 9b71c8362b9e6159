package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RowFunc processes one input row end to end and reports its outcome.
type RowFunc func(ctx context.Context, row Row) Outcome

// Summary counts what happened over a whole run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Driver runs a RowFunc over every row of a table, strictly sequentially,
// pacing rows to respect upstream rate limits. Row failures are logged and
// the run continues; only a canceled context stops it early.
type Driver struct {
	delay  time.Duration
	log    *ResultLog
	logger *logrus.Entry
}

// NewDriver creates a driver with a fixed inter-row delay. The result log
// is optional.
func NewDriver(delay time.Duration, log *ResultLog, logger *logrus.Entry) *Driver {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Driver{delay: delay, log: log, logger: logger}
}

// Run processes the table and returns the run summary.
func (d *Driver) Run(ctx context.Context, table *Table, fn RowFunc) (Summary, error) {
	summary := Summary{Total: len(table.Rows)}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if d.delay > 0 {
		limiter = rate.NewLimiter(rate.Every(d.delay), 1)
	}

	for i, row := range table.Rows {
		if err := limiter.Wait(ctx); err != nil {
			return summary, err
		}

		rowLogger := d.logger.WithFields(logrus.Fields{"row": i + 1, "total": summary.Total})
		outcome := runRow(ctx, fn, row)

		switch outcome.Status {
		case StatusSuccess:
			summary.Succeeded++
			rowLogger.WithField("sku", outcome.NewSKU).Info("row processed")
		default:
			summary.Failed++
			rowLogger.WithFields(logrus.Fields{
				"sku":    outcome.NewSKU,
				"status": outcome.Status,
				"code":   outcome.HTTPCode,
			}).Error(outcome.Message)
		}

		if d.log != nil {
			if err := d.log.Record(outcome); err != nil {
				return summary, fmt.Errorf("write result log: %w", err)
			}
		}
	}
	return summary, nil
}

// runRow is the row error boundary: a panic inside the row function becomes
// a failed row instead of killing the batch.
func runRow(ctx context.Context, fn RowFunc, row Row) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{
				ProductID: row["id_prod_hub"],
				NewSKU:    row["novo_sku"],
				Status:    StatusException,
				Message:   fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return fn(ctx, row)
}
