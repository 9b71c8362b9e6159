package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
)

// Outcome is the per-row result recorded in the run log.
type Outcome struct {
	ProductID string
	NewSKU    string
	Status    string // success | error | exception
	HTTPCode  int
	Message   string
}

const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusException = "exception"
)

// ResultLog is an append-only CSV log of per-row outcomes. Every run gets
// its own id so interleaved runs against the same file stay attributable.
type ResultLog struct {
	file  *os.File
	w     *csv.Writer
	runID string
}

// OpenResultLog opens (or creates) the log file for appending. The header
// row is written only when the file is new or empty.
func OpenResultLog(path string) (*ResultLog, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open result log %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat result log %s: %w", path, err)
	}

	log := &ResultLog{
		file:  file,
		w:     csv.NewWriter(file),
		runID: uuid.NewString(),
	}
	if info.Size() == 0 {
		if err := log.w.Write([]string{"run_id", "product_id", "new_sku", "status", "http_code", "message"}); err != nil {
			file.Close()
			return nil, err
		}
	}
	return log, nil
}

// RunID returns the identifier attached to every row of this run.
func (l *ResultLog) RunID() string {
	return l.runID
}

// Record appends one outcome and flushes it immediately, so rows survive an
// externally terminated run.
func (l *ResultLog) Record(o Outcome) error {
	code := ""
	if o.HTTPCode != 0 {
		code = strconv.Itoa(o.HTTPCode)
	}
	if err := l.w.Write([]string{l.runID, o.ProductID, o.NewSKU, o.Status, code, o.Message}); err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}

func (l *ResultLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
