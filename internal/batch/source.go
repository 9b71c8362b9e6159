package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one record of the tabular input, keyed by column name. All cell
// values are strings, as delivered by the spreadsheet.
type Row map[string]string

// Table is a fully loaded tabular input file.
type Table struct {
	Headers []string
	Rows    []Row
}

// ReadTable loads an .xlsx/.xls spreadsheet or a CSV file. CSV is parsed
// with a comma first and re-parsed with a semicolon when the comma yields a
// single column, matching how these sheets are exported in practice.
func ReadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return readExcel(path)
	default:
		return readCSV(path)
	}
}

// Require verifies that every named column exists, so a malformed sheet
// aborts the run before any row is processed.
func (t *Table) Require(columns ...string) error {
	present := make(map[string]bool, len(t.Headers))
	for _, h := range t.Headers {
		present[h] = true
	}
	for _, col := range columns {
		if !present[col] {
			return fmt.Errorf("required column missing from input: %s", col)
		}
	}
	return nil
}

// SplitMulti splits a cell that encodes multiple items via comma or slash
// separators. Empty items are dropped.
func SplitMulti(cell string) []string {
	fields := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ',' || r == '/'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func readExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return tableFromRecords(rows)
}

func readCSV(path string) (*Table, error) {
	records, err := parseCSV(path, ',')
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && len(records[0]) == 1 && strings.Contains(records[0][0], ";") {
		records, err = parseCSV(path, ';')
		if err != nil {
			return nil, err
		}
	}
	return tableFromRecords(records)
}

func parseCSV(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}
	return records, nil
}

func tableFromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("input file has no header row")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers}
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		empty := true
		for i, header := range headers {
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[header] = value
			if value != "" {
				empty = false
			}
		}
		if !empty {
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}
