// Package ingest decodes OOTP CSV exports into stat rows.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"ootp-toolkit/internal/constants"
	"ootp-toolkit/internal/domain"
	"strings"
)

var ErrEmpty = errors.New("csv has no header row")

// Error reports a problem with one line of the input. When Decode returns an
// Error no rows are returned.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("csv line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("csv: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Decode reads a CSV document whose first line names the columns. Cells that
// parse as numbers become stats, other non-empty cells become labels, and
// empty cells are left absent.
func Decode(r io.Reader) (domain.Table, error) {
	return DecodeLimit(r, constants.MaxCSVRows)
}

// DecodeLimit is Decode with an explicit row limit; maxRows <= 0 means no
// limit.
func DecodeLimit(r io.Reader, maxRows int) (domain.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, &Error{Err: ErrEmpty}
	}
	if err != nil {
		return domain.Table{}, wrapCSVError(err)
	}

	columns, err := normalizeHeader(header)
	if err != nil {
		return domain.Table{}, &Error{Line: 1, Err: err}
	}

	var rows []domain.StatRow
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, wrapCSVError(err)
		}
		if maxRows > 0 && len(rows) >= maxRows {
			line, _ := cr.FieldPos(0)
			return domain.Table{}, &Error{Line: line, Err: fmt.Errorf("more than %d rows", maxRows)}
		}
		rows = append(rows, decodeRecord(columns, record))
	}

	return domain.Table{Columns: columns, Rows: rows}, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(b []byte) (domain.Table, error) {
	return Decode(bytes.NewReader(b))
}

func normalizeHeader(header []string) ([]string, error) {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("column %d has an empty name", i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		seen[h] = true
		columns[i] = h
	}
	return columns, nil
}

func decodeRecord(columns, record []string) domain.StatRow {
	stats := make(map[string]float64, len(columns))
	labels := make(map[string]string)
	for i, col := range columns {
		cell := strings.TrimSpace(record[i])
		if cell == "" {
			continue
		}
		if v, ok := parseCell(cell); ok {
			stats[col] = v
			continue
		}
		labels[col] = cell
	}
	return domain.NewStatRow(stats, labels)
}

// parseCell accepts plain decimals plus the ".275" and "45%" forms OOTP
// writes for rate stats. Percentages keep their displayed value.
func parseCell(cell string) (float64, bool) {
	cell = strings.TrimSuffix(cell, "%")
	cell = strings.ReplaceAll(cell, ",", "")
	return domain.ParseNumber(cell)
}

func wrapCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &Error{Line: pe.Line, Err: pe.Err}
	}
	return &Error{Err: err}
}
