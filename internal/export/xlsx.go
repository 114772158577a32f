// Package export writes ranked tables to spreadsheet files.
package export

import (
	"fmt"
	"math"
	"ootp-toolkit/internal/domain"
	"sort"

	"github.com/xuri/excelize/v2"
)

const RankingSheet = "Rankings"

// RankingXLSX writes ranked rows to a workbook with one sheet. The header is
// Rank, the given columns, then Points. With no columns, label columns come
// first (Name, POS, Team, then the rest sorted) followed by every stat
// column sorted.
func RankingXLSX(ranked []domain.ScoredRow, columns []string) ([]byte, error) {
	if len(columns) == 0 {
		columns = defaultColumns(ranked)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", RankingSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, 0, len(columns)+2)
	header = append(header, "Rank")
	for _, c := range columns {
		header = append(header, c)
	}
	header = append(header, "Points")
	if err := f.SetSheetRow(RankingSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(RankingSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, sr := range ranked {
		values := make([]interface{}, 0, len(header))
		values = append(values, i+1)
		for _, c := range columns {
			values = append(values, cellValue(sr.Row, c))
		}
		values = append(values, numberValue(float64(sr.Points)))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(RankingSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(RankingSheet, "A", "A", 6); err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		first, _ := excelize.ColumnNumberToName(2)
		last, _ := excelize.ColumnNumberToName(len(columns) + 1)
		if err := f.SetColWidth(RankingSheet, first, last, 12); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(RankingSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(row domain.StatRow, column string) interface{} {
	if v, ok := row.Label(column); ok {
		return v
	}
	if v, ok := row.Stat(column); ok {
		return numberValue(v)
	}
	return nil
}

// numberValue keeps finite numbers numeric; spreadsheets have no Inf or NaN.
func numberValue(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return domain.FormatNumber(v)
	}
	return v
}

var leadingLabels = []string{domain.LabelName, domain.LabelPosition, domain.LabelTeam}

func defaultColumns(ranked []domain.ScoredRow) []string {
	labels := map[string]bool{}
	stats := map[string]bool{}
	for _, sr := range ranked {
		for _, k := range sr.Row.LabelKeys() {
			labels[k] = true
		}
		for _, k := range sr.Row.StatKeys() {
			stats[k] = true
		}
	}

	var columns []string
	for _, l := range leadingLabels {
		if labels[l] {
			columns = append(columns, l)
			delete(labels, l)
		}
	}
	columns = append(columns, sortedKeys(labels)...)
	for k := range stats {
		if labels[k] {
			delete(stats, k)
		}
	}
	return append(columns, sortedKeys(stats)...)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
