// Package scoring turns raw box-score rows into fantasy point totals.
package scoring

import (
	"math"
	"ootp-toolkit/internal/domain"
	"sort"
)

// Score folds the system's formula table for rowType over row. Keys the row
// does not define contribute nothing; stats the table does not name are
// ignored.
func Score(system domain.ScoringSystem, rowType domain.RowType, row domain.StatRow) float64 {
	total := 0.0
	for key, weight := range system.Table(rowType) {
		v, ok := row.Stat(key)
		if !ok {
			continue
		}
		total += v * weight
	}
	return total
}

// Breakdown returns each table entry's contribution to the total, for the
// keys the row defines.
func Breakdown(system domain.ScoringSystem, rowType domain.RowType, row domain.StatRow) map[string]float64 {
	out := make(map[string]float64)
	for key, weight := range system.Table(rowType) {
		if v, ok := row.Stat(key); ok {
			out[key] = v * weight
		}
	}
	return out
}

// Rank scores every row and orders them by points, highest first. Equal
// totals keep their input order. NaN totals go last.
func Rank(system domain.ScoringSystem, rowType domain.RowType, rows []domain.StatRow) []domain.ScoredRow {
	scored := make([]domain.ScoredRow, len(rows))
	for i, r := range rows {
		scored[i] = domain.ScoredRow{
			Row:     r,
			Points:  domain.Number(Score(system, rowType, r)),
			System:  system.ID,
			RowType: rowType,
		}
	}
	SortScored(scored)
	return scored
}

// SortScored stable-sorts rows by points descending.
func SortScored(rows []domain.ScoredRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := float64(rows[i].Points), float64(rows[j].Points)
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})
}

// Total sums the points of a set of scored rows.
func Total(rows []domain.ScoredRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += float64(r.Points)
	}
	return total
}
