package export

import (
	"bytes"
	"math"
	"ootp-toolkit/internal/domain"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func scored(name, pos string, stats map[string]float64, points float64) domain.ScoredRow {
	return domain.ScoredRow{
		Row:     domain.NewStatRow(stats, map[string]string{domain.LabelName: name, domain.LabelPosition: pos}),
		Points:  domain.Number(points),
		System:  "draftkings",
		RowType: domain.Hitting,
	}
}

func readSheet(t *testing.T, b []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != RankingSheet {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows(RankingSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	return rows
}

func TestRankingXLSX_DefaultColumns(t *testing.T) {
	ranked := []domain.ScoredRow{
		scored("Ortiz", "SS", map[string]float64{"HR": 31, "BB": 60}, 878),
		scored("Smith", "1B", map[string]float64{"HR": 22}, math.Inf(1)),
	}

	b, err := RankingXLSX(ranked, nil)
	if err != nil {
		t.Fatalf("RankingXLSX: %v", err)
	}
	rows := readSheet(t, b)

	want := [][]string{
		{"Rank", "Name", "POS", "BB", "HR", "Points"},
		{"1", "Ortiz", "SS", "60", "31", "878"},
		{"2", "Smith", "1B", "", "22", "Infinity"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %q\nwant %q", rows, want)
	}
}

func TestRankingXLSX_ExplicitColumns(t *testing.T) {
	ranked := []domain.ScoredRow{scored("Ortiz", "SS", map[string]float64{"HR": 31, "BB": 60}, math.NaN())}

	b, err := RankingXLSX(ranked, []string{"HR", "Name"})
	if err != nil {
		t.Fatal(err)
	}
	rows := readSheet(t, b)

	want := [][]string{
		{"Rank", "HR", "Name", "Points"},
		{"1", "31", "Ortiz", "NaN"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %q\nwant %q", rows, want)
	}
}

func TestRankingXLSX_Empty(t *testing.T) {
	b, err := RankingXLSX(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rows := readSheet(t, b); len(rows) != 1 || !reflect.DeepEqual(rows[0], []string{"Rank", "Points"}) {
		t.Errorf("rows = %q", rows)
	}
}
