package formula

import (
	"errors"
	"math"
	"ootp-toolkit/internal/domain"
	"strings"
	"testing"
)

func statRow(stats map[string]float64) domain.StatRow {
	return domain.NewStatRow(stats, map[string]string{"Name": "x"})
}

func TestCompile_Eval(t *testing.T) {
	r := statRow(map[string]float64{
		"H": 150, "BB": 60, "PA": 600, "2B": 30, "3B": 5, "K/9": 10.5, "BB/9": 2.5, "wRC+": 130,
	})

	cases := []struct {
		expr string
		want float64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 - 4 - 3", 3},
		{"12 / 4 / 3", 1},
		{"-3 + 5", 2},
		{"--3", 3},
		{"+4", 4},
		{"2 * -3", -6},
		{".5 + 0.25", 0.75},
		{"(H + BB) / PA", 0.35},
		{"2B + 3B", 35},
		{"[K/9] - [BB/9]", 8},
		{"[wRC+] / 100", 1.3},
		{"  H  ", 150},
	}
	for _, c := range cases {
		e, err := Compile(c.expr)
		if err != nil {
			t.Errorf("Compile(%q): %v", c.expr, err)
			continue
		}
		if got := e.Eval(r); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%q = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestCompile_SyntaxErrors(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"1 +",
		"(1 + 2",
		"1 + 2)",
		"H BB",
		"[K/9",
		"[]",
		"1.2.3",
		"H; alert(1)",
		"fetch('x')",
		"H ** 2",
		strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200),
	}
	for _, src := range cases {
		_, err := Compile(src)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("Compile(%q) err = %v, want *SyntaxError", src, err)
		}
	}
}

func TestCompile_Idents(t *testing.T) {
	e, err := Compile("(H + BB + H) / [PA]")
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(e.Idents(), ",")
	if got != "BB,H,PA" {
		t.Errorf("Idents = %s, want BB,H,PA", got)
	}
	if e.String() != "(H + BB + H) / [PA]" {
		t.Errorf("String = %q", e.String())
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	r := statRow(map[string]float64{"K": 5, "IP": 0, "Z": 0})

	e, _ := Compile("K / IP")
	if v := e.Eval(r); !math.IsInf(v, 1) {
		t.Errorf("K / IP = %v, want +Inf", v)
	}
	e, _ = Compile("Z / IP")
	if v := e.Eval(r); !math.IsNaN(v) {
		t.Errorf("Z / IP = %v, want NaN", v)
	}
}

func TestEval_MissingValueIsNaN(t *testing.T) {
	e, _ := Compile("HR + 1")
	if v := e.Eval(statRow(nil)); !math.IsNaN(v) {
		t.Errorf("got %v, want NaN", v)
	}
}

func TestAddMetric(t *testing.T) {
	table := domain.Table{
		Columns: []string{"Name", "H", "AB"},
		Rows: []domain.StatRow{
			domain.NewStatRow(map[string]float64{"H": 30, "AB": 100}, map[string]string{"Name": "a"}),
			domain.NewStatRow(map[string]float64{"H": 10}, map[string]string{"Name": "b"}),
		},
	}

	out, err := AddMetric(table, "AVG", "H / AB")
	if err != nil {
		t.Fatalf("AddMetric: %v", err)
	}

	if got := out.Columns[len(out.Columns)-1]; got != "AVG" {
		t.Errorf("last column = %s, want AVG", got)
	}
	if v, _ := out.Rows[0].Stat("AVG"); v != 0.3 {
		t.Errorf("a AVG = %v, want 0.3", v)
	}
	if v, ok := out.Rows[1].Stat("AVG"); !ok || !math.IsNaN(v) {
		t.Errorf("b AVG = %v, want NaN (AB absent)", v)
	}
	if _, ok := table.Rows[0].Stat("AVG"); ok {
		t.Error("input table mutated")
	}
}

func TestAddMetric_FailureAddsNoColumn(t *testing.T) {
	table := domain.Table{
		Columns: []string{"H"},
		Rows:    []domain.StatRow{statRow(map[string]float64{"H": 1})},
	}

	if _, err := AddMetric(table, "X", "H / PA"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}
	if _, err := AddMetric(table, "X", "H +"); err == nil {
		t.Error("expected syntax error")
	}
	if _, err := AddMetric(table, " ", "H"); err == nil {
		t.Error("expected name error")
	}
	if len(table.Columns) != 1 || table.Rows[0].Has("X") {
		t.Error("failed metric changed the table")
	}
}

func TestAddMetric_ReplacesExistingColumn(t *testing.T) {
	table := domain.Table{
		Columns: []string{"H", "X", "AB"},
		Rows:    []domain.StatRow{statRow(map[string]float64{"H": 2, "X": 9, "AB": 4})},
	}
	out, err := AddMetric(table, "X", "H * 2")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(out.Columns, ",") != "H,AB,X" {
		t.Errorf("columns = %v", out.Columns)
	}
	if v, _ := out.Rows[0].Stat("X"); v != 4 {
		t.Errorf("X = %v, want 4", v)
	}
}
