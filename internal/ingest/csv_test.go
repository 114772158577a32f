package ingest

import (
	"errors"
	"strings"
	"testing"
)

func TestDecode_AutoTypes(t *testing.T) {
	in := "Name,POS,HR,AVG,OBP,Team\n" +
		"Bo Smith,1B,32,.275,0.350,Lynx\n" +
		"Al Jones,SS,,0.301,.380,\n"

	table, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	wantCols := []string{"Name", "POS", "HR", "AVG", "OBP", "Team"}
	if strings.Join(table.Columns, ",") != strings.Join(wantCols, ",") {
		t.Errorf("columns = %v, want %v", table.Columns, wantCols)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}

	bo := table.Rows[0]
	if bo.Name() != "Bo Smith" || bo.Position() != "1B" {
		t.Errorf("labels = %q/%q", bo.Name(), bo.Position())
	}
	if hr, ok := bo.Stat("HR"); !ok || hr != 32 {
		t.Errorf("HR = %v (present=%v)", hr, ok)
	}
	if avg, _ := bo.Stat("AVG"); avg != 0.275 {
		t.Errorf("AVG = %v, want 0.275", avg)
	}

	al := table.Rows[1]
	if _, ok := al.Stat("HR"); ok {
		t.Error("empty HR cell should be absent, not zero")
	}
	if _, ok := al.Label("Team"); ok {
		t.Error("empty Team cell should be absent")
	}
}

func TestDecode_HeaderCasingPreservedAndTrimmed(t *testing.T) {
	table, err := Decode(strings.NewReader("\ufeff Name , hr ,HR\nA,1,2\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r := table.Rows[0]
	if v, _ := r.Stat("hr"); v != 1 {
		t.Errorf("hr = %v, want 1", v)
	}
	if v, _ := r.Stat("HR"); v != 2 {
		t.Errorf("HR = %v, want 2", v)
	}
	if r.Name() != "A" {
		t.Errorf("Name = %q", r.Name())
	}
}

func TestDecode_SkipsBlankLinesAndHandlesQuotes(t *testing.T) {
	in := "Name,Salary,Pct\n\n\"Smith, John\",\"1,250\",45%\n\n"
	table, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(table.Rows))
	}
	r := table.Rows[0]
	if r.Name() != "Smith, John" {
		t.Errorf("Name = %q", r.Name())
	}
	if v, _ := r.Stat("Salary"); v != 1250 {
		t.Errorf("Salary = %v, want 1250", v)
	}
	if v, _ := r.Stat("Pct"); v != 45 {
		t.Errorf("Pct = %v, want 45", v)
	}
}

func TestDecode_RowErrorLoadsNothing(t *testing.T) {
	in := "Name,HR\nA,1\nB,2,3\nC,4\n"

	table, err := Decode(strings.NewReader(in))

	var ie *Error
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want *ingest.Error", err)
	}
	if ie.Line != 3 {
		t.Errorf("line = %d, want 3", ie.Line)
	}
	if len(table.Rows) != 0 {
		t.Errorf("rows = %d, want none on error", len(table.Rows))
	}
}

func TestDecode_HeaderErrors(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"duplicate":  "Name,HR,HR\nA,1,2\n",
		"blank":      "Name,,HR\nA,1,2\n",
		"bare quote": "Name,HR\nA\"b,1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(in)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDecode_EmptyInputIsErrEmpty(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestDecodeLimit(t *testing.T) {
	in := "Name,HR\nA,1\nB,2\nC,3\n"
	if _, err := DecodeLimit(strings.NewReader(in), 2); err == nil {
		t.Error("expected row limit error")
	}
	table, err := DecodeLimit(strings.NewReader(in), 0)
	if err != nil || len(table.Rows) != 3 {
		t.Errorf("unlimited decode: %d rows, %v", len(table.Rows), err)
	}
}

func TestDecode_HeaderOnly(t *testing.T) {
	table, err := DecodeBytes([]byte("Name,HR\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(table.Rows) != 0 || len(table.Columns) != 2 {
		t.Errorf("table = %+v", table)
	}
}
