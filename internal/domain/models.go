package domain

import (
	"fmt"
	"sort"
)

type RowType string

const (
	Hitting  RowType = "hitting"
	Pitching RowType = "pitching"
)

func (t RowType) Valid() bool {
	return t == Hitting || t == Pitching
}

func ParseRowType(s string) (RowType, error) {
	t := RowType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown row type %q (want %q or %q)", s, Hitting, Pitching)
	}
	return t, nil
}

// FormulaTable maps a statistic key to its point weight.
type FormulaTable map[string]float64

// Keys returns the table's statistic keys in sorted order.
func (f FormulaTable) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type ScoringSystem struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Hitting  FormulaTable `json:"hitting" yaml:"hitting"`
	Pitching FormulaTable `json:"pitching" yaml:"pitching"`
}

// Table returns the formula table for t, or nil for an unknown row type.
func (s ScoringSystem) Table(t RowType) FormulaTable {
	switch t {
	case Hitting:
		return s.Hitting
	case Pitching:
		return s.Pitching
	}
	return nil
}

type ScoredRow struct {
	Row     StatRow `json:"row"`
	Points  Number  `json:"points"`
	System  string  `json:"system"`
	RowType RowType `json:"row_type"`
}

// Table is a decoded set of rows with the column order of its header.
type Table struct {
	Columns []string  `json:"columns"`
	Rows    []StatRow `json:"rows"`
}

// HasColumn reports whether any row defines key, or the header names it.
func (t Table) HasColumn(key string) bool {
	for _, c := range t.Columns {
		if c == key {
			return true
		}
	}
	for _, r := range t.Rows {
		if r.Has(key) {
			return true
		}
	}
	return false
}
