package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Common label columns found in OOTP exports.
const (
	LabelName     = "Name"
	LabelPosition = "POS"
	LabelTeam     = "Team"
)

// StatRow is one player's statistics. A key that is absent is different from
// a key present with value 0. Rows are never mutated once built; With and
// WithLabel return copies.
type StatRow struct {
	stats  map[string]float64
	labels map[string]string
}

// NewStatRow copies stats and labels into a new row. Nil maps are allowed.
func NewStatRow(stats map[string]float64, labels map[string]string) StatRow {
	r := StatRow{
		stats:  make(map[string]float64, len(stats)),
		labels: make(map[string]string, len(labels)),
	}
	for k, v := range stats {
		r.stats[k] = v
	}
	for k, v := range labels {
		r.labels[k] = v
	}
	return r
}

func (r StatRow) Stat(key string) (float64, bool) {
	v, ok := r.stats[key]
	return v, ok
}

// StatOr returns the stat for key or fallback when the row does not define it.
func (r StatRow) StatOr(key string, fallback float64) float64 {
	if v, ok := r.stats[key]; ok {
		return v
	}
	return fallback
}

func (r StatRow) Label(key string) (string, bool) {
	v, ok := r.labels[key]
	return v, ok
}

func (r StatRow) Name() string {
	return r.labels[LabelName]
}

func (r StatRow) Position() string {
	return r.labels[LabelPosition]
}

// Has reports whether key is defined either as a stat or as a label.
func (r StatRow) Has(key string) bool {
	if _, ok := r.stats[key]; ok {
		return true
	}
	_, ok := r.labels[key]
	return ok
}

// With returns a copy of the row with key set to v.
func (r StatRow) With(key string, v float64) StatRow {
	out := NewStatRow(r.stats, r.labels)
	delete(out.labels, key)
	out.stats[key] = v
	return out
}

// WithStats returns a copy of the row with every entry of set applied.
func (r StatRow) WithStats(set map[string]float64) StatRow {
	out := NewStatRow(r.stats, r.labels)
	for k, v := range set {
		delete(out.labels, k)
		out.stats[k] = v
	}
	return out
}

func (r StatRow) WithLabel(key, v string) StatRow {
	out := NewStatRow(r.stats, r.labels)
	delete(out.stats, key)
	out.labels[key] = v
	return out
}

// StatKeys returns the stat keys in sorted order.
func (r StatRow) StatKeys() []string {
	keys := make([]string, 0, len(r.stats))
	for k := range r.stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LabelKeys returns the label keys in sorted order.
func (r StatRow) LabelKeys() []string {
	keys := make([]string, 0, len(r.labels))
	for k := range r.labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r StatRow) Len() int {
	return len(r.stats) + len(r.labels)
}

// Equal reports whether both rows define the same keys with the same values.
// NaN stats compare equal to each other.
func (r StatRow) Equal(o StatRow) bool {
	if len(r.stats) != len(o.stats) || len(r.labels) != len(o.labels) {
		return false
	}
	for k, v := range r.stats {
		ov, ok := o.stats[k]
		if !ok {
			return false
		}
		if v != ov && !(math.IsNaN(v) && math.IsNaN(ov)) {
			return false
		}
	}
	for k, v := range r.labels {
		if ov, ok := o.labels[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (r StatRow) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, r.Len())
	for k, v := range r.labels {
		obj[k] = v
	}
	for k, v := range r.stats {
		obj[k] = Number(v)
	}
	return json.Marshal(obj)
}

func (r *StatRow) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	stats := make(map[string]float64, len(raw))
	labels := make(map[string]string)
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) == 0 || bytes.Equal(v, []byte("null")) {
			continue
		}

		var n Number
		if err := json.Unmarshal(v, &n); err == nil {
			stats[k] = float64(n)
			continue
		}

		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("field %q: expected number or string", k)
		}
		labels[k] = s
	}

	*r = StatRow{stats: stats, labels: labels}
	return nil
}

// Number is a float64 that survives JSON round trips when it is not finite.
// Infinities and NaN are written as the strings "Infinity", "-Infinity" and
// "NaN".
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Infinity"`), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = Number(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid number %s", b)
	}
	f, ok := ParseNumber(s)
	if !ok {
		return fmt.Errorf("invalid number %q", s)
	}
	*n = Number(f)
	return nil
}

// ParseNumber parses a decimal number, accepting the non-finite spellings
// produced by Number.MarshalJSON.
func ParseNumber(s string) (float64, bool) {
	switch s {
	case "NaN":
		return math.NaN(), true
	case "Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	case "":
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	// strconv accepts "inf", "nan" and friends; only the spellings above count.
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// FormatNumber renders a value the way the widgets display it.
func FormatNumber(f float64) string {
	b, _ := Number(f).MarshalJSON()
	if len(b) > 0 && b[0] == '"' {
		return string(b[1 : len(b)-1])
	}
	return string(b)
}
