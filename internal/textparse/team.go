package textparse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	teamNameRe  = regexp.MustCompile(`(?i)^\s*team\s*:\s*(.+?)\s*$`)
	recordRe    = regexp.MustCompile(`(?i)record\s*:?\s*(\d+)\s*-\s*(\d+)`)
	runDiffRe   = regexp.MustCompile(`(?i)run\s+differential\s*:?\s*([+-]?\d+)`)
	payrollRe   = regexp.MustCompile(`(?i)payroll\s*:?\s*\$?\s*([\d,]+(?:\.\d+)?)\s*([MK])?`)
	performerRe = regexp.MustCompile(`^\s*[-*]?\s*(.+?)\s+-\s+WAR\s*:?\s*(-?\d+(?:\.\d+)?)\s*$`)
)

type Performer struct {
	Name string  `json:"name"`
	WAR  float64 `json:"war"`
}

type TeamSummary struct {
	Name            string      `json:"name,omitempty"`
	Wins            *int        `json:"wins,omitempty"`
	Losses          *int        `json:"losses,omitempty"`
	RunDifferential *int        `json:"run_differential,omitempty"`
	Payroll         *float64    `json:"payroll,omitempty"`
	TopPerformers   []Performer `json:"top_performers"`
}

// WinPct returns the winning percentage, or false when the record is unknown
// or no games were played.
func (t TeamSummary) WinPct() (float64, bool) {
	if t.Wins == nil || t.Losses == nil || *t.Wins+*t.Losses == 0 {
		return 0, false
	}
	return float64(*t.Wins) / float64(*t.Wins+*t.Losses), true
}

// ParseTeam scans a pasted team page. Header fields keep their first match;
// every "Name - WAR x" line is collected as a performer in input order.
func ParseTeam(text string) TeamSummary {
	s := TeamSummary{TopPerformers: []Performer{}}

	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if s.Name == "" {
			s.Name = matchText(teamNameRe, line)
		}
		if s.Wins == nil {
			if m := recordRe.FindStringSubmatch(line); m != nil {
				w, errW := strconv.Atoi(m[1])
				l, errL := strconv.Atoi(m[2])
				if errW == nil && errL == nil {
					s.Wins, s.Losses = &w, &l
				}
			}
		}
		if s.RunDifferential == nil {
			if m := runDiffRe.FindStringSubmatch(line); m != nil {
				if v, err := strconv.Atoi(strings.TrimPrefix(m[1], "+")); err == nil {
					s.RunDifferential = &v
				}
			}
		}
		if s.Payroll == nil {
			if v, ok := parsePayroll(line); ok {
				s.Payroll = &v
			}
		}
		if m := performerRe.FindStringSubmatch(line); m != nil {
			if war, err := strconv.ParseFloat(m[2], 64); err == nil {
				s.TopPerformers = append(s.TopPerformers, Performer{Name: m[1], WAR: war})
			}
		}
	}

	return s
}

func parsePayroll(line string) (float64, bool) {
	m := payrollRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToUpper(m[2]) {
	case "M":
		v *= 1_000_000
	case "K":
		v *= 1_000
	}
	return v, true
}
