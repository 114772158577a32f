// Package textparse pulls player and team numbers out of text pasted from
// OOTP screens and renders them as markdown summaries.
package textparse

import (
	"regexp"
	"strconv"
	"strings"
)

// A trigger fires on a line containing its label and captures the first
// number that follows the label on that line.
type trigger struct {
	field string
	re    *regexp.Regexp
}

const numberPattern = `(-?\d+(?:\.\d+)?|-?\.\d+)`

// gapPattern is what may sit between a label and its value. The value may
// follow the label directly; otherwise the label ends at a character that is
// not a word character, '+' or '/', and anything up to the first number is
// skipped. A '-' or '.' is only skipped when no digit follows it.
const gapPattern = `(?:[^\w+/](?:[^\d\-.]|[\-.]+[^\d\-.])*?)??`

// statTrigger builds a case-sensitive trigger for a stat abbreviation. The
// label must not be glued to other word characters, '+' or '/', so "ERA"
// does not fire on "ERA+", "K" does not fire on "K/9" and "WAR" does not
// fire on "SWARM".
func statTrigger(field, label string) trigger {
	pattern := `(?:^|[^\w+/])` + regexp.QuoteMeta(label) + gapPattern + numberPattern
	return trigger{field: field, re: regexp.MustCompile(pattern)}
}

// ratingTrigger matches a rating name case-insensitively.
func ratingTrigger(field, label string) trigger {
	pattern := `(?i)(?:^|\W)` + strings.ReplaceAll(regexp.QuoteMeta(label), " ", `\s+`) + gapPattern + numberPattern
	return trigger{field: field, re: regexp.MustCompile(pattern)}
}

var (
	advancedTriggers = []trigger{
		statTrigger("WAR", "WAR"),
		statTrigger("wRC+", "wRC+"),
		statTrigger("OPS+", "OPS+"),
		statTrigger("ERA+", "ERA+"),
		statTrigger("FIP", "FIP"),
		statTrigger("BABIP", "BABIP"),
		statTrigger("wOBA", "wOBA"),
	}
	battingTriggers = []trigger{
		statTrigger("AVG", "AVG"),
		statTrigger("OBP", "OBP"),
		statTrigger("SLG", "SLG"),
		statTrigger("HR", "HR"),
		statTrigger("RBI", "RBI"),
		statTrigger("SB", "SB"),
	}
	pitchingTriggers = []trigger{
		statTrigger("ERA", "ERA"),
		statTrigger("WHIP", "WHIP"),
		statTrigger("W", "W"),
		statTrigger("L", "L"),
		statTrigger("SV", "SV"),
		statTrigger("K", "K"),
		statTrigger("K", "SO"),
		statTrigger("IP", "IP"),
	}
	ratingTriggers = []trigger{
		ratingTrigger("Contact", "Contact"),
		ratingTrigger("Gap", "Gap"),
		ratingTrigger("Power", "Power"),
		ratingTrigger("Eye", "Eye"),
		ratingTrigger("Avoid K", "Avoid K"),
		ratingTrigger("Stuff", "Stuff"),
		ratingTrigger("Movement", "Movement"),
		ratingTrigger("Control", "Control"),
		ratingTrigger("Speed", "Speed"),
		ratingTrigger("Defense", "Defense"),
	}

	nameRe     = regexp.MustCompile(`(?i)^\s*name\s*:\s*(.+?)\s*$`)
	positionRe = regexp.MustCompile(`(?i)^\s*(?:position|pos)\s*:\s*(.+?)\s*$`)
	teamRe     = regexp.MustCompile(`(?i)^\s*team\s*:\s*(.+?)\s*$`)
	ageRe      = regexp.MustCompile(`(?i)(?:^|\W)age\s*:?\s*(\d+)`)

	// Rating names that contain a stat abbreviation are masked before the
	// stat triggers run.
	ratingMaskRe = regexp.MustCompile(`(?i)avoid\s+k\b`)

	// slashLineRe matches a run of slash-joined labels followed by the same
	// shape of numbers, as in "AVG/OBP/SLG .285/.350/.480".
	slashLineRe = regexp.MustCompile(
		`(?:^|[^\w+/])([A-Za-z][A-Za-z+]*(?:/[A-Za-z][A-Za-z+]*)+)\s*[:=|]?\s*` +
			`((?:-?\d+(?:\.\d+)?|-?\.\d+)(?:/(?:-?\d+(?:\.\d+)?|-?\.\d+))+)`)
)

type PlayerSummary struct {
	Name          string             `json:"name,omitempty"`
	Position      string             `json:"position,omitempty"`
	Team          string             `json:"team,omitempty"`
	Age           *int               `json:"age,omitempty"`
	AdvancedStats map[string]float64 `json:"advanced_stats"`
	BattingStats  map[string]float64 `json:"batting_stats"`
	PitchingStats map[string]float64 `json:"pitching_stats"`
	Ratings       map[string]float64 `json:"ratings"`
}

// ParsePlayer scans text line by line. For every field the first line that
// yields a value wins; later matches never overwrite it. A line carrying a
// trigger but no number leaves the field unset.
func ParsePlayer(text string) PlayerSummary {
	s := PlayerSummary{
		AdvancedStats: map[string]float64{},
		BattingStats:  map[string]float64{},
		PitchingStats: map[string]float64{},
		Ratings:       map[string]float64{},
	}

	var firstLine string
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if firstLine == "" {
			firstLine = strings.TrimSpace(line)
		}

		if s.Name == "" {
			s.Name = matchText(nameRe, line)
		}
		if s.Position == "" {
			s.Position = matchText(positionRe, line)
		}
		if s.Team == "" {
			s.Team = matchText(teamRe, line)
		}
		if s.Age == nil {
			if m := ageRe.FindStringSubmatch(line); m != nil {
				if age, err := strconv.Atoi(m[1]); err == nil {
					s.Age = &age
				}
			}
		}

		statLine := ratingMaskRe.ReplaceAllString(line, " ")
		s.applySlashLine(statLine)
		applyTriggers(s.AdvancedStats, advancedTriggers, statLine)
		applyTriggers(s.BattingStats, battingTriggers, statLine)
		applyTriggers(s.PitchingStats, pitchingTriggers, statLine)
		applyTriggers(s.Ratings, ratingTriggers, line)
	}

	if s.Name == "" && firstLine != "" && !containsDigit(firstLine) && !strings.Contains(firstLine, ":") {
		s.Name = firstLine
	}
	return s
}

func applyTriggers(dst map[string]float64, triggers []trigger, line string) {
	for _, t := range triggers {
		if _, done := dst[t.field]; done {
			continue
		}
		m := t.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		dst[t.field] = v
	}
}

// applySlashLine pairs each label of a slash line with the number in the same
// position. Labels no trigger knows are ignored, as is a line whose label and
// value counts differ.
func (s *PlayerSummary) applySlashLine(line string) {
	m := slashLineRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	labels := strings.Split(m[1], "/")
	values := strings.Split(m[2], "/")
	if len(labels) != len(values) {
		return
	}
	for i, label := range labels {
		dst := s.statsFor(label)
		if dst == nil {
			continue
		}
		if _, done := dst[label]; done {
			continue
		}
		if v, err := strconv.ParseFloat(values[i], 64); err == nil {
			dst[label] = v
		}
	}
}

func (s *PlayerSummary) statsFor(field string) map[string]float64 {
	groups := []struct {
		triggers []trigger
		dst      map[string]float64
	}{
		{advancedTriggers, s.AdvancedStats},
		{battingTriggers, s.BattingStats},
		{pitchingTriggers, s.PitchingStats},
	}
	for _, g := range groups {
		for _, t := range g.triggers {
			if t.field == field {
				return g.dst
			}
		}
	}
	return nil
}

func matchText(re *regexp.Regexp, line string) string {
	if m := re.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
