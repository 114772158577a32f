package textparse

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Display order for each section; fields not listed sort after these.
var (
	advancedOrder = []string{"WAR", "wRC+", "OPS+", "ERA+", "FIP", "BABIP", "wOBA"}
	battingOrder  = []string{"AVG", "OBP", "SLG", "HR", "RBI", "SB"}
	pitchingOrder = []string{"ERA", "WHIP", "W", "L", "SV", "K", "IP"}
	ratingOrder   = []string{"Contact", "Gap", "Power", "Eye", "Avoid K", "Stuff", "Movement", "Control", "Speed", "Defense"}
)

func RenderMarkdown(s PlayerSummary) string {
	var b strings.Builder

	name := s.Name
	if name == "" {
		name = "Unknown Player"
	}
	fmt.Fprintf(&b, "## %s\n", name)

	var meta []string
	if s.Position != "" {
		meta = append(meta, "**Position:** "+s.Position)
	}
	if s.Team != "" {
		meta = append(meta, "**Team:** "+s.Team)
	}
	if s.Age != nil {
		meta = append(meta, "**Age:** "+strconv.Itoa(*s.Age))
	}
	if len(meta) > 0 {
		b.WriteString("\n" + strings.Join(meta, " | ") + "\n")
	}

	writeSection(&b, "Advanced Stats", s.AdvancedStats, advancedOrder)
	writeSection(&b, "Batting", s.BattingStats, battingOrder)
	writeSection(&b, "Pitching", s.PitchingStats, pitchingOrder)
	writeSection(&b, "Ratings", s.Ratings, ratingOrder)

	return b.String()
}

func RenderTeamMarkdown(t TeamSummary) string {
	var b strings.Builder

	name := t.Name
	if name == "" {
		name = "Team Summary"
	}
	fmt.Fprintf(&b, "## %s\n\n", name)

	if t.Wins != nil && t.Losses != nil {
		fmt.Fprintf(&b, "- **Record:** %d-%d", *t.Wins, *t.Losses)
		if pct, ok := t.WinPct(); ok {
			fmt.Fprintf(&b, " (%s)", formatRate(pct))
		}
		b.WriteString("\n")
	}
	if t.RunDifferential != nil {
		fmt.Fprintf(&b, "- **Run Differential:** %+d\n", *t.RunDifferential)
	}
	if t.Payroll != nil {
		fmt.Fprintf(&b, "- **Payroll:** $%s\n", formatMoney(*t.Payroll))
	}

	if len(t.TopPerformers) > 0 {
		performers := make([]Performer, len(t.TopPerformers))
		copy(performers, t.TopPerformers)
		sort.SliceStable(performers, func(i, j int) bool {
			return performers[i].WAR > performers[j].WAR
		})

		b.WriteString("\n### Top Performers\n\n| Player | WAR |\n|---|---|\n")
		for _, p := range performers {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(p.Name), formatValue(p.WAR))
		}
	}

	return b.String()
}

func writeSection(b *strings.Builder, title string, values map[string]float64, order []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n| Stat | Value |\n|---|---|\n", title)
	for _, k := range orderedKeys(values, order) {
		fmt.Fprintf(b, "| %s | %s |\n", escapeCell(k), formatValue(values[k]))
	}
}

func orderedKeys(values map[string]float64, order []string) []string {
	keys := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, k := range order {
		if _, ok := values[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range values {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatRate renders 0.5625 as ".563", the way averages are printed.
func formatRate(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	return strings.TrimPrefix(s, "0")
}

func formatMoney(v float64) string {
	switch {
	case v >= 1_000_000:
		return strconv.FormatFloat(v/1_000_000, 'f', 1, 64) + "M"
	case v >= 1_000:
		return strconv.FormatFloat(v/1_000, 'f', 1, 64) + "K"
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
