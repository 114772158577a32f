package textparse

import (
	"strings"
	"testing"
)

func TestParsePlayer_WARLine(t *testing.T) {
	s := ParsePlayer("WAR   4.2")
	if v, ok := s.AdvancedStats["WAR"]; !ok || v != 4.2 {
		t.Errorf("WAR = %v (set=%v), want 4.2", v, ok)
	}
}

func TestParsePlayer_NumberAnywhereAfterLabel(t *testing.T) {
	tests := []struct {
		line  string
		field string
		want  float64
	}{
		{"WAR (bWAR): 4.2", "WAR", 4.2},
		{"Season WAR - 4.2", "WAR", 4.2},
		{"WAR -1.3", "WAR", -1.3},
		{"WAR: ... 2.0", "WAR", 2.0},
		{"wOBA (park adj) .372", "wOBA", .372},
	}
	for _, tt := range tests {
		s := ParsePlayer(tt.line)
		if v, ok := s.AdvancedStats[tt.field]; !ok || v != tt.want {
			t.Errorf("%q: %s = %v (set=%v), want %v", tt.line, tt.field, v, ok, tt.want)
		}
	}
}

func TestParsePlayer_SlashLine(t *testing.T) {
	s := ParsePlayer("AVG/OBP/SLG .285/.350/.480")

	want := map[string]float64{"AVG": .285, "OBP": .350, "SLG": .480}
	for k, v := range want {
		if got, ok := s.BattingStats[k]; !ok || got != v {
			t.Errorf("batting %s = %v (set=%v), want %v", k, got, ok, v)
		}
	}

	s = ParsePlayer("AVG/OBP/SLG .285/.350")
	if len(s.BattingStats) != 0 {
		t.Errorf("mismatched slash line set %v", s.BattingStats)
	}
}

func TestParsePlayer_TriggerWithoutNumberLeavesFieldUnset(t *testing.T) {
	s := ParsePlayer("WAR\nWAR n/a")
	if _, ok := s.AdvancedStats["WAR"]; ok {
		t.Errorf("WAR set to %v, want unset", s.AdvancedStats["WAR"])
	}
}

func TestParsePlayer_LaterLineCanFillUnsetField(t *testing.T) {
	s := ParsePlayer("WAR -\nsomething\nWAR 3.1")
	if v := s.AdvancedStats["WAR"]; v != 3.1 {
		t.Errorf("WAR = %v, want 3.1", v)
	}
}

func TestParsePlayer_FirstMatchWins(t *testing.T) {
	s := ParsePlayer("WAR 4.2\nWAR 9.9\nHR 30 HR 40")
	if v := s.AdvancedStats["WAR"]; v != 4.2 {
		t.Errorf("WAR = %v, want 4.2", v)
	}
	if v := s.BattingStats["HR"]; v != 30 {
		t.Errorf("HR = %v, want 30", v)
	}
}

func TestParsePlayer_FullCard(t *testing.T) {
	text := strings.Join([]string{
		"Name: Rafael Ortiz",
		"Position: SS",
		"Team: Portland Lynx",
		"Age: 27",
		"AVG .289  OBP .361  SLG .502",
		"HR: 31 | RBI: 98 | SB: 12",
		"WAR 5.7   wRC+ 141   OPS+ 138",
		"BABIP .315 wOBA .372",
		"Contact 65  Gap 55  Power 70  Eye 60  Avoid K 45",
		"Speed: 50 Defense: 65",
	}, "\n")

	s := ParsePlayer(text)

	if s.Name != "Rafael Ortiz" || s.Position != "SS" || s.Team != "Portland Lynx" {
		t.Errorf("header = %q/%q/%q", s.Name, s.Position, s.Team)
	}
	if s.Age == nil || *s.Age != 27 {
		t.Errorf("Age = %v", s.Age)
	}

	wantBatting := map[string]float64{"AVG": .289, "OBP": .361, "SLG": .502, "HR": 31, "RBI": 98, "SB": 12}
	for k, want := range wantBatting {
		if got, ok := s.BattingStats[k]; !ok || got != want {
			t.Errorf("batting %s = %v, want %v", k, got, want)
		}
	}

	wantAdvanced := map[string]float64{"WAR": 5.7, "wRC+": 141, "OPS+": 138, "BABIP": .315, "wOBA": .372}
	for k, want := range wantAdvanced {
		if got, ok := s.AdvancedStats[k]; !ok || got != want {
			t.Errorf("advanced %s = %v, want %v", k, got, want)
		}
	}

	wantRatings := map[string]float64{"Contact": 65, "Gap": 55, "Power": 70, "Eye": 60, "Avoid K": 45, "Speed": 50, "Defense": 65}
	for k, want := range wantRatings {
		if got, ok := s.Ratings[k]; !ok || got != want {
			t.Errorf("rating %s = %v, want %v", k, got, want)
		}
	}

	if _, ok := s.PitchingStats["K"]; ok {
		t.Error("Avoid K rating leaked into pitching K")
	}
}

func TestParsePlayer_WordBoundaries(t *testing.T) {
	s := ParsePlayer("ERA+ 125\nK/9 10.4\nSWARM 3")

	if _, ok := s.PitchingStats["ERA"]; ok {
		t.Error("ERA fired on ERA+")
	}
	if v := s.AdvancedStats["ERA+"]; v != 125 {
		t.Errorf("ERA+ = %v, want 125", v)
	}
	if _, ok := s.PitchingStats["K"]; ok {
		t.Error("K fired on K/9")
	}
	if _, ok := s.AdvancedStats["WAR"]; ok {
		t.Error("WAR fired inside SWARM")
	}
}

func TestParsePlayer_PitcherAndSOFallback(t *testing.T) {
	s := ParsePlayer("Jim Castillo\nERA 2.95 WHIP 1.04\nW 14 L 6 SV 0\nSO 211 IP 190.1\nFIP 3.10")

	if s.Name != "Jim Castillo" {
		t.Errorf("Name = %q, want first line fallback", s.Name)
	}
	want := map[string]float64{"ERA": 2.95, "WHIP": 1.04, "W": 14, "L": 6, "SV": 0, "K": 211, "IP": 190.1}
	for k, v := range want {
		if got, ok := s.PitchingStats[k]; !ok || got != v {
			t.Errorf("pitching %s = %v, want %v", k, got, v)
		}
	}
	if v := s.AdvancedStats["FIP"]; v != 3.10 {
		t.Errorf("FIP = %v", v)
	}
}

func TestParsePlayer_Empty(t *testing.T) {
	s := ParsePlayer("")
	if s.Name != "" || len(s.AdvancedStats) != 0 {
		t.Errorf("summary = %+v", s)
	}
	if !strings.HasPrefix(RenderMarkdown(s), "## Unknown Player") {
		t.Error("empty summary should render a placeholder heading")
	}
}

func TestRenderMarkdown(t *testing.T) {
	age := 30
	md := RenderMarkdown(PlayerSummary{
		Name:          "Bo Smith",
		Position:      "1B",
		Age:           &age,
		AdvancedStats: map[string]float64{"wOBA": .350, "WAR": 3.5},
		BattingStats:  map[string]float64{},
		PitchingStats: map[string]float64{},
		Ratings:       map[string]float64{"Power": 70},
	})

	for _, want := range []string{
		"## Bo Smith\n",
		"**Position:** 1B | **Age:** 30",
		"### Advanced Stats",
		"| WAR | 3.5 |\n| wOBA | 0.35 |",
		"### Ratings",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "### Batting") {
		t.Error("empty sections should be omitted")
	}
}

func TestParseTeam(t *testing.T) {
	text := strings.Join([]string{
		"Team: Portland Lynx",
		"Record: 92-70",
		"Run Differential: +84",
		"Payroll: $142.5M",
		"Top Performers",
		"Rafael Ortiz - WAR 5.7",
		"- Jim Castillo - WAR 6.1",
		"Record: 1-1",
	}, "\n")

	s := ParseTeam(text)

	if s.Name != "Portland Lynx" {
		t.Errorf("Name = %q", s.Name)
	}
	if s.Wins == nil || *s.Wins != 92 || *s.Losses != 70 {
		t.Errorf("record = %v-%v", s.Wins, s.Losses)
	}
	if s.RunDifferential == nil || *s.RunDifferential != 84 {
		t.Errorf("run diff = %v", s.RunDifferential)
	}
	if s.Payroll == nil || *s.Payroll != 142_500_000 {
		t.Errorf("payroll = %v", s.Payroll)
	}
	if len(s.TopPerformers) != 2 || s.TopPerformers[1].Name != "Jim Castillo" {
		t.Errorf("performers = %+v", s.TopPerformers)
	}

	md := RenderTeamMarkdown(s)
	for _, want := range []string{
		"## Portland Lynx",
		"- **Record:** 92-70 (.568)",
		"- **Run Differential:** +84",
		"- **Payroll:** $142.5M",
		"| Jim Castillo | 6.1 |\n| Rafael Ortiz | 5.7 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestTeamSummary_WinPctNoGames(t *testing.T) {
	zero := 0
	if _, ok := (TeamSummary{Wins: &zero, Losses: &zero}).WinPct(); ok {
		t.Error("WinPct with no games should report false")
	}
}
