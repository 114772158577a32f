package service

import (
	"context"
	"ootp-toolkit/internal/textparse"

	"github.com/rs/zerolog"
)

type PlayerSummaryResult struct {
	Summary  textparse.PlayerSummary `json:"summary"`
	Markdown string                  `json:"markdown"`
}

type TeamSummaryResult struct {
	Summary  textparse.TeamSummary `json:"summary"`
	Markdown string                `json:"markdown"`
}

// SummaryService turns pasted player and team pages into summaries. It
// holds no state.
type SummaryService struct{}

func NewSummaryService() *SummaryService {
	return &SummaryService{}
}

func (s *SummaryService) Player(ctx context.Context, text string) PlayerSummaryResult {
	summary := textparse.ParsePlayer(text)
	zerolog.Ctx(ctx).Debug().
		Str("name", summary.Name).
		Int("advanced", len(summary.AdvancedStats)).
		Int("batting", len(summary.BattingStats)).
		Int("pitching", len(summary.PitchingStats)).
		Int("ratings", len(summary.Ratings)).
		Msg("player summary parsed")
	return PlayerSummaryResult{Summary: summary, Markdown: textparse.RenderMarkdown(summary)}
}

func (s *SummaryService) Team(ctx context.Context, text string) TeamSummaryResult {
	summary := textparse.ParseTeam(text)
	zerolog.Ctx(ctx).Debug().
		Str("name", summary.Name).
		Int("performers", len(summary.TopPerformers)).
		Msg("team summary parsed")
	return TeamSummaryResult{Summary: summary, Markdown: textparse.RenderTeamMarkdown(summary)}
}
