package service

import (
	"context"
	"fmt"
	"io"
	"ootp-toolkit/internal/api"
	"ootp-toolkit/internal/constants"
	"ootp-toolkit/internal/domain"
	"ootp-toolkit/internal/export"
	"ootp-toolkit/internal/formula"
	"ootp-toolkit/internal/ingest"
	"ootp-toolkit/internal/scoring"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type ScoreRequest struct {
	SystemID string           `json:"system"`
	RowType  string           `json:"row_type"`
	Derive   bool             `json:"derive"`
	Rows     []domain.StatRow `json:"rows"`
	Columns  []string         `json:"columns,omitempty"`
}

type ScoreResult struct {
	System  string             `json:"system"`
	RowType domain.RowType     `json:"row_type"`
	Columns []string           `json:"columns,omitempty"`
	Rows    []domain.ScoredRow `json:"rows"`
	Total   domain.Number      `json:"total"`
}

type FetchRequest struct {
	SystemID    string `json:"system"`
	Derive      bool   `json:"derive"`
	HittingURL  string `json:"hitting_url"`
	PitchingURL string `json:"pitching_url"`
}

type FetchResult struct {
	Hitting  *ScoreResult `json:"hitting,omitempty"`
	Pitching *ScoreResult `json:"pitching,omitempty"`
}

type MetricRequest struct {
	Table domain.Table `json:"table"`
	Name  string       `json:"name"`
	Expr  string       `json:"expr"`
}

type ScoringService struct {
	catalog *scoring.Catalog
	csv     *api.CSVClient
	logger  zerolog.Logger
}

func NewScoringService(catalog *scoring.Catalog, csv *api.CSVClient, logger zerolog.Logger) *ScoringService {
	return &ScoringService{catalog: catalog, csv: csv, logger: logger}
}

func (s *ScoringService) Systems() []domain.ScoringSystem {
	return s.catalog.List()
}

// Score ranks rows under the requested system, deriving the secondary stats
// first when asked.
func (s *ScoringService) Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	system, rowType, err := s.resolve(req.SystemID, req.RowType)
	if err != nil {
		return nil, err
	}
	if len(req.Rows) > constants.MaxCSVRows {
		return nil, invalid("rows", "at most %d rows are accepted", constants.MaxCSVRows)
	}

	res := s.rank(system, rowType, req.Derive, req.Rows)
	res.Columns = req.Columns
	zerolog.Ctx(ctx).Debug().
		Str("system", system.ID).
		Str("row_type", string(rowType)).
		Int("row_count", len(req.Rows)).
		Msg("rows scored")
	return res, nil
}

// ScoreCSV decodes a CSV export and ranks it. A malformed file loads no rows.
func (s *ScoringService) ScoreCSV(ctx context.Context, systemID, rowType string, derive bool, r io.Reader) (*ScoreResult, error) {
	system, rt, err := s.resolve(systemID, rowType)
	if err != nil {
		return nil, err
	}

	table, err := ingest.Decode(r)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Msg("csv rejected")
		return nil, err
	}

	res := s.rank(system, rt, derive, table.Rows)
	res.Columns = table.Columns
	return res, nil
}

// Fetch downloads the hitting and pitching tables concurrently and ranks
// each one. Either URL may be empty but not both.
func (s *ScoringService) Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	if strings.TrimSpace(req.HittingURL) == "" && strings.TrimSpace(req.PitchingURL) == "" {
		return nil, invalid("hitting_url", "at least one of hitting_url or pitching_url is required")
	}
	system, err := s.catalog.Get(req.SystemID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	var hitting, pitching domain.Table

	if req.HittingURL != "" {
		g.Go(func() error {
			var err error
			hitting, err = s.csv.Fetch(gCtx, req.HittingURL)
			return err
		})
	}
	if req.PitchingURL != "" {
		g.Go(func() error {
			var err error
			pitching, err = s.csv.Fetch(gCtx, req.PitchingURL)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch csv tables")
		return nil, fmt.Errorf("failed to fetch csv tables: %w", err)
	}

	out := &FetchResult{}
	if req.HittingURL != "" {
		out.Hitting = s.rank(system, domain.Hitting, req.Derive, hitting.Rows)
		out.Hitting.Columns = hitting.Columns
	}
	if req.PitchingURL != "" {
		out.Pitching = s.rank(system, domain.Pitching, req.Derive, pitching.Rows)
		out.Pitching.Columns = pitching.Columns
	}

	s.logger.Info().
		Str("system", system.ID).
		Bool("hitting", out.Hitting != nil).
		Bool("pitching", out.Pitching != nil).
		Msg("csv tables fetched and scored")
	return out, nil
}

// AddMetric appends a computed column. Compile and unknown-column errors come
// back unchanged and leave the table as it was.
func (s *ScoringService) AddMetric(ctx context.Context, req MetricRequest) (domain.Table, error) {
	if len(req.Table.Rows) > constants.MaxCSVRows {
		return domain.Table{}, invalid("table", "at most %d rows are accepted", constants.MaxCSVRows)
	}

	table, err := formula.AddMetric(req.Table, req.Name, req.Expr)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("metric", req.Name).Msg("metric rejected")
		return domain.Table{}, err
	}
	return table, nil
}

// ExportXLSX ranks the rows and writes them to a workbook.
func (s *ScoringService) ExportXLSX(ctx context.Context, req ScoreRequest) ([]byte, error) {
	res, err := s.Score(ctx, req)
	if err != nil {
		return nil, err
	}

	b, err := export.RankingXLSX(res.Rows, req.Columns)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build workbook")
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	return b, nil
}

func (s *ScoringService) resolve(systemID, rowType string) (domain.ScoringSystem, domain.RowType, error) {
	rt, err := domain.ParseRowType(rowType)
	if err != nil {
		return domain.ScoringSystem{}, "", invalid("row_type", "%v", err)
	}
	system, err := s.catalog.Get(systemID)
	if err != nil {
		return domain.ScoringSystem{}, "", err
	}
	return system, rt, nil
}

func (s *ScoringService) rank(system domain.ScoringSystem, rowType domain.RowType, derive bool, rows []domain.StatRow) *ScoreResult {
	if derive {
		rows = scoring.DeriveAll(rowType, rows)
	}
	ranked := scoring.Rank(system, rowType, rows)
	return &ScoreResult{
		System:  system.ID,
		RowType: rowType,
		Rows:    ranked,
		Total:   domain.Number(scoring.Total(ranked)),
	}
}
