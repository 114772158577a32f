package service

import (
	"context"
	"fmt"
	"math/rand"
	"ootp-toolkit/internal/constants"
	"ootp-toolkit/internal/dfs"
	"ootp-toolkit/internal/domain"
	"ootp-toolkit/internal/ingest"
	"ootp-toolkit/internal/scoring"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type CreateGameRequest struct {
	SystemID   string           `json:"system"`
	RowType    string           `json:"row_type"`
	Derive     bool             `json:"derive"`
	Rows       []domain.StatRow `json:"rows"`
	CSV        string           `json:"csv,omitempty"`
	RosterSize int              `json:"roster_size"`
	SalaryCap  float64          `json:"salary_cap"`
	Opponents  int              `json:"opponents"`
	Difficulty string           `json:"difficulty"`
}

type GameView struct {
	ID string `json:"id"`
	dfs.Snapshot
}

type StreakPickResult struct {
	Pick  dfs.StreakPick  `json:"pick"`
	State dfs.StreakState `json:"state"`
}

// activeGame guards one game. touched belongs to the registry and is only
// read or written under GameService.mu.
type activeGame struct {
	mu      sync.Mutex
	game    *dfs.Game
	touched time.Time
}

// GameService keeps the in-memory DFS games and the beat-the-streak tracker.
// mu covers only the registry; each game has its own lock, and store calls
// never run under mu.
type GameService struct {
	catalog *scoring.Catalog
	store   dfs.BestScoreStore
	logger  zerolog.Logger

	mu    sync.Mutex
	games map[string]*activeGame

	streakMu sync.Mutex
	streak   *dfs.Streak

	now     func() time.Time
	newRand func() *rand.Rand
}

func NewGameService(catalog *scoring.Catalog, store dfs.BestScoreStore, logger zerolog.Logger) *GameService {
	return &GameService{
		catalog: catalog,
		store:   store,
		logger:  logger,
		games:   make(map[string]*activeGame),
		now:     time.Now,
		newRand: func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
	}
}

// Create validates the request, builds the player pool and registers a new
// game. Rows may come inline or as CSV text; a bad CSV creates nothing.
func (s *GameService) Create(ctx context.Context, req CreateGameRequest) (*GameView, error) {
	cfg, err := s.config(req)
	if err != nil {
		return nil, err
	}

	rows := req.Rows
	if strings.TrimSpace(req.CSV) != "" {
		if len(rows) > 0 {
			return nil, invalid("csv", "send either rows or csv, not both")
		}
		table, err := ingest.Decode(strings.NewReader(req.CSV))
		if err != nil {
			return nil, err
		}
		rows = table.Rows
	}
	if len(rows) == 0 {
		return nil, invalid("rows", "the player pool is empty")
	}
	if len(rows) > constants.MaxCSVRows {
		return nil, invalid("rows", "at most %d rows are accepted", constants.MaxCSVRows)
	}
	if req.Derive {
		rows = scoring.DeriveAll(cfg.RowType, rows)
	}

	game, err := dfs.NewGame(cfg, rows, s.newRand(), s.store)
	if err != nil {
		return nil, invalid("rows", "%v", err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	// snapshot before the game is shared
	view := &GameView{ID: id, Snapshot: game.Snapshot()}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictIdleLocked()
	if len(s.games) >= constants.MaxActiveGames {
		return nil, ErrTooManyGames
	}
	s.games[id] = &activeGame{game: game, touched: s.now()}

	s.logger.Info().
		Str("game_id", id).
		Str("system", cfg.System.ID).
		Str("row_type", string(cfg.RowType)).
		Int("pool_size", len(rows)).
		Str("difficulty", string(cfg.Difficulty)).
		Msg("game created")
	return view, nil
}

func (s *GameService) config(req CreateGameRequest) (dfs.Config, error) {
	rowType, err := domain.ParseRowType(req.RowType)
	if err != nil {
		return dfs.Config{}, invalid("row_type", "%v", err)
	}
	system, err := s.catalog.Get(req.SystemID)
	if err != nil {
		return dfs.Config{}, err
	}
	difficulty, err := dfs.ParseDifficulty(req.Difficulty)
	if err != nil {
		return dfs.Config{}, invalid("difficulty", "%v", err)
	}
	if req.RosterSize < 0 || req.RosterSize > constants.MaxRosterSize {
		return dfs.Config{}, invalid("roster_size", "must be between 1 and %d", constants.MaxRosterSize)
	}
	if req.Opponents < 0 || req.Opponents > constants.MaxOpponents {
		return dfs.Config{}, invalid("opponents", "must be between 1 and %d", constants.MaxOpponents)
	}
	if req.SalaryCap < 0 {
		return dfs.Config{}, invalid("salary_cap", "cannot be negative")
	}

	return dfs.Config{
		System:     system,
		RowType:    rowType,
		RosterSize: req.RosterSize,
		SalaryCap:  req.SalaryCap,
		Opponents:  req.Opponents,
		Difficulty: difficulty,
	}, nil
}

// Get returns the game with its pool filtered by position.
func (s *GameService) Get(id, position string) (*GameView, error) {
	ag, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ag.mu.Lock()
	defer ag.mu.Unlock()

	g := ag.game
	view := &GameView{ID: id, Snapshot: g.Snapshot()}
	if position != "" {
		view.Pool = g.Pool(position)
	}
	return view, nil
}

func (s *GameService) Pick(ctx context.Context, id string, index int) (*GameView, error) {
	return s.edit(ctx, id, "pick", index, (*dfs.Game).Pick)
}

func (s *GameService) Drop(ctx context.Context, id string, index int) (*GameView, error) {
	return s.edit(ctx, id, "drop", index, (*dfs.Game).Drop)
}

func (s *GameService) edit(ctx context.Context, id, op string, index int, fn func(*dfs.Game, int) error) (*GameView, error) {
	ag, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ag.mu.Lock()
	defer ag.mu.Unlock()

	g := ag.game
	if err := fn(g, index); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("game_id", id).Str("op", op).Int("index", index).Msg("roster edit rejected")
		return nil, err
	}
	return &GameView{ID: id, Snapshot: g.Snapshot()}, nil
}

// Lock settles the game. Locking again returns the first result. Only this
// game waits on the best-score store.
func (s *GameService) Lock(ctx context.Context, id string) (*dfs.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	ag, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ag.mu.Lock()
	defer ag.mu.Unlock()

	g := ag.game
	wasLocked := g.Locked()
	res, err := g.Lock(ctx)
	if err != nil {
		return nil, err
	}

	if !wasLocked {
		s.logger.Info().
			Str("game_id", id).
			Float64("points", float64(res.User.Points)).
			Str("winner", res.Winner).
			Int("place", res.Place).
			Bool("new_best", res.NewBest).
			Msg("game locked")
	}
	return &res, nil
}

// lookup finds a game and marks it used. The caller locks the returned
// game before touching it.
func (s *GameService) lookup(id string) (*activeGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ag, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	ag.touched = s.now()
	return ag, nil
}

func (s *GameService) evictIdleLocked() {
	cutoff := s.now().Add(-constants.GameIdleTTL)
	for id, ag := range s.games {
		if ag.touched.Before(cutoff) {
			delete(s.games, id)
			s.logger.Debug().Str("game_id", id).Msg("idle game evicted")
		}
	}
}

// Streak returns the tracker state, loading the best streak on first use.
func (s *GameService) Streak(ctx context.Context) (dfs.StreakState, error) {
	s.streakMu.Lock()
	defer s.streakMu.Unlock()

	st, err := s.streakLocked(ctx)
	if err != nil {
		return dfs.StreakState{}, err
	}
	return st.State(), nil
}

func (s *GameService) StreakPick(ctx context.Context, row domain.StatRow) (*StreakPickResult, error) {
	s.streakMu.Lock()
	defer s.streakMu.Unlock()

	st, err := s.streakLocked(ctx)
	if err != nil {
		return nil, err
	}
	pick, err := st.Pick(ctx, row)
	if err != nil {
		return nil, err
	}
	return &StreakPickResult{Pick: pick, State: st.State()}, nil
}

func (s *GameService) streakLocked(ctx context.Context) (*dfs.Streak, error) {
	if s.streak != nil {
		return s.streak, nil
	}
	st, err := dfs.NewStreak(ctx, s.store)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to start streak tracker")
		return nil, err
	}
	s.streak = st
	return st, nil
}
