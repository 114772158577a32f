// Package dfs holds the state of the daily-fantasy mini-games: a player pool,
// a roster the user builds under a size limit and optional salary cap, and a
// one-way lock that generates AI opponents and settles the contest.
package dfs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"ootp-toolkit/internal/constants"
	"ootp-toolkit/internal/domain"
	"ootp-toolkit/internal/scoring"
	"sort"
	"strings"
)

var (
	ErrLocked        = errors.New("game is locked")
	ErrRosterFull    = errors.New("roster is full")
	ErrAlreadyPicked = errors.New("player already on roster")
	ErrNotPicked     = errors.New("player not on roster")
	ErrOutOfRange    = errors.New("player index out of range")
	ErrSalaryCap     = errors.New("pick would exceed the salary cap")
	ErrEmptyRoster   = errors.New("roster is empty")
	ErrEmptyPool     = errors.New("player pool is empty")
)

// SalaryKey is the stat column read when a salary cap is set.
const SalaryKey = "Salary"

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// samples is how many random rosters an AI opponent draws before keeping the
// best one.
func (d Difficulty) samples() int {
	switch d {
	case Easy:
		return 1
	case Hard:
		return 8
	}
	return 3
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Medium, nil
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

type Config struct {
	System     domain.ScoringSystem
	RowType    domain.RowType
	RosterSize int
	SalaryCap  float64
	Opponents  int
	Difficulty Difficulty
}

type Entry struct {
	Index  int              `json:"index"`
	Player domain.ScoredRow `json:"player"`
}

type Team struct {
	Name    string             `json:"name"`
	Players []domain.ScoredRow `json:"players"`
	Points  domain.Number      `json:"points"`
	Salary  float64            `json:"salary"`
}

type Result struct {
	User      Team          `json:"user"`
	Opponents []Team        `json:"opponents"`
	Winner    string        `json:"winner"`
	Place     int           `json:"place"`
	BestScore domain.Number `json:"best_score"`
	NewBest   bool          `json:"new_best"`
}

// Game is not safe for concurrent use.
type Game struct {
	cfg      Config
	pool     []domain.ScoredRow
	selected []int
	locked   bool
	result   *Result
	rng      *rand.Rand
	store    BestScoreStore
}

// NewGame scores rows under cfg and builds an unlocked game with an empty
// roster. Zero-valued config fields get defaults.
func NewGame(cfg Config, rows []domain.StatRow, rng *rand.Rand, store BestScoreStore) (*Game, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyPool
	}
	if !cfg.RowType.Valid() {
		return nil, fmt.Errorf("unknown row type %q", cfg.RowType)
	}
	if cfg.RosterSize <= 0 {
		cfg.RosterSize = constants.DefaultRosterSize
	}
	if cfg.Opponents <= 0 {
		cfg.Opponents = constants.DefaultOpponents
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = Medium
	}
	if cfg.SalaryCap < 0 {
		return nil, errors.New("salary cap cannot be negative")
	}

	return &Game{
		cfg:   cfg,
		pool:  scoring.Rank(cfg.System, cfg.RowType, rows),
		rng:   rng,
		store: store,
	}, nil
}

func (g *Game) Config() Config {
	return g.cfg
}

func (g *Game) Locked() bool {
	return g.locked
}

// Pool lists the pool in ranked order. A non-empty position keeps only
// players whose POS label lists it; "1B/OF" matches both 1B and OF.
func (g *Game) Pool(position string) []Entry {
	position = strings.TrimSpace(position)
	out := make([]Entry, 0, len(g.pool))
	for i, p := range g.pool {
		if position != "" && !playsPosition(p.Row.Position(), position) {
			continue
		}
		out = append(out, Entry{Index: i, Player: p})
	}
	return out
}

func playsPosition(label, want string) bool {
	for _, pos := range strings.FieldsFunc(label, func(r rune) bool { return r == '/' || r == ',' || r == ' ' }) {
		if strings.EqualFold(pos, want) {
			return true
		}
	}
	return false
}

func (g *Game) Roster() []Entry {
	out := make([]Entry, len(g.selected))
	for i, idx := range g.selected {
		out[i] = Entry{Index: idx, Player: g.pool[idx]}
	}
	return out
}

// SalaryUsed sums the Salary stat over the roster. Players without a salary
// cost nothing.
func (g *Game) SalaryUsed() float64 {
	return g.salaryOf(g.selected)
}

func (g *Game) salaryOf(indices []int) float64 {
	total := 0.0
	for _, idx := range indices {
		total += g.pool[idx].Row.StatOr(SalaryKey, 0)
	}
	return total
}

func (g *Game) Pick(index int) error {
	if g.locked {
		return ErrLocked
	}
	if index < 0 || index >= len(g.pool) {
		return ErrOutOfRange
	}
	for _, idx := range g.selected {
		if idx == index {
			return ErrAlreadyPicked
		}
	}
	if len(g.selected) >= g.cfg.RosterSize {
		return ErrRosterFull
	}
	if g.cfg.SalaryCap > 0 {
		salary := g.pool[index].Row.StatOr(SalaryKey, 0)
		if g.SalaryUsed()+salary > g.cfg.SalaryCap {
			return ErrSalaryCap
		}
	}

	g.selected = append(g.selected, index)
	return nil
}

func (g *Game) Drop(index int) error {
	if g.locked {
		return ErrLocked
	}
	for i, idx := range g.selected {
		if idx == index {
			g.selected = append(g.selected[:i:i], g.selected[i+1:]...)
			return nil
		}
	}
	return ErrNotPicked
}

// Lock settles the game. The first call builds the AI teams, compares them
// with the user's roster and records a new best score when it is beaten.
// Nothing changes if reading or writing the best score fails. Once locked,
// further calls return the same result.
func (g *Game) Lock(ctx context.Context) (Result, error) {
	if g.locked {
		return g.result.clone(), nil
	}
	if len(g.selected) == 0 {
		return Result{}, ErrEmptyRoster
	}

	best, hasBest, err := g.store.Load(ctx, BestScoreKey)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load best score: %w", err)
	}

	user := g.team("You", g.selected)
	opponents := make([]Team, g.cfg.Opponents)
	for i := range opponents {
		opponents[i] = g.aiTeam(fmt.Sprintf("AI Team %d", i+1))
	}

	result := Result{User: user, Opponents: opponents}
	result.Winner, result.Place = standings(user, opponents)

	points := float64(user.Points)
	result.BestScore = domain.Number(best)
	if !hasBest {
		result.BestScore = domain.Number(math.NaN())
	}
	if isFinite(points) && (!hasBest || points > best) {
		if err := g.store.Save(ctx, BestScoreKey, points); err != nil {
			return Result{}, fmt.Errorf("failed to save best score: %w", err)
		}
		result.BestScore = domain.Number(points)
		result.NewBest = true
	}

	g.locked = true
	g.result = &result
	return result.clone(), nil
}

// Result returns a copy of the settled result, or false while the game is
// unlocked.
func (g *Game) Result() (Result, bool) {
	if g.result == nil {
		return Result{}, false
	}
	return g.result.clone(), true
}

func (r *Result) clone() Result {
	out := *r
	out.User = r.User.clone()
	out.Opponents = make([]Team, len(r.Opponents))
	for i, o := range r.Opponents {
		out.Opponents[i] = o.clone()
	}
	return out
}

func (t Team) clone() Team {
	t.Players = append([]domain.ScoredRow(nil), t.Players...)
	return t
}

func (g *Game) team(name string, indices []int) Team {
	players := make([]domain.ScoredRow, len(indices))
	for i, idx := range indices {
		players[i] = g.pool[idx]
	}
	return Team{
		Name:    name,
		Players: players,
		Points:  domain.Number(scoring.Total(players)),
		Salary:  g.salaryOf(indices),
	}
}

// aiTeam draws random rosters from the pool and keeps the highest scoring
// one. Harder opponents draw more rosters.
func (g *Game) aiTeam(name string) Team {
	var best Team
	for s := 0; s < g.cfg.Difficulty.samples(); s++ {
		t := g.team(name, g.sampleRoster())
		if s == 0 || float64(t.Points) > float64(best.Points) {
			best = t
		}
	}
	return best
}

// sampleRoster shuffles the pool and takes players in that order, skipping
// any that would break the salary cap, until the roster is full.
func (g *Game) sampleRoster() []int {
	size := g.cfg.RosterSize
	if size > len(g.pool) {
		size = len(g.pool)
	}

	picked := make([]int, 0, size)
	salary := 0.0
	for _, idx := range g.rng.Perm(len(g.pool)) {
		if len(picked) == size {
			break
		}
		s := g.pool[idx].Row.StatOr(SalaryKey, 0)
		if g.cfg.SalaryCap > 0 && salary+s > g.cfg.SalaryCap {
			continue
		}
		picked = append(picked, idx)
		salary += s
	}
	sort.Ints(picked)
	return picked
}

// standings returns the winning team's name and the user's place. The user
// wins ties.
func standings(user Team, opponents []Team) (string, int) {
	winner := user.Name
	top := float64(user.Points)
	place := 1
	for _, o := range opponents {
		p := float64(o.Points)
		if p > float64(user.Points) || (math.IsNaN(float64(user.Points)) && !math.IsNaN(p)) {
			place++
		}
		if p > top || (math.IsNaN(top) && !math.IsNaN(p)) {
			top = p
			winner = o.Name
		}
	}
	return winner, place
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

type Snapshot struct {
	SystemID   string         `json:"system_id"`
	RowType    domain.RowType `json:"row_type"`
	RosterSize int            `json:"roster_size"`
	SalaryCap  float64        `json:"salary_cap"`
	SalaryUsed float64        `json:"salary_used"`
	Opponents  int            `json:"opponents"`
	Difficulty Difficulty     `json:"difficulty"`
	Pool       []Entry        `json:"pool"`
	Roster     []Entry        `json:"roster"`
	Locked     bool           `json:"locked"`
	Result     *Result        `json:"result,omitempty"`
}

// Snapshot returns a copy of the game state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		SystemID:   g.cfg.System.ID,
		RowType:    g.cfg.RowType,
		RosterSize: g.cfg.RosterSize,
		SalaryCap:  g.cfg.SalaryCap,
		SalaryUsed: g.SalaryUsed(),
		Opponents:  g.cfg.Opponents,
		Difficulty: g.cfg.Difficulty,
		Pool:       g.Pool(""),
		Roster:     g.Roster(),
		Locked:     g.locked,
	}
	if r, ok := g.Result(); ok {
		s.Result = &r
	}
	return s
}
