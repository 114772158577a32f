package dfs

import (
	"context"
	"errors"
	"fmt"
	"ootp-toolkit/internal/domain"
)

// HitsKey is the stat a streak pick is settled on.
const HitsKey = "H"

var ErrNoHits = errors.New("player has no H value")

type StreakPick struct {
	Player string  `json:"player"`
	Hits   float64 `json:"hits"`
	Hit    bool    `json:"hit"`
}

type StreakState struct {
	Current int          `json:"current"`
	Best    int          `json:"best"`
	Picks   []StreakPick `json:"picks"`
}

// Streak is a beat-the-streak tracker. It is not safe for concurrent use.
type Streak struct {
	current int
	best    int
	picks   []StreakPick
	store   BestScoreStore
}

// NewStreak starts a streak at zero with the best streak read from store.
func NewStreak(ctx context.Context, store BestScoreStore) (*Streak, error) {
	best, ok, err := store.Load(ctx, StreakBestKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load best streak: %w", err)
	}

	s := &Streak{store: store}
	if ok && best > 0 {
		s.best = int(best)
	}
	return s, nil
}

// Pick settles a pick on the row's H stat. A hit extends the current streak,
// anything else resets it. The tracker is unchanged if the row has no H or
// a new best cannot be saved.
func (s *Streak) Pick(ctx context.Context, row domain.StatRow) (StreakPick, error) {
	hits, ok := row.Stat(HitsKey)
	if !ok {
		return StreakPick{}, ErrNoHits
	}

	pick := StreakPick{Player: row.Name(), Hits: hits, Hit: hits >= 1}
	current := 0
	if pick.Hit {
		current = s.current + 1
	}
	if current > s.best {
		if err := s.store.Save(ctx, StreakBestKey, float64(current)); err != nil {
			return StreakPick{}, fmt.Errorf("failed to save best streak: %w", err)
		}
		s.best = current
	}

	s.current = current
	s.picks = append(s.picks, pick)
	return pick, nil
}

func (s *Streak) State() StreakState {
	picks := make([]StreakPick, len(s.picks))
	copy(picks, s.picks)
	return StreakState{Current: s.current, Best: s.best, Picks: picks}
}
