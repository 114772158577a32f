package dfs

import "context"

// Keys under which the games keep their best results.
const (
	BestScoreKey  = "ootp-dfs-best-score"
	StreakBestKey = "ootp-bts-best-streak"
)

// BestScoreStore persists a single best value per key. Load reports ok=false
// when nothing has been saved yet.
type BestScoreStore interface {
	Load(ctx context.Context, key string) (score float64, ok bool, err error)
	Save(ctx context.Context, key string, score float64) error
}
