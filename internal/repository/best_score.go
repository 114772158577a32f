package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SQLiteBestScoreStore keeps best scores in the best_scores table.
type SQLiteBestScoreStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLiteBestScoreStore(sqlDB *sql.DB, logger zerolog.Logger) *SQLiteBestScoreStore {
	return &SQLiteBestScoreStore{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *SQLiteBestScoreStore) Load(ctx context.Context, key string) (float64, bool, error) {
	var score float64
	err := r.db.QueryRowContext(ctx, `SELECT score FROM best_scores WHERE key = ?`, key).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug().Str("key", key).Msg("no best score recorded")
		return 0, false, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to load best score")
		return 0, false, fmt.Errorf("failed to load best score %s: %w", key, err)
	}
	return score, true, nil
}

func (r *SQLiteBestScoreStore) Save(ctx context.Context, key string, score float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO best_scores (key, score, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at`,
		key, score, time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to save best score")
		return fmt.Errorf("failed to save best score %s: %w", key, err)
	}

	r.logger.Debug().Str("key", key).Float64("score", score).Msg("best score saved")
	return nil
}
