package repository

import (
	"context"
	"errors"
	"fmt"
	"ootp-toolkit/internal/constants"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisBestScoreStore keeps each best score as a plain string value under
// constants.RedisBestScorePrefix. Keys never expire.
type RedisBestScoreStore struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisBestScoreStore(client *redis.Client, logger zerolog.Logger) *RedisBestScoreStore {
	return &RedisBestScoreStore{
		client: client,
		logger: logger,
	}
}

func (r *RedisBestScoreStore) redisKey(key string) string {
	return constants.RedisBestScorePrefix + key
}

func (r *RedisBestScoreStore) Load(ctx context.Context, key string) (float64, bool, error) {
	val, err := r.client.Get(ctx, r.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to load best score from redis")
		return 0, false, fmt.Errorf("failed to load best score %s: %w", key, err)
	}

	score, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse best score %s: %w", key, err)
	}
	return score, true, nil
}

func (r *RedisBestScoreStore) Save(ctx context.Context, key string, score float64) error {
	val := strconv.FormatFloat(score, 'g', -1, 64)
	if err := r.client.Set(ctx, r.redisKey(key), val, 0).Err(); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to save best score to redis")
		return fmt.Errorf("failed to save best score %s: %w", key, err)
	}
	return nil
}
