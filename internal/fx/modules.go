package fx

import (
	"context"
	"ootp-toolkit/internal/api"
	"ootp-toolkit/internal/config"
	"ootp-toolkit/internal/database"
	"ootp-toolkit/internal/dfs"
	"ootp-toolkit/internal/logger"
	"ootp-toolkit/internal/repository"
	"ootp-toolkit/internal/scoring"
	"ootp-toolkit/internal/server"
	"ootp-toolkit/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ProvideCatalog loads the built-in scoring systems plus any from
// SCORING_SYSTEMS_PATH.
func ProvideCatalog(cfg *config.Config, logger zerolog.Logger) (*scoring.Catalog, error) {
	catalog, err := scoring.LoadCatalog(cfg.SystemsPath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.SystemsPath).Msg("failed to load scoring systems")
		return nil, err
	}
	logger.Info().Int("systems", len(catalog.List())).Msg("scoring systems loaded")
	return catalog, nil
}

// ProvideBestScoreStore opens the backend chosen by BEST_SCORE_BACKEND and
// closes it when the app stops.
func ProvideBestScoreStore(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (dfs.BestScoreStore, error) {
	switch cfg.BestScoreBackend {
	case config.BackendMemory:
		logger.Warn().Msg("best scores are kept in memory and lost on restart")
		return repository.NewMemoryBestScoreStore(), nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					logger.Error().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
					return err
				}
				logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		return repository.NewRedisBestScoreStore(client, logger), nil
	}

	db, err := database.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
	return repository.NewSQLiteBestScoreStore(db, logger), nil
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(ProvideCatalog),
	fx.Provide(ProvideBestScoreStore),
	// api client
	fx.Provide(api.NewCSVClient),
	// svc
	fx.Provide(service.NewScoringService),
	fx.Provide(service.NewGameService),
	fx.Provide(service.NewSummaryService),
	// server
	fx.Provide(server.NewServer),
)
