package config

import (
	"fmt"
	"ootp-toolkit/internal/constants"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	ServerPort       string
	DBPath           string
	LogLevel         string
	SystemsPath      string
	BestScoreBackend string
	RedisAddr        string
	CSVMaxBytes      int
	// CSVFetchAllowPrivate lets CSV fetches reach loopback, private and
	// link-local addresses.
	CSVFetchAllowPrivate bool
	AllowedOrigins       []string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "ootp.db"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SystemsPath:      getEnv("SCORING_SYSTEMS_PATH", ""),
		BestScoreBackend: strings.ToLower(getEnv("BEST_SCORE_BACKEND", BackendSQLite)),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	maxBytes, err := strconv.Atoi(getEnv("CSV_MAX_BYTES", strconv.Itoa(constants.DefaultCSVMaxBody)))
	if err != nil || maxBytes <= 0 {
		return nil, fmt.Errorf("CSV_MAX_BYTES must be a positive integer")
	}
	cfg.CSVMaxBytes = maxBytes

	allowPrivate, err := strconv.ParseBool(getEnv("CSV_FETCH_ALLOW_PRIVATE", "false"))
	if err != nil {
		return nil, fmt.Errorf("CSV_FETCH_ALLOW_PRIVATE must be a boolean")
	}
	cfg.CSVFetchAllowPrivate = allowPrivate

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("server_port", cfg.ServerPort).
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Str("systems_path", cfg.SystemsPath).
		Str("best_score_backend", cfg.BestScoreBackend).
		Int("csv_max_bytes", cfg.CSVMaxBytes).
		Bool("csv_fetch_allow_private", cfg.CSVFetchAllowPrivate).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.BestScoreBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("BEST_SCORE_BACKEND must be one of sqlite, redis, memory (got %q)", c.BestScoreBackend)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q", c.ServerPort)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)
