package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	MaxCSVRows        = 5000
	DefaultCSVMaxBody = 4 << 20
	MaxJSONBody       = 8 << 20
	MaxTextBody       = 256 << 10
)

const (
	DefaultRosterSize    = 9
	MaxRosterSize        = 26
	DefaultOpponents     = 3
	MaxOpponents         = 11
	MaxActiveGames       = 1000
	GameIdleTTL          = 2 * time.Hour
	RedisBestScorePrefix = "ootp:best:"
)
