package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBSchema    string
	DBMaxConns  int32
	DBMinConns  int32

	// If true, /readyz returns 503 unless the database is configured and reachable.
	ReadinessRequireDB bool

	// Token signing configuration. The secret is process-wide; rotating it
	// invalidates every outstanding token.
	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	// Security policy:
	// If true, AUREUM_JWT_SECRET MUST be set (>= 32 bytes); no dev fallback.
	RequireJWTSecret bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("AUREUM_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("AUREUM_LOG_LEVEL", "info"),
		LogFormat: EnvString("AUREUM_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("AUREUM_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("AUREUM_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("AUREUM_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("AUREUM_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("AUREUM_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("AUREUM_DATABASE_URL", ""),
		DBSchema:    EnvString("AUREUM_DB_SCHEMA", "aureum"),
		DBMaxConns:  EnvInt32("AUREUM_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("AUREUM_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("AUREUM_READINESS_REQUIRE_DB", false),

		JWTSecret: EnvString("AUREUM_JWT_SECRET", ""),
		JWTIssuer: EnvString("AUREUM_JWT_ISSUER", "aureum-user-service"),
		JWTTTL:    EnvDuration("AUREUM_JWT_TTL", 24*time.Hour),

		RequireJWTSecret: EnvBool("AUREUM_REQUIRE_JWT_SECRET", false),
	}
}
