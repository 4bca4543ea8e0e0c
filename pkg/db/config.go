package db

import "time"

// Config holds PostgreSQL connection parameters.
// An empty URL disables upload history and the job queue.
type Config struct {
	URL             string        `env:"DATABASE_URL"`
	MigrationsTable string        `env:"DATABASE_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
	MaxConns        int32         `env:"DATABASE_MAX_CONNS" envDefault:"8"`
	MinConns        int32         `env:"DATABASE_MIN_CONNS" envDefault:"1"`
	MaxConnIdleTime time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`
	RetryAttempts   int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"2s"`
}

// Enabled reports whether a database is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}
