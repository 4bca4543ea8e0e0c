package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies the goose migrations at the root of migrations and logs
// the resulting schema version. Version rows live in table, or in goose's
// default table when table is empty.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	sqlDB := stdlib.OpenDBFromPool(pool) // shares the pool; not closed here

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: log.With(slog.String("component", "migrations"))})
	if table != "" {
		goose.SetTableName(table)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrMigrate, err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return errors.Join(ErrMigrate, err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return errors.Join(ErrMigrate, err)
	}
	log.InfoContext(ctx, "database schema up to date", slog.Int64("version", version))
	return nil
}

// gooseLogger routes goose output to slog. Fatalf does not exit; goose
// also returns the error to the caller.
type gooseLogger struct {
	log *slog.Logger
}

func (g gooseLogger) Printf(format string, args ...any) {
	g.log.Debug(fmt.Sprintf(format, args...))
}

func (g gooseLogger) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}
