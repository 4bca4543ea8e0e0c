// Package db connects to PostgreSQL through pgx and applies goose
// migrations.
//
// The database is optional for the service: it stores the upload history and
// backs the River job queue. [Config.Enabled] reports whether DATABASE_URL
// is set.
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, uploads.Migrations, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
// [Healthcheck] and [Shutdown] plug into the readiness check and the
// server's shutdown hooks. [WithTx] wraps a function in a transaction.
package db
