package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx"
	"github.com/pressly/goose/v3"

	"devconnect/internal/config"
	"devconnect/internal/middleware"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// gooseDialects maps configured drivers onto database/sql drivers, goose
// dialects and migration directories.
var gooseDialects = map[string]struct {
	sqlDriver string
	dialect   string
	dir       string
}{
	"postgres": {"pgx", "postgres", "migrations/postgres"},
	"sqlite":   {"sqlite3", "sqlite3", "migrations/sqlite"},
}

// OpenSQL opens a plain database/sql handle for running migrations.
func OpenSQL(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	d, ok := gooseDialects[cfg.DBDriver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
	db, err := sql.Open(d.sqlDriver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.sqlDriver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func prepareGoose(driver string) (string, error) {
	d, ok := gooseDialects[driver]
	if !ok {
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
	sub, err := fs.Sub(migrationFS, d.dir)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(sub)
	if err := goose.SetDialect(d.dialect); err != nil {
		return "", fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return ".", nil
}

// Migrate runs a goose command (up, down, status, version, reset) against db.
func Migrate(ctx context.Context, db *sql.DB, driver, command string) error {
	dir, err := prepareGoose(driver)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		err = goose.UpContext(ctx, db, dir)
	case "down":
		err = goose.DownContext(ctx, db, dir)
	case "reset":
		err = goose.ResetContext(ctx, db, dir)
	case "status":
		err = goose.StatusContext(ctx, db, dir)
	case "version":
		var version int64
		version, err = goose.GetDBVersionContext(ctx, db)
		if err == nil {
			middleware.Logger.InfoContext(ctx, "Database schema version", slog.Int64("version", version))
		}
	default:
		return fmt.Errorf("unknown migration command %q (use up, down, reset, status, version)", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	middleware.Logger.InfoContext(ctx, "Migration command completed", slog.String("command", command), slog.String("driver", driver))
	return nil
}
