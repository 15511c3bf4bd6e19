package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/bnema/ico256/internal/logging"
)

const (
	migrationsDir = "migrations"
	gooseDialect  = "sqlite3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// ErrSchemaTooNew is returned when the history database was migrated by a
// newer ico256 than the running binary.
var ErrSchemaTooNew = errors.New("history database schema is newer than this build")

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

func prepareGoose() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// latestSchema is the version of the newest embedded migration.
func latestSchema() (int64, error) {
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return 0, fmt.Errorf("collect migrations: %w", err)
	}
	last, err := migrations.Last()
	if err != nil {
		return 0, fmt.Errorf("collect migrations: %w", err)
	}
	return last.Version, nil
}

// RunMigrations brings the conversions schema up to the newest embedded
// migration. A database written by a newer build is left untouched.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	log := logging.FromContext(ctx).With().Str("table", "conversions").Logger()

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := prepareGoose(); err != nil {
		return err
	}
	latest, err := latestSchema()
	if err != nil {
		return err
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		// Fresh file: goose creates its version table on Up.
		log.Debug().Err(err).Msg("no schema version recorded yet")
		current = 0
	}
	if current > latest {
		return fmt.Errorf("%w: database at v%d, build knows v%d", ErrSchemaTooNew, current, latest)
	}
	if current == latest {
		log.Debug().Int64("schema", current).Msg("history schema up to date")
		return nil
	}

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("migrate history schema from v%d: %w", current, err)
	}

	log.Info().
		Int64("from_schema", current).
		Int64("to_schema", latest).
		Msg("history schema migrated")
	return nil
}

// SchemaVersion reports the schema version recorded in db and the newest
// version this build embeds.
func SchemaVersion(ctx context.Context, db *sql.DB) (current, latest int64, err error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := prepareGoose(); err != nil {
		return 0, 0, err
	}
	if latest, err = latestSchema(); err != nil {
		return 0, 0, err
	}
	current, err = goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, latest, fmt.Errorf("read history schema version: %w", err)
	}
	return current, latest, nil
}
