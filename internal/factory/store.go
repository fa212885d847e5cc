package factory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/snowman-se/bad-memo-app/internal/config"
	storepkg "github.com/snowman-se/bad-memo-app/internal/store"
	storepg "github.com/snowman-se/bad-memo-app/internal/store/postgres"
	storesqlite "github.com/snowman-se/bad-memo-app/internal/store/sqlite"
)

// NewStore opens the database selected by cfg.DBDriver, ensures the schema
// and returns the store together with the underlying handle for shutdown.
// Schema setup is bounded by cfg.StartupTimeoutSeconds.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, *sql.DB, error) {
	timeout := time.Duration(cfg.StartupTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	setupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		db  *sql.DB
		st  storepkg.Store
		err error
	)
	switch cfg.DBDriver {
	case config.DriverSQLite:
		if cfg.SQLitePath == config.MemoryDSN {
			db, err = storesqlite.OpenMemory()
		} else {
			db, err = storesqlite.Open(cfg.SQLitePath)
		}
		if err != nil {
			return nil, nil, err
		}
		st, err = storesqlite.New(setupCtx, db)
	case config.DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("%s_POSTGRES_DSN is required when DB_DRIVER=postgres", config.EnvPrefix)
		}
		// Open connection synchronously since health checks need it immediately.
		// The database may still be starting; retry until the setup window closes.
		db, err = openWithRetry(setupCtx, log, func() (*sql.DB, error) { return storepg.Open(cfg.PostgresDSN) })
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		st, err = storepg.NewWithDB(setupCtx, db)
	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("%s store setup: %w", cfg.DBDriver, err)
	}

	log.Debug().Str("driver", cfg.DBDriver).Msg("store ready")
	return st, db, nil
}

// openWithRetry calls open with exponential backoff until it succeeds or ctx
// is done.
func openWithRetry(ctx context.Context, log zerolog.Logger, open func() (*sql.DB, error)) (*sql.DB, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 250 * time.Millisecond
	exp.MaxInterval = 5 * time.Second
	exp.MaxElapsedTime = 0 // bounded by ctx
	exp.Reset()

	var db *sql.DB
	err := backoff.RetryNotify(func() error {
		var err error
		db, err = open()
		return err
	}, backoff.WithContext(exp, ctx), func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("database not reachable yet")
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
