package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ehr/patientdesk/internal/config"
	"github.com/ehr/patientdesk/internal/domain/patient"
	"github.com/ehr/patientdesk/internal/platform/db"
	"github.com/ehr/patientdesk/internal/platform/sqlitedb"
)

// store bundles the patient repository with the resources backing it.
// pool is only set for the postgres driver.
type store struct {
	driver string
	repo   patient.Repository
	pool   *pgxpool.Pool
	close  func() error
}

func (s *store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func poolOptions(cfg *config.Config) db.PoolOptions {
	return db.PoolOptions{
		Database: cfg.DBName,
		Schema:   cfg.DBSchema,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	}
}

func sqlitePath(cfg *config.Config) string {
	return filepath.Join(cfg.SQLiteDir, cfg.DBName+".db")
}

// openStore connects the configured driver and, when AUTO_MIGRATE is set,
// brings its schema up to date before any request is served.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, poolOptions(cfg))
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			n, err := db.NewMigrator(pool, db.Migrations()).Up(ctx, cfg.DBSchema)
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info().Int("applied", n).Str("schema", cfg.DBSchema).Msg("migrations complete")
		}
		return &store{
			driver: cfg.StoreDriver,
			repo:   patient.NewRepoPG(pool, cfg.CollectionName),
			pool:   pool,
			close:  func() error { pool.Close(); return nil },
		}, nil

	case config.DriverSQLite:
		sdb, err := sqlitedb.Open(ctx, sqlitedb.FileDSN(sqlitePath(cfg)))
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := sqlitedb.RunMigrations(sdb.Writer); err != nil {
				sdb.Close()
				return nil, err
			}
			logger.Info().Str("path", sqlitePath(cfg)).Msg("migrations complete")
		}
		return &store{
			driver: cfg.StoreDriver,
			repo:   patient.NewRepoSQLite(sdb, cfg.CollectionName),
			close:  sdb.Close,
		}, nil

	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store; records are lost on exit")
		return &store{driver: cfg.StoreDriver, repo: patient.NewRepoMemory()}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
