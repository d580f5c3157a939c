package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/patientdesk/internal/config"
	"github.com/ehr/patientdesk/internal/platform/db"
	"github.com/ehr/patientdesk/internal/platform/sqlitedb"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "patient-server",
		Short: "Patient records API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the patient API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()

			switch cfg.StoreDriver {
			case config.DriverPostgres:
				pool, err := db.NewPool(ctx, cfg.DatabaseURL, poolOptions(cfg))
				if err != nil {
					return err
				}
				defer pool.Close()

				fmt.Printf("Running migrations on %s, schema: %s\n", cfg.DBName, cfg.DBSchema)
				count, err := db.NewMigrator(pool, db.Migrations()).Up(ctx, cfg.DBSchema)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Printf("Applied %d migration(s) successfully.\n", count)

			case config.DriverSQLite:
				sdb, err := sqlitedb.Open(ctx, sqlitedb.FileDSN(sqlitePath(cfg)))
				if err != nil {
					return err
				}
				defer sdb.Close()

				fmt.Printf("Running migrations on %s\n", sqlitePath(cfg))
				if err := sqlitedb.RunMigrations(sdb.Writer); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				v, _, err := sqlitedb.Version(sdb.Writer)
				if err != nil {
					return err
				}
				fmt.Printf("Schema at version %d.\n", v)

			default:
				fmt.Printf("Store driver %q keeps no schema; nothing to migrate.\n", cfg.StoreDriver)
			}
			return nil
		},
	})

	// migrate status
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()

			switch cfg.StoreDriver {
			case config.DriverPostgres:
				pool, err := db.NewPool(ctx, cfg.DatabaseURL, poolOptions(cfg))
				if err != nil {
					return err
				}
				defer pool.Close()

				statuses, err := db.NewMigrator(pool, db.Migrations()).Status(ctx, cfg.DBSchema)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}

				fmt.Printf("Migration status for schema: %s\n", cfg.DBSchema)
				fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
				fmt.Println("---------- ---------------------------------------- ---------- --------------------")
				for _, s := range statuses {
					status := "pending"
					appliedAt := ""
					if s.Applied {
						status = "applied"
						if s.AppliedAt != nil {
							appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
					}
					fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
				}

			case config.DriverSQLite:
				sdb, err := sqlitedb.Open(ctx, sqlitedb.FileDSN(sqlitePath(cfg)))
				if err != nil {
					return err
				}
				defer sdb.Close()

				v, dirty, err := sqlitedb.Version(sdb.Writer)
				if err != nil {
					return err
				}
				fmt.Printf("Migration status for %s: version %d, dirty %t\n", sqlitePath(cfg), v, dirty)

			default:
				fmt.Printf("Store driver %q keeps no schema.\n", cfg.StoreDriver)
			}
			return nil
		},
	})

	return cmd
}

// newLogger writes human-readable lines in development and JSON otherwise.
func newLogger(dev bool, w io.Writer) zerolog.Logger {
	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	// Logger
	logger := newLogger(cfg.IsDev(), os.Stdout)

	// Store
	ctx := context.Background()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer st.Close()
	logger.Info().Str("driver", cfg.StoreDriver).Str("collection", cfg.CollectionName).Msg("store ready")

	e := newServer(cfg, logger, st)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
