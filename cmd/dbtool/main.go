package main

import (
	"bouquet-tour-service/internal/adapters/repositories"
	"bouquet-tour-service/internal/config"
	"bouquet-tour-service/internal/platform/db"
	"bouquet-tour-service/internal/platform/logging"
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "Schema and seed management for the tour service database",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cfg.LogLevel, cfg.AppEnv, "dbtool")
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CONFIG_PATH"), "path to a YAML config file")

	root.AddCommand(a.initCmd(), a.seedCmd())
	return root
}

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(func(conn *sql.DB, dialect db.Dialect) error {
				a.logger.Info().Str("dialect", string(dialect)).Msg("initializing database schema")
				if err := repositories.InitSchema(conn, dialect); err != nil {
					return fmt.Errorf("schema initialization failed: %w", err)
				}
				a.logger.Info().Msg("schema ready")
				return nil
			})
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load clients, items and backlog from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = a.cfg.SeedPath
			}
			return a.withDB(func(conn *sql.DB, dialect db.Dialect) error {
				if err := repositories.InitSchema(conn, dialect); err != nil {
					return fmt.Errorf("schema initialization failed: %w", err)
				}
				a.logger.Info().Str("path", path).Msg("seeding database")
				if err := repositories.SeedFromJSON(conn, dialect, path); err != nil {
					return fmt.Errorf("seeding failed: %w", err)
				}
				a.logger.Info().Msg("seeding complete")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "seed file (defaults to SEED_PATH)")
	return cmd
}

func (a *app) withDB(fn func(*sql.DB, db.Dialect) error) error {
	conn, dialect, err := db.Open(a.cfg.DatabaseURL, a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn, dialect)
}
