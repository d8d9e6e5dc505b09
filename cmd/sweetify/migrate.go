package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sweetify/sweets-api/internal/infrastructure/config"
	"github.com/sweetify/sweets-api/internal/infrastructure/db/mongo"
	"github.com/sweetify/sweets-api/internal/infrastructure/db/postgres"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the schema for the configured store",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		up := len(args) == 0 || args[0] == "up"
		cfg, log, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		return migrate(cmd.Context(), cfg, log, up)
	},
}

func migrate(ctx context.Context, cfg *config.Config, log zerolog.Logger, up bool) error {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		run := postgres.MigrateUp
		if !up {
			run = postgres.MigrateDown
		}
		if err := run(cfg.Postgres.URL); err != nil {
			return err
		}

	case config.DriverMongo:
		if !up {
			return fmt.Errorf("migrate down is not supported for the %s driver", cfg.StoreDriver)
		}
		store, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: config.ConnectTimeout})
		if err != nil {
			return err
		}
		defer store.Close(context.Background())
		if err := mongo.EnsureIndexes(ctx, store.DB); err != nil {
			return err
		}

	default:
		log.Info().Str("driver", cfg.StoreDriver).Msg("nothing to migrate")
		return nil
	}

	log.Info().Str("driver", cfg.StoreDriver).Bool("up", up).Msg("migration complete")
	return nil
}
