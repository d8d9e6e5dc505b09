package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/sweetify/sweets-api/internal/api/handler"
	"github.com/sweetify/sweets-api/internal/core/ports"
	"github.com/sweetify/sweets-api/internal/infrastructure/config"
	"github.com/sweetify/sweets-api/internal/infrastructure/db/memory"
	"github.com/sweetify/sweets-api/internal/infrastructure/db/mongo"
	"github.com/sweetify/sweets-api/internal/infrastructure/db/postgres"
	"github.com/sweetify/sweets-api/pkg/logger"
)

// boot loads .env (when present) and the environment, then initialises the logger.
func boot(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	return cfg, log, nil
}

// stores holds the repositories for the configured driver and what it takes
// to check on and release them.
type stores struct {
	users   ports.UserRepository
	sweets  ports.SweetRepository
	checks  map[string]handler.Check
	closers []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	s := &stores{checks: map[string]handler.Check{}}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, Timeout: config.ConnectTimeout})
		if err != nil {
			return nil, err
		}
		s.users = postgres.NewUserRepository(pool)
		s.sweets = postgres.NewSweetRepository(pool)
		s.checks["postgres"] = pool.Ping
		s.closers = append(s.closers, pool.Close)

	case config.DriverMongo:
		store, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: config.ConnectTimeout})
		if err != nil {
			return nil, err
		}
		s.users = mongo.NewUserRepository(store.DB)
		s.sweets = mongo.NewSweetRepository(store.DB)
		s.checks["mongo"] = store.Ping
		s.closers = append(s.closers, func() {
			if err := store.Close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		})

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		s.users = memory.NewUserRepository()
		s.sweets = memory.NewSweetRepository()

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")
	return s, nil
}
