package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sweetify/sweets-api/internal/api"
	"github.com/sweetify/sweets-api/internal/core/ports"
	"github.com/sweetify/sweets-api/internal/core/service"
	"github.com/sweetify/sweets-api/internal/infrastructure/config"
	"github.com/sweetify/sweets-api/internal/infrastructure/db/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	serveMigrate bool
	serveSeed    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply schema migrations before serving")
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "seed the admin account and sample catalog before serving")
}

func serve(ctx context.Context) error {
	cfg, log, err := boot(ctx)
	if err != nil {
		return err
	}
	if cfg.UsesInsecureSecret() {
		log.Warn().Msg("JWT_SECRET is not set; tokens are signed with an insecure default")
	}
	ttl, err := service.ParseLifetime(cfg.JWTExpiresIn)
	if err != nil {
		return err
	}

	if serveMigrate {
		if err := migrate(ctx, cfg, log, true); err != nil {
			return err
		}
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	// the in-memory store starts empty on every boot
	if serveSeed || cfg.StoreDriver == config.DriverMemory {
		if err := runSeed(ctx, cfg, st, hasher, log); err != nil {
			return err
		}
	}

	keys, err := idempotencyStore(ctx, cfg, st, log)
	if err != nil {
		return err
	}

	tokens := service.NewTokenService(cfg.SigningSecret(), ttl)
	e := api.NewRouter(api.Dependencies{
		Auth:   service.NewAuthService(st.users, hasher, tokens, log),
		Sweets: service.NewSweetService(st.sweets, keys, log),
		Tokens: tokens,
		Users:  st.users,
		Checks: st.checks,
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// idempotencyStore connects Redis when REDIS_ADDR is set. Without it purchases
// simply ignore the Idempotency-Key header.
func idempotencyStore(ctx context.Context, cfg *config.Config, st *stores, log zerolog.Logger) (ports.IdempotencyStore, error) {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set; purchase idempotency keys disabled")
		return nil, nil
	}
	client, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  config.ConnectTimeout,
	})
	if err != nil {
		return nil, err
	}
	st.checks["redis"] = func(ctx context.Context) error { return redis.Ping(ctx, client) }
	st.closers = append(st.closers, func() { _ = client.Close() })
	return redis.NewIdempotencyKeys(client), nil
}
