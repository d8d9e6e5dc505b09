package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sweetify/sweets-api/internal/core/ports"
	"github.com/sweetify/sweets-api/internal/core/service"
	"github.com/sweetify/sweets-api/internal/infrastructure/config"
	"github.com/sweetify/sweets-api/internal/infrastructure/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and the sample catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, log, err := boot(ctx)
		if err != nil {
			return err
		}
		if cfg.StoreDriver == config.DriverMemory {
			log.Warn().Msg("seeding the memory store has no lasting effect; use serve instead")
			return nil
		}
		st, err := openStores(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer st.close()
		return runSeed(ctx, cfg, st, service.NewBcryptHasher(cfg.BcryptCost), log)
	},
}

func runSeed(ctx context.Context, cfg *config.Config, st *stores, hasher ports.PasswordHasher, log zerolog.Logger) error {
	res, err := seed.New(st.users, st.sweets, hasher, log).Run(ctx, seed.Admin{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	})
	if err != nil {
		return err
	}
	log.Info().
		Bool("admin_created", res.AdminCreated).
		Int("sweets_created", res.SweetsCreated).
		Int("sweets_skipped", res.SweetsSkipped).
		Msg("seed complete")
	return nil
}
