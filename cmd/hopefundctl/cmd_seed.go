package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hopefund/internal/campaign"
	"hopefund/internal/config"
	"hopefund/internal/db"
	"hopefund/internal/donation"
)

func newSeedCmd(opts *options) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the catalog into MongoDB",
		Long: `Writes every catalog campaign into the campaigns collection and creates the
indexes the server queries with. Connection settings come from MONGODB_URI and
MONGODB_DATABASE, the same variables the server reads.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runSeed(ctx, cmd, opts)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for connecting and writing")
	return cmd
}

func runSeed(ctx context.Context, cmd *cobra.Command, opts *options) error {
	log := opts.logger(cmd)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	campaigns, err := opts.campaigns()
	if err != nil {
		return err
	}

	log.Debug("connecting to MongoDB", "database", cfg.MongoDatabase)
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(context.Background(), database); err != nil {
			log.Warn("failed to disconnect", "error", err)
		}
	}()

	repo := campaign.NewRepo(database)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("campaign indexes: %w", err)
	}
	if err := donation.NewMongoStore(database).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("donation indexes: %w", err)
	}

	n, err := repo.Upsert(ctx, campaigns)
	if err != nil {
		return err
	}
	log.Info("seeded campaigns", "database", cfg.MongoDatabase, "upserted", n, "total", len(campaigns))
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d campaigns into %s\n", len(campaigns), cfg.MongoDatabase)
	return nil
}
