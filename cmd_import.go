package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	rescache "skincheck_server/adapter/out/cache"
	"skincheck_server/adapter/out/catalog"
	"skincheck_server/adapter/out/persistence"
	"skincheck_server/config"
	"skincheck_server/infra/database"
	"skincheck_server/pkg/cache"
	"skincheck_server/pkg/logger"

	"github.com/spf13/cobra"
)

var importCatalog string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a YAML catalog into Postgres and flush cached resolutions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		initLogger(cfg, "skincheck-import")

		store, err := catalog.Load(importCatalog)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		db, err := database.NewSQLX(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := store.AllRecords(ctx)
		if err != nil {
			return err
		}
		inserted, err := persistence.NewIngredientAdapter(db).Import(ctx, records)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render(
			fmt.Sprintf("imported %d of %d records from %s", inserted, len(records), importCatalog)))

		if cfg.RedisURL == "" {
			return nil
		}
		redisClient, err := database.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, cached resolutions not flushed: %v", err)
			return nil
		}
		defer redisClient.Close()

		flushed, err := rescache.NewResolutionCache(cache.NewRedisCache(redisClient), 0, nil).Flush(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render(fmt.Sprintf("flushed %d cached resolutions", flushed)))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCatalog, "catalog", "catalog.yaml", "path to the YAML ingredient catalog")
}
