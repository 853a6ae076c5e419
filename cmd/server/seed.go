package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sofra-eats/sofra/internal/config"
	"github.com/sofra-eats/sofra/internal/factories"
	"github.com/sofra-eats/sofra/internal/storage/sqlite"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with generated restaurants and menus",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		ctx := context.Background()
		factory := &factories.CatalogFactory{}

		for i := 0; i < cfg.SeedRestaurants; i++ {
			r := factory.Restaurant()
			if err := store.CreateRestaurant(ctx, r); err != nil {
				return fmt.Errorf("failed to seed restaurant: %w", err)
			}
			for j := 0; j < cfg.SeedMenuItems; j++ {
				item := factory.MenuItem(r)
				if err := store.CreateMenuItem(ctx, item); err != nil {
					return fmt.Errorf("failed to seed menu item: %w", err)
				}
			}
			slog.Info("seeded restaurant", "name", r.Name, "cuisine", r.Cuisine, "items", cfg.SeedMenuItems)
		}

		slog.Info("seeding complete", "restaurants", cfg.SeedRestaurants, "database", cfg.DBPath)
		return nil
	},
}
