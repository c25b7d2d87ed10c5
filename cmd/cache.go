package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kwonjungwook/short0812/internal/config"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/searchcache"
	"github.com/kwonjungwook/short0812/internal/storage"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the search result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached search result",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log := logger.NewNop()
		store, err := storage.Open(cfg.DataDir(), log)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}

		cache := searchcache.New(store, log)
		before := cache.Stats()
		if err := cache.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}

			fmt.Printf("Cleared %d cache entries.\n", len(before.Keys))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
