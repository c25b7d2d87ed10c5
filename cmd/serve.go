package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kwonjungwook/short0812/internal/api"
	"github.com/kwonjungwook/short0812/internal/collection"
	"github.com/kwonjungwook/short0812/internal/config"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/pipeline"
	"github.com/kwonjungwook/short0812/internal/quota"
	"github.com/kwonjungwook/short0812/internal/scheduler"
	"github.com/kwonjungwook/short0812/internal/searchcache"
	"github.com/kwonjungwook/short0812/internal/source"
	"github.com/kwonjungwook/short0812/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Server.Debug)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	store, err := storage.Open(cfg.DataDir(), log)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	cache := searchcache.New(store, log)
	assets := collection.New(store, log)
	meter := quota.NewMeter(cfg.Quota.DailyLimit)

	adapters := []source.Adapter{
		source.NewTikTok(log),
		source.NewInstagram(log),
	}
	if key := cfg.YouTubeKey(); key != "" {
		yt, err := source.NewYouTube(cmd.Context(), key, log)
		if err != nil {
			return fmt.Errorf("creating youtube adapter: %w", err)
		}
		adapters = append(adapters, yt)
	} else {
		log.Warn("no YouTube API key configured, youtube searches will be skipped")
	}

	agg := pipeline.New(adapters, cache, meter, log)
	handlers := api.NewHandlers(agg, meter, assets, cache, cfg, log, version)
	server := api.NewServer(cfg, handlers, log)

	sched, err := scheduler.New(meter, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
