package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"study-tracker/internal/api"
	"study-tracker/internal/cli"
	"study-tracker/internal/config"
	"study-tracker/internal/logging"
	"study-tracker/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(bootstrap)
	if err := root.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// bootstrap resolves configuration and wires the store, cache, notifier,
// services and API behind the CLI.
func bootstrap(ctx context.Context, overrides *config.ConfigOverrides) (*cli.App, func(), error) {
	cfg, err := config.NewLoader().LoadWithOverrides(overrides)
	if err != nil {
		return nil, nil, err
	}

	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	var logOut io.Writer = os.Stderr
	if cfg.Application.LogFile != "" {
		f, err := logging.OpenFile(cfg.Application.LogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		closers = append(closers, f.Close)
		logOut = f
	}
	logger := logging.New(logging.Options{Writer: logOut, Level: cfg.Application.LogLevel})
	logger.Debug("loaded config", "backend", cfg.Database.Backend, "cache", cfg.Cache.Backend, "user", cfg.Application.UserID)

	store, err := config.CreateRepository(ctx, cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, store.Close)

	reportCache, err := config.CreateReportCache(ctx, cfg)
	if err != nil {
		// Reports are still computed, just not kept between refreshes.
		logger.Warn("report cache unavailable", "backend", cfg.Cache.Backend, "err", err)
		cfg.Cache.Backend = config.CacheNone
		reportCache, _ = config.CreateReportCache(ctx, cfg)
	}
	closers = append(closers, reportCache.Close)

	notifier := config.CreateNotifier(cfg, logger)
	closers = append(closers, func() error {
		notifier.Wait()
		return nil
	})

	container := services.NewServiceContainer(services.Deps{
		Store:    store,
		Config:   cfg,
		Logger:   logger,
		Notifier: notifier,
	})

	studyAPI := api.New(container, api.Options{
		UserID:          cfg.Application.UserID,
		RefreshInterval: cfg.Stats.RefreshInterval,
		Cache:           reportCache,
		Notifier:        notifier,
		Logger:          logger,
	})

	return cli.NewApp(studyAPI, cfg), cleanup, nil
}
