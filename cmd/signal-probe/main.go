package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/room-signal/internal/app"
	"github.com/samvad-hq/room-signal/internal/config"
	"github.com/samvad-hq/room-signal/internal/logger"
	"github.com/samvad-hq/room-signal/pkg/httpclient"
)

const logTag = "SignalProbe"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "signal-probe failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("signal-probe starting", "config", cfg)
	logger.LogDeviceInfo(logTag)

	if err := httpclient.SetOrigin(cfg.HTTPOrigin); err != nil {
		return fmt.Errorf("set http origin: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	probe, err := app.NewProbe(cfg, logger.Default())
	if err != nil {
		logger.ErrorObj("failed to initialize probe", "error", err)
		return err
	}

	logger.Tagged(logTag).Printf("sending requests from %s", logger.ThreadInfo())
	if _, err := probe.Run(ctx); err != nil {
		return fmt.Errorf("probe run: %w", err)
	}

	return nil
}
