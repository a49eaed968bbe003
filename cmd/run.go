package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wgpeerd/internal/api"
	"wgpeerd/internal/brand"
	"wgpeerd/internal/collector"
	"wgpeerd/internal/config"
	"wgpeerd/internal/logging"
)

// RunOptions carry command-line overrides for the run command.
type RunOptions struct {
	ConfigFile string
	Listen     string // overrides server.listen when non-empty
	Interface  string // overrides wireguard.interface when non-empty
	WGConfig   string // overrides wireguard.config_file when non-empty
}

// RunServe starts the exporter daemon and blocks until shutdown.
func RunServe(opts RunOptions) error {
	cfg, err := loadDaemonConfig(opts)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level: logging.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.JSON,
	})
	logging.SetDefault(logger)

	logger.Info("Starting "+brand.Name,
		"version", brand.Version,
		"interface", cfg.WireGuard.Interface,
		"listen", cfg.Server.Listen,
	)

	col := collector.New(cfg.WireGuard, logger)
	if err := col.Start(); err != nil {
		return fmt.Errorf("failed to start collector: %w", err)
	}
	defer col.Stop()

	srv := api.NewServer(cfg.Server.Listen, col, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadDaemonConfig loads the daemon config file and applies CLI
// overrides. A missing file at the default path is not an error, the
// daemon just runs on defaults.
func loadDaemonConfig(opts RunOptions) (*config.Config, error) {
	cfg, err := config.LoadFile(opts.ConfigFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && opts.ConfigFile == brand.ConfigPath() {
			cfg = config.Default()
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.Interface != "" {
		cfg.WireGuard.Interface = opts.Interface
	}
	if opts.WGConfig != "" {
		cfg.WireGuard.ConfigFile = opts.WGConfig
	}
	if opts.Listen != "" || opts.Interface != "" || opts.WGConfig != "" {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
