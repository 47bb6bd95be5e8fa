package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vaultScope/internal/config"
	"vaultScope/internal/storage"
	"vaultScope/internal/tickmath"
	"vaultScope/internal/vault"
)

func runProject(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}

	mode, err := tickmath.ParseAlignMode(cfg.AlignMode)
	if err != nil {
		return err
	}

	var stateStore vault.StateStore
	if cfg.StateFile != "" {
		stateStore = &vault.FileStateStore{Path: cfg.StateFile}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	projector, err := vault.NewProjector(vault.Config{
		NativeWrapper: cfg.NativeWrapper,
		AlignMode:     mode,
		BatchSize:     cfg.BatchSize,
		Vaults:        cfg.Vaults,
		Since:         cfg.Since,
		StateStore:    stateStore,
	}, storage.NewJsonlStorage(cfg.Out), logger)
	if err != nil {
		return err
	}

	logger.Info("project start",
		zap.String("input", cfg.In),
		zap.String("out", cfg.Out),
		zap.Int("batch_size", cfg.BatchSize),
		zap.String("native_wrapper", cfg.NativeWrapper),
		zap.Int("vaults", len(cfg.Vaults)),
		zap.Uint64("since", cfg.Since),
		zap.String("state_file", cfg.StateFile),
	)

	return projector.Run(ctx, cfg.In)
}
