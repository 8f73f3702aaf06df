package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/server"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/store"
	"github.com/spf13/cobra"
)

func init() {
	ServeCmd.Flags().String(addrFlag, "", "address to listen on, e.g. :8080")
	ServeCmd.Flags().String(driverFlag, "", "storage driver: memory, mongo or postgres")
}

var (
	ServeCmd = &cobra.Command{
		Use:   ServeCmdName,
		Short: ServeCmdShort,
		Long:  ServeCmdLong,
		Args:  cobra.NoArgs,
		RunE:  serveCmdFunc(),
	}
)

func serveCmdFunc() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg.Log)
		logger.Info("started serve cmd", "storage", cfg.Storage.Driver, "addr", cfg.Server.Address)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		repo, err := store.Open(ctx, cfg.Storage, logger)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Storage.Timeout)
			defer cancel()
			if err := repo.Close(closeCtx); err != nil {
				logger.Error("close storage", "error", err)
			}
		}()

		limiter, closeLimiter := server.NewLimiter(cfg.RateLimit)
		defer func() {
			if err := closeLimiter(); err != nil {
				logger.Error("close rate limiter", "error", err)
			}
		}()
		if limiter != nil {
			logger.Info("rate limiting enabled", "rps", cfg.RateLimit.RPS, "burst", cfg.RateLimit.Burst, "redis", cfg.RateLimit.RedisAddr != "")
		}

		srv := server.NewHTTPServer(repo, server.Config{
			Addr:         cfg.Server.Address,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			Logger:       logger,
			Limiter:      limiter,
		})

		if err := server.Run(ctx, srv, cfg.Server.ShutdownTimeout, logger); err != nil {
			return err
		}
		logger.Info("server stopped")
		return nil
	}
}
