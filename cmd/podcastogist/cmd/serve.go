package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"podcastogist/internal/app"
	"podcastogist/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		ctx := c.Context()
		a, err := app.InitializeApp(ctx, cfg)
		if err != nil {
			return fmt.Errorf("initialize app: %w", err)
		}

		errCh := make(chan error, 1)
		go func() { errCh <- a.Server.Start() }()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			a.Logger.Info("shutting down", zap.String("signal", sig.String()))
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.Close(shutdownCtx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
