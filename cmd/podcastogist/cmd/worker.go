package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/worker"

	"podcastogist/internal/app"
	"podcastogist/internal/config"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the Temporal worker executing pipeline workflows",
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		a, err := app.InitializeApp(c.Context(), cfg)
		if err != nil {
			return fmt.Errorf("initialize app: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.Close(ctx)
		}()

		a.Logger.Info("worker starting")
		return a.Worker.Run(worker.InterruptCh())
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
