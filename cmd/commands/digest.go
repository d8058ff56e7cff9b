package commands

// Command to send one digest of upcoming launches and exit.
// Useful for manual checks and for external schedulers.

import (
	"context"
	"fmt"
	"time"

	"launch-radar/internal/infra/config"
	logging "launch-radar/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send one digest of upcoming launches and exit",
	RunE:  runDigest,
}

func runDigest(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.LogError("Failed to load config", zap.Error(err))
		return fmt.Errorf("failed to load config: %w", err)
	}

	watcher, err := buildWatcher(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := watcher.SendDigest(ctx); err != nil {
		logging.LogError("Failed to send digest", zap.Error(err))
		return err
	}

	logging.LogSuccess("Digest sent")
	return nil
}
