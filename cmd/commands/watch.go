package commands

// Command to run the watcher until terminated.
// Wires the feed client, the Telegram notifier and the watch registry
// together and handles graceful shutdown.

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"launch-radar/internal/clients_api/pumpfeed"
	"launch-radar/internal/infra/config"
	storage "launch-radar/internal/infra/fs"
	logging "launch-radar/internal/infra/log"
	"launch-radar/internal/notify"
	"launch-radar/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the launch feed and notify on discovery and release",
	Long: `Run the watcher: discover upcoming token launches, schedule per-token
release monitoring, and send Telegram notifications until terminated.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.LogError("Failed to load config", zap.Error(err))
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watcher, err := buildWatcher(cfg)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	logging.LogSuccess("Watcher is running", zap.Int("recipients", len(cfg.Telegram.UserIDs)))

	<-ctx.Done()
	logging.LogInfo("Shutdown signal received, gracefully stopping watcher...")

	select {
	case <-done:
		logging.LogSuccess("Watcher stopped gracefully")
	case <-time.After(10 * time.Second):
		logging.LogWarn("Timeout waiting for watcher to stop, forcing shutdown")
	}

	return nil
}

// buildWatcher assembles a watcher from the loaded configuration.
func buildWatcher(cfg *config.Config) (*watch.Watcher, error) {
	notifier, err := notify.NewTelegram(cfg.Telegram.APIKey)
	if err != nil {
		logging.LogError("Failed to initialize telegram bot", zap.Error(err))
		return nil, err
	}
	logging.LogSuccess("Bot authorized", zap.String("username", notifier.BotUsername()))

	if len(cfg.Telegram.UserIDs) == 0 {
		logging.LogWarn("No recipients configured (TELEGRAM_USER_IDS); notifications will be skipped")
	}

	feed := pumpfeed.NewClient(cfg.Feed.BaseURL, time.Duration(cfg.Feed.RequestTimeout)*time.Second)

	mutedTokens, err := storage.LoadMutedTokens(cfg.App.DataDir)
	if err != nil {
		logging.LogWarn("Failed to load muted tokens, continuing without", zap.Error(err))
		mutedTokens = nil
	}

	watcher := watch.New(watch.Config{
		DiscoveryInterval: time.Duration(cfg.Watch.DiscoveryInterval) * time.Second,
		SchedulerInterval: time.Duration(cfg.Watch.SchedulerInterval) * time.Second,
		LookAhead:         time.Duration(cfg.Watch.LookAhead) * time.Second,
		LeadTime:          time.Duration(cfg.Watch.LeadTime) * time.Second,
		PollInterval:      time.Duration(cfg.Watch.PollInterval) * time.Second,
		StaleAfter:        time.Duration(cfg.Watch.StaleAfter) * time.Second,
		PageSize:          cfg.Feed.PageSize,
		Recipients:        cfg.Telegram.UserIDs,
		DigestTime:        cfg.Watch.DigestTime,
		MutedTokens:       mutedTokens,
	}, feed, notifier, watch.NewRegistry())

	return watcher, nil
}
