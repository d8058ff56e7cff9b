package watch

// Discovery loop: keeps the registry populated with future launches.
// Only the first feed page is consulted; with more than a page of
// simultaneous upcoming launches the tail is not watched. Inherited
// boundary, kept on purpose.

import (
	"context"
	"time"

	"launch-radar/internal/clients_api/pumpfeed"
	"launch-radar/internal/infra/log"

	"go.uber.org/zap"
)

func (w *Watcher) runDiscovery(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.DiscoveryInterval)
	defer ticker.Stop()

	w.discoverOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.discoverOnce(ctx)
		}
	}
}

// discoverOnce fetches the upcoming page and admits every new future
// launch, sending one "watching" notification per admission. A fetch
// failure only skips this pass; the next tick is the retry.
func (w *Watcher) discoverOnce(ctx context.Context) {
	log.LogInfo("Polling for upcoming tokens...")

	resp, err := w.feed.ListTokens(ctx, pumpfeed.UpcomingQuery(w.cfg.PageSize))
	if err != nil {
		log.LogError("Error polling upcoming tokens", zap.Error(err))
		return
	}

	log.LogInfo("Found upcoming tokens", zap.Int("count", len(resp.Items)))

	for _, token := range resp.Items {
		id := token.ID.String()
		if id == "" {
			log.LogWarn("Skipping token without id",
				zap.String("name", token.DisplayName()))
			continue
		}
		if _, isMuted := w.muted[id]; isMuted {
			log.LogDebug("Skipping muted token", zap.String("id", id))
			continue
		}

		startTime, err := token.StartTimeUTC()
		if err != nil {
			log.LogWarn("Skipping token with bad start_time",
				zap.String("id", id),
				zap.Error(err))
			continue
		}

		if !w.reg.TryAdmit(id, token.DisplayName(), token.DisplaySymbol(), startTime) {
			continue
		}

		log.LogInfo("Added token to watch queue",
			zap.String("id", id),
			zap.String("name", token.DisplayName()),
			zap.String("symbol", token.DisplaySymbol()),
			zap.String("startTime", FormatHumanUTC(startTime)))

		w.notifyAll(ctx, FormatWatchingMessage(token.DisplayName(), token.DisplaySymbol(), startTime))
	}
}
