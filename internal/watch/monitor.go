package watch

// Per-token release monitor. Two states: waiting (sleep until shortly
// before the scheduled start) and polling (hit the unfiltered feed on a
// short interval until the contract address shows up). Terminal on release
// or context cancellation; fetch errors never terminate it.

import (
	"context"
	"time"

	"launch-radar/internal/clients_api/pumpfeed"
	"launch-radar/internal/infra/log"

	"go.uber.org/zap"
)

func (w *Watcher) monitorRelease(ctx context.Context, e EntryView) {
	delay := e.StartTime.Sub(w.now().UTC()) - w.cfg.LeadTime
	if delay > 0 {
		log.LogInfo("Token monitoring will start after delay",
			zap.String("id", e.ID),
			zap.String("name", e.Name),
			zap.String("symbol", e.Symbol),
			zap.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	log.LogInfo("Started frequent monitoring for token",
		zap.String("id", e.ID),
		zap.String("name", e.Name),
		zap.String("symbol", e.Symbol))

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if w.pollOnce(ctx, e) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pollOnce fetches the unfiltered token list (a released token leaves the
// upcoming view) and reports whether the monitor is done. The MarkReleased
// transition gates the notification, so even racing observers of the same
// non-empty address send it exactly once.
func (w *Watcher) pollOnce(ctx context.Context, e EntryView) bool {
	resp, err := w.feed.ListTokens(ctx, pumpfeed.FullQuery(w.cfg.PageSize))
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		log.LogError("Error monitoring token",
			zap.String("id", e.ID),
			zap.Error(err))
		return false
	}

	for _, token := range resp.Items {
		if token.ID.String() != e.ID || !token.HasContractAddress() {
			continue
		}

		if !w.reg.MarkReleased(e.ID) {
			// Someone already sent the release notification.
			return true
		}

		contractAddress := token.ContractAddress
		log.LogSuccess("Token released",
			zap.String("id", e.ID),
			zap.String("name", e.Name),
			zap.String("contractAddress", contractAddress))

		w.notifyAll(ctx, FormatReleasedMessage(e.Name, e.Symbol, contractAddress, e.StartTime))
		return true
	}

	return false
}
