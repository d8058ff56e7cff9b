package watch

// Scheduler: decides when a watched token enters active release monitoring.
// The MarkMonitoringStarted transition is the spawn guard - whichever pass
// wins the transition spawns the single monitor for that token.

import (
	"context"
	"time"

	"launch-radar/internal/infra/log"

	"go.uber.org/zap"
)

func (w *Watcher) runScheduler(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.SchedulerInterval)
	defer ticker.Stop()

	w.schedulePass(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.schedulePass(ctx)
		}
	}
}

// schedulePass activates monitoring for every entry inside the look-ahead
// window, then sweeps terminal entries out of the registry.
func (w *Watcher) schedulePass(ctx context.Context) {
	now := w.now().UTC()

	for _, e := range w.reg.Snapshot() {
		if e.MonitoringStarted || e.Released {
			continue
		}
		if e.StartTime.Sub(now) >= w.cfg.LookAhead {
			continue
		}
		if !w.reg.MarkMonitoringStarted(e.ID) {
			// Lost the transition to a concurrent pass.
			continue
		}

		log.LogInfo("Scheduling release monitoring for token",
			zap.String("id", e.ID),
			zap.String("name", e.Name),
			zap.String("symbol", e.Symbol),
			zap.String("startTime", FormatHumanUTC(e.StartTime)))

		w.monitors.Add(1)
		go func(ent EntryView) {
			defer w.monitors.Done()
			w.monitorRelease(ctx, ent)
		}(e)
	}

	if evicted := w.reg.Sweep(now, w.cfg.StaleAfter); evicted > 0 {
		log.LogDebug("Evicted terminal watch entries",
			zap.Int("count", evicted),
			zap.Int("remaining", w.reg.Len()))
	}
}
