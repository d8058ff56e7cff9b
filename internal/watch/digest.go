package watch

// Daily digest of upcoming launches, sent at a fixed UTC wall-clock time.
// The digest always reflects the feed at send time rather than local watch
// state, so a restart minutes before the send still produces a full list.

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"launch-radar/internal/clients_api/pumpfeed"
	"launch-radar/internal/infra/log"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// startDigest schedules the daily digest when DigestTime is configured.
// Returns a stop function, or nil when the digest is off.
func (w *Watcher) startDigest(ctx context.Context) func() {
	if w.cfg.DigestTime == "" {
		return nil
	}

	hour, minute, err := parseClock(w.cfg.DigestTime)
	if err != nil {
		log.LogWarn("Invalid digest time, digest disabled",
			zap.String("digestTime", w.cfg.DigestTime),
			zap.Error(err))
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))
	_, err = c.AddFunc(fmt.Sprintf("%d %d * * *", minute, hour), func() {
		if err := w.SendDigest(ctx); err != nil {
			log.LogError("Failed to send daily digest", zap.Error(err))
		}
	})
	if err != nil {
		log.LogWarn("Failed to schedule digest", zap.Error(err))
		return nil
	}
	c.Start()

	log.LogInfo("Daily digest scheduled",
		zap.String("sendTime", w.cfg.DigestTime),
		zap.String("timezone", "UTC"))

	return func() { c.Stop() }
}

// SendDigest fetches the current upcoming page and sends one digest message
// to every recipient.
func (w *Watcher) SendDigest(ctx context.Context) error {
	resp, err := w.feed.ListTokens(ctx, pumpfeed.UpcomingQuery(w.cfg.PageSize))
	if err != nil {
		return fmt.Errorf("failed to fetch upcoming tokens for digest: %w", err)
	}

	now := w.now().UTC()
	entries := make([]EntryView, 0, len(resp.Items))
	for _, token := range resp.Items {
		startTime, err := token.StartTimeUTC()
		if err != nil || !startTime.After(now) {
			continue
		}
		entries = append(entries, EntryView{
			ID:        token.ID.String(),
			Name:      token.DisplayName(),
			Symbol:    token.DisplaySymbol(),
			StartTime: startTime,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartTime.Before(entries[j].StartTime)
	})

	w.notifyAll(ctx, FormatDigestMessage(entries))

	log.LogInfo("Digest sent",
		zap.Int("launches", len(entries)),
		zap.Int("recipients", len(w.cfg.Recipients)))
	return nil
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
