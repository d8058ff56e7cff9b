package watch

// Package watch implements the token-lifecycle core: discovery of upcoming
// launches, scheduling of per-token release monitors, and exactly-once
// release notifications. The feed and the notification channel are reached
// only through the narrow interfaces in interfaces.go.

import (
	"context"
	"sync"
	"time"

	"launch-radar/internal/infra/log"

	"go.uber.org/zap"
)

// Config holds the watcher's timings and recipients.
// Zero values fall back to the documented defaults.
type Config struct {
	DiscoveryInterval time.Duration // between discovery passes (default 3h)
	SchedulerInterval time.Duration // between scheduler passes (default 30s)
	LookAhead         time.Duration // activation window before start (default 1h)
	LeadTime          time.Duration // head start of frequent polling (default 60s)
	PollInterval      time.Duration // between release polls (default 2s)
	StaleAfter        time.Duration // eviction margin for unreleased entries (default 24h)
	PageSize          int           // feed page size (default 50, page 1 only)
	Recipients        []int64       // chats to notify; empty means notifications are skipped
	DigestTime        string        // "HH:MM" UTC for the daily digest, empty disables
	MutedTokens       []string      // token ids discovery must never admit
}

func (c *Config) applyDefaults() {
	if c.DiscoveryInterval <= 0 {
		c.DiscoveryInterval = 3 * time.Hour
	}
	if c.SchedulerInterval <= 0 {
		c.SchedulerInterval = 30 * time.Second
	}
	if c.LookAhead <= 0 {
		c.LookAhead = time.Hour
	}
	if c.LeadTime <= 0 {
		c.LeadTime = 60 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.StaleAfter == 0 {
		c.StaleAfter = 24 * time.Hour
	}
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
}

// Watcher ties the registry, the feed and the notifier together.
type Watcher struct {
	cfg      Config
	feed     Feed
	notifier Notifier
	reg      *Registry
	muted    map[string]struct{}

	monitors sync.WaitGroup
	now      func() time.Time
}

// New builds a watcher around an existing registry.
func New(cfg Config, feed Feed, notifier Notifier, reg *Registry) *Watcher {
	cfg.applyDefaults()
	muted := make(map[string]struct{}, len(cfg.MutedTokens))
	for _, id := range cfg.MutedTokens {
		muted[id] = struct{}{}
	}
	return &Watcher{
		cfg:      cfg,
		feed:     feed,
		notifier: notifier,
		reg:      reg,
		muted:    muted,
		now:      time.Now,
	}
}

// Run starts the discovery loop, the scheduler and (if configured) the daily
// digest, then blocks until ctx is cancelled and every release monitor has
// drained.
func (w *Watcher) Run(ctx context.Context) {
	log.LogInfo("Starting launch watcher...",
		zap.Duration("discoveryInterval", w.cfg.DiscoveryInterval),
		zap.Duration("schedulerInterval", w.cfg.SchedulerInterval),
		zap.Duration("lookAhead", w.cfg.LookAhead),
		zap.Duration("leadTime", w.cfg.LeadTime),
		zap.Duration("pollInterval", w.cfg.PollInterval),
		zap.Int("recipients", len(w.cfg.Recipients)))

	stopDigest := w.startDigest(ctx)

	var loops sync.WaitGroup
	loops.Add(2)
	go func() {
		defer loops.Done()
		w.runDiscovery(ctx)
	}()
	go func() {
		defer loops.Done()
		w.runScheduler(ctx)
	}()

	loops.Wait()
	w.monitors.Wait()
	if stopDigest != nil {
		stopDigest()
	}
	log.LogInfo("Launch watcher stopped")
}

// notifyAll fans a message out to every configured recipient. Failures are
// logged per recipient and never block the remaining sends.
func (w *Watcher) notifyAll(ctx context.Context, text string) {
	for _, chatID := range w.cfg.Recipients {
		if err := w.notifier.Notify(ctx, chatID, text); err != nil {
			log.LogError("Failed to send notification",
				zap.Int64("chatID", chatID),
				zap.Error(err))
			continue
		}
		log.LogDebug("Notification sent", zap.Int64("chatID", chatID))
	}
}
