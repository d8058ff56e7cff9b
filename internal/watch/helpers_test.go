package watch

import (
	"context"
	"sync"
	"time"

	"launch-radar/internal/clients_api/pumpfeed"
)

// fakeFeed serves canned responses and records every query it saw.
type fakeFeed struct {
	mu      sync.Mutex
	respond func(q pumpfeed.ListQuery, call int) (*pumpfeed.TokensResponse, error)
	calls   []pumpfeed.ListQuery
	times   []time.Time
}

func (f *fakeFeed) ListTokens(ctx context.Context, q pumpfeed.ListQuery) (*pumpfeed.TokensResponse, error) {
	f.mu.Lock()
	call := len(f.calls)
	f.calls = append(f.calls, q)
	f.times = append(f.times, time.Now())
	respond := f.respond
	f.mu.Unlock()

	if respond == nil {
		return &pumpfeed.TokensResponse{}, nil
	}
	return respond(q, call)
}

func (f *fakeFeed) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFeed) firstCallTime() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.times) == 0 {
		return time.Time{}, false
	}
	return f.times[0], true
}

type sentMessage struct {
	chatID int64
	text   string
}

// fakeNotifier records every delivered message.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (n *fakeNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]sentMessage, len(n.sent))
	copy(out, n.sent)
	return out
}

// feedToken builds a wire record for tests.
func feedToken(id, name, symbol string, startTime time.Time, contractAddress string) pumpfeed.Token {
	return pumpfeed.Token{
		ID:              pumpfeed.FlexID(id),
		Name:            name,
		Symbol:          symbol,
		StartTime:       startTime.UTC().Format(time.RFC3339Nano),
		ContractAddress: contractAddress,
	}
}

func itemsResponse(tokens ...pumpfeed.Token) *pumpfeed.TokensResponse {
	return &pumpfeed.TokensResponse{Items: tokens, Total: len(tokens), Page: 1}
}

// newTestWatcher builds a watcher with fast timings suitable for tests.
func newTestWatcher(feed Feed, notifier Notifier, recipients []int64, mutate func(*Config)) (*Watcher, *Registry) {
	reg := NewRegistry()
	cfg := Config{
		DiscoveryInterval: time.Hour,
		SchedulerInterval: 10 * time.Millisecond,
		LookAhead:         time.Hour,
		LeadTime:          1, // effectively zero, zero would default to 60s
		PollInterval:      5 * time.Millisecond,
		StaleAfter:        24 * time.Hour,
		PageSize:          50,
		Recipients:        recipients,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, feed, notifier, reg), reg
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
