package watch

import (
	"context"

	"launch-radar/internal/clients_api/pumpfeed"
)

// Feed lists token records from the upstream feed. *pumpfeed.Client
// satisfies this; tests substitute fakes.
type Feed interface {
	ListTokens(ctx context.Context, q pumpfeed.ListQuery) (*pumpfeed.TokensResponse, error)
}

// Notifier delivers a plain-text message to one recipient chat.
// Delivery is best-effort; the watcher logs failures and keeps going.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}
