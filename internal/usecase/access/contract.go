package access

import (
	"context"

	"github.com/zeit-online/contentapi/internal/domain"
)

// ClientReader resolves api keys to registered clients.
type ClientReader interface {
	Get(ctx context.Context, apiKey string) (domain.Client, error)
}

// UsageStore holds the request counters of each client's current window.
type UsageStore interface {
	Counters(ctx context.Context, c domain.Client) (requests, reset int64, err error)
	ResetWindow(ctx context.Context, apiKey string, reset, requests int64) error
	Increment(ctx context.Context, apiKey string) error
}
