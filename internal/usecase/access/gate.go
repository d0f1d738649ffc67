// Package access authenticates api keys and enforces per-client request
// quotas over fixed time windows.
package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zeit-online/contentapi/internal/db"
	"github.com/zeit-online/contentapi/internal/domain"
	"github.com/zeit-online/contentapi/internal/metrics"
)

// DefaultTimeframe is the length of one quota window.
const DefaultTimeframe = 24 * time.Hour

// Config holds quota settings.
type Config struct {
	Timeframe time.Duration
	Tiers     domain.Tiers
}

// Gate admits or rejects requests by api key.
type Gate struct {
	clients ClientReader
	usage   UsageStore
	cfg     Config
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a Gate. A zero timeframe falls back to DefaultTimeframe, nil
// tiers to domain.DefaultTiers.
func New(clients ClientReader, usage UsageStore, cfg Config, logger *zap.Logger) *Gate {
	if cfg.Timeframe < time.Second {
		cfg.Timeframe = DefaultTimeframe
	}
	if cfg.Tiers == nil {
		cfg.Tiers = domain.DefaultTiers()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{clients: clients, usage: usage, cfg: cfg, now: time.Now, logger: logger}
}

// WithClock replaces the time source.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Guard runs fn for the client owning apiKey if its quota allows another
// request. The request is counted once fn has run, whatever its outcome.
func (g *Gate) Guard(
	ctx context.Context, apiKey string, fn func(ctx context.Context, c domain.Client) error,
) error {
	if apiKey == "" {
		return fmt.Errorf("%w: missing api key", domain.ErrUnauthorized)
	}
	c, err := g.clients.Get(ctx, apiKey)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: unknown api key", domain.ErrUnauthorized)
		}
		return fmt.Errorf("load client: %w", err)
	}

	requests, reset, err := g.usage.Counters(ctx, c)
	if err != nil {
		return fmt.Errorf("load usage: %w", err)
	}

	frame := int64(g.cfg.Timeframe / time.Second)
	if elapsed := (g.now().Unix() - reset) / frame; elapsed > 0 {
		reset += elapsed * frame
		requests = 0
		if err := g.usage.ResetWindow(ctx, c.APIKey, reset, requests); err != nil {
			g.logger.Warn("reset usage window failed", zap.String("tier", string(c.Tier)), zap.Error(err))
		}
	}
	c.Requests, c.Reset = requests, reset

	if g.cfg.Tiers.Quota(c.Tier) <= requests {
		metrics.QuotaRejectionsTotal.WithLabelValues(string(c.Tier)).Inc()
		return fmt.Errorf("%w: %d requests in window", domain.ErrTooManyRequests, requests)
	}

	defer func() {
		if err := g.usage.Increment(context.WithoutCancel(ctx), c.APIKey); err != nil {
			g.logger.Warn("count request failed", zap.String("tier", string(c.Tier)), zap.Error(err))
		}
	}()
	return fn(ctx, c)
}
