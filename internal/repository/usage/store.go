// Package usage keeps per-client request counters in a Redis hash, as an
// alternative to counting on the client row.
package usage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/zeit-online/contentapi/internal/db"
	"github.com/zeit-online/contentapi/internal/domain"
)

const (
	fieldRequests = "requests"
	fieldReset    = "reset"
)

// Store implements the access gate's usage store on a hash per client.
type Store struct {
	hashes db.HashStore
	prefix string
}

// New creates a usage store. Keys are "<prefix>usage:<api_key>".
func New(hashes db.HashStore, prefix string) *Store {
	return &Store{hashes: hashes, prefix: prefix}
}

func (s *Store) key(apiKey string) string {
	return s.prefix + "usage:" + apiKey
}

// Counters returns the client's current window. A client without a hash is
// seeded from its row.
func (s *Store) Counters(ctx context.Context, c domain.Client) (requests, reset int64, err error) {
	m, err := s.hashes.HGetAll(ctx, s.key(c.APIKey))
	if err != nil {
		return 0, 0, fmt.Errorf("load usage: %w", err)
	}
	if len(m) == 0 {
		if err := s.ResetWindow(ctx, c.APIKey, c.Reset, c.Requests); err != nil {
			return 0, 0, err
		}
		return c.Requests, c.Reset, nil
	}

	requests, err = strconv.ParseInt(m[fieldRequests], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse requests: %w", err)
	}
	reset, err = strconv.ParseInt(m[fieldReset], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse reset: %w", err)
	}
	return requests, reset, nil
}

// ResetWindow starts a new usage window.
func (s *Store) ResetWindow(ctx context.Context, apiKey string, reset, requests int64) error {
	err := s.hashes.HSet(ctx, s.key(apiKey), map[string]string{
		fieldRequests: strconv.FormatInt(requests, 10),
		fieldReset:    strconv.FormatInt(reset, 10),
	})
	if err != nil {
		return fmt.Errorf("reset usage: %w", err)
	}
	return nil
}

// Increment counts one request.
func (s *Store) Increment(ctx context.Context, apiKey string) error {
	if _, err := s.hashes.HIncrBy(ctx, s.key(apiKey), fieldRequests, 1); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}
