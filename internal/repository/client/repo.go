// Package client stores registered API clients and their usage counters.
package client

import (
	"context"
	"database/sql"
	"errors"

	"github.com/zeit-online/contentapi/internal/db"
	"github.com/zeit-online/contentapi/internal/domain"
)

const selectClient = "SELECT api_key, tier, name, email, requests, reset FROM client"

// Repo reads and writes the client table.
type Repo struct {
	q db.Querier
}

// New creates a client repository on q.
func New(q db.Querier) *Repo {
	return &Repo{q: q}
}

// Get returns the client with the given key or db.ErrNotFound.
func (r *Repo) Get(ctx context.Context, apiKey string) (domain.Client, error) {
	row := r.q.QueryRowContext(ctx, selectClient+" WHERE api_key = ?", apiKey)
	c, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Client{}, db.ErrNotFound
		}
		return domain.Client{}, &db.Error{Op: db.OpSelect, Err: err}
	}
	return c, nil
}

// Create inserts a new client.
func (r *Repo) Create(ctx context.Context, c domain.Client) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO client (api_key, tier, name, email, requests, reset) VALUES (?, ?, ?, ?, ?, ?)",
		c.APIKey, string(c.Tier), c.Name, c.Email, c.Requests, c.Reset)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	return nil
}

// List returns up to limit clients, most recently reset first.
func (r *Repo) List(ctx context.Context, limit int) ([]domain.Client, error) {
	rows, err := r.q.QueryContext(ctx, selectClient+" ORDER BY reset DESC LIMIT ?", limit)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

// Counters returns the usage window stored on the client row itself.
func (r *Repo) Counters(_ context.Context, c domain.Client) (requests, reset int64, err error) {
	return c.Requests, c.Reset, nil
}

// ResetWindow starts a new usage window.
func (r *Repo) ResetWindow(ctx context.Context, apiKey string, reset, requests int64) error {
	_, err := r.q.ExecContext(ctx,
		"UPDATE OR IGNORE client SET reset = ?, requests = ? WHERE api_key = ?", reset, requests, apiKey)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	return nil
}

// Increment counts one request.
func (r *Repo) Increment(ctx context.Context, apiKey string) error {
	_, err := r.q.ExecContext(ctx,
		"UPDATE OR IGNORE client SET requests = requests + 1 WHERE api_key = ?", apiKey)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (domain.Client, error) {
	var c domain.Client
	var tier string
	if err := s.Scan(&c.APIKey, &tier, &c.Name, &c.Email, &c.Requests, &c.Reset); err != nil {
		return domain.Client{}, err //nolint:wrapcheck // wrapped by callers
	}
	c.Tier = domain.Tier(tier)
	return c, nil
}
