// Package reference stores reference entities in the row store.
package reference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zeit-online/contentapi/internal/db"
	domref "github.com/zeit-online/contentapi/internal/domain/reference"
)

// Repo reads and writes reference entity rows. Table and column names come
// from the domain catalogue only, never from request input.
type Repo struct {
	q db.Querier
}

// New creates a reference repository on q.
func New(q db.Querier) *Repo {
	return &Repo{q: q}
}

// Search returns rows whose value matches the LIKE pattern.
func (r *Repo) Search(
	ctx context.Context, e domref.Entity, pattern string, offset, limit int,
) ([]domref.Row, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE value LIKE ? LIMIT ? OFFSET ?",
		strings.Join(e.Columns(), ", "), e)

	rows, err := r.q.QueryContext(ctx, query, pattern, limit, offset)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	var out []domref.Row
	for rows.Next() {
		row, err := scanRow(rows, e)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

// Count returns the number of rows whose value matches the LIKE pattern.
func (r *Repo) Count(ctx context.Context, e domref.Entity, pattern string) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE value LIKE ?", e)
	var n int
	if err := r.q.QueryRowContext(ctx, query, pattern).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return n, nil
}

// Get returns the row with the given id or db.ErrNotFound.
func (r *Repo) Get(ctx context.Context, e domref.Entity, id string) (domref.Row, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(e.Columns(), ", "), e)
	rows, err := r.q.QueryContext(ctx, query, id)
	if err != nil {
		return domref.Row{}, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domref.Row{}, &db.Error{Op: db.OpSelect, Err: err}
		}
		return domref.Row{}, db.ErrNotFound
	}
	return scanRow(rows, e)
}

// Value returns the display value of the row with the given id.
func (r *Repo) Value(ctx context.Context, e domref.Entity, id string) (string, error) {
	query := fmt.Sprintf("SELECT value FROM %s WHERE id = ?", e)
	var value string
	if err := r.q.QueryRowContext(ctx, query, id).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", db.ErrNotFound
		}
		return "", &db.Error{Op: db.OpSelect, Err: err}
	}
	return value, nil
}

// Keyword returns the type and value of a keyword.
func (r *Repo) Keyword(ctx context.Context, id string) (kwType, value string, err error) {
	err = r.q.QueryRowContext(ctx, "SELECT type, value FROM keyword WHERE id = ?", id).Scan(&kwType, &value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", db.ErrNotFound
		}
		return "", "", &db.Error{Op: db.OpSelect, Err: err}
	}
	return kwType, value, nil
}

// Replace upserts rows, replacing existing rows with the same id.
func (r *Repo) Replace(ctx context.Context, rows []domref.Row) error {
	for _, row := range rows {
		cols := row.Entity.Columns()
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
		query := fmt.Sprintf("REPLACE INTO %s (%s) VALUES (%s)", row.Entity, strings.Join(cols, ", "), marks)
		if _, err := r.q.ExecContext(ctx, query, row.Values...); err != nil {
			return &db.Error{Op: db.OpReplace, Err: fmt.Errorf("%s %s: %w", row.Entity, row.String("id"), err)}
		}
	}
	return nil
}

func scanRow(rows *sql.Rows, e domref.Entity) (domref.Row, error) {
	values := make([]any, len(e.Columns()))
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return domref.Row{}, &db.Error{Op: db.OpSelect, Err: err}
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return domref.Row{Entity: e, Values: values}, nil
}
