package reference

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/zeit-online/contentapi/internal/db"
	domref "github.com/zeit-online/contentapi/internal/domain/reference"
)

func newMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return New(conn), mock
}

func TestSearch(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT href, id, uri, value FROM product WHERE value LIKE ? LIMIT ? OFFSET ?")).
		WithArgs("Z%", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"href", "id", "uri", "value"}).
			AddRow("http://www.zeit.de/zeit", "zei", "http://api/product/zei", "DIE ZEIT").
			AddRow("http://www.zeit.de/zmo", "zmo", "http://api/product/zmo", "ZEITmagazin"))

	rows, err := repo.Search(context.Background(), domref.Product, "Z%", 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].String("value") != "ZEITmagazin" {
		t.Errorf("value = %q", rows[1].String("value"))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSearch_Error(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("disk I/O error"))

	_, err := repo.Search(context.Background(), domref.Series, "%", 0, 10)
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpSelect {
		t.Fatalf("expected SELECT db.Error, got %v", err)
	}
}

func TestCount(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM author WHERE value LIKE ?")).
		WithArgs("%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := repo.Count(context.Background(), domref.Author, "%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 42 {
		t.Errorf("count = %d", n)
	}
}

func TestGet(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT href, id, parent, uri, value FROM department WHERE id = ?")).
		WithArgs("familie").
		WillReturnRows(sqlmock.NewRows([]string{"href", "id", "parent", "uri", "value"}).
			AddRow("h", "familie", "gesellschaft", "u", "Familie"))

	row, err := repo.Get(context.Background(), domref.Department, "familie")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.String("parent") != "gesellschaft" {
		t.Errorf("parent = %q", row.String("parent"))
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"href", "id", "uri", "value"}))

	_, err := repo.Get(context.Background(), domref.Product, "nope")
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestValue(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM series WHERE id = ?")).
		WithArgs("martenstein").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("Martenstein"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM series WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, err := repo.Value(context.Background(), domref.Series, "martenstein")
	if err != nil || v != "Martenstein" {
		t.Fatalf("value = %q, err = %v", v, err)
	}
	if _, err := repo.Value(context.Background(), domref.Series, "missing"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestKeyword(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT type, value FROM keyword WHERE id = ?")).
		WithArgs("berlin").
		WillReturnRows(sqlmock.NewRows([]string{"type", "value"}).AddRow("location", "Berlin"))

	typ, value, err := repo.Keyword(context.Background(), "berlin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != "location" || value != "Berlin" {
		t.Errorf("got %q %q", typ, value)
	}
}

func TestReplace(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(
		"REPLACE INTO product (href, id, uri, value) VALUES (?, ?, ?, ?)")).
		WithArgs("h", "zei", "u", "DIE ZEIT").
		WillReturnResult(sqlmock.NewResult(1, 1))

	row := domref.NewRow(domref.Product, map[string]any{"href": "h", "id": "zei", "uri": "u", "value": "DIE ZEIT"})
	if err := repo.Replace(context.Background(), []domref.Row{row}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
