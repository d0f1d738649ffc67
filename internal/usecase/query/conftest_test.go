package query

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeit-online/contentapi/internal/db"
	"github.com/zeit-online/contentapi/internal/domain"
	"github.com/zeit-online/contentapi/internal/domain/engine"
	domref "github.com/zeit-online/contentapi/internal/domain/reference"
)

const testAPIURL = "http://api.example.org"

// mockRefs is an in-memory ReferenceReader.
type mockRefs struct {
	rows      map[domref.Entity][]domref.Row
	searchErr error

	lastPattern string
	lastOffset  int
	lastLimit   int
}

func newMockRefs() *mockRefs {
	return &mockRefs{rows: map[domref.Entity][]domref.Row{}}
}

func (m *mockRefs) add(e domref.Entity, fields map[string]any) {
	m.rows[e] = append(m.rows[e], domref.NewRow(e, fields))
}

func (m *mockRefs) Search(
	_ context.Context, e domref.Entity, pattern string, offset, limit int,
) ([]domref.Row, error) {
	m.lastPattern, m.lastOffset, m.lastLimit = pattern, offset, limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	rows := m.rows[e]
	if offset >= len(rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end], nil
}

func (m *mockRefs) Count(_ context.Context, e domref.Entity, _ string) (int, error) {
	return len(m.rows[e]), nil
}

func (m *mockRefs) Get(_ context.Context, e domref.Entity, id string) (domref.Row, error) {
	for _, r := range m.rows[e] {
		if r.String("id") == id {
			return r, nil
		}
	}
	return domref.Row{}, db.ErrNotFound
}

func (m *mockRefs) Value(ctx context.Context, e domref.Entity, id string) (string, error) {
	r, err := m.Get(ctx, e, id)
	if err != nil {
		return "", err
	}
	return r.String("value"), nil
}

func (m *mockRefs) Keyword(ctx context.Context, id string) (string, string, error) {
	r, err := m.Get(ctx, domref.Keyword, id)
	if err != nil {
		return "", "", err
	}
	return r.String("type"), r.String("value"), nil
}

// mockEngine records calls and answers through fn.
type mockEngine struct {
	fn    func(path string, params url.Values) (*engine.Result, error)
	calls []engineCall
}

type engineCall struct {
	path   string
	params url.Values
}

func (m *mockEngine) Query(_ context.Context, path string, params url.Values) (*engine.Result, error) {
	m.calls = append(m.calls, engineCall{path: path, params: params})
	return m.fn(path, params)
}

func (m *mockEngine) last() engineCall {
	return m.calls[len(m.calls)-1]
}

type mockClients struct {
	created []domain.Client
	err     error
}

func (m *mockClients) Create(_ context.Context, c domain.Client) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, c)
	return nil
}

type mockCaptcha struct {
	ok  bool
	err error
}

func (m *mockCaptcha) Verify(_ context.Context, _, _, _ string) (bool, error) {
	return m.ok, m.err
}

func newTestEnv(refs *mockRefs, eng *mockEngine) *Env {
	return &Env{
		APIURL:     testAPIURL,
		References: refs,
		Clients:    &mockClients{},
		Engine:     eng,
		Captcha:    &mockCaptcha{ok: true},
		Tiers:      domain.DefaultTiers(),
		Now:        func() time.Time { return time.Unix(1700000000, 0) },
		Logger:     zap.NewNop(),
	}
}

func docs(items ...engine.Doc) *engine.Result {
	return &engine.Result{Found: int64(len(items)), Docs: items}
}

func keys(m map[string]any) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}
