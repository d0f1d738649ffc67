package solr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/zeit-online/contentapi/internal/domain"
)

func TestQuery_DecodesResponse(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response": {"numFound": 2, "start": 0, "docs": [
				{"uuid": "a", "title": "First", "comments": 12},
				{"uuid": "b", "title": "Second"}
			]},
			"highlighting": {"a": {"body": ["<em>hit</em>"]}},
			"facet_counts": {
				"facet_dates": {"release_date": {"gap": "+1MONTH"}},
				"facet_fields": {"author": ["Jane Doe", 3]}
			}
		}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/"})
	res, err := c.Query(context.Background(), "content/search", url.Values{"q": {"berlin"}, "rows": {"10"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/content/search" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery.Get("q") != "berlin" || gotQuery.Get("rows") != "10" || gotQuery.Get("wt") != "json" {
		t.Errorf("query = %v", gotQuery)
	}
	if res.Found != 2 || len(res.Docs) != 2 {
		t.Fatalf("found=%d docs=%d", res.Found, len(res.Docs))
	}
	if n, ok := res.Docs[0]["comments"].(json.Number); !ok || n.String() != "12" {
		t.Errorf("numbers should decode as json.Number, got %T %v", res.Docs[0]["comments"], res.Docs[0]["comments"])
	}
	if s, ok := res.Snippet("a"); !ok || s != "<em>hit</em>" {
		t.Errorf("snippet = %q", s)
	}
	if len(res.Facets()) != 2 {
		t.Errorf("facets = %v", res.Facets())
	}
}

func TestQuery_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, err := c.Query(context.Background(), "content/id", nil)
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestQuery_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := New(Config{BaseURL: base, Timeout: time.Second})
	_, err := c.Query(context.Background(), "content/search", nil)
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestQuery_Timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	defer close(done)

	c := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Query(context.Background(), "content/search", nil)
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestQuery_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	_, err := c.Query(context.Background(), "content/search", nil)
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/select" || r.URL.Query().Get("facet.field") != "author" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("<response/>"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	body, err := c.Raw(context.Background(), "select", url.Values{"facet.field": {"author"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<response/>" {
		t.Errorf("body = %q", body)
	}
}
