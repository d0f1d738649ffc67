package ingest

import (
	"context"
	"net/url"

	domref "github.com/zeit-online/contentapi/internal/domain/reference"
)

// Writer upserts reference rows.
type Writer interface {
	Replace(ctx context.Context, rows []domref.Row) error
}

// FeedSource loads feed documents and probes portal links.
type FeedSource interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
	Exists(ctx context.Context, link string) (bool, error)
}

// SearchSource returns raw search engine responses.
type SearchSource interface {
	Raw(ctx context.Context, path string, params url.Values) ([]byte, error)
}
