package query

import (
	"context"
	"net/url"

	"github.com/zeit-online/contentapi/internal/domain"
	"github.com/zeit-online/contentapi/internal/domain/engine"
	domref "github.com/zeit-online/contentapi/internal/domain/reference"
)

// ReferenceReader reads reference entities from the row store.
type ReferenceReader interface {
	Search(ctx context.Context, e domref.Entity, pattern string, offset, limit int) ([]domref.Row, error)
	Count(ctx context.Context, e domref.Entity, pattern string) (int, error)
	Get(ctx context.Context, e domref.Entity, id string) (domref.Row, error)
	Value(ctx context.Context, e domref.Entity, id string) (string, error)
	Keyword(ctx context.Context, id string) (kwType, value string, err error)
}

// ClientWriter persists newly registered clients.
type ClientWriter interface {
	Create(ctx context.Context, c domain.Client) error
}

// Engine queries the remote search engine.
type Engine interface {
	Query(ctx context.Context, path string, params url.Values) (*engine.Result, error)
}

// CaptchaVerifier checks a registration CAPTCHA.
type CaptchaVerifier interface {
	Verify(ctx context.Context, remoteIP, challenge, response string) (bool, error)
}
