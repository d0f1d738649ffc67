// Package query builds and executes the API's query objects: reference
// searches on the row store, content searches on the search engine, content
// lookups with cross-reference enrichment, client registration and display,
// and the endpoint definition listing.
package query

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zeit-online/contentapi/internal/domain"
	"github.com/zeit-online/contentapi/internal/domain/param"
)

// Body is a query result, serialized as a JSON object.
type Body map[string]any

// Query is one executable API query.
type Query interface {
	// Doc is the one-line description shown in the endpoint definition listing.
	Doc() string
	Params() *param.Set
	Fetch(ctx context.Context) (Body, error)
}

// Env carries the per-request collaborators of a query.
type Env struct {
	APIURL     string
	References ReferenceReader
	Clients    ClientWriter
	Engine     Engine
	Captcha    CaptchaVerifier
	Tiers      domain.Tiers
	Now        func() time.Time
	Logger     *zap.Logger

	// Client is the authenticated caller, set once the access gate admitted the request.
	Client domain.Client
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}
